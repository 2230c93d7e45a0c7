package standing

import "context"

type Repository interface {
	GetStandings(ctx context.Context, competitionID int64) (Table, error)
}
