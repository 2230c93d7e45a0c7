package scorer

import "context"

type Repository interface {
	ListScorers(ctx context.Context, competitionID int64) ([]Scorer, error)
}
