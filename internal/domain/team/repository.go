package team

import "context"

// Repository lists the teams of a competition with their squads.
type Repository interface {
	ListTeams(ctx context.Context, competitionID int64) ([]Team, error)
}
