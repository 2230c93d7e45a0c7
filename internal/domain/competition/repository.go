package competition

import "context"

// Repository lists the competitions available to the configured API key.
type Repository interface {
	ListCompetitions(ctx context.Context) ([]Competition, error)
}
