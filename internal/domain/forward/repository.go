package forward

import "context"

// Repository loads the whole dataset.
type Repository interface {
	Load(ctx context.Context) ([]Rating, error)
}
