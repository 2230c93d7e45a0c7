package usecase

import crerr "github.com/cockroachdb/errors"

// Sentinels the HTTP layer maps to status codes. Wrap them with
// fmt.Errorf("%w: ...") to add detail.
var (
	// ErrInvalidInput is a malformed competition id, report kind or login form.
	ErrInvalidInput = crerr.New("invalid input")
	// ErrNotFound is an unknown competition or team.
	ErrNotFound = crerr.New("resource not found")
	// ErrUnauthorized is a bad credential or a missing or expired session.
	ErrUnauthorized = crerr.New("unauthorized")
	// ErrDependencyUnavailable covers football-data.org, the credential
	// database and the PDF engine.
	ErrDependencyUnavailable = crerr.New("dependency unavailable")
)
