package account

import "context"

// CredentialRepository looks up enabled credentials.
type CredentialRepository interface {
	GetByUsername(ctx context.Context, username string) (Credential, bool, error)
}
