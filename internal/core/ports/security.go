package ports

import (
	"context"

	"github.com/pagescope/user-service/internal/core/domain"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(ctx context.Context, plain string) (string, error)
	// Verify reports whether plain matches hash. A mismatch is not an error.
	Verify(ctx context.Context, plain, hash string) (bool, error)
}

// TokenService issues and reads signed identity tokens.
type TokenService interface {
	Issue(claims domain.Claims) (string, error)
	// Decode checks signature and structure only; expiry is the caller's job.
	Decode(token string) (*domain.Claims, error)
	Renew(token string) (string, error)
	// ReissueWithMerge issues a token for old with the matching fields of
	// update applied. old is not modified.
	ReissueWithMerge(old domain.Claims, update domain.Payload) (string, error)
}
