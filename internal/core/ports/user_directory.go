package ports

import (
	"context"

	"github.com/pagescope/user-service/internal/core/domain"
)

// UserChanges holds the stored fields an update sets, keyed by field name.
type UserChanges map[string]any

// UserDirectory is the tenant-scoped persistence of users. Lookups return an
// empty slice, not an error, when nothing matches.
type UserDirectory interface {
	// FindByEmailOrNick looks up users of page owning email or nick.
	FindByEmailOrNick(ctx context.Context, email, nick, page string) ([]*domain.User, error)
	// FindForLogin matches login against email or nick within page. Results
	// carry the password hash and role.
	FindForLogin(ctx context.Context, login, page string) ([]*domain.User, error)
	// FindDuplicate is FindByEmailOrNick excluding excludeID. An empty email
	// or nick drops that clause; with both empty nothing matches.
	FindDuplicate(ctx context.Context, excludeID, email, nick, page string) ([]*domain.User, error)
	FindByIDInPage(ctx context.Context, id, page string) ([]*domain.User, error)
	// ListPage returns users of page sorted newest first.
	ListPage(ctx context.Context, pageNumber, pageSize int, page string) (*domain.UserPage, error)

	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Update merges changes into the user and returns the stored result, or
	// domain.ErrUserNotFound.
	Update(ctx context.Context, id string, changes UserChanges) (*domain.User, error)
	// Delete removes the user and returns the removed record, or
	// domain.ErrUserNotFound.
	Delete(ctx context.Context, id string) (*domain.User, error)
}
