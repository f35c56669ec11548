package ports

import (
	"context"

	"github.com/pagescope/user-service/internal/core/domain"
)

// AuthResult is a user together with a token issued for the caller.
type AuthResult struct {
	User  *domain.User
	Token string
}

// UserList is a page of the listing endpoint. Next and Prev are links to the
// neighbouring pages, nil at the boundaries.
type UserList struct {
	Page       int
	TotalPages int
	Limit      int
	TotalUsers int64
	Next       *string
	Prev       *string
	Users      []*domain.User
}

// AccountService holds the account use cases. Every failure it reports is a
// *domain.Error except unexpected storage or hashing errors.
type AccountService interface {
	Register(ctx context.Context, data domain.Payload) (*domain.User, error)
	Login(ctx context.Context, data domain.Payload) (*AuthResult, error)
	Update(ctx context.Context, id string, caller domain.Claims, data domain.Payload) (*AuthResult, error)
	Delete(ctx context.Context, id string, caller domain.Claims) (*domain.User, error)
	List(ctx context.Context, page string, paginationPage int) (*UserList, error)
	Get(ctx context.Context, page, id string) (*domain.User, error)
	RenewToken(ctx context.Context, token string) (string, error)
}
