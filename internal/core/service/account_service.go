package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/pagescope/user-service/internal/core/domain"
	"github.com/pagescope/user-service/internal/core/ports"
	"github.com/pagescope/user-service/internal/core/validation"
)

const defaultPageSize = 10

var (
	registerFields = []string{"name", "nick", "email", "password", "role", "page"}
	loginFields    = []string{"login", "password", "page"}

	// updatableFields are the stored fields a caller may change. page and
	// created_at are fixed at registration.
	updatableFields = []string{"name", "surname", "nick", "email", "password", "role", "image", "imagePath"}
)

// AccountService implements registration, login and the user management use
// cases. It keeps no state between calls.
type AccountService struct {
	directory ports.UserDirectory
	hasher    ports.PasswordHasher
	tokens    ports.TokenService
	pageSize  int
	listURL   string
	logger    zerolog.Logger
	now       func() time.Time
}

func NewAccountService(
	directory ports.UserDirectory,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	pageSize int,
	listURL string,
	logger zerolog.Logger,
) *AccountService {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &AccountService{
		directory: directory,
		hasher:    hasher,
		tokens:    tokens,
		pageSize:  pageSize,
		listURL:   listURL,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *AccountService) Register(ctx context.Context, data domain.Payload) (*domain.User, error) {
	if missing := validation.Presence(data, registerFields...); missing != nil {
		return nil, domain.ErrMissingFields.WithDetails(missing...)
	}
	if reasons := validation.Format(data); len(reasons) > 0 {
		return nil, domain.ErrValidationFailed.WithDetails(reasons...)
	}
	page, ok := data.String("page")
	if !ok {
		return nil, domain.ErrValidationFailed.WithDetails("page must be a string")
	}

	email, nick := data.Str("email"), data.Str("nick")
	existing, err := s.directory.FindByEmailOrNick(ctx, email, nick, page)
	if err != nil {
		return nil, fmt.Errorf("register: lookup: %w", err)
	}
	if len(existing) > 0 {
		return nil, domain.ErrUserExists
	}

	hash, err := s.hasher.Hash(ctx, data.Str("password"))
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	user := &domain.User{
		Name:      data.Str("name"),
		Surname:   data.Str("surname"),
		Nick:      nick,
		Email:     email,
		Password:  hash,
		Role:      data.Str("role"),
		Image:     valueOr(data, "image", domain.DefaultImage),
		ImagePath: valueOr(data, "imagePath", domain.DefaultImagePath),
		Page:      page,
		CreatedAt: s.now(),
	}

	created, err := s.directory.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("register: create: %w", err)
	}

	s.logger.Info().Str("user_id", created.ID).Str("page", page).Msg("user registered")
	return created.Public(), nil
}

func (s *AccountService) Login(ctx context.Context, data domain.Payload) (*ports.AuthResult, error) {
	if missing := validation.Presence(data, loginFields...); missing != nil {
		return nil, domain.ErrMissingFields.WithDetails(missing...)
	}
	login, okLogin := data.String("login")
	password, okPassword := data.String("password")
	page, okPage := data.String("page")
	if !okLogin || !okPassword || !okPage {
		return nil, domain.ErrInvalidCredentials
	}

	users, err := s.directory.FindForLogin(ctx, login, page)
	if err != nil {
		return nil, fmt.Errorf("login: lookup: %w", err)
	}
	if len(users) == 0 {
		return nil, domain.ErrUserNotFound
	}
	user := users[0]

	ok, err := s.hasher.Verify(ctx, password, user.Password)
	if err != nil {
		return nil, fmt.Errorf("login: verify password: %w", err)
	}
	if !ok {
		s.logger.Info().Str("user_id", user.ID).Str("page", page).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(domain.ClaimsFor(user))
	if err != nil {
		return nil, fmt.Errorf("login: issue token: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("page", page).Msg("user logged in")
	return &ports.AuthResult{User: user.Public(), Token: token}, nil
}

// Update applies data to the user id on behalf of caller. Non-admins may only
// edit themselves and may not change their role. The returned token is the
// caller's, refreshed with the new profile when the caller edited themselves.
func (s *AccountService) Update(ctx context.Context, id string, caller domain.Claims, data domain.Payload) (*ports.AuthResult, error) {
	if len(data) == 0 {
		return nil, domain.ErrEmptyUpdate
	}
	if id == "" {
		id = caller.ID
	}
	self := id == caller.ID
	if !self && !caller.IsAdmin() {
		return nil, domain.ErrEditForbidden
	}
	// Only administrators assign roles. A non-admin sending any role other
	// than their current one is rejected, even on their own record.
	if role, ok := data.String("role"); ok && !caller.IsAdmin() && role != caller.Role {
		return nil, domain.ErrRoleChangeForbidden
	}

	dups, err := s.directory.FindDuplicate(ctx, id, data.Str("email"), data.Str("nick"), caller.Page)
	if err != nil {
		return nil, fmt.Errorf("update: duplicate lookup: %w", err)
	}
	if len(dups) > 0 {
		return nil, domain.ErrDuplicateClaim
	}

	if reasons := validation.Format(data); len(reasons) > 0 {
		return nil, domain.ErrValidationFailed.WithDetails(reasons...)
	}

	changes, err := s.changesFrom(ctx, data)
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return nil, domain.ErrEmptyUpdate
	}

	updated, err := s.directory.Update(ctx, id, changes)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return nil, domain.ErrUserNotFound
	case errors.Is(err, domain.ErrUserExists):
		return nil, domain.ErrDuplicateClaim
	case err != nil:
		return nil, fmt.Errorf("update: %w", err)
	}

	var token string
	if self {
		token, err = s.tokens.ReissueWithMerge(caller, data)
	} else {
		token, err = s.tokens.Issue(caller)
	}
	if err != nil {
		return nil, fmt.Errorf("update: issue token: %w", err)
	}

	s.logger.Info().Str("user_id", id).Str("by", caller.ID).Int("fields", len(changes)).Msg("user updated")
	return &ports.AuthResult{User: updated.Public(), Token: token}, nil
}

func (s *AccountService) changesFrom(ctx context.Context, data domain.Payload) (ports.UserChanges, error) {
	changes := make(ports.UserChanges, len(updatableFields))
	for _, field := range updatableFields {
		v, ok := data.String(field)
		if !ok {
			continue
		}
		if field == "password" {
			hash, err := s.hasher.Hash(ctx, v)
			if err != nil {
				return nil, fmt.Errorf("update: hash password: %w", err)
			}
			v = hash
		}
		changes[field] = v
	}
	return changes, nil
}

func (s *AccountService) Delete(ctx context.Context, id string, caller domain.Claims) (*domain.User, error) {
	if id == caller.ID {
		return nil, domain.ErrSelfDelete
	}

	users, err := s.directory.FindByIDInPage(ctx, id, caller.Page)
	if err != nil {
		return nil, fmt.Errorf("delete: lookup: %w", err)
	}
	if len(users) == 0 {
		return nil, domain.ErrUserNotFound
	}

	removed, err := s.directory.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("delete: %w", err)
	}

	s.logger.Info().Str("user_id", id).Str("by", caller.ID).Msg("user deleted")
	return removed.Public(), nil
}

// List returns page paginationPage of the tenant's users, newest first.
func (s *AccountService) List(ctx context.Context, page string, paginationPage int) (*ports.UserList, error) {
	if paginationPage < 1 {
		paginationPage = 1
	}

	result, err := s.directory.ListPage(ctx, paginationPage, s.pageSize, page)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]*domain.User, 0, len(result.Users))
	for _, u := range result.Users {
		users = append(users, u.Public())
	}

	return &ports.UserList{
		Page:       paginationPage,
		TotalPages: result.TotalPages,
		Limit:      result.Limit,
		TotalUsers: result.TotalDocs,
		Next:       s.pageLink(result.NextPage),
		Prev:       s.pageLink(result.PrevPage),
		Users:      users,
	}, nil
}

func (s *AccountService) pageLink(n *int) *string {
	if n == nil {
		return nil
	}
	link := s.listURL + strconv.Itoa(*n)
	return &link
}

func (s *AccountService) Get(ctx context.Context, page, id string) (*domain.User, error) {
	users, err := s.directory.FindByIDInPage(ctx, id, page)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if len(users) == 0 {
		return nil, domain.ErrUserNotFound
	}
	return users[0].Public(), nil
}

// RenewToken extends the expiry of a presented token without touching its
// identity fields.
func (s *AccountService) RenewToken(_ context.Context, token string) (string, error) {
	renewed, err := s.tokens.Renew(token)
	if err != nil {
		var derr *domain.Error
		if errors.As(err, &derr) {
			return "", derr
		}
		return "", fmt.Errorf("renew token: %w", err)
	}
	return renewed, nil
}

func valueOr(data domain.Payload, key, fallback string) string {
	if v, ok := data.String(key); ok && v != "" {
		return v
	}
	return fallback
}
