package redis

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pagescope/user-service/internal/core/domain"
	"github.com/pagescope/user-service/internal/core/ports"
)

// userCache is the subset of UserCache the directory decorator needs.
type userCache interface {
	Get(ctx context.Context, page, id string) (*domain.User, error)
	Set(ctx context.Context, u *domain.User) error
	Invalidate(ctx context.Context, page, id string) error
}

// CachedDirectory serves FindByIDInPage from the cache and drops entries on
// update and delete. Cache failures are logged and never fail the request.
type CachedDirectory struct {
	ports.UserDirectory
	cache userCache
	log   zerolog.Logger
}

// NewCachedDirectory decorates next with cache.
func NewCachedDirectory(next ports.UserDirectory, cache *UserCache, log zerolog.Logger) *CachedDirectory {
	return &CachedDirectory{UserDirectory: next, cache: cache, log: log}
}

func (d *CachedDirectory) FindByIDInPage(ctx context.Context, id, page string) ([]*domain.User, error) {
	cached, err := d.cache.Get(ctx, page, id)
	if err != nil {
		d.log.Warn().Err(err).Str("user_id", id).Msg("user cache read failed, falling back to directory")
	} else if cached != nil {
		return []*domain.User{cached}, nil
	}

	users, err := d.UserDirectory.FindByIDInPage(ctx, id, page)
	if err != nil || len(users) == 0 {
		return users, err
	}

	if err := d.cache.Set(ctx, users[0]); err != nil {
		d.log.Warn().Err(err).Str("user_id", id).Msg("user cache write failed")
	}
	return users, nil
}

func (d *CachedDirectory) Update(ctx context.Context, id string, changes ports.UserChanges) (*domain.User, error) {
	updated, err := d.UserDirectory.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	d.invalidate(ctx, updated)
	return updated, nil
}

func (d *CachedDirectory) Delete(ctx context.Context, id string) (*domain.User, error) {
	removed, err := d.UserDirectory.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	d.invalidate(ctx, removed)
	return removed, nil
}

func (d *CachedDirectory) invalidate(ctx context.Context, u *domain.User) {
	if err := d.cache.Invalidate(ctx, u.Page, u.ID); err != nil {
		d.log.Warn().Err(err).Str("user_id", u.ID).Msg("user cache invalidation failed")
	}
}
