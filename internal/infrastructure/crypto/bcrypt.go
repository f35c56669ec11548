// Package crypto hashes and verifies account passwords.
package crypto

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt cost used for stored passwords.
const DefaultCost = 10

// BcryptHasher is a salted one-way password codec. Hashing runs on the worker
// pool when one is set; otherwise it runs on the calling goroutine.
type BcryptHasher struct {
	pool    *WorkerPool
	cost    int
	observe func(op string, seconds float64)
}

// NewBcryptHasher returns a hasher using cost, or DefaultCost if cost is out
// of bcrypt's range.
func NewBcryptHasher(pool *WorkerPool, cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &BcryptHasher{pool: pool, cost: cost, observe: func(string, float64) {}}
}

// ObserveDuration registers fn to receive the duration of each operation,
// queueing included. op is "hash" or "verify".
func (h *BcryptHasher) ObserveDuration(fn func(op string, seconds float64)) {
	if fn != nil {
		h.observe = fn
	}
}

func (h *BcryptHasher) Hash(ctx context.Context, plain string) (string, error) {
	var (
		hash []byte
		err  error
	)
	start := time.Now()
	defer func() { h.observe("hash", time.Since(start).Seconds()) }()

	if runErr := h.run(ctx, func() {
		hash, err = bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	}); runErr != nil {
		return "", fmt.Errorf("hash password: %w", runErr)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(ctx context.Context, plain, hash string) (bool, error) {
	var err error
	start := time.Now()
	defer func() { h.observe("verify", time.Since(start).Seconds()) }()

	if runErr := h.run(ctx, func() {
		err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	}); runErr != nil {
		return false, fmt.Errorf("verify password: %w", runErr)
	}
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("verify password: %w", err)
	}
}

func (h *BcryptHasher) run(ctx context.Context, fn func()) error {
	if h.pool == nil {
		fn()
		return nil
	}
	return h.pool.Do(ctx, fn)
}
