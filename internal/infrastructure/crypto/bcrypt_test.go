package crypto

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher(t *testing.T) *BcryptHasher {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	pool := NewWorkerPool(2, zerolog.Nop())
	pool.Start(ctx)
	return NewBcryptHasher(pool, bcrypt.MinCost)
}

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := newTestHasher(t)
	ctx := context.Background()

	hash, err := h.Hash(ctx, "Str0ng!pwd")
	require.NoError(t, err)
	assert.NotEqual(t, "Str0ng!pwd", hash)

	ok, err := h.Verify(ctx, "Str0ng!pwd", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBcryptHasher_RejectsOtherPlaintext(t *testing.T) {
	h := newTestHasher(t)
	ctx := context.Background()

	hash, err := h.Hash(ctx, "Str0ng!pwd")
	require.NoError(t, err)

	ok, err := h.Verify(ctx, "Other!pwd1", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBcryptHasher_SaltsEachHash(t *testing.T) {
	h := newTestHasher(t)
	ctx := context.Background()

	first, err := h.Hash(ctx, "Str0ng!pwd")
	require.NoError(t, err)
	second, err := h.Hash(ctx, "Str0ng!pwd")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	h := NewBcryptHasher(nil, bcrypt.MinCost)

	ok, err := h.Verify(context.Background(), "Str0ng!pwd", "not-a-hash")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestBcryptHasher_DefaultCost(t *testing.T) {
	assert.Equal(t, DefaultCost, NewBcryptHasher(nil, 0).cost)
	assert.Equal(t, DefaultCost, NewBcryptHasher(nil, 99).cost)
}

func TestBcryptHasher_ConcurrentCallers(t *testing.T) {
	h := newTestHasher(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hash, err := h.Hash(ctx, "Str0ng!pwd")
			if err != nil {
				errs <- err
				return
			}
			if ok, err := h.Verify(ctx, "Str0ng!pwd", hash); err != nil || !ok {
				errs <- assert.AnError
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent hash failed: %v", err)
	}
}

func TestBcryptHasher_ObservesDuration(t *testing.T) {
	h := NewBcryptHasher(nil, bcrypt.MinCost)
	var ops []string
	h.ObserveDuration(func(op string, seconds float64) {
		ops = append(ops, op)
		assert.GreaterOrEqual(t, seconds, 0.0)
	})

	hash, err := h.Hash(context.Background(), "Str0ng!pwd")
	require.NoError(t, err)
	_, err = h.Verify(context.Background(), "Str0ng!pwd", hash)
	require.NoError(t, err)

	assert.Equal(t, []string{"hash", "verify"}, ops)
}
