package crypto

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPool_RunsTasks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := NewWorkerPool(3, zerolog.Nop())
	pool.Start(ctx)

	var n atomic.Int32
	for i := 0; i < 10; i++ {
		require.NoError(t, pool.Do(ctx, func() { n.Add(1) }))
	}
	assert.Equal(t, int32(10), n.Load())
}

func TestWorkerPool_DefaultWorkers(t *testing.T) {
	pool := NewWorkerPool(0, zerolog.Nop())
	assert.Positive(t, pool.workers)
}

func TestWorkerPool_StoppedPool(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewWorkerPool(1, zerolog.Nop())
	pool.Start(ctx)
	cancel()

	require.Eventually(t, func() bool {
		select {
		case <-pool.stopped:
			return true
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)

	err := pool.Do(context.Background(), func() {})
	assert.ErrorIs(t, err, ErrPoolStopped)
}

func TestWorkerPool_CallerContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := NewWorkerPool(1, zerolog.Nop())
	pool.Start(ctx)

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = pool.Do(ctx, func() {
			close(started)
			<-release
		})
	}()
	<-started

	callCtx, callCancel := context.WithCancel(context.Background())
	callCancel()
	err := pool.Do(callCtx, func() {})
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
}

func TestWorkerPool_ObserveDepth(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := NewWorkerPool(1, zerolog.Nop())
	var calls atomic.Int32
	pool.ObserveDepth(func(int) { calls.Add(1) })
	pool.Start(ctx)

	require.NoError(t, pool.Do(ctx, func() {}))
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}
