package testkit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"xdao.co/classify/classify"
	"xdao.co/classify/explored"
)

// NewRegistry constructs a fresh, empty registry for a test.
// The returned registry MUST be isolated from other tests.
type NewRegistry func(t *testing.T) explored.Registry

// RunRegistryConformance checks the explored.Registry contract.
func RunRegistryConformance(t *testing.T, newRegistry NewRegistry) {
	t.Helper()
	ctx := context.Background()
	d := classify.Product(classify.IntPositive, classify.StringNonEmpty)

	t.Run("MarkFreshOnce", func(t *testing.T) {
		r := newRegistry(t)
		fresh, err := r.Mark(ctx, d)
		require.NoError(t, err)
		require.True(t, fresh, "first Mark must be fresh")

		fresh, err = r.Mark(ctx, d)
		require.NoError(t, err)
		require.False(t, fresh, "second Mark must not be fresh")
	})

	t.Run("HasAfterMark", func(t *testing.T) {
		r := newRegistry(t)
		ok, err := r.Has(ctx, d)
		require.NoError(t, err)
		require.False(t, ok, "Has returned true for an unmarked class")

		_, err = r.Mark(ctx, d)
		require.NoError(t, err)
		ok, err = r.Has(ctx, d)
		require.NoError(t, err)
		require.True(t, ok, "Has returned false after Mark")
	})

	t.Run("DistinctClasses", func(t *testing.T) {
		r := newRegistry(t)
		other := classify.Product(classify.IntZero, classify.StringNonEmpty)
		_, err := r.Mark(ctx, d)
		require.NoError(t, err)
		ok, err := r.Has(ctx, other)
		require.NoError(t, err)
		require.False(t, ok, "marking one class must not mark another")
		fresh, err := r.Mark(ctx, other)
		require.NoError(t, err)
		require.True(t, fresh)
	})

	t.Run("ZeroDigest", func(t *testing.T) {
		r := newRegistry(t)
		fresh, err := r.Mark(ctx, 0)
		require.NoError(t, err)
		require.True(t, fresh)
		ok, err := r.Has(ctx, 0)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("DoneContext", func(t *testing.T) {
		r := newRegistry(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := r.Mark(cctx, d)
		require.ErrorIs(t, err, context.Canceled)
		_, err = r.Has(cctx, d)
		require.ErrorIs(t, err, context.Canceled)

		ok, err := r.Has(ctx, d)
		require.NoError(t, err)
		require.False(t, ok, "a canceled Mark must not record the class")
	})

	t.Run("ConcurrentMarkFreshOnce", func(t *testing.T) {
		r := newRegistry(t)
		const workers = 16
		var fresh, failed atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := r.Mark(ctx, d)
				if err != nil {
					failed.Add(1)
					return
				}
				if ok {
					fresh.Add(1)
				}
			}()
		}
		wg.Wait()
		require.Zero(t, failed.Load(), "concurrent Mark failed")
		require.EqualValues(t, 1, fresh.Load(), "exactly one concurrent Mark must be fresh")
	})
}
