package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"xdao.co/classify/classify"
	"xdao.co/classify/explored"
	"xdao.co/classify/explored/testkit"
)

func TestMemory_Conformance(t *testing.T) {
	testkit.RunRegistryConformance(t, func(t *testing.T) explored.Registry {
		return New()
	})
}

func TestMemoryBounded_Conformance(t *testing.T) {
	testkit.RunRegistryConformance(t, func(t *testing.T) explored.Registry {
		r, err := NewBounded(8)
		require.NoError(t, err)
		return r
	})
}

func TestMemoryBounded_Evicts(t *testing.T) {
	ctx := context.Background()
	r, err := NewBounded(2)
	require.NoError(t, err)
	for d := classify.Digest(1); d <= 3; d++ {
		fresh, err := r.Mark(ctx, d)
		require.NoError(t, err)
		require.True(t, fresh)
	}
	require.Equal(t, 2, r.Len())
	ok, err := r.Has(ctx, 1)
	require.NoError(t, err)
	require.False(t, ok, "the least recently marked class must be evicted")

	fresh, err := r.Mark(ctx, 1)
	require.NoError(t, err)
	require.True(t, fresh, "an evicted class is explored again")

	_, err = NewBounded(0)
	require.Error(t, err)
}

func TestMemoryBounded_RemarkRefreshesRecency(t *testing.T) {
	ctx := context.Background()
	r, err := NewBounded(2)
	require.NoError(t, err)
	for _, d := range []classify.Digest{1, 2} {
		_, err := r.Mark(ctx, d)
		require.NoError(t, err)
	}
	fresh, err := r.Mark(ctx, 1)
	require.NoError(t, err)
	require.False(t, fresh)
	_, err = r.Mark(ctx, 3)
	require.NoError(t, err)

	ok, err := r.Has(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok, "a re-marked class is recently used")
	ok, err = r.Has(ctx, 2)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemory_Close(t *testing.T) {
	ctx := context.Background()
	r := New()
	_, err := r.Mark(ctx, 7)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	_, err = r.Mark(ctx, 7)
	require.ErrorIs(t, err, explored.ErrClosed)
	_, err = r.Has(ctx, 7)
	require.True(t, explored.IsClosed(err))
	require.Zero(t, r.Len())
}
