package localfs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"xdao.co/classify/classify"
	"xdao.co/classify/explored"
	"xdao.co/classify/explored/testkit"
	"xdao.co/classify/fingerprint"
)

func TestLocalFS_Conformance(t *testing.T) {
	testkit.RunRegistryConformance(t, func(t *testing.T) explored.Registry {
		t.Helper()
		r, err := New(t.TempDir())
		require.NoError(t, err)
		return r
	})
}

func TestLocalFS_SharedBetweenInstances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	a, err := New(dir)
	require.NoError(t, err)
	b, err := New(dir)
	require.NoError(t, err)

	d := classify.Product(classify.StringWhitespace)
	fresh, err := a.Mark(ctx, d)
	require.NoError(t, err)
	require.True(t, fresh)

	fresh, err = b.Mark(ctx, d)
	require.NoError(t, err)
	require.False(t, fresh, "a second process must see the first one's mark")

	path := a.pathFor(d)
	require.Equal(t, fingerprint.String(d), filepath.Base(path))
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestLocalFS_ListSkipsForeignFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	core, logs := observer.New(zap.WarnLevel)
	r, err := New(dir, WithLogger(zap.New(core)))
	require.NoError(t, err)

	want := []classify.Digest{3, 1, 2}
	for _, d := range want {
		_, err := r.Mark(ctx, d)
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("x"), 0o644))

	got, err := r.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []classify.Digest{1, 2, 3}, got)
	require.Equal(t, 1, logs.FilterMessage("skipping foreign file").Len())
}

func TestLocalFS_RequiresRoot(t *testing.T) {
	_, err := New("")
	require.Error(t, err)
}
