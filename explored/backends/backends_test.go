package backends_test

import (
	"context"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"xdao.co/classify/explored"
	"xdao.co/classify/explored/backends"
	_ "xdao.co/classify/explored/grpcreg"
	"xdao.co/classify/explored/localfs"
	"xdao.co/classify/explored/memory"
)

func TestList_FiltersByUsage(t *testing.T) {
	require.Equal(t, []string{"grpc", "localfs", "memory"}, backends.Names(backends.UsageCLI))
	require.Equal(t, []string{"localfs", "memory"}, backends.Names(backends.UsageDaemon))
}

func TestRegister_Validation(t *testing.T) {
	open := func() (explored.Registry, func() error, error) { return memory.New(), nil, nil }
	flags := func(*pflag.FlagSet) {}

	require.Error(t, backends.Register(backends.Backend{}))
	require.Error(t, backends.Register(backends.Backend{Name: "x", Open: open, Usage: backends.UsageCLI}))
	require.Error(t, backends.Register(backends.Backend{Name: "x", RegisterFlags: flags, Usage: backends.UsageCLI}))
	require.Error(t, backends.Register(backends.Backend{Name: "x", RegisterFlags: flags, Open: open}))
	require.Error(t, backends.Register(backends.Backend{Name: "memory", RegisterFlags: flags, Open: open, Usage: backends.UsageCLI}))
	require.Panics(t, func() { backends.MustRegister(backends.Backend{}) })
}

func TestOpen_FromParsedFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	backends.RegisterFlags(fs, backends.UsageDaemon)
	require.NotNil(t, fs.Lookup("localfs-dir"))
	require.NotNil(t, fs.Lookup("memory-size"))
	require.Nil(t, fs.Lookup("grpc-target"), "CLI-only flags must not reach the daemon")

	dir := t.TempDir()
	require.NoError(t, fs.Parse([]string{"--localfs-dir", dir}))
	r, closeFn, err := backends.Open("localfs", backends.UsageDaemon)
	require.NoError(t, err)
	require.Nil(t, closeFn)
	require.IsType(t, &localfs.Registry{}, r)

	_, _, err = backends.Open("grpc", backends.UsageDaemon)
	require.ErrorContains(t, err, "not supported")
	_, _, err = backends.Open("nope", backends.UsageCLI)
	require.ErrorContains(t, err, "unknown backend")
}

func TestOpenWithConfig(t *testing.T) {
	ctx := context.Background()
	r, closeFn, err := backends.OpenWithConfig("memory", backends.UsageCLI, map[string]string{"memory-size": "1"})
	require.NoError(t, err)
	require.NotNil(t, closeFn)
	defer closeFn()

	_, err = r.Mark(ctx, 1)
	require.NoError(t, err)
	_, err = r.Mark(ctx, 2)
	require.NoError(t, err)
	ok, err := r.Has(ctx, 1)
	require.NoError(t, err)
	require.False(t, ok, "memory-size=1 must bound the registry")

	_, _, err = backends.OpenWithConfig("memory", backends.UsageCLI, map[string]string{"bogus": "1"})
	require.ErrorContains(t, err, "unknown config key")
	_, _, err = backends.OpenWithConfig("memory", backends.UsageCLI, map[string]string{"memory-size": "many"})
	require.Error(t, err)
	_, _, err = backends.OpenWithConfig("localfs", backends.UsageCLI, nil)
	require.ErrorContains(t, err, "missing --localfs-dir")
	_, _, err = backends.OpenWithConfig("grpc", backends.UsageCLI, nil)
	require.ErrorContains(t, err, "missing --grpc-target")
}
