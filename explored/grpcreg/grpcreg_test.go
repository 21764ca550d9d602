package grpcreg

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/classify/classify"
	"xdao.co/classify/explored"
	"xdao.co/classify/explored/localfs"
	"xdao.co/classify/explored/memory"
	"xdao.co/classify/explored/testkit"
)

// verifyNoLeaks checks for leaked goroutines after every other cleanup ran.
func verifyNoLeaks(t *testing.T) {
	t.Helper()
	t.Cleanup(func() { goleak.VerifyNone(t) })
}

// serve starts an in-memory server over r and returns a connected client.
func serve(t *testing.T, r explored.Registry) *Client {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	RegisterRegistryServer(srv, &Server{Registry: r, Log: zaptest.NewLogger(t)})
	go func() {
		_ = srv.Serve(lis)
	}()

	dialer := func(ctx context.Context, s string) (net.Conn, error) { return lis.DialContext(ctx) }
	client, err := Dial("passthrough:///bufnet", DialOptions{Extra: []grpc.DialOption{grpc.WithContextDialer(dialer)}})
	require.NoError(t, err)
	client.Timeout = 2 * time.Second

	t.Cleanup(func() {
		_ = client.Close()
		srv.Stop()
	})
	return client
}

func TestGRPCRegistry_Conformance(t *testing.T) {
	verifyNoLeaks(t)
	testkit.RunRegistryConformance(t, func(t *testing.T) explored.Registry {
		return serve(t, memory.New())
	})
}

func TestGRPCRegistry_LocalFS_RoundTrip(t *testing.T) {
	verifyNoLeaks(t)
	ctx := context.Background()
	dir := t.TempDir()
	store, err := localfs.New(dir)
	require.NoError(t, err)
	client := serve(t, store)

	d := classify.Tuple2(int8(-1), classify.Int[int8], "x", classify.String[string])
	fresh, err := client.Mark(ctx, d)
	require.NoError(t, err)
	require.True(t, fresh)

	ok, err := store.Has(ctx, d)
	require.NoError(t, err)
	require.True(t, ok, "the server must mark the backing registry")

	ok, err = client.Has(ctx, d)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestGRPCRegistry_InvalidFingerprint(t *testing.T) {
	verifyNoLeaks(t)
	client := serve(t, memory.New())

	_, err := client.client.Mark(context.Background(), wrapperspb.String("bafy-not-a-class"))
	require.Equal(t, codes.InvalidArgument, status.Code(err))
	require.ErrorIs(t, mapRPC(err), explored.ErrInvalidFingerprint)
}

func TestGRPCRegistry_ServerErrorsMapBack(t *testing.T) {
	verifyNoLeaks(t)
	ctx := context.Background()
	r := memory.New()
	client := serve(t, r)
	require.NoError(t, r.Close())

	_, err := client.Mark(ctx, 1)
	require.ErrorIs(t, err, explored.ErrClosed, "a closed server registry must surface as ErrClosed")

	require.NoError(t, client.Close())
	_, err = client.Has(ctx, 1)
	require.ErrorIs(t, err, explored.ErrClosed, "a closed client must fail without an RPC")
	require.NoError(t, client.Close(), "Close must be idempotent")
}

func TestServer_MissingRegistry(t *testing.T) {
	var s *Server
	_, err := s.Mark(context.Background(), wrapperspb.String(""))
	require.Equal(t, codes.FailedPrecondition, status.Code(err))
	_, err = (&Server{}).Has(context.Background(), wrapperspb.String(""))
	require.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestErrorMapping(t *testing.T) {
	for _, err := range []error{
		explored.ErrInvalidFingerprint,
		explored.ErrClosed,
		explored.ErrNoBackends,
		context.Canceled,
		context.DeadlineExceeded,
	} {
		require.ErrorIs(t, mapRPC(mapErr(err)), err)
	}
	require.Equal(t, codes.Internal, status.Code(mapErr(errors.New("disk full"))))
	require.NoError(t, mapErr(nil))
	require.NoError(t, mapRPC(nil))

	transport := status.Error(codes.Unavailable, "connection refused")
	require.Equal(t, transport, mapRPC(transport))
}
