package grpcreg

import (
	"context"
	"sync/atomic"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/classify/classify"
	"xdao.co/classify/explored"
	"xdao.co/classify/fingerprint"
)

// Client implements explored.Registry over the Registry gRPC service.
type Client struct {
	cc     *grpc.ClientConn
	client RegistryClient
	closed atomic.Bool

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

var _ explored.Registry = (*Client)(nil)

type DialOptions struct {
	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int

	// Extra is appended to the default dial options.
	Extra []grpc.DialOption
}

// Dial creates a client for target. Connection establishment is lazy; the
// first RPC reports an unreachable server.
func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}
	dialOpts = append(dialOpts, opts.Extra...)

	cc, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc, client: NewRegistryClient(cc)}, nil
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil || c.closed.Swap(true) {
		return nil
	}
	return c.cc.Close()
}

func (c *Client) Mark(ctx context.Context, d classify.Digest) (bool, error) {
	if err := c.ready(ctx); err != nil {
		return false, err
	}
	ctx, cancel := c.ctx(ctx)
	defer cancel()

	reply, err := c.client.Mark(ctx, wrapperspb.String(fingerprint.String(d)))
	if err != nil {
		return false, mapRPC(err)
	}
	return reply.GetValue(), nil
}

func (c *Client) Has(ctx context.Context, d classify.Digest) (bool, error) {
	if err := c.ready(ctx); err != nil {
		return false, err
	}
	ctx, cancel := c.ctx(ctx)
	defer cancel()

	reply, err := c.client.Has(ctx, wrapperspb.String(fingerprint.String(d)))
	if err != nil {
		return false, mapRPC(err)
	}
	return reply.GetValue(), nil
}

func (c *Client) ready(ctx context.Context) error {
	if c == nil || c.client == nil || c.closed.Load() {
		return explored.ErrClosed
	}
	return ctx.Err()
}

func (c *Client) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, c.Timeout)
}
