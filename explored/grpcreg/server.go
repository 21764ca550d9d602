package grpcreg

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/classify/explored"
)

// Server exposes an explored.Registry over the Registry gRPC service.
type Server struct {
	UnimplementedRegistryServer
	Registry explored.Registry
	// Log receives one entry per rejected or failed call. nil discards.
	Log *zap.Logger
}

func (s *Server) Mark(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	if s == nil || s.Registry == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing registry")
	}
	d, err := explored.ParseFingerprint(in.GetValue())
	if err != nil {
		s.logger().Info("rejected fingerprint", zap.String("method", "Mark"), zap.String("fingerprint", in.GetValue()))
		return nil, mapErr(err)
	}
	fresh, err := s.Registry.Mark(ctx, d)
	if err != nil {
		s.logger().Warn("mark failed", zap.Stringer("digest", d), zap.Error(err))
		return nil, mapErr(err)
	}
	s.logger().Debug("mark", zap.Stringer("digest", d), zap.Bool("fresh", fresh))
	return wrapperspb.Bool(fresh), nil
}

func (s *Server) Has(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	if s == nil || s.Registry == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing registry")
	}
	d, err := explored.ParseFingerprint(in.GetValue())
	if err != nil {
		s.logger().Info("rejected fingerprint", zap.String("method", "Has"), zap.String("fingerprint", in.GetValue()))
		return nil, mapErr(err)
	}
	ok, err := s.Registry.Has(ctx, d)
	if err != nil {
		s.logger().Warn("has failed", zap.Stringer("digest", d), zap.Error(err))
		return nil, mapErr(err)
	}
	return wrapperspb.Bool(ok), nil
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
