package grpcreg

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"xdao.co/classify/explored"
)

// mapErr converts a registry error into a gRPC status.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, explored.ErrInvalidFingerprint):
		return status.Error(codes.InvalidArgument, explored.ErrInvalidFingerprint.Error())
	case errors.Is(err, explored.ErrClosed):
		return status.Error(codes.Unavailable, explored.ErrClosed.Error())
	case errors.Is(err, explored.ErrNoBackends):
		return status.Error(codes.FailedPrecondition, explored.ErrNoBackends.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// mapRPC converts a gRPC status back into the registry error it encodes.
func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.InvalidArgument:
		return explored.ErrInvalidFingerprint
	case codes.FailedPrecondition:
		if st.Message() == explored.ErrNoBackends.Error() {
			return explored.ErrNoBackends
		}
	case codes.Unavailable:
		// Unavailable also covers transport failures; only the server's
		// closed registry maps back to ErrClosed.
		if st.Message() == explored.ErrClosed.Error() {
			return explored.ErrClosed
		}
	case codes.Canceled:
		return context.Canceled
	case codes.DeadlineExceeded:
		return context.DeadlineExceeded
	}
	return err
}
