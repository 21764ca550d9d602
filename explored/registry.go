package explored

import (
	"context"

	"xdao.co/classify/classify"
)

// Registry is a set of explored classes.
//
// Contract:
//   - Mark MUST be idempotent. fresh is true only for the call that first
//     records d; concurrent Marks of one digest report fresh exactly once.
//   - Has MUST report true for a marked digest, unless the backend is bounded
//     and has since evicted it.
//   - Both MUST return ctx.Err() when ctx is already done.
type Registry interface {
	Mark(ctx context.Context, d classify.Digest) (fresh bool, err error)
	Has(ctx context.Context, d classify.Digest) (bool, error)
}

// Named associates a Registry with a stable backend name for reporting.
type Named struct {
	Name     string
	Registry Registry
}
