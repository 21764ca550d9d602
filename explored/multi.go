package explored

import (
	"context"
	"fmt"

	"xdao.co/classify/classify"
)

// WritePolicy selects which backends a Multi marks.
type WritePolicy string

const (
	// WriteFirst marks only the first backend. It is the default.
	WriteFirst WritePolicy = "first"
	// WriteAll marks every backend in order.
	WriteAll WritePolicy = "all"
)

// ParseWritePolicy accepts "", "first" and "all".
func ParseWritePolicy(s string) (WritePolicy, error) {
	switch WritePolicy(s) {
	case "", WriteFirst:
		return WriteFirst, nil
	case WriteAll:
		return WriteAll, nil
	default:
		return "", fmt.Errorf("explored: invalid write policy %q", s)
	}
}

// Multi provides deterministic, ordered fan-out across several registries.
//
// Lookup order is the slice order in Backends; callers MUST supply a fixed
// order. Mark reports fresh as the first backend does, whatever the policy.
// Has is true if any backend has the digest.
type Multi struct {
	Backends []Named
	Policy   WritePolicy
}

var _ Registry = Multi{}

func (m Multi) Mark(ctx context.Context, d classify.Digest) (bool, error) {
	if len(m.Backends) == 0 {
		return false, ErrNoBackends
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	targets := m.Backends[:1]
	if m.Policy == WriteAll {
		targets = m.Backends
	}
	var fresh bool
	for i, b := range targets {
		if b.Registry == nil {
			return false, fmt.Errorf("explored: nil registry for backend %q", b.Name)
		}
		got, err := b.Registry.Mark(ctx, d)
		if err != nil {
			return false, fmt.Errorf("explored: backend %q: %w", b.Name, err)
		}
		if i == 0 {
			fresh = got
		}
	}
	return fresh, nil
}

func (m Multi) Has(ctx context.Context, d classify.Digest) (bool, error) {
	if len(m.Backends) == 0 {
		return false, ErrNoBackends
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	for _, b := range m.Backends {
		if b.Registry == nil {
			continue
		}
		ok, err := b.Registry.Has(ctx, d)
		if err != nil {
			return false, fmt.Errorf("explored: backend %q: %w", b.Name, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
