package explored

import (
	"context"

	"xdao.co/classify/classify"
	"xdao.co/classify/derive"
)

// Filter decides whether a candidate value is worth exploring: it is when no
// equivalent value has been explored before.
type Filter[T any] struct {
	registry Registry
	classify func(T) (classify.Digest, error)
}

// NewFilter builds a Filter from a hand-written classification.
func NewFilter[T any](r Registry, f func(T) classify.Digest) *Filter[T] {
	return &Filter[T]{
		registry: r,
		classify: func(v T) (classify.Digest, error) { return f(v), nil },
	}
}

// DerivedFilter builds a Filter from a derived classification plan.
func DerivedFilter[T any](r Registry, d *derive.Deriver[T]) *Filter[T] {
	return &Filter[T]{registry: r, classify: d.Classify}
}

// ShouldExplore classifies v and marks its class. It returns true only for
// the first value of each class.
func (f *Filter[T]) ShouldExplore(ctx context.Context, v T) (bool, error) {
	d, err := f.classify(v)
	if err != nil {
		return false, err
	}
	return f.registry.Mark(ctx, d)
}

// Explored reports whether a value equivalent to v was marked, without
// marking it.
func (f *Filter[T]) Explored(ctx context.Context, v T) (bool, error) {
	d, err := f.classify(v)
	if err != nil {
		return false, err
	}
	return f.registry.Has(ctx, d)
}
