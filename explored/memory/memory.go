package memory

import (
	"context"
	"errors"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"xdao.co/classify/classify"
	"xdao.co/classify/explored"
)

// Registry is an in-process explored set.
//
// It is unbounded when built with New. NewBounded keeps at most size classes
// and evicts the least recently marked one. Marking a class again counts as
// a use; Has does not. An evicted class may be explored again.
type Registry struct {
	mu     sync.Mutex
	seen   map[classify.Digest]struct{}
	cache  *lru.Cache[classify.Digest, struct{}]
	closed bool
}

var _ explored.Registry = (*Registry)(nil)

func New() *Registry {
	return &Registry{seen: make(map[classify.Digest]struct{})}
}

func NewBounded(size int) (*Registry, error) {
	if size <= 0 {
		return nil, errors.New("memory: size must be positive")
	}
	cache, err := lru.New[classify.Digest, struct{}](size)
	if err != nil {
		return nil, err
	}
	return &Registry{cache: cache}, nil
}

func (r *Registry) Mark(ctx context.Context, d classify.Digest) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false, explored.ErrClosed
	}
	if r.cache != nil {
		ok, _ := r.cache.ContainsOrAdd(d, struct{}{})
		if ok {
			r.cache.Get(d)
		}
		return !ok, nil
	}
	if _, ok := r.seen[d]; ok {
		return false, nil
	}
	r.seen[d] = struct{}{}
	return true, nil
}

func (r *Registry) Has(ctx context.Context, d classify.Digest) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false, explored.ErrClosed
	}
	if r.cache != nil {
		return r.cache.Contains(d), nil
	}
	_, ok := r.seen[d]
	return ok, nil
}

// Len is the number of classes currently held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cache != nil {
		return r.cache.Len()
	}
	return len(r.seen)
}

// Close drops every class. Later calls fail with explored.ErrClosed.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.seen = nil
	if r.cache != nil {
		r.cache.Purge()
	}
	return nil
}
