package classify

import "slices"

// Cardinality buckets folded ahead of a collection's element classes.
const (
	BucketEmpty byte = iota
	BucketOne
	BucketMany
)

// Bucket maps an element count onto its cardinality bucket.
func Bucket(n int) byte {
	switch {
	case n <= 0:
		return BucketEmpty
	case n == 1:
		return BucketOne
	default:
		return BucketMany
	}
}

// KeySet accumulates the element classes of a homogeneous collection.
//
// The digest is the fold of the cardinality bucket followed by the distinct
// element keys in ascending order. Element order and multiplicity therefore
// do not matter, except that the cardinality bucket always separates
// collections of different size classes.
type KeySet struct {
	n    int
	keys map[string]struct{}
}

func NewKeySet() *KeySet {
	return &KeySet{keys: make(map[string]struct{})}
}

// Add records one element's class key.
func (s *KeySet) Add(key []byte) {
	s.n++
	if _, ok := s.keys[string(key)]; !ok {
		s.keys[string(key)] = struct{}{}
	}
}

// Len is the number of elements added, duplicates included.
func (s *KeySet) Len() int { return s.n }

// Keys returns the distinct keys in fold order.
func (s *KeySet) Keys() []string {
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func (s *KeySet) Sum() Digest {
	h := NewHasher()
	h.FoldKey([]byte{Bucket(s.n)})
	for _, k := range s.Keys() {
		h.FoldKey([]byte(k))
	}
	return h.Sum()
}

// Slice classifies a slice. Arrays classify through a slice of themselves
// (arr[:]), so an array, a slice and a view over either agree whenever their
// contents do.
func Slice[T any, C Class](xs []T, f func(T) C) Digest {
	s := NewKeySet()
	var buf []byte
	for _, x := range xs {
		buf = f(x).AppendKey(buf[:0])
		s.Add(buf)
	}
	return s.Sum()
}

// Map classifies a map as the collection of its entries, each entry being
// the pair (key, value) folded like Tuple2.
func Map[K comparable, V any, CK, CV Class](m map[K]V, fk func(K) CK, fv func(V) CV) Digest {
	s := NewKeySet()
	var buf []byte
	for k, v := range m {
		buf = Tuple2(k, fk, v, fv).AppendKey(buf[:0])
		s.Add(buf)
	}
	return s.Sum()
}
