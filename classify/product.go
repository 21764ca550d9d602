package classify

import "golang.org/x/exp/constraints"

// Record folds the classifications of a product's members, in order, into
// one digest. It is the building block for tuples, user-defined structs and
// sum-type variants:
//
//	func (p Point) Classify() classify.Digest {
//		return classify.NewRecord().
//			Field(classify.Int(p.X)).
//			Field(classify.Int(p.Y)).
//			Sum()
//	}
//
// A record with no fields sums to the digest of the empty fold.
type Record struct {
	h *Hasher
}

// NewRecord starts a fold for a struct or tuple.
func NewRecord() *Record {
	return &Record{h: NewHasher()}
}

// NewVariant starts a fold for one variant of a sum type. The discriminant is
// the variant's declaration position and is folded before any payload, so a
// unit variant sums to the digest of its discriminant alone.
func NewVariant(discriminant uint64) *Record {
	r := NewRecord()
	r.h.FoldUint64(discriminant)
	return r
}

// Enum classifies a constant of a unit-only sum type, the usual iota
// enumeration. Each constant is its own class.
func Enum[E constraints.Integer](e E) Digest {
	return NewVariant(uint64(e)).Sum()
}

// Field folds the next member's class.
func (r *Record) Field(c Keyed) *Record {
	r.h.Fold(c)
	return r
}

// FieldKey folds the next member's already encoded key.
func (r *Record) FieldKey(key []byte) *Record {
	r.h.FoldKey(key)
	return r
}

// Sum returns the record digest.
func (r *Record) Sum() Digest {
	return r.h.Sum()
}

// Product folds parts in order. It covers arities beyond Tuple4.
func Product(parts ...Keyed) Digest {
	r := NewRecord()
	for _, p := range parts {
		r.Field(p)
	}
	return r.Sum()
}

func Tuple1[A any, CA Class](a A, fa func(A) CA) Digest {
	return NewRecord().Field(fa(a)).Sum()
}

func Tuple2[A, B any, CA, CB Class](a A, fa func(A) CA, b B, fb func(B) CB) Digest {
	return NewRecord().Field(fa(a)).Field(fb(b)).Sum()
}

func Tuple3[A, B, C any, CA, CB, CC Class](a A, fa func(A) CA, b B, fb func(B) CB, c C, fc func(C) CC) Digest {
	return NewRecord().Field(fa(a)).Field(fb(b)).Field(fc(c)).Sum()
}

func Tuple4[A, B, C, D any, CA, CB, CC, CD Class](a A, fa func(A) CA, b B, fb func(B) CB, c C, fc func(C) CC, d D, fd func(D) CD) Digest {
	return NewRecord().Field(fa(a)).Field(fb(b)).Field(fc(c)).Field(fd(d)).Sum()
}
