package classify

import "bytes"

// Keyed is the method set shared by every classification.
//
// AppendKey appends the canonical encoding of the class to dst. Encodings are
// injective and prefix-free within one class type, which lets a product fold
// the keys of its members back to back.
type Keyed interface {
	AppendKey(dst []byte) []byte
}

// Class constrains classification types. Classes compare with == and can be
// used as map keys; Compare orders them by canonical key.
type Class interface {
	comparable
	Keyed
}

// Func classifies values of type T.
type Func[T any, C Class] func(T) C

// Classifier is implemented by user-defined types that classify themselves,
// usually by folding their fields with NewRecord or NewVariant.
type Classifier[C Class] interface {
	Classify() C
}

// Of adapts a Classifier to a Func:
//
//	classify.Slice(points, classify.Of[Point, classify.Digest])
func Of[T Classifier[C], C Class](v T) C {
	return v.Classify()
}

// Key returns the canonical key of c.
func Key(c Keyed) []byte {
	return c.AppendKey(nil)
}

// Compare is the total order over classes of one type: lexicographic order
// of canonical keys. It is the order collections fold their element classes in.
func Compare[C Class](a, b C) int {
	var ka, kb [16]byte
	return bytes.Compare(a.AppendKey(ka[:0]), b.AppendKey(kb[:0]))
}

// Equivalent reports whether a and b fall in the same class under f.
func Equivalent[T any, C Class](f func(T) C, a, b T) bool {
	return f(a) == f(b)
}
