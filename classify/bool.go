package classify

import "strconv"

// BoolClass classifies booleans.
type BoolClass uint8

const (
	BoolFalse BoolClass = iota
	BoolTrue
)

func (c BoolClass) String() string {
	switch c {
	case BoolFalse:
		return "False"
	case BoolTrue:
		return "True"
	default:
		return "BoolClass(" + strconv.Itoa(int(c)) + ")"
	}
}

func (c BoolClass) AppendKey(dst []byte) []byte { return append(dst, byte(c)) }

// Bool classifies v as BoolTrue or BoolFalse.
func Bool(v bool) BoolClass {
	if v {
		return BoolTrue
	}
	return BoolFalse
}
