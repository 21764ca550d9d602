package classify

import (
	"strconv"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// IntClass classifies integers.
type IntClass uint8

const (
	IntZero IntClass = iota
	IntPositive
	IntNegative
	// IntMax is the largest value of the integer type.
	IntMax
	// IntMin is the smallest value of a signed integer type.
	IntMin
)

var intClassNames = [...]string{"Zero", "Positive", "Negative", "Max", "Min"}

func (c IntClass) String() string {
	if int(c) < len(intClassNames) {
		return intClassNames[c]
	}
	return "IntClass(" + strconv.Itoa(int(c)) + ")"
}

func (c IntClass) AppendKey(dst []byte) []byte { return append(dst, byte(c)) }

// Uint classifies an unsigned integer as Zero, Max or Positive.
func Uint[T constraints.Unsigned](v T) IntClass {
	switch {
	case v == 0:
		return IntZero
	case v == ^T(0):
		return IntMax
	default:
		return IntPositive
	}
}

// Int classifies a signed integer as Zero, Max, Min, Negative or Positive.
func Int[T constraints.Signed](v T) IntClass {
	hi := maxSigned[T]()
	switch {
	case v == 0:
		return IntZero
	case v == hi:
		return IntMax
	case v == ^hi:
		return IntMin
	case v < 0:
		return IntNegative
	default:
		return IntPositive
	}
}

func maxSigned[T constraints.Signed]() T {
	var v T
	bits := unsafe.Sizeof(v) * 8
	return T(^uint64(0) >> (65 - bits))
}
