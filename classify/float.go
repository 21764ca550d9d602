package classify

import (
	"math"
	"strconv"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// FloatClass classifies floating point values.
type FloatClass uint8

const (
	// FloatZero covers both +0 and -0.
	FloatZero FloatClass = iota
	// FloatPositive is any finite, normal value above zero.
	FloatPositive
	// FloatNegative is any finite, normal value below zero.
	FloatNegative
	FloatPositiveInfinity
	FloatNegativeInfinity
	// FloatNaN covers every NaN payload and sign.
	FloatNaN
	// FloatSubnormal is a non-zero value below the smallest normal magnitude.
	FloatSubnormal
)

var floatClassNames = [...]string{
	"Zero", "Positive", "Negative", "PositiveInfinity", "NegativeInfinity", "NaN", "Subnormal",
}

func (c FloatClass) String() string {
	if int(c) < len(floatClassNames) {
		return floatClassNames[c]
	}
	return "FloatClass(" + strconv.Itoa(int(c)) + ")"
}

func (c FloatClass) AppendKey(dst []byte) []byte { return append(dst, byte(c)) }

// Float classifies v. NaN and zero are tested before anything that looks at
// sign or magnitude.
func Float[T constraints.Float](v T) FloatClass {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return FloatNaN
	case f == 0:
		return FloatZero
	case math.IsInf(f, 1):
		return FloatPositiveInfinity
	case math.IsInf(f, -1):
		return FloatNegativeInfinity
	case math.Abs(f) < smallestNormal(v):
		return FloatSubnormal
	case f > 0:
		return FloatPositive
	default:
		return FloatNegative
	}
}

func smallestNormal[T constraints.Float](v T) float64 {
	if unsafe.Sizeof(v) == 4 {
		return 0x1p-126
	}
	return 0x1p-1022
}
