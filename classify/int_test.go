package classify

import (
	"math"
	"testing"
)

func TestUint_Boundaries(t *testing.T) {
	if got := Uint(uint8(0)); got != IntZero {
		t.Fatalf("Uint(0): got %s want Zero", got)
	}
	if got := Uint(uint8(1)); got != IntPositive {
		t.Fatalf("Uint(1): got %s want Positive", got)
	}
	if got := Uint(uint8(255)); got != IntMax {
		t.Fatalf("Uint(255): got %s want Max", got)
	}
	if got := Uint(uint8(254)); got != IntPositive {
		t.Fatalf("Uint(254): got %s want Positive", got)
	}
	if got := Uint(uint16(math.MaxUint16)); got != IntMax {
		t.Fatalf("Uint(MaxUint16): got %s want Max", got)
	}
	if got := Uint(uint32(math.MaxUint32)); got != IntMax {
		t.Fatalf("Uint(MaxUint32): got %s want Max", got)
	}
	if got := Uint(uint64(math.MaxUint64)); got != IntMax {
		t.Fatalf("Uint(MaxUint64): got %s want Max", got)
	}
	if got := Uint(uint(math.MaxUint)); got != IntMax {
		t.Fatalf("Uint(MaxUint): got %s want Max", got)
	}
	if got := Uint(uint64(math.MaxUint32)); got != IntPositive {
		t.Fatalf("Uint64(MaxUint32): got %s want Positive", got)
	}
}

func TestInt_Boundaries(t *testing.T) {
	cases := []struct {
		v    int8
		want IntClass
	}{
		{0, IntZero},
		{1, IntPositive},
		{126, IntPositive},
		{127, IntMax},
		{-1, IntNegative},
		{-127, IntNegative},
		{-128, IntMin},
	}
	for _, tc := range cases {
		if got := Int(tc.v); got != tc.want {
			t.Fatalf("Int(%d): got %s want %s", tc.v, got, tc.want)
		}
	}
}

func TestInt_AllWidths(t *testing.T) {
	if got := Int(int16(math.MaxInt16)); got != IntMax {
		t.Fatalf("int16 max: got %s", got)
	}
	if got := Int(int16(math.MinInt16)); got != IntMin {
		t.Fatalf("int16 min: got %s", got)
	}
	if got := Int(int32(math.MaxInt32)); got != IntMax {
		t.Fatalf("int32 max: got %s", got)
	}
	if got := Int(int32(math.MinInt32)); got != IntMin {
		t.Fatalf("int32 min: got %s", got)
	}
	if got := Int(int64(math.MaxInt64)); got != IntMax {
		t.Fatalf("int64 max: got %s", got)
	}
	if got := Int(int64(math.MinInt64)); got != IntMin {
		t.Fatalf("int64 min: got %s", got)
	}
	if got := Int(int(math.MinInt)); got != IntMin {
		t.Fatalf("int min: got %s", got)
	}
	if got := Int(int64(math.MaxInt32)); got != IntPositive {
		t.Fatalf("int64(MaxInt32): got %s want Positive", got)
	}
}

type celsius int16

func TestInt_NamedTypes(t *testing.T) {
	if got := Int(celsius(-40)); got != IntNegative {
		t.Fatalf("celsius(-40): got %s want Negative", got)
	}
	if got := Int(celsius(math.MaxInt16)); got != IntMax {
		t.Fatalf("celsius max: got %s want Max", got)
	}
}

func TestIntClass_String(t *testing.T) {
	if IntMin.String() != "Min" {
		t.Fatalf("unexpected name %q", IntMin.String())
	}
	if IntClass(42).String() != "IntClass(42)" {
		t.Fatalf("unexpected name %q", IntClass(42).String())
	}
}
