package classify

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSlice_Cardinality(t *testing.T) {
	empty := Slice([]uint8{}, Uint[uint8])
	one := Slice([]uint8{7}, Uint[uint8])
	two := Slice([]uint8{7, 7}, Uint[uint8])
	if empty == one || one == two || empty == two {
		t.Fatalf("cardinality buckets must be distinguishable: %s %s %s", empty, one, two)
	}
	if Slice[uint8, IntClass](nil, Uint[uint8]) != empty {
		t.Fatalf("nil and empty slices must match")
	}
	if Slice([]uint8{7, 9}, Uint[uint8]) != two {
		t.Fatalf("[x,x] and [x,y] share a bucket and class set")
	}
}

func TestSlice_OrderAndMultiplicity(t *testing.T) {
	a := Slice([]uint8{1, 2, 3}, Uint[uint8])
	if a != Slice([]uint8{3, 2, 1}, Uint[uint8]) {
		t.Fatalf("order must not matter")
	}
	if a != Slice([]uint8{1, 2, 3, 4}, Uint[uint8]) {
		t.Fatalf("extra elements of an existing class must not matter")
	}
	if a == Slice([]uint8{1}, Uint[uint8]) {
		t.Fatalf("single element collection must differ from a multi element one")
	}
	if a == Slice([]uint8{0, 2}, Uint[uint8]) {
		t.Fatalf("different class sets must differ")
	}
	if Slice([]uint8{0, 255, 1}, Uint[uint8]) != Slice([]uint8{255, 1, 0, 0}, Uint[uint8]) {
		t.Fatalf("permuted class sets must match")
	}
}

func TestSlice_ArraysAndViews(t *testing.T) {
	arr := [3]uint8{1, 2, 3}
	sl := []uint8{1, 2, 3}
	backing := []uint8{9, 1, 2, 3, 9}
	view := backing[1:4]
	a := Slice(arr[:], Uint[uint8])
	if a != Slice(sl, Uint[uint8]) || a != Slice(view, Uint[uint8]) {
		t.Fatalf("arrays, slices and views must agree")
	}
}

func TestSlice_NestedOptions(t *testing.T) {
	x, y := 1.5, 0.0
	with := Slice([]*float64{&x, nil}, func(p *float64) Optional[FloatClass] { return Option(p, Float[float64]) })
	without := Slice([]*float64{&x, &y}, func(p *float64) Optional[FloatClass] { return Option(p, Float[float64]) })
	if with == without {
		t.Fatalf("absent element must count as its own class")
	}
}

func TestKeySet_SortedDistinct(t *testing.T) {
	s := NewKeySet()
	for _, c := range []IntClass{IntMin, IntZero, IntMin, IntPositive, IntZero} {
		s.Add(Key(c))
	}
	want := []string{
		string([]byte{byte(IntZero)}),
		string([]byte{byte(IntPositive)}),
		string([]byte{byte(IntMin)}),
	}
	if diff := cmp.Diff(want, s.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if s.Len() != 5 {
		t.Fatalf("Len: got %d want 5", s.Len())
	}
	if s.Sum() != Slice([]IntClass{IntZero, IntMin, IntPositive, IntPositive, IntMin}, func(c IntClass) IntClass { return c }) {
		t.Fatalf("KeySet and Slice must fold the same way")
	}
}

func TestCompare_TotalOrder(t *testing.T) {
	if Compare(IntZero, IntPositive) >= 0 {
		t.Fatalf("Zero must sort before Positive")
	}
	if Compare(Absent[IntClass](), Present(IntZero)) >= 0 {
		t.Fatalf("Absent must sort before Present")
	}
	if Compare(Digest(1), Digest(256)) >= 0 {
		t.Fatalf("digests must sort numerically")
	}
	if Compare(Digest(5), Digest(5)) != 0 {
		t.Fatalf("equal digests must compare equal")
	}
}

func TestMap(t *testing.T) {
	a := map[string]int{"a": 1, "b": 2}
	b := map[string]int{"x": 5, "y": 9, "z": 11}
	if Map(a, String[string], Int[int]) != Map(b, String[string], Int[int]) {
		t.Fatalf("maps with the same entry classes and bucket must match")
	}
	c := map[string]int{"a": 0, "b": 2}
	if Map(a, String[string], Int[int]) == Map(c, String[string], Int[int]) {
		t.Fatalf("a new entry class must change the digest")
	}
	if Map(map[string]int{}, String[string], Int[int]) == Map(map[string]int{"": 0}, String[string], Int[int]) {
		t.Fatalf("empty and single entry maps must differ")
	}
}
