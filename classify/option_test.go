package classify

import "testing"

func TestOption(t *testing.T) {
	some := 42
	some2 := 4
	zero := 0

	none := Option[int, IntClass](nil, Int[int])
	if none != Absent[IntClass]() {
		t.Fatalf("nil pointer must classify as Absent")
	}
	if none == Option(&some, Int[int]) {
		t.Fatalf("absent must differ from present")
	}
	if Option(&some, Int[int]) != Option(&some2, Int[int]) {
		t.Fatalf("present values with equal inner classes must match")
	}
	if Option(&some, Int[int]) == Option(&zero, Int[int]) {
		t.Fatalf("present values with different inner classes must differ")
	}
	// Absent must not collide with Present of the zero-valued class.
	if none == Present(IntZero) {
		t.Fatalf("Absent collides with Present(Zero)")
	}
}

func TestOptionOf(t *testing.T) {
	m := map[string]string{"name": "ada"}
	v, ok := m["name"]
	if got := OptionOf(v, ok, String[string]); got != Present(StringNonEmpty) {
		t.Fatalf("got %s want Present(NonEmpty)", got)
	}
	v, ok = m["missing"]
	if got := OptionOf(v, ok, String[string]); got != Absent[StringClass]() {
		t.Fatalf("got %s want Absent", got)
	}
}

func TestOptional_Keys(t *testing.T) {
	if k := Key(Absent[IntClass]()); len(k) != 1 || k[0] != 0 {
		t.Fatalf("absent key: %x", k)
	}
	k := Key(Present(IntMax))
	if len(k) != 2 || k[0] != 1 || k[1] != byte(IntMax) {
		t.Fatalf("present key: %x", k)
	}
	nested := Key(Present(Present(IntZero)))
	if len(nested) != 3 {
		t.Fatalf("nested key: %x", nested)
	}
	if c, ok := Present(FloatNaN).Get(); !ok || c != FloatNaN {
		t.Fatalf("Get: %s %v", c, ok)
	}
}
