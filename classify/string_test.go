package classify

import "testing"

func TestString_Classes(t *testing.T) {
	cases := []struct {
		in   string
		want StringClass
	}{
		{"", StringEmpty},
		{" ", StringWhitespace},
		{"   ", StringWhitespace},
		{"\t\n  ", StringWhitespace},
		{"\u3000", StringWhitespace},
		{"\u00a0\u2003", StringWhitespace},
		{"a", StringNonEmpty},
		{" a ", StringNonEmpty},
		{"Hello, World!", StringNonEmpty},
		{"123", StringNonEmpty},
		{"\tHello\n", StringNonEmpty},
		{"こんにちは", StringNonEmpty},
		{"\xff", StringNonEmpty},
	}
	for _, tc := range cases {
		if got := String(tc.in); got != tc.want {
			t.Fatalf("String(%q): got %s want %s", tc.in, got, tc.want)
		}
		if got := String([]byte(tc.in)); got != tc.want {
			t.Fatalf("String([]byte(%q)): got %s want %s", tc.in, got, tc.want)
		}
	}
}

type label string

func TestString_NamedType(t *testing.T) {
	if got := String(label("  ")); got != StringWhitespace {
		t.Fatalf("got %s want Whitespace", got)
	}
}

func TestBool(t *testing.T) {
	if Bool(true) != BoolTrue || Bool(false) != BoolFalse {
		t.Fatalf("unexpected bool classes")
	}
	if Bool(true) == Bool(false) {
		t.Fatalf("true and false must differ")
	}
}
