package classify

import (
	"strconv"
	"unicode"
)

// StringClass classifies text.
type StringClass uint8

const (
	StringEmpty StringClass = iota
	// StringWhitespace is non-empty text made only of Unicode white space.
	StringWhitespace
	// StringNonEmpty has at least one rune that is not white space.
	StringNonEmpty
)

var stringClassNames = [...]string{"Empty", "Whitespace", "NonEmpty"}

func (c StringClass) String() string {
	if int(c) < len(stringClassNames) {
		return stringClassNames[c]
	}
	return "StringClass(" + strconv.Itoa(int(c)) + ")"
}

func (c StringClass) AppendKey(dst []byte) []byte { return append(dst, byte(c)) }

// String classifies a string or a byte slice holding text. Equal contents
// classify the same in either representation. Invalid UTF-8 decodes to
// utf8.RuneError, which is not white space.
func String[S ~string | ~[]byte](s S) StringClass {
	if len(s) == 0 {
		return StringEmpty
	}
	for _, r := range string(s) {
		if !unicode.IsSpace(r) {
			return StringNonEmpty
		}
	}
	return StringWhitespace
}
