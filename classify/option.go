package classify

// Optional is the classification of a value that may be absent. The absent
// class never equals a present one; two present classes are equal iff the
// classes they wrap are.
type Optional[C Class] struct {
	class   C
	present bool
}

// Absent returns the absent marker.
func Absent[C Class]() Optional[C] {
	return Optional[C]{}
}

// Present wraps c.
func Present[C Class](c C) Optional[C] {
	return Optional[C]{class: c, present: true}
}

// Get returns the wrapped class and whether one is present.
func (o Optional[C]) Get() (C, bool) {
	return o.class, o.present
}

// AppendKey appends 0x00 when absent, or 0x01 followed by the wrapped key.
func (o Optional[C]) AppendKey(dst []byte) []byte {
	if !o.present {
		return append(dst, 0)
	}
	return o.class.AppendKey(append(dst, 1))
}

func (o Optional[C]) String() string {
	if !o.present {
		return "Absent"
	}
	if s, ok := any(o.class).(interface{ String() string }); ok {
		return "Present(" + s.String() + ")"
	}
	return "Present"
}

// Option classifies the value p points to, or returns Absent for nil.
func Option[T any, C Class](p *T, f func(T) C) Optional[C] {
	if p == nil {
		return Absent[C]()
	}
	return Present(f(*p))
}

// OptionOf classifies v when ok is true, matching the comma-ok idiom.
func OptionOf[T any, C Class](v T, ok bool, f func(T) C) Optional[C] {
	if !ok {
		return Absent[C]()
	}
	return Present(f(v))
}
