package derive

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"sort"
	"time"

	"cloud.google.com/go/civil"
	"golang.org/x/exp/constraints"

	"xdao.co/classify/classify"
)

// Option configures For.
type Option func(*config)

type config struct {
	variants map[reflect.Type][]reflect.Type
	enums    map[reflect.Type]bool
	errs     []error
}

// Enum marks the integer type E as a unit-only sum type: each value is its
// own class, as classify.Enum computes it. Without it E classifies like any
// other integer.
func Enum[E constraints.Integer]() Option {
	t := reflect.TypeOf((*E)(nil)).Elem()
	return func(c *config) { c.enums[t] = true }
}

// Variants lists the variants of the sum type I in declaration order.
//
// I must be an interface type. Each value's dynamic type is one variant; the
// position in the list is the variant's discriminant. A nil I folds the
// discriminant len(variants).
func Variants[I any](variants ...I) Option {
	iface := reflect.TypeOf((*I)(nil)).Elem()
	types := make([]reflect.Type, 0, len(variants))
	for _, v := range variants {
		types = append(types, reflect.TypeOf(any(v)))
	}
	return func(c *config) {
		if iface.Kind() != reflect.Interface {
			c.errs = append(c.errs, newError(KindVariant, RuleVariantsNotIface, iface.String(), "variant list requires an interface type"))
			return
		}
		if _, dup := c.variants[iface]; dup {
			c.errs = append(c.errs, newError(KindVariant, RuleVariantsTwice, iface.String(), "variants listed more than once"))
			return
		}
		seen := make(map[reflect.Type]bool, len(types))
		for i, t := range types {
			if t == nil {
				c.errs = append(c.errs, newError(KindVariant, RuleVariantNil, iface.String(), fmt.Sprintf("variant %d is nil", i)))
				return
			}
			if seen[t] {
				c.errs = append(c.errs, newError(KindVariant, RuleVariantDuplicate, iface.String(), fmt.Sprintf("variant %s listed twice", t)))
				return
			}
			seen[t] = true
		}
		c.variants[iface] = types
	}
}

// Deriver classifies values of T structurally: structs are records of their
// exported fields in declaration order, slices arrays and maps are
// collections, pointers are optionals and listed interfaces are sum types.
//
// A Deriver is immutable and safe for concurrent use.
type Deriver[T any] struct {
	typ  reflect.Type
	root *plan
}

// For compiles a classification plan for T.
//
// Every unsupported shape reachable from T is rejected here, so Classify
// only fails for a sum-type value whose dynamic type was never listed.
func For[T any](opts ...Option) (*Deriver[T], error) {
	cfg := &config{
		variants: make(map[reflect.Type][]reflect.Type),
		enums:    make(map[reflect.Type]bool),
	}
	for _, o := range opts {
		if o != nil {
			o(cfg)
		}
	}
	if len(cfg.errs) > 0 {
		return nil, cfg.errs[0]
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	c := &compiler{variants: cfg.variants, enums: cfg.enums, plans: make(map[reflect.Type]*plan)}
	if err := c.checkRoot(t); err != nil {
		return nil, err
	}

	// Listed sum types are compiled even when unreachable from T.
	ifaces := make([]reflect.Type, 0, len(cfg.variants))
	for it := range cfg.variants {
		ifaces = append(ifaces, it)
	}
	sort.Slice(ifaces, func(i, j int) bool { return ifaces[i].String() < ifaces[j].String() })
	for _, it := range ifaces {
		if _, err := c.compile(it, it.String()); err != nil {
			return nil, err
		}
	}

	root, err := c.compile(t, t.String())
	if err != nil {
		return nil, err
	}
	return &Deriver[T]{typ: t, root: root}, nil
}

// MustFor is like For but panics if the plan cannot be compiled.
func MustFor[T any](opts ...Option) *Deriver[T] {
	d, err := For[T](opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// Classify returns the digest of v.
//
// A value that reaches itself through a pointer, slice or map fails with
// a KindCycle error.
func (d *Deriver[T]) Classify(v T) (classify.Digest, error) {
	var buf [8]byte
	key, err := d.root.key(buf[:0], reflect.ValueOf(&v).Elem(), &walk{})
	if err != nil {
		return 0, err
	}
	return classify.Digest(binary.BigEndian.Uint64(key)), nil
}

// Type returns the root type of the plan.
func (d *Deriver[T]) Type() reflect.Type { return d.typ }

// keyFunc appends the canonical key of v to dst.
type keyFunc func(dst []byte, v reflect.Value, w *walk) ([]byte, error)

type plan struct {
	key keyFunc
}

// payloadFunc folds a sum-type variant's payload after its discriminant.
type payloadFunc func(r *classify.Record, v reflect.Value, w *walk) error

// walk holds the references on the path from the root to the value being
// classified.
type walk struct {
	seen map[visit]struct{}
}

type visit struct {
	ptr uintptr
	typ reflect.Type
	len int
}

// enter records the pointer, slice or map v on the current path and fails
// if it is already there. Every successful enter must be paired with leave.
func (w *walk) enter(v reflect.Value, path string) (visit, error) {
	k := visit{ptr: v.Pointer(), typ: v.Type()}
	if v.Kind() == reflect.Slice {
		k.len = v.Len()
	}
	if _, ok := w.seen[k]; ok {
		return k, newError(KindCycle, RuleCycle, path, fmt.Sprintf("%s value refers to itself", v.Type()))
	}
	if w.seen == nil {
		w.seen = make(map[visit]struct{})
	}
	w.seen[k] = struct{}{}
	return k, nil
}

func (w *walk) leave(k visit) { delete(w.seen, k) }

var (
	keyedType    = reflect.TypeOf((*classify.Keyed)(nil)).Elem()
	digestType   = reflect.TypeOf(classify.Digest(0))
	timeType     = reflect.TypeOf(time.Time{})
	dateType     = reflect.TypeOf(civil.Date{})
	dateTimeType = reflect.TypeOf(civil.DateTime{})
)

type compiler struct {
	variants map[reflect.Type][]reflect.Type
	enums    map[reflect.Type]bool
	plans    map[reflect.Type]*plan
}

func (c *compiler) checkRoot(t reflect.Type) error {
	ok, err := hasClassify(t, t.String())
	if err != nil {
		return err
	}
	switch {
	case t == digestType:
		return nil
	case !ok && isClass(t):
	case ok && t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface:
		if m, _ := t.MethodByName("Classify"); m.Type.Out(0) == digestType {
			return nil
		}
	case t.Kind() == reflect.Interface:
		if _, listed := c.variants[t]; listed {
			return nil
		}
		return newError(KindUnsupported, RuleOpenInterface, t.String(), "interface has no variant list")
	case t.Kind() == reflect.Struct:
		if t != timeType && t != dateType && t != dateTimeType {
			return nil
		}
	case t.Kind() == reflect.Slice, t.Kind() == reflect.Array, t.Kind() == reflect.Map:
		return nil
	}
	return newError(KindRoot, RuleRootNotComposite, t.String(), "root type does not classify to a digest")
}

// compile memoizes plans per type. The plan is registered before it is
// built so recursive types resolve to the same plan.
func (c *compiler) compile(t reflect.Type, path string) (*plan, error) {
	if p, ok := c.plans[t]; ok {
		return p, nil
	}
	p := &plan{}
	c.plans[t] = p
	k, err := c.build(t, path)
	if err != nil {
		delete(c.plans, t)
		return nil, err
	}
	p.key = k
	return p, nil
}

func (c *compiler) build(t reflect.Type, path string) (keyFunc, error) {
	switch t.Kind() {
	case reflect.Pointer:
		return c.pointer(t, path)
	case reflect.Interface:
		vs, ok := c.variants[t]
		if !ok {
			return nil, newError(KindUnsupported, RuleOpenInterface, path, fmt.Sprintf("interface %s has no variant list", t))
		}
		return c.sum(t, vs, path)
	}

	ok, err := hasClassify(t, path)
	if err != nil {
		return nil, err
	}
	if ok {
		return methodKey, nil
	}
	if c.enums[t] {
		return enumKey(t), nil
	}
	if isClass(t) {
		return classKey, nil
	}

	switch t {
	case timeType:
		return func(dst []byte, v reflect.Value, w *walk) ([]byte, error) {
			return classify.Time(v.Interface().(time.Time)).AppendKey(dst), nil
		}, nil
	case dateType:
		return func(dst []byte, v reflect.Value, w *walk) ([]byte, error) {
			return classify.Date(v.Interface().(civil.Date)).AppendKey(dst), nil
		}, nil
	case dateTimeType:
		return func(dst []byte, v reflect.Value, w *walk) ([]byte, error) {
			return classify.DateTime(v.Interface().(civil.DateTime)).AppendKey(dst), nil
		}, nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return func(dst []byte, v reflect.Value, w *walk) ([]byte, error) {
			return classify.Bool(v.Bool()).AppendKey(dst), nil
		}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intKey(t.Size()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return uintKey(t.Size()), nil
	case reflect.Float32:
		return func(dst []byte, v reflect.Value, w *walk) ([]byte, error) {
			return classify.Float(float32(v.Float())).AppendKey(dst), nil
		}, nil
	case reflect.Float64:
		return func(dst []byte, v reflect.Value, w *walk) ([]byte, error) {
			return classify.Float(v.Float()).AppendKey(dst), nil
		}, nil
	case reflect.String:
		return func(dst []byte, v reflect.Value, w *walk) ([]byte, error) {
			return classify.String(v.String()).AppendKey(dst), nil
		}, nil
	case reflect.Slice, reflect.Array:
		return c.collection(t, path)
	case reflect.Map:
		return c.mapping(t, path)
	case reflect.Struct:
		fields, err := c.fields(t, path)
		if err != nil {
			return nil, err
		}
		return func(dst []byte, v reflect.Value, w *walk) ([]byte, error) {
			r := classify.NewRecord()
			if err := fields(r, v, w); err != nil {
				return nil, err
			}
			return r.Sum().AppendKey(dst), nil
		}, nil
	}
	return nil, newError(KindUnsupported, RuleUnsupportedKind, path, fmt.Sprintf("%s values are not classifiable", t))
}

// hasClassify reports whether t's method set has a Classify() C method with
// C a comparable Keyed type. A Classify method of any other shape is an
// error rather than being silently ignored.
func hasClassify(t reflect.Type, path string) (bool, error) {
	m, ok := t.MethodByName("Classify")
	if !ok {
		return false, nil
	}
	ft := m.Type
	in := ft.NumIn()
	if t.Kind() != reflect.Interface {
		in-- // receiver
	}
	if in != 0 || ft.NumOut() != 1 || !ft.Out(0).Implements(keyedType) || !ft.Out(0).Comparable() {
		return false, newError(KindUnsupported, RuleClassifyMethod, path, fmt.Sprintf("%s.Classify must take no arguments and return one comparable class", t))
	}
	return true, nil
}

// isClass reports whether t is itself a class, such as classify.Digest or
// classify.Optional. Its values contribute their own key.
func isClass(t reflect.Type) bool {
	return t.Kind() != reflect.Interface && t.Implements(keyedType) && t.Comparable()
}

func classKey(dst []byte, v reflect.Value, _ *walk) ([]byte, error) {
	return v.Interface().(classify.Keyed).AppendKey(dst), nil
}

func methodKey(dst []byte, v reflect.Value, _ *walk) ([]byte, error) {
	out := v.MethodByName("Classify").Call(nil)[0]
	return out.Interface().(classify.Keyed).AppendKey(dst), nil
}

func enumKey(t reflect.Type) keyFunc {
	signed := t.Kind() >= reflect.Int && t.Kind() <= reflect.Int64
	return func(dst []byte, v reflect.Value, w *walk) ([]byte, error) {
		var d uint64
		if signed {
			d = uint64(v.Int())
		} else {
			d = v.Uint()
		}
		return classify.NewVariant(d).Sum().AppendKey(dst), nil
	}
}

func intKey(size uintptr) keyFunc {
	return func(dst []byte, v reflect.Value, w *walk) ([]byte, error) {
		n := v.Int()
		var c classify.IntClass
		switch size {
		case 1:
			c = classify.Int(int8(n))
		case 2:
			c = classify.Int(int16(n))
		case 4:
			c = classify.Int(int32(n))
		default:
			c = classify.Int(n)
		}
		return c.AppendKey(dst), nil
	}
}

func uintKey(size uintptr) keyFunc {
	return func(dst []byte, v reflect.Value, w *walk) ([]byte, error) {
		n := v.Uint()
		var c classify.IntClass
		switch size {
		case 1:
			c = classify.Uint(uint8(n))
		case 2:
			c = classify.Uint(uint16(n))
		case 4:
			c = classify.Uint(uint32(n))
		default:
			c = classify.Uint(n)
		}
		return c.AppendKey(dst), nil
	}
}

// pointer classifies *E as an optional E. A Classify method with a pointer
// receiver is used for present values when E itself has none.
func (c *compiler) pointer(t reflect.Type, path string) (keyFunc, error) {
	elemHas, err := hasClassify(t.Elem(), path)
	if err != nil {
		return nil, err
	}
	var inner keyFunc
	if ptrHas, err := hasClassify(t, path); err != nil {
		return nil, err
	} else if ptrHas && !elemHas {
		inner = methodKey
	} else {
		ep, err := c.compile(t.Elem(), path)
		if err != nil {
			return nil, err
		}
		inner = func(dst []byte, v reflect.Value, w *walk) ([]byte, error) {
			return ep.key(dst, v.Elem(), w)
		}
	}
	return func(dst []byte, v reflect.Value, w *walk) ([]byte, error) {
		if v.IsNil() {
			return append(dst, 0), nil
		}
		k, err := w.enter(v, path)
		if err != nil {
			return nil, err
		}
		defer w.leave(k)
		return inner(append(dst, 1), v, w)
	}, nil
}

func (c *compiler) collection(t reflect.Type, path string) (keyFunc, error) {
	ep, err := c.compile(t.Elem(), path+"[]")
	if err != nil {
		return nil, err
	}
	return func(dst []byte, v reflect.Value, w *walk) ([]byte, error) {
		s := classify.NewKeySet()
		if v.Kind() == reflect.Slice && v.Len() > 0 {
			k, err := w.enter(v, path)
			if err != nil {
				return nil, err
			}
			defer w.leave(k)
		}
		var buf []byte
		for i := 0; i < v.Len(); i++ {
			var err error
			if buf, err = ep.key(buf[:0], v.Index(i), w); err != nil {
				return nil, err
			}
			s.Add(buf)
		}
		return s.Sum().AppendKey(dst), nil
	}, nil
}

// mapping classifies a map as the collection of its entries, each entry a
// (key, value) record.
func (c *compiler) mapping(t reflect.Type, path string) (keyFunc, error) {
	kp, err := c.compile(t.Key(), path+"{key}")
	if err != nil {
		return nil, err
	}
	vp, err := c.compile(t.Elem(), path+"{value}")
	if err != nil {
		return nil, err
	}
	return func(dst []byte, v reflect.Value, w *walk) ([]byte, error) {
		s := classify.NewKeySet()
		if v.Len() > 0 {
			k, err := w.enter(v, path)
			if err != nil {
				return nil, err
			}
			defer w.leave(k)
		}
		var kb, vb, eb []byte
		iter := v.MapRange()
		for iter.Next() {
			var err error
			if kb, err = kp.key(kb[:0], iter.Key(), w); err != nil {
				return nil, err
			}
			if vb, err = vp.key(vb[:0], iter.Value(), w); err != nil {
				return nil, err
			}
			eb = classify.NewRecord().FieldKey(kb).FieldKey(vb).Sum().AppendKey(eb[:0])
			s.Add(eb)
		}
		return s.Sum().AppendKey(dst), nil
	}, nil
}

type field struct {
	index []int
	plan  *plan
}

// fields compiles the exported fields of struct t in declaration order.
// Fields tagged `classify:"-"` are skipped. The exported fields of an
// embedded struct of unexported type are folded in place of the embedded
// field, as if declared in t; an embedded pointer to such a struct is
// skipped like any other unexported field.
func (c *compiler) fields(t reflect.Type, path string) (payloadFunc, error) {
	fs, err := c.collectFields(nil, t, nil, path)
	if err != nil {
		return nil, err
	}
	return func(r *classify.Record, v reflect.Value, w *walk) error {
		var buf []byte
		for _, f := range fs {
			var err error
			if buf, err = f.plan.key(buf[:0], v.FieldByIndex(f.index), w); err != nil {
				return err
			}
			r.FieldKey(buf)
		}
		return nil
	}, nil
}

func (c *compiler) collectFields(fs []field, t reflect.Type, index []int, path string) ([]field, error) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Tag.Get("classify") == "-" {
			continue
		}
		at := append(index[:len(index):len(index)], i)
		if !sf.IsExported() {
			if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
				var err error
				if fs, err = c.collectFields(fs, sf.Type, at, path); err != nil {
					return nil, err
				}
			}
			continue
		}
		p, err := c.compile(sf.Type, path+"."+sf.Name)
		if err != nil {
			return nil, err
		}
		fs = append(fs, field{index: at, plan: p})
	}
	return fs, nil
}

// sum classifies interface t as a sum type over the listed variants. The
// discriminant is folded first, then the variant's payload.
func (c *compiler) sum(t reflect.Type, variants []reflect.Type, path string) (keyFunc, error) {
	type variant struct {
		disc    uint64
		payload payloadFunc
	}
	byType := make(map[reflect.Type]variant, len(variants))
	for i, vt := range variants {
		payload, err := c.payload(vt, path+"("+vt.String()+")")
		if err != nil {
			return nil, err
		}
		byType[vt] = variant{disc: uint64(i), payload: payload}
	}
	none := uint64(len(variants))
	return func(dst []byte, v reflect.Value, w *walk) ([]byte, error) {
		if v.IsNil() {
			return classify.NewVariant(none).Sum().AppendKey(dst), nil
		}
		elem := v.Elem()
		vr, ok := byType[elem.Type()]
		if !ok {
			return nil, newError(KindVariant, RuleVariantNotListed, path, fmt.Sprintf("%s is not a listed variant of %s", elem.Type(), t))
		}
		r := classify.NewVariant(vr.disc)
		if err := vr.payload(r, elem, w); err != nil {
			return nil, err
		}
		return r.Sum().AppendKey(dst), nil
	}, nil
}

// payload folds a struct variant's fields directly after the discriminant.
// A nil pointer-to-struct variant folds no payload. Any other variant type
// contributes its own classification as a single payload value.
func (c *compiler) payload(vt reflect.Type, path string) (payloadFunc, error) {
	own, err := hasClassify(vt, path)
	if err != nil {
		return nil, err
	}
	isStruct := func(t reflect.Type) bool {
		return t.Kind() == reflect.Struct && t != timeType && t != dateType && t != dateTimeType && !isClass(t)
	}
	switch {
	case !own && isStruct(vt):
		return c.fields(vt, path)
	case !own && vt.Kind() == reflect.Pointer && isStruct(vt.Elem()):
		if elemOwn, err := hasClassify(vt.Elem(), path); err != nil {
			return nil, err
		} else if !elemOwn {
			fields, err := c.fields(vt.Elem(), path)
			if err != nil {
				return nil, err
			}
			return func(r *classify.Record, v reflect.Value, w *walk) error {
				if v.IsNil() {
					return nil
				}
				k, err := w.enter(v, path)
				if err != nil {
					return err
				}
				defer w.leave(k)
				return fields(r, v.Elem(), w)
			}, nil
		}
	}
	p, err := c.compile(vt, path)
	if err != nil {
		return nil, err
	}
	return func(r *classify.Record, v reflect.Value, w *walk) error {
		key, err := p.key(nil, v, w)
		if err != nil {
			return err
		}
		r.FieldKey(key)
		return nil
	}, nil
}
