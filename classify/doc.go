// Package classify computes equivalence classifications for values.
//
// A classification is a small, deterministic identifier such that two values
// sharing it are treated as interchangeable by a consumer (typically a test
// case shrinker that must not re-explore values it already knows behave the
// same way). Classifications are lossy: many values map to one class, and the
// composite Digest may collide. Identifiers are only consistent within one
// build of this module; they are not a stable or cryptographic format.
//
// Primitive values map onto small closed enumerations (IntClass, FloatClass,
// StringClass, BoolClass, TimeClass). Composite values map onto a Digest built
// by folding the canonical keys of their parts:
//
//   - products (Tuple1..Tuple4, Product, Record, Variant) fold members in
//     position order, so member order is significant;
//   - collections (Slice, Map, KeySet) fold a cardinality bucket (0, 1, 2+)
//     followed by the sorted set of distinct element keys, so element order
//     and multiplicity are not.
//
// Every function in this package is pure and safe for concurrent use.
package classify
