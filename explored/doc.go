// Package explored records which equivalence classes a search has already
// visited, so a consumer such as a shrinker can skip values equivalent to
// ones it has tried before.
//
// A Registry is keyed by classify.Digest. Backends live in subpackages:
// memory (in-process, optionally LRU bounded), localfs (marker files shared
// between processes) and grpcreg (a remote registry over gRPC). Multi fans
// out across several of them in a fixed order.
package explored
