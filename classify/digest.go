package classify

import (
	"encoding/binary"
	"fmt"
	"hash"

	"github.com/spaolacci/murmur3"
)

// Digest is the classification of composite values.
type Digest uint64

// AppendKey appends the digest as 8 bytes, big-endian.
func (d Digest) AppendKey(dst []byte) []byte {
	return binary.BigEndian.AppendUint64(dst, uint64(d))
}

func (d Digest) String() string {
	return fmt.Sprintf("%016x", uint64(d))
}

// Hasher is a running fold of canonical keys into a Digest. A fresh Hasher
// is used for every composite classification; it is never shared.
//
// The fold is murmur3 x64-64 with seed 0 over the concatenated keys.
type Hasher struct {
	h       hash.Hash64
	scratch []byte
}

// NewHasher returns an empty fold.
func NewHasher() *Hasher {
	return &Hasher{h: murmur3.New64()}
}

// Fold appends the canonical key of c.
func (h *Hasher) Fold(c Keyed) *Hasher {
	h.scratch = c.AppendKey(h.scratch[:0])
	_, _ = h.h.Write(h.scratch)
	return h
}

// FoldKey appends an already encoded key.
func (h *Hasher) FoldKey(key []byte) *Hasher {
	_, _ = h.h.Write(key)
	return h
}

// FoldUint64 appends v as 8 bytes, big-endian.
func (h *Hasher) FoldUint64(v uint64) *Hasher {
	h.scratch = binary.BigEndian.AppendUint64(h.scratch[:0], v)
	_, _ = h.h.Write(h.scratch)
	return h
}

// Sum returns the digest of everything folded so far.
func (h *Hasher) Sum() Digest {
	return Digest(h.h.Sum64())
}
