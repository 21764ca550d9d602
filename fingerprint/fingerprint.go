// Package fingerprint renders classification digests as content identifiers.
//
// A fingerprint is a CIDv1 using the "raw" multicodec and a murmur3-x64-64
// multihash whose 8-byte payload is the big-endian Digest. The digest is
// already a murmur3 x64-64 fold, so the multihash names the function that
// produced it. Fingerprints are what the explored-class registries store and
// send over the wire.
package fingerprint

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"xdao.co/classify/classify"
)

// ErrInvalid is returned for identifiers that are not classification fingerprints.
var ErrInvalid = errors.New("fingerprint: invalid fingerprint")

const digestLen = 8

// CID returns the fingerprint of d.
func CID(d classify.Digest) cid.Cid {
	mh, err := multihash.Encode(d.AppendKey(nil), multihash.MURMUR3X64_64)
	if err != nil {
		// Encode does not fail for a registered code.
		return cid.Undef
	}
	return cid.NewCidV1(cid.Raw, mh)
}

// String returns the canonical (base32) text form of the fingerprint of d.
func String(d classify.Digest) string {
	return CID(d).String()
}

// FromCID extracts the digest from a fingerprint.
func FromCID(id cid.Cid) (classify.Digest, error) {
	if !id.Defined() {
		return 0, ErrInvalid
	}
	if id.Prefix().Codec != cid.Raw {
		return 0, fmt.Errorf("%w: codec %#x", ErrInvalid, id.Prefix().Codec)
	}
	dec, err := multihash.Decode(id.Hash())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if dec.Code != multihash.MURMUR3X64_64 {
		return 0, fmt.Errorf("%w: hash %s", ErrInvalid, dec.Name)
	}
	if len(dec.Digest) != digestLen {
		return 0, fmt.Errorf("%w: digest length %d", ErrInvalid, len(dec.Digest))
	}
	return classify.Digest(binary.BigEndian.Uint64(dec.Digest)), nil
}

// Parse decodes the text form produced by String.
func Parse(s string) (classify.Digest, error) {
	id, err := cid.Decode(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return FromCID(id)
}
