package cidutil

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// Multihash codes for the SHA-2 digests vCon signatures carry.
// go-multihash has no named constant for sha2-384, so the multicodec table
// value is used directly.
const (
	SHA2_256 uint64 = multihash.SHA2_256
	SHA2_384 uint64 = 0x20
	SHA2_512 uint64 = multihash.SHA2_512
)

// CIDv1RawSHA256 returns a CIDv1 string using the "raw" multicodec
// and a sha2-256 multihash.
func CIDv1RawSHA256(data []byte) string {
	c, err := CIDv1RawSHA256CID(data)
	if err != nil {
		// multihash.Sum only errors for invalid inputs; with SHA2_256 and -1 length,
		// this should be unreachable.
		return ""
	}
	return c.String()
}

// CIDv1RawSHA256CID returns a CIDv1 (raw + sha2-256) derived from data.
func CIDv1RawSHA256CID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// DigestMultihash wraps an already computed digest. The digest length is
// checked against the code so a mislabelled digest cannot be addressed.
func DigestMultihash(code uint64, digest []byte) (multihash.Multihash, error) {
	if want := digestSize(code); want != 0 && len(digest) != want {
		return nil, fmt.Errorf("cidutil: digest is %d bytes, multihash code 0x%x wants %d", len(digest), code, want)
	}
	return multihash.Encode(digest, code)
}

// DigestCID returns a CIDv1 (raw codec) for an already computed digest.
func DigestCID(code uint64, digest []byte) (cid.Cid, error) {
	mh, err := DigestMultihash(code, digest)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, mh), nil
}

func digestSize(code uint64) int {
	switch code {
	case SHA2_256:
		return 32
	case SHA2_384:
		return 48
	case SHA2_512:
		return 64
	default:
		return 0
	}
}
