package vcon

import (
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
)

// HashAlg is the canonical label of a signature digest algorithm.
type HashAlg string

const (
	SHA256 HashAlg = "SHA-256"
	SHA384 HashAlg = "SHA-384"
	SHA512 HashAlg = "SHA-512"
)

// Size returns the digest length in bytes, or 0 for an unknown label.
func (a HashAlg) Size() int {
	switch a {
	case SHA256:
		return sha256.Size
	case SHA384:
		return sha512.Size384
	case SHA512:
		return sha512.Size
	default:
		return 0
	}
}

func (a HashAlg) String() string { return string(a) }

// ParseHashAlg accepts the canonical labels only.
func ParseHashAlg(label string) (HashAlg, error) {
	switch a := HashAlg(label); a {
	case SHA256, SHA384, SHA512:
		return a, nil
	default:
		return "", newError(KindDecode, CodeUnknownVariant, "VCON-SIG-001", fmt.Sprintf("unknown signature algorithm %q", label))
	}
}

// algForLength is the algorithm implied by a digest length.
func algForLength(n int) (HashAlg, bool) {
	switch n {
	case sha256.Size:
		return SHA256, true
	case sha512.Size384:
		return SHA384, true
	case sha512.Size:
		return SHA512, true
	default:
		return "", false
	}
}

// Signature is a digest tagged with its algorithm. The concrete types fix
// the digest length, so a hand-built Signature always agrees with its Alg.
type Signature interface {
	Alg() HashAlg
	// Digest returns a copy of the digest bytes.
	Digest() []byte
	String() string
	isSignature()
}

type (
	SHA256Signature [sha256.Size]byte
	SHA384Signature [sha512.Size384]byte
	SHA512Signature [sha512.Size]byte
)

func (SHA256Signature) Alg() HashAlg { return SHA256 }
func (SHA384Signature) Alg() HashAlg { return SHA384 }
func (SHA512Signature) Alg() HashAlg { return SHA512 }

func (s SHA256Signature) Digest() []byte { return append([]byte(nil), s[:]...) }
func (s SHA384Signature) Digest() []byte { return append([]byte(nil), s[:]...) }
func (s SHA512Signature) Digest() []byte { return append([]byte(nil), s[:]...) }

func (s SHA256Signature) String() string { return base64.RawURLEncoding.EncodeToString(s[:]) }
func (s SHA384Signature) String() string { return base64.RawURLEncoding.EncodeToString(s[:]) }
func (s SHA512Signature) String() string { return base64.RawURLEncoding.EncodeToString(s[:]) }

func (SHA256Signature) isSignature() {}
func (SHA384Signature) isSignature() {}
func (SHA512Signature) isSignature() {}

// mustSignature builds the Signature for alg from b. Callers have already
// matched len(b) to alg; a disagreement means the two have drifted apart and
// panics.
func mustSignature(alg HashAlg, b []byte) Signature {
	if len(b) != alg.Size() {
		panic(fmt.Sprintf("vcon: %s signature built from %d bytes", alg, len(b)))
	}
	switch alg {
	case SHA256:
		var s SHA256Signature
		copy(s[:], b)
		return s
	case SHA384:
		var s SHA384Signature
		copy(s[:], b)
		return s
	default:
		var s SHA512Signature
		copy(s[:], b)
		return s
	}
}

// SignatureFromBytes infers the algorithm from len(b).
func SignatureFromBytes(b []byte) (Signature, error) {
	alg, ok := algForLength(len(b))
	if !ok {
		return nil, newError(KindDecode, CodeUnsupportedLength, "VCON-SIG-003", fmt.Sprintf("signature is %d bytes; want 32, 48 or 64", len(b)))
	}
	return mustSignature(alg, b), nil
}

// ParseSignature decodes unpadded base64url text and infers the algorithm from
// the decoded length.
func ParseSignature(text string) (Signature, error) {
	raw, err := decodeBase64URL(text, "VCON-SIG-002", "signature")
	if err != nil {
		return nil, err
	}
	return SignatureFromBytes(raw)
}

// DecodeSignature decodes the wire pair (alg, signature). Checks run in this
// order: the text must be unpadded base64url, its decoded length must be 32,
// 48 or 64 bytes, the label must be a known algorithm, and the label must
// agree with the length-implied algorithm. The length selects the variant.
func DecodeSignature(alg, text string) (Signature, error) {
	sig, err := ParseSignature(text)
	if err != nil {
		return nil, atPath(err, "signature")
	}
	declared, err := ParseHashAlg(alg)
	if err != nil {
		return nil, atPath(err, "alg")
	}
	if sig.Alg() != declared {
		return nil, &Error{
			Kind:    KindDecode,
			Code:    CodeAlgMismatch,
			RuleID:  "VCON-SIG-004",
			Path:    "alg",
			Message: fmt.Sprintf("alg is %s but the signature is a %d-byte %s digest", declared, len(sig.Digest()), sig.Alg()),
		}
	}
	return sig, nil
}

// EncodeSignature returns the wire pair for sig in emission order.
func EncodeSignature(sig Signature) (alg, text string) {
	return string(sig.Alg()), sig.String()
}

// DigestOf hashes data with alg.
func DigestOf(alg HashAlg, data []byte) (Signature, error) {
	switch alg {
	case SHA256:
		return SHA256Signature(sha256.Sum256(data)), nil
	case SHA384:
		return SHA384Signature(sha512.Sum384(data)), nil
	case SHA512:
		return SHA512Signature(sha512.Sum512(data)), nil
	default:
		return nil, newError(KindDecode, CodeUnknownVariant, "VCON-SIG-001", fmt.Sprintf("unknown signature algorithm %q", alg))
	}
}

// VerifyDigest reports whether sig is the digest of data under sig's algorithm.
func VerifyDigest(sig Signature, data []byte) bool {
	if sig == nil {
		return false
	}
	got, err := DigestOf(sig.Alg(), data)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(got.Digest(), sig.Digest()) == 1
}

// decodeBase64URL decodes strict unpadded base64url. Padding and line breaks,
// which the stdlib decoder would otherwise tolerate or skip, are rejected.
func decodeBase64URL(text, ruleID, what string) ([]byte, error) {
	if strings.ContainsAny(text, "=\r\n") {
		return nil, newError(KindDecode, CodeEncoding, ruleID, fmt.Sprintf("%s is not unpadded base64url", what))
	}
	raw, err := base64.RawURLEncoding.Strict().DecodeString(text)
	if err != nil {
		return nil, wrapError(KindDecode, CodeEncoding, ruleID, fmt.Sprintf("%s is not unpadded base64url", what), err)
	}
	return raw, nil
}
