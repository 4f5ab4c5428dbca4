package vcon

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ipfs/go-cid"

	"xdao.co/vcon/cidutil"
	"xdao.co/vcon/compliance"
	"xdao.co/vcon/wire"
)

// Content is the payload of a dialog, attachment or analysis entry: either
// carried inline or hosted elsewhere and pinned by a digest.
type Content interface {
	isContent()
}

// Inline content carries its body in the document.
type Inline struct {
	Body Body
}

// Reference content lives at URL; Signature is the digest of the bytes served
// there.
type Reference struct {
	URL       URL
	Signature Signature
}

func (Inline) isContent()    {}
func (Reference) isContent() {}

// Verify reports whether data matches the reference's digest.
func (r Reference) Verify(data []byte) bool {
	return VerifyDigest(r.Signature, data)
}

// CID returns the CIDv1 (raw codec) whose multihash is the reference digest,
// so referenced content can be addressed in content-addressed stores.
func (r Reference) CID() (cid.Cid, error) {
	if r.Signature == nil {
		return cid.Undef, newError(KindEncode, CodeMissingField, "VCON-FIELD-001", "reference has no signature")
	}
	c, err := cidutil.DigestCID(multihashCode(r.Signature.Alg()), r.Signature.Digest())
	if err != nil {
		return cid.Undef, wrapError(KindInternal, CodeEncoding, "VCON-CID-001", "build reference CID", err)
	}
	return c, nil
}

func multihashCode(a HashAlg) uint64 {
	switch a {
	case SHA384:
		return cidutil.SHA2_384
	case SHA512:
		return cidutil.SHA2_512
	default:
		return cidutil.SHA2_256
	}
}

var (
	inlineKeys    = []string{"encoding", "body"}
	referenceKeys = []string{"url", "alg", "signature"}
	contentKeys   = []string{"encoding", "body", "url", "alg", "signature"}
)

// contentKeysPresent reports whether f holds any content key at all.
func contentKeysPresent(f *fields) bool {
	for _, k := range contentKeys {
		if f.has(k) {
			return true
		}
	}
	return false
}

// decodeContent decides the content variant from which keys are present.
// Inline is checked first: encoding+body is Inline, url+alg+signature is
// Reference, anything else is ambiguous. In Permissive mode reference keys
// next to a complete inline pair stay unclaimed and end up in the extensions.
func (c *Codec) decodeContent(f *fields) (Content, error) {
	var present []string
	count := func(keys []string) int {
		n := 0
		for _, k := range keys {
			if f.has(k) {
				n++
				present = append(present, k)
			}
		}
		return n
	}
	nInline := count(inlineKeys)
	nRef := count(referenceKeys)
	isInline := nInline == len(inlineKeys)
	isRef := nRef == len(referenceKeys)

	if c.mode == compliance.Strict && nInline > 0 && nRef > 0 {
		return nil, ambiguous("VCON-CONTENT-002", present, "inline and reference keys are mixed")
	}

	switch {
	case isInline:
		enc, _ := f.take("encoding")
		body, _ := f.take("body")
		b, err := decodeBody(c.backend, enc, body)
		if err != nil {
			return nil, err
		}
		return Inline{Body: b}, nil
	case isRef:
		return c.decodeReference(f)
	default:
		return nil, ambiguous("VCON-CONTENT-001", present, "need encoding+body or url+alg+signature")
	}
}

// decodeOptionalContent returns nil when no content key is present.
func (c *Codec) decodeOptionalContent(f *fields) (Content, error) {
	if !contentKeysPresent(f) {
		return nil, nil
	}
	return c.decodeContent(f)
}

func (c *Codec) decodeReference(f *fields) (Content, error) {
	rawURL, err := f.reqString("url")
	if err != nil {
		return nil, err
	}
	u, err := ParseURL(rawURL)
	if err != nil {
		return nil, atPath(err, "url")
	}
	alg, err := f.reqString("alg")
	if err != nil {
		return nil, err
	}
	text, err := f.reqString("signature")
	if err != nil {
		return nil, err
	}
	sig, err := DecodeSignature(alg, text)
	if err != nil {
		return nil, err
	}
	return Reference{URL: u, Signature: sig}, nil
}

func ambiguous(ruleID string, present []string, why string) error {
	sort.Strings(present)
	keys := "none"
	if len(present) > 0 {
		keys = strings.Join(present, ", ")
	}
	return newError(KindDecode, CodeAmbiguousContent, ruleID, fmt.Sprintf("cannot tell content variant from keys [%s]: %s", keys, why))
}

// encodeContent flattens ct into m. Reference content writes url, then alg,
// then signature.
func (c *Codec) encodeContent(ct Content, m *wire.Map) error {
	switch t := ct.(type) {
	case Inline:
		return encodeBody(c.backend, t.Body, m)
	case *Inline:
		return encodeBody(c.backend, t.Body, m)
	case Reference:
		return encodeReference(t, m)
	case *Reference:
		return encodeReference(*t, m)
	case nil:
		return &Error{Kind: KindEncode, Code: CodeMissingField, RuleID: "VCON-FIELD-001", Path: "content", Message: "entry has no content"}
	default:
		return newError(KindInternal, CodeUnknownVariant, "VCON-INTERNAL-001", fmt.Sprintf("unsupported content type %T", ct))
	}
}

func encodeReference(r Reference, m *wire.Map) error {
	if r.URL.IsZero() {
		return &Error{Kind: KindEncode, Code: CodeMissingField, RuleID: "VCON-FIELD-001", Path: "url", Message: "reference has no url"}
	}
	if r.Signature == nil {
		return &Error{Kind: KindEncode, Code: CodeMissingField, RuleID: "VCON-FIELD-001", Path: "signature", Message: "reference has no signature"}
	}
	m.Set("url", r.URL.String())
	alg, text := EncodeSignature(r.Signature)
	m.Set("alg", alg)
	m.Set("signature", text)
	return nil
}
