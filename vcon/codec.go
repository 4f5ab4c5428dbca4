package vcon

import (
	"github.com/ipfs/go-cid"

	"xdao.co/vcon/cidutil"
	"xdao.co/vcon/compliance"
	"xdao.co/vcon/wire"
)

// Codec decodes and encodes vCon documents and their fragments with one wire
// backend. A Codec is immutable and safe for concurrent use.
type Codec struct {
	backend wire.Backend
	mode    compliance.ComplianceMode
}

// Option configures a Codec.
type Option func(*Codec)

// WithMode selects the compliance mode. The default is Permissive.
func WithMode(mode compliance.ComplianceMode) Option {
	return func(c *Codec) { c.mode = mode }
}

// NewCodec binds a codec to backend for its lifetime.
func NewCodec(backend wire.Backend, opts ...Option) *Codec {
	c := &Codec{backend: backend, mode: compliance.Permissive}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Codec) Backend() wire.Backend           { return c.backend }
func (c *Codec) Mode() compliance.ComplianceMode { return c.mode }

// Decode parses a complete document. Decoding is atomic: on error no partial
// document is returned.
func (c *Codec) Decode(data []byte) (*Vcon, error) {
	v, err := c.unmarshal(data)
	if err != nil {
		return nil, err
	}
	return c.decodeVcon(v)
}

// Encode writes doc with named fields in schema order followed by extensions.
func (c *Codec) Encode(doc *Vcon) ([]byte, error) {
	m, err := c.encodeVcon(doc)
	if err != nil {
		return nil, err
	}
	return c.marshal(m)
}

// DecodeContent decodes a standalone content map. Keys that are not content
// keys are returned as extensions.
func (c *Codec) DecodeContent(data []byte) (Content, Extensions, error) {
	f, err := c.fragment(data)
	if err != nil {
		return nil, nil, err
	}
	ct, err := c.decodeContent(f)
	if err != nil {
		return nil, nil, err
	}
	return ct, f.rest(), nil
}

func (c *Codec) EncodeContent(ct Content, ext Extensions) ([]byte, error) {
	m := wire.NewMap(3 + len(ext))
	if err := c.encodeContent(ct, m); err != nil {
		return nil, err
	}
	if err := c.mergeExtensions(m, ext); err != nil {
		return nil, err
	}
	return c.marshal(m)
}

// DecodeSignatureFragment decodes a {"alg", "signature"} map.
func (c *Codec) DecodeSignatureFragment(data []byte) (Signature, error) {
	f, err := c.fragment(data)
	if err != nil {
		return nil, err
	}
	alg, err := f.reqString("alg")
	if err != nil {
		return nil, err
	}
	text, err := f.reqString("signature")
	if err != nil {
		return nil, err
	}
	return DecodeSignature(alg, text)
}

// EncodeSignature writes {"alg", "signature"} in that order.
func (c *Codec) EncodeSignature(sig Signature) ([]byte, error) {
	if sig == nil {
		return nil, encodeMissing("signature")
	}
	alg, text := EncodeSignature(sig)
	m := wire.NewMap(2)
	m.Set("alg", alg)
	m.Set("signature", text)
	return c.marshal(m)
}

// DecodeBodyFragment decodes an {"encoding", "body"} map.
func (c *Codec) DecodeBodyFragment(data []byte) (Body, error) {
	f, err := c.fragment(data)
	if err != nil {
		return nil, err
	}
	enc, ok := f.take("encoding")
	if !ok {
		return nil, missingField("encoding")
	}
	body, ok := f.take("body")
	if !ok {
		return nil, missingField("body")
	}
	return decodeBody(c.backend, enc, body)
}

// EncodeBody writes {"encoding", "body"} in that order.
func (c *Codec) EncodeBody(body Body) ([]byte, error) {
	m := wire.NewMap(2)
	if err := encodeBody(c.backend, body, m); err != nil {
		return nil, err
	}
	return c.marshal(m)
}

// CID returns the CIDv1 (raw codec, sha2-256) of doc's encoding under this
// codec's backend. The same document has a different CID per backend.
func (c *Codec) CID(doc *Vcon) (cid.Cid, error) {
	data, err := c.Encode(doc)
	if err != nil {
		return cid.Undef, err
	}
	id, err := cidutil.CIDv1RawSHA256CID(data)
	if err != nil {
		return cid.Undef, wrapError(KindInternal, CodeEncoding, "VCON-CID-001", "compute document CID", err)
	}
	return id, nil
}

// Transcode decodes data with c and re-encodes the document with to.
func (c *Codec) Transcode(data []byte, to *Codec) ([]byte, error) {
	doc, err := c.Decode(data)
	if err != nil {
		return nil, err
	}
	return to.Encode(doc)
}

func (c *Codec) unmarshal(data []byte) (any, error) {
	v, err := c.backend.Unmarshal(data)
	if err != nil {
		return nil, wrapError(KindDecode, CodeEncoding, "VCON-WIRE-001", "malformed "+c.backend.Name()+" document", err)
	}
	return v, nil
}

func (c *Codec) marshal(m *wire.Map) ([]byte, error) {
	out, err := c.backend.Marshal(m)
	if err != nil {
		return nil, wrapError(KindEncode, CodeEncoding, "VCON-WIRE-002", "cannot write "+c.backend.Name()+" document", err)
	}
	return out, nil
}

func (c *Codec) fragment(data []byte) (*fields, error) {
	v, err := c.unmarshal(data)
	if err != nil {
		return nil, err
	}
	return asFields(v)
}
