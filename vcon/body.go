package vcon

import (
	"encoding/base64"
	"fmt"

	"xdao.co/vcon/wire"
)

// BodyEncoding is the label carried under "encoding" next to an inline body.
type BodyEncoding string

const (
	EncodingBase64URL BodyEncoding = "base64url"
	EncodingNone      BodyEncoding = "none"
	// EncodingJSON is reserved. Bodies using it are rejected in both
	// directions until its payload rules are defined.
	EncodingJSON BodyEncoding = "json"
)

// Body is an inline payload together with its encoding.
type Body interface {
	Encoding() BodyEncoding
	isBody()
}

type (
	// BinaryBody holds raw bytes. On the wire it is base64url text.
	BinaryBody []byte
	// TextBody is carried verbatim.
	TextBody string
	// JSONBody is a structured-text body under the reserved json encoding.
	JSONBody string
)

func (BinaryBody) Encoding() BodyEncoding { return EncodingBase64URL }
func (TextBody) Encoding() BodyEncoding   { return EncodingNone }
func (JSONBody) Encoding() BodyEncoding   { return EncodingJSON }

func (BinaryBody) isBody() {}
func (TextBody) isBody()   {}
func (JSONBody) isBody()   {}

// decodeBody turns the wire pair (encoding, body) into a Body. The backend
// owns the physical form of base64url bodies.
func decodeBody(b wire.Backend, encoding, body any) (Body, error) {
	label, ok := wire.AsString(encoding)
	if !ok {
		return nil, typeError("encoding", "string", encoding)
	}
	switch BodyEncoding(label) {
	case EncodingBase64URL:
		text, err := b.Base64URLText(body)
		if err != nil {
			return nil, &Error{Kind: KindDecode, Code: CodeEncoding, RuleID: "VCON-BODY-003", Path: "body", Message: "base64url body has the wrong wire form", Cause: err}
		}
		raw, err := decodeBase64URL(text, "VCON-BODY-003", "body")
		if err != nil {
			return nil, atPath(err, "body")
		}
		return BinaryBody(raw), nil
	case EncodingNone:
		text, ok := wire.AsString(body)
		if !ok {
			return nil, typeError("body", "string", body)
		}
		return TextBody(text), nil
	case EncodingJSON:
		return nil, &Error{Kind: KindDecode, Code: CodeUnimplemented, RuleID: "VCON-BODY-002", Path: "encoding", Message: "json body encoding is not implemented"}
	default:
		return nil, &Error{Kind: KindDecode, Code: CodeUnknownVariant, RuleID: "VCON-BODY-001", Path: "encoding", Message: fmt.Sprintf("unknown body encoding %q", label)}
	}
}

// encodeBody writes "encoding" then "body" into m.
func encodeBody(b wire.Backend, body Body, m *wire.Map) error {
	switch t := body.(type) {
	case BinaryBody:
		m.Set("encoding", string(EncodingBase64URL))
		m.Set("body", b.Base64URLBody(base64.RawURLEncoding.EncodeToString(t)))
	case TextBody:
		m.Set("encoding", string(EncodingNone))
		m.Set("body", string(t))
	case JSONBody:
		return newError(KindEncode, CodeUnimplemented, "VCON-BODY-002", "json body encoding is not implemented")
	case nil:
		return &Error{Kind: KindEncode, Code: CodeMissingField, RuleID: "VCON-FIELD-001", Path: "body", Message: "inline content has no body"}
	default:
		return newError(KindInternal, CodeUnknownVariant, "VCON-INTERNAL-001", fmt.Sprintf("unsupported body type %T", body))
	}
	return nil
}
