package wire

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// TagBase64URL is the CBOR tag number for "expected conversion to base64url"
// (RFC 8949 §3.4.5.2). vCon wraps inline binary bodies in it.
const TagBase64URL = 21

// encMode is the CBOR encoder configured with Core Deterministic Encoding
// (RFC 8949 §4.2) for scalar values and plain Go maps. Entity maps are *Map
// values and keep their emission order through MarshalCBOR.
var encMode cbor.EncMode

// decMode is the CBOR decoder. Maps decode to map[any]any and are then
// narrowed by normalizeMaps, duplicate keys are rejected and unregistered tags
// (including tag 21) decode to cbor.Tag.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("wire: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic("wire: CBOR decoder initialization failed: " + err.Error())
	}
}

type cborBackend struct{}

// CBOR returns the binary-tagged backend.
func CBOR() Backend { return cborBackend{} }

func (cborBackend) Name() string        { return NameCBOR }
func (cborBackend) ContentType() string { return "application/vcon+cbor" }

func (cborBackend) Marshal(v any) ([]byte, error) {
	out, err := encMode.Marshal(toCBORValue(v))
	if err != nil {
		return nil, fmt.Errorf("wire: cbor marshal: %w", err)
	}
	return out, nil
}

func (cborBackend) Unmarshal(data []byte) (any, error) {
	var v any
	if err := decMode.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("wire: cbor unmarshal: %w", err)
	}
	return normalizeMaps(v), nil
}

// normalizeMaps turns every map whose keys are all text strings into
// map[string]any. Maps with any other key type stay map[any]any so extension
// values keep their keys as decoded.
func normalizeMaps(v any) any {
	switch t := v.(type) {
	case map[any]any:
		strKeys := make(map[string]any, len(t))
		for k, e := range t {
			t[k] = normalizeMaps(e)
			if ks, ok := k.(string); ok && strKeys != nil {
				strKeys[ks] = t[k]
			} else {
				strKeys = nil
			}
		}
		if strKeys != nil {
			return strKeys
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalizeMaps(e)
		}
		return t
	case cbor.Tag:
		t.Content = normalizeMaps(t.Content)
		return t
	default:
		return v
	}
}

// Base64URLBody wraps the base64url text, as bytes, in tag 21. The payload is
// the text form rather than the raw bytes so the body stays byte-compatible
// with the JSON backend.
func (cborBackend) Base64URLBody(text string) any {
	return cbor.Tag{Number: TagBase64URL, Content: []byte(text)}
}

func (cborBackend) Base64URLText(v any) (string, error) {
	tag, ok := v.(cbor.Tag)
	if !ok {
		return "", fmt.Errorf("wire: cbor base64url body must be tag %d, got %s", TagBase64URL, TypeName(v))
	}
	if tag.Number != TagBase64URL {
		return "", fmt.Errorf("wire: cbor base64url body has tag %d, want %d", tag.Number, TagBase64URL)
	}
	raw, ok := tag.Content.([]byte)
	if !ok {
		return "", fmt.Errorf("wire: cbor tag %d content must be a byte string, got %s", TagBase64URL, TypeName(tag.Content))
	}
	return string(raw), nil
}

// Diagnose returns the CBOR diagnostic notation (RFC 8949 §8) for data.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}

// toCBORValue rewrites json.Number values, which only exist in the JSON data
// model, into CBOR integers or floats.
func toCBORValue(v any) any {
	switch t := v.(type) {
	case *Map:
		out := NewMap(t.Len())
		for _, k := range t.keys {
			out.Set(k, toCBORValue(t.values[k]))
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = toCBORValue(e)
		}
		return out
	case map[any]any:
		out := make(map[any]any, len(t))
		for k, e := range t {
			out[k] = toCBORValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = toCBORValue(e)
		}
		return out
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if u, ok := AsUint(t); ok {
			return u
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return string(t)
	default:
		return v
	}
}
