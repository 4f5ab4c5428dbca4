package wire

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/tidwall/jsonc"
)

// JSONOption configures the JSON backend.
type JSONOption func(*jsonBackend)

// WithComments makes Unmarshal accept JSONC input (comments and trailing
// commas), which is convenient for hand-written fixtures. Output is always
// plain JSON.
func WithComments() JSONOption {
	return func(b *jsonBackend) { b.comments = true }
}

// WithIndent makes Marshal pretty-print its output.
func WithIndent(indent string) JSONOption {
	return func(b *jsonBackend) { b.indent = indent }
}

type jsonBackend struct {
	comments bool
	indent   string
}

// JSON returns the text-tree backend.
func JSON(opts ...JSONOption) Backend {
	b := &jsonBackend{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *jsonBackend) Name() string        { return NameJSON }
func (b *jsonBackend) ContentType() string { return "application/vcon+json" }

func (b *jsonBackend) Marshal(v any) ([]byte, error) {
	out, err := marshalJSONValue(toJSONValue(v))
	if err != nil {
		return nil, fmt.Errorf("wire: json marshal: %w", err)
	}
	if b.indent == "" {
		return out, nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, out, "", b.indent); err != nil {
		return nil, fmt.Errorf("wire: json indent: %w", err)
	}
	return buf.Bytes(), nil
}

func (b *jsonBackend) Unmarshal(data []byte) (any, error) {
	if b.comments {
		data = jsonc.ToJSON(data)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("wire: json unmarshal: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("wire: json unmarshal: trailing data after document")
	}
	return v, nil
}

// Base64URLBody carries the base64url text as a plain JSON string.
func (b *jsonBackend) Base64URLBody(text string) any { return text }

func (b *jsonBackend) Base64URLText(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("wire: json base64url body must be a string, got %s", TypeName(v))
	}
	return s, nil
}

// marshalJSONValue encodes v compactly without HTML escaping and without the
// trailing newline json.Encoder appends.
func marshalJSONValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// toJSONValue rewrites values that only exist in the CBOR data model into
// their closest JSON form. Tag 21 content becomes the base64url text it
// carries; other byte strings become unpadded base64url.
func toJSONValue(v any) any {
	switch t := v.(type) {
	case *Map:
		out := NewMap(t.Len())
		for _, k := range t.keys {
			out.Set(k, toJSONValue(t.values[k]))
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = toJSONValue(e)
		}
		return out
	case map[any]any:
		// JSON object keys are strings; other CBOR keys use their text form.
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = toJSONValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = toJSONValue(e)
		}
		return out
	case []byte:
		return base64.RawURLEncoding.EncodeToString(t)
	case cbor.Tag:
		if raw, ok := t.Content.([]byte); ok && t.Number == TagBase64URL {
			return string(raw)
		}
		return toJSONValue(t.Content)
	default:
		return v
	}
}
