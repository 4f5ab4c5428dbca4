package wire

import (
	"fmt"
	"strings"
)

// Backend is a physical wire encoding for vCon documents.
type Backend interface {
	// Name is the short registry name ("json" or "cbor").
	Name() string
	// ContentType is the media type of encoded documents.
	ContentType() string
	// Marshal encodes a wire value tree.
	Marshal(v any) ([]byte, error)
	// Unmarshal decodes exactly one data item into a wire value tree.
	Unmarshal(data []byte) (any, error)
	// Base64URLBody returns the value stored under "body" for a base64url
	// inline body whose unpadded base64url text is text.
	Base64URLBody(text string) any
	// Base64URLText extracts the base64url text from a decoded "body" value.
	Base64URLText(v any) (string, error)
}

const (
	NameJSON = "json"
	NameCBOR = "cbor"
)

// Names lists the registered backend names in a stable order.
var Names = []string{NameJSON, NameCBOR}

// Lookup returns the backend registered under name. Names are case-insensitive.
func Lookup(name string, opts ...JSONOption) (Backend, error) {
	switch strings.ToLower(name) {
	case NameJSON:
		return JSON(opts...), nil
	case NameCBOR:
		return CBOR(), nil
	default:
		return nil, fmt.Errorf("wire: unknown backend %q", name)
	}
}
