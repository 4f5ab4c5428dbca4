package vcon

import (
	"fmt"
	"unicode"

	"github.com/gabriel-vasile/mimetype"
)

// MediaType is a free-form media type string such as "audio/x-wav".
type MediaType struct {
	s string
}

func ParseMediaType(text string) (MediaType, error) {
	if text == "" {
		return MediaType{}, newError(KindParse, CodeFormat, "VCON-MIME-001", "empty media type")
	}
	for _, r := range text {
		if unicode.IsControl(r) {
			return MediaType{}, newError(KindParse, CodeFormat, "VCON-MIME-001", fmt.Sprintf("media type %q contains a control character", text))
		}
	}
	return MediaType{s: text}, nil
}

// SniffMediaType detects the media type of an inline payload from its
// leading bytes.
func SniffMediaType(data []byte) MediaType {
	return MediaType{s: mimetype.Detect(data).String()}
}

// Is reports whether m matches any of types, ignoring case and parameters.
func (m MediaType) Is(types ...string) bool {
	return mimetype.EqualsAny(m.s, types...)
}

func (m MediaType) IsZero() bool   { return m.s == "" }
func (m MediaType) String() string { return m.s }
