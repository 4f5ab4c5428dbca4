package vcon

import "fmt"

// Version is the short vCon syntax version tag carried under "vcon".
type Version struct {
	s string
}

// DefaultVersion is the tag written when a document does not set one.
var DefaultVersion = Version{s: "0.0.1"}

const maxVersionLen = 32

func ParseVersion(text string) (Version, error) {
	if text == "" || len(text) > maxVersionLen {
		return Version{}, newError(KindParse, CodeFormat, "VCON-VER-001", fmt.Sprintf("version %q must be 1-%d characters", text, maxVersionLen))
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c == '.', c == '+', c == '_', c == '-':
		default:
			return Version{}, newError(KindParse, CodeFormat, "VCON-VER-001", fmt.Sprintf("version %q contains %q", text, c))
		}
	}
	return Version{s: text}, nil
}

func (v Version) IsZero() bool   { return v.s == "" }
func (v Version) String() string { return v.s }
