package vcon

import (
	"fmt"

	"github.com/google/uuid"
)

// UUID is a 128-bit identifier rendered in canonical lowercase hyphenated form.
type UUID struct {
	u uuid.UUID
}

// ParseUUID accepts exactly the 36-character grouped form
// (xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx). Hex digits may be upper case;
// the value renders in lower case.
func ParseUUID(text string) (UUID, error) {
	if len(text) != 36 || text[8] != '-' || text[13] != '-' || text[18] != '-' || text[23] != '-' {
		return UUID{}, newError(KindParse, CodeFormat, "VCON-UUID-001", fmt.Sprintf("uuid %q is not in hyphenated 8-4-4-4-12 form", text))
	}
	u, err := uuid.Parse(text)
	if err != nil {
		return UUID{}, wrapError(KindParse, CodeFormat, "VCON-UUID-001", fmt.Sprintf("invalid uuid %q", text), err)
	}
	return UUID{u: u}, nil
}

// NewUUIDv8 builds a version 8 (custom) UUID from b, overwriting the version
// and variant bits.
func NewUUIDv8(b [16]byte) UUID {
	b[6] = b[6]&0x0f | 0x80
	b[8] = b[8]&0x3f | 0x80
	return UUID{u: uuid.UUID(b)}
}

// NewRandomUUID returns a random version 4 UUID.
func NewRandomUUID() (UUID, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return UUID{}, wrapError(KindInternal, CodeFormat, "VCON-UUID-002", "generate uuid", err)
	}
	return UUID{u: u}, nil
}

func (u UUID) Bytes() [16]byte { return u.u }
func (u UUID) Version() int    { return int(u.u.Version()) }
func (u UUID) IsZero() bool    { return u.u == uuid.Nil }
func (u UUID) String() string  { return u.u.String() }
