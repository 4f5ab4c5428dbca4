package vcon

import (
	"fmt"
	"time"
)

// Date is an RFC 3339 timestamp with an explicit offset.
type Date struct {
	s string
}

// ParseDate parses an RFC 3339 timestamp. The offset must be explicit ("Z" or
// "±hh:mm"); fractional seconds are kept.
func ParseDate(text string) (Date, error) {
	t, err := time.Parse(time.RFC3339Nano, text)
	if err != nil {
		return Date{}, wrapError(KindParse, CodeFormat, "VCON-DATE-001", fmt.Sprintf("invalid RFC 3339 timestamp %q", text), err)
	}
	return DateFromTime(t), nil
}

// DateFromTime returns the Date for t, keeping t's offset.
func DateFromTime(t time.Time) Date {
	return Date{s: t.Format(time.RFC3339Nano)}
}

// Time returns the instant d denotes.
func (d Date) Time() time.Time {
	t, _ := time.Parse(time.RFC3339Nano, d.s)
	return t
}

func (d Date) IsZero() bool       { return d.s == "" }
func (d Date) String() string     { return d.s }
func (d Date) Before(o Date) bool { return d.Time().Before(o.Time()) }
