package vcon

import (
	"errors"
	"testing"
	"time"
)

func requireCode(t *testing.T, err error, kind Kind, code Code) *Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s/%s error, got nil", kind, code)
	}
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected structured *vcon.Error, got %T: %v", err, err)
	}
	if e.Kind != kind || e.Code != code {
		t.Fatalf("expected %s/%s, got %s/%s (%v)", kind, code, e.Kind, e.Code, err)
	}
	return e
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2022-09-23T23:24:59Z")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.String() != "2022-09-23T23:24:59Z" {
		t.Fatalf("got %s", d)
	}
	if !d.Time().Equal(time.Date(2022, 9, 23, 23, 24, 59, 0, time.UTC)) {
		t.Fatalf("unexpected time %v", d.Time())
	}

	off, err := ParseDate("2024-05-02T09:30:00.250+02:00")
	if err != nil {
		t.Fatalf("ParseDate(offset): %v", err)
	}
	if off.String() != "2024-05-02T09:30:00.25+02:00" {
		t.Fatalf("offset not preserved: %s", off)
	}
	again, err := ParseDate(off.String())
	if err != nil || again != off {
		t.Fatalf("parse(render(x)) != x: %v %v", again, err)
	}

	for _, bad := range []string{"", "2022-09-23", "2022-09-23T23:24:59", "2022-09-23 23:24:59Z", "yesterday"} {
		_, err := ParseDate(bad)
		e := requireCode(t, err, KindParse, CodeFormat)
		if e.RuleID != "VCON-DATE-001" {
			t.Fatalf("%q: RuleID %s", bad, e.RuleID)
		}
	}
}

func TestNewUUIDv8_Vector(t *testing.T) {
	var b [16]byte
	copy(b[:], "abcdefghijklmnop")
	u := NewUUIDv8(b)
	if got, want := u.String(), "61626364-6566-8768-a96a-6b6c6d6e6f70"; got != want {
		t.Fatalf("got %s want %s", got, want)
	}
	if u.Version() != 8 {
		t.Fatalf("version %d", u.Version())
	}
	back, err := ParseUUID(u.String())
	if err != nil || back != u {
		t.Fatalf("round trip: %v %v", back, err)
	}
}

func TestParseUUID(t *testing.T) {
	u, err := ParseUUID("3F2504E0-4F89-11D3-9A0C-0305E82C3301")
	if err != nil {
		t.Fatalf("ParseUUID: %v", err)
	}
	if u.String() != "3f2504e0-4f89-11d3-9a0c-0305e82c3301" {
		t.Fatalf("not lower-cased: %s", u)
	}
	for _, bad := range []string{
		"3f2504e04f8911d39a0c0305e82c3301",
		"{3f2504e0-4f89-11d3-9a0c-0305e82c3301}",
		"urn:uuid:3f2504e0-4f89-11d3-9a0c-0305e82c3301",
		"3f2504e0-4f89-11d3-9a0c-0305e82c330g",
		"3f2504e0+4f89-11d3-9a0c-0305e82c3301",
	} {
		_, err := ParseUUID(bad)
		requireCode(t, err, KindParse, CodeFormat)
	}
}

func TestNewRandomUUID(t *testing.T) {
	u, err := NewRandomUUID()
	if err != nil {
		t.Fatalf("NewRandomUUID: %v", err)
	}
	if u.IsZero() || u.Version() != 4 {
		t.Fatalf("unexpected uuid %s", u)
	}
}

func TestParseURL(t *testing.T) {
	cases := []struct{ in, want string }{
		{"https://example.com", "https://example.com/"},
		{"HTTPS://Example.COM:443", "https://example.com/"},
		{"https://example.com:8443/a/b?x=1#f", "https://example.com:8443/a/b?x=1#f"},
		{"https://[::1]:443", "https://[::1]/"},
		{"https://media.example.com/recordings/x.ogg", "https://media.example.com/recordings/x.ogg"},
	}
	for _, c := range cases {
		u, err := ParseURL(c.in)
		if err != nil {
			t.Fatalf("ParseURL(%q): %v", c.in, err)
		}
		if u.String() != c.want {
			t.Fatalf("ParseURL(%q) = %s, want %s", c.in, u, c.want)
		}
		again, err := ParseURL(u.String())
		if err != nil || again != u {
			t.Fatalf("ParseURL not idempotent for %q: %v %v", c.in, again, err)
		}
	}

	_, err := ParseURL("http://example.com")
	e := requireCode(t, err, KindParse, CodeScheme)
	if e.RuleID != "VCON-URL-001" {
		t.Fatalf("RuleID %s", e.RuleID)
	}
	requireCode(t, func() error { _, err := ParseURL("ftp://example.com/x"); return err }(), KindParse, CodeScheme)
	requireCode(t, func() error { _, err := ParseURL("/relative/path"); return err }(), KindParse, CodeScheme)
	requireCode(t, func() error { _, err := ParseURL("https:opaque"); return err }(), KindParse, CodeFormat)
	requireCode(t, func() error { _, err := ParseURL("https://"); return err }(), KindParse, CodeFormat)
	requireCode(t, func() error { _, err := ParseURL("https://exa mple.com/"); return err }(), KindParse, CodeFormat)
}

func TestParseVersion(t *testing.T) {
	for _, ok := range []string{"0.0.1", "0.3.0", "1.0.0-draft+build_7"} {
		v, err := ParseVersion(ok)
		if err != nil || v.String() != ok {
			t.Fatalf("ParseVersion(%q): %v %v", ok, v, err)
		}
	}
	for _, bad := range []string{"", "0.0.1 beta", "v1/2", "0123456789012345678901234567890123"} {
		_, err := ParseVersion(bad)
		requireCode(t, err, KindParse, CodeFormat)
	}
	if DefaultVersion.String() != "0.0.1" {
		t.Fatalf("DefaultVersion = %s", DefaultVersion)
	}
}

func TestMediaType(t *testing.T) {
	m, err := ParseMediaType("audio/x-wav")
	if err != nil {
		t.Fatalf("ParseMediaType: %v", err)
	}
	if !m.Is("audio/x-wav") || m.Is("audio/ogg") {
		t.Fatalf("Is mismatch for %s", m)
	}
	requireCode(t, func() error { _, err := ParseMediaType(""); return err }(), KindParse, CodeFormat)
	requireCode(t, func() error { _, err := ParseMediaType("text/plain\n"); return err }(), KindParse, CodeFormat)

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR")
	if got := SniffMediaType(png); !got.Is("image/png") {
		t.Fatalf("SniffMediaType(png) = %s", got)
	}
	if got := SniffMediaType([]byte("hello there")); !got.Is("text/plain") {
		t.Fatalf("SniffMediaType(text) = %s", got)
	}
}
