package wire

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
)

func bodyFragment(b Backend) *Map {
	m := NewMap(2)
	m.Set("encoding", "base64url")
	m.Set("body", b.Base64URLBody("YWJjZA"))
	return m
}

func TestJSON_MapKeepsInsertionOrder(t *testing.T) {
	b := JSON()
	out, err := b.Marshal(bodyFragment(b))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"encoding":"base64url","body":"YWJjZA"}`
	if string(out) != want {
		t.Fatalf("got %s want %s", out, want)
	}
}

func TestJSON_NoHTMLEscaping(t *testing.T) {
	m := NewMap(1)
	m.Set("url", "https://example.com/a?b=1&c=<2>")
	out, err := JSON().Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(out), "&c=<2>") {
		t.Fatalf("unexpected escaping: %s", out)
	}
}

func TestCBOR_BodyFragmentBytes(t *testing.T) {
	b := CBOR()
	out, err := b.Marshal(bodyFragment(b))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want, _ := hex.DecodeString(
		"a2" +
			"68" + hex.EncodeToString([]byte("encoding")) +
			"69" + hex.EncodeToString([]byte("base64url")) +
			"64" + hex.EncodeToString([]byte("body")) +
			"d5" + "46" + hex.EncodeToString([]byte("YWJjZA")))
	if !bytes.Equal(out, want) {
		t.Fatalf("got %x want %x", out, want)
	}
}

func TestCBOR_Base64URLBodyRoundtrip(t *testing.T) {
	b := CBOR()
	out, err := b.Marshal(bodyFragment(b))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	v, err := b.Unmarshal(out)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	m, ok := AsMap(v)
	if !ok {
		t.Fatalf("expected map, got %s", TypeName(v))
	}
	text, err := b.Base64URLText(m["body"])
	if err != nil {
		t.Fatalf("Base64URLText: %v", err)
	}
	if text != "YWJjZA" {
		t.Fatalf("got %q", text)
	}
}

func TestCBOR_Base64URLTextRejectsUntaggedBytes(t *testing.T) {
	if _, err := CBOR().Base64URLText([]byte("YWJjZA")); err == nil {
		t.Fatalf("expected error for untagged byte string")
	}
	if _, err := CBOR().Base64URLText(cbor.Tag{Number: 22, Content: []byte("YWJjZA")}); err == nil {
		t.Fatalf("expected error for tag 22")
	}
	if _, err := CBOR().Base64URLText(cbor.Tag{Number: TagBase64URL, Content: "YWJjZA"}); err == nil {
		t.Fatalf("expected error for text content")
	}
}

func TestJSON_Base64URLTextRequiresString(t *testing.T) {
	if _, err := JSON().Base64URLText(json.Number("12")); err == nil {
		t.Fatalf("expected error for number body")
	}
}

func TestCBOR_RejectsDuplicateKeys(t *testing.T) {
	// {"a": 1, "a": 2}
	data := []byte{0xa2, 0x61, 'a', 0x01, 0x61, 'a', 0x02}
	if _, err := CBOR().Unmarshal(data); err == nil {
		t.Fatalf("expected duplicate key error")
	}
}

func TestCBOR_NonStringKeysKept(t *testing.T) {
	// {"a": {1: "one"}, "b": {"k": "v"}}
	data := []byte{0xa2,
		0x61, 'a', 0xa1, 0x01, 0x63, 'o', 'n', 'e',
		0x61, 'b', 0xa1, 0x61, 'k', 0x61, 'v'}
	v, err := CBOR().Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	top, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("top level: got %T", v)
	}
	inner, ok := top["a"].(map[any]any)
	if !ok || inner[uint64(1)] != "one" {
		t.Fatalf("a: got %#v", top["a"])
	}
	if _, ok := AsMap(top["a"]); ok {
		t.Fatalf("AsMap accepted an int-keyed map")
	}
	if _, ok := top["b"].(map[string]any); !ok {
		t.Fatalf("b: got %T", top["b"])
	}

	out, err := CBOR().Marshal(top)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("round trip: got %x want %x", out, data)
	}

	js, err := JSON().Marshal(top)
	if err != nil {
		t.Fatalf("json Marshal: %v", err)
	}
	if string(js) != `{"a":{"1":"one"},"b":{"k":"v"}}` {
		t.Fatalf("json: got %s", js)
	}
}

func TestAsMap_StringKeyedAnyMap(t *testing.T) {
	m, ok := AsMap(map[any]any{"k": "v"})
	if !ok || m["k"] != "v" {
		t.Fatalf("got %#v ok=%v", m, ok)
	}
}

func TestJSON_TrailingDataRejected(t *testing.T) {
	if _, err := JSON().Unmarshal([]byte(`{"a":1} {"b":2}`)); err == nil {
		t.Fatalf("expected trailing data error")
	}
}

func TestJSON_NumbersKeepSpelling(t *testing.T) {
	b := JSON()
	v, err := b.Unmarshal([]byte(`{"n":1.50,"big":18446744073709551615}`))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	out, err := b.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != `{"big":18446744073709551615,"n":1.50}` {
		t.Fatalf("got %s", out)
	}
}

func TestJSON_WithComments(t *testing.T) {
	src := []byte("{\n  // a comment\n  \"a\": 1,\n}")
	if _, err := JSON().Unmarshal(src); err == nil {
		t.Fatalf("plain JSON backend should reject comments")
	}
	v, err := JSON(WithComments()).Unmarshal(src)
	if err != nil {
		t.Fatalf("Unmarshal with comments: %v", err)
	}
	m, _ := AsMap(v)
	if n, ok := AsUint(m["a"]); !ok || n != 1 {
		t.Fatalf("got %v", m["a"])
	}
}

func TestJSON_WithIndent(t *testing.T) {
	m := NewMap(1)
	m.Set("a", "b")
	out, err := JSON(WithIndent("  ")).Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != "{\n  \"a\": \"b\"\n}" {
		t.Fatalf("got %q", out)
	}
}

func TestCrossBackendValues(t *testing.T) {
	// CBOR-only values become their JSON spelling.
	m := NewMap(3)
	m.Set("tagged", cbor.Tag{Number: TagBase64URL, Content: []byte("YWJjZA")})
	m.Set("raw", []byte("abcd"))
	m.Set("n", uint64(7))
	out, err := JSON().Marshal(m)
	if err != nil {
		t.Fatalf("json Marshal: %v", err)
	}
	if string(out) != `{"tagged":"YWJjZA","raw":"YWJjZA","n":7}` {
		t.Fatalf("got %s", out)
	}

	// JSON numbers become CBOR integers and floats.
	v := map[string]any{"i": json.Number("-3"), "f": json.Number("1.5")}
	data, err := CBOR().Marshal(v)
	if err != nil {
		t.Fatalf("cbor Marshal: %v", err)
	}
	back, err := CBOR().Unmarshal(data)
	if err != nil {
		t.Fatalf("cbor Unmarshal: %v", err)
	}
	bm, _ := AsMap(back)
	if bm["i"] != int64(-3) {
		t.Fatalf("i: got %#v", bm["i"])
	}
	if bm["f"] != 1.5 {
		t.Fatalf("f: got %#v", bm["f"])
	}
}

func TestMapSetReplacesInPlace(t *testing.T) {
	m := NewMap(0)
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("a", 3)
	if got := strings.Join(m.Keys(), ","); got != "a,b" {
		t.Fatalf("keys: %s", got)
	}
	if v, _ := m.Get("a"); v != 3 {
		t.Fatalf("a: %v", v)
	}

	other := NewMap(0)
	other.Set("b", 9)
	other.Set("c", 4)
	m.Merge(other)
	if got := strings.Join(m.Keys(), ","); got != "a,b,c" {
		t.Fatalf("merged keys: %s", got)
	}
	if v, _ := m.Get("b"); v != 2 {
		t.Fatalf("merge must not overwrite: %v", v)
	}
}

func TestAsUint(t *testing.T) {
	cases := []struct {
		in   any
		want uint64
		ok   bool
	}{
		{json.Number("3"), 3, true},
		{json.Number("3.0"), 3, true},
		{json.Number("-1"), 0, false},
		{json.Number("2.5"), 0, false},
		{uint64(9), 9, true},
		{int64(-9), 0, false},
		{"3", 0, false},
	}
	for _, c := range cases {
		got, ok := AsUint(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("AsUint(%#v) = %d, %v; want %d, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestLookup(t *testing.T) {
	for _, name := range Names {
		b, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%s): %v", name, err)
		}
		if b.Name() != name {
			t.Fatalf("Lookup(%s).Name() = %s", name, b.Name())
		}
	}
	if _, err := Lookup("xml"); err == nil {
		t.Fatalf("expected unknown backend error")
	}
}

func TestDiagnose(t *testing.T) {
	b := CBOR()
	out, err := b.Marshal(bodyFragment(b))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	notation, err := Diagnose(out)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(notation, "21(") {
		t.Fatalf("notation %q does not show tag 21", notation)
	}
}
