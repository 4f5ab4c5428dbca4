package vcon

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"xdao.co/vcon/wire"
)

var conformanceVectors = []string{"two_party_call", "external_recording", "email_thread"}

func readVector(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("..", "testdata", "conformance", "vcon", name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return b
}

func readVectorLine(t *testing.T, name string) string {
	t.Helper()
	s := strings.TrimSpace(string(readVector(t, name)))
	if s == "" {
		t.Fatalf("empty vector %s", name)
	}
	return s
}

func TestConformanceVectors_JSONCanonicalAndCID(t *testing.T) {
	c := NewCodec(wire.JSON())
	for _, name := range conformanceVectors {
		t.Run(name, func(t *testing.T) {
			in := readVector(t, name+".json")
			doc, err := c.Decode(in)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if err := Validate(doc); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			out, err := c.Encode(doc)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if !bytes.Equal(out, in) {
				t.Fatalf("re-encoded bytes differ\n got %s\nwant %s", out, in)
			}
			id, err := c.CID(doc)
			if err != nil {
				t.Fatalf("CID: %v", err)
			}
			if want := readVectorLine(t, name+".json.cid"); id.String() != want {
				t.Fatalf("CID %s want %s", id, want)
			}
		})
	}
}

func TestConformanceVectors_CBORBytesAndCID(t *testing.T) {
	js := NewCodec(wire.JSON())
	cb := NewCodec(wire.CBOR())
	for _, name := range conformanceVectors {
		t.Run(name, func(t *testing.T) {
			want, err := hex.DecodeString(readVectorLine(t, name+".cbor.hex"))
			if err != nil {
				t.Fatalf("bad hex vector: %v", err)
			}

			got, err := js.Transcode(readVector(t, name+".json"), cb)
			if err != nil {
				t.Fatalf("Transcode json->cbor: %v", err)
			}
			if !bytes.Equal(got, want) {
				t.Fatalf("cbor bytes differ\n got %x\nwant %x", got, want)
			}

			doc, err := cb.Decode(want)
			if err != nil {
				t.Fatalf("Decode cbor: %v", err)
			}
			again, err := cb.Encode(doc)
			if err != nil {
				t.Fatalf("Encode cbor: %v", err)
			}
			if !bytes.Equal(again, want) {
				t.Fatalf("cbor re-encode differs")
			}
			id, err := cb.CID(doc)
			if err != nil {
				t.Fatalf("CID: %v", err)
			}
			if wantCID := readVectorLine(t, name+".cbor.cid"); id.String() != wantCID {
				t.Fatalf("CID %s want %s", id, wantCID)
			}

			back, err := cb.Transcode(want, js)
			if err != nil {
				t.Fatalf("Transcode cbor->json: %v", err)
			}
			if !bytes.Equal(back, readVector(t, name+".json")) {
				t.Fatalf("cbor->json differs\n got %s", back)
			}
		})
	}
}

func TestConformanceVectors_DecodeEncodeDecodeStable(t *testing.T) {
	for _, b := range backends() {
		c := NewCodec(b)
		for _, name := range conformanceVectors {
			src, err := NewCodec(wire.JSON()).Transcode(readVector(t, name+".json"), c)
			if err != nil {
				t.Fatalf("%s/%s: Transcode: %v", b.Name(), name, err)
			}
			first, err := c.Decode(src)
			if err != nil {
				t.Fatalf("%s/%s: Decode: %v", b.Name(), name, err)
			}
			out, err := c.Encode(first)
			if err != nil {
				t.Fatalf("%s/%s: Encode: %v", b.Name(), name, err)
			}
			second, err := c.Decode(out)
			if err != nil {
				t.Fatalf("%s/%s: Decode again: %v", b.Name(), name, err)
			}
			if !reflect.DeepEqual(first, second) {
				t.Fatalf("%s/%s: decode(encode(x)) != x", b.Name(), name)
			}
		}
	}
}

func TestConformanceVectors_Shape(t *testing.T) {
	doc, err := NewCodec(wire.JSON()).Decode(readVector(t, "external_recording.json"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if doc.Redacted == nil || !doc.Redacted.IsEmpty() {
		t.Fatalf("expected empty redacted link, got %+v", doc.Redacted)
	}
	if len(doc.Group) != 1 || doc.Group[0].UUID.IsZero() || doc.Group[0].Content != nil {
		t.Fatalf("unexpected group %+v", doc.Group)
	}
	if doc.Parties[0].CivicAddress == nil || doc.Parties[0].CivicAddress.PC != "94105" {
		t.Fatalf("civic address not decoded: %+v", doc.Parties[0])
	}
	md, ok := doc.Dialog[0].Detail.(*MediaDialog)
	if !ok || md.Kind != DialogRecording || !md.Parties.Scalar {
		t.Fatalf("unexpected dialog %+v", doc.Dialog[0].Detail)
	}
	ref, ok := md.Content.(Reference)
	if !ok || ref.Signature.Alg() != SHA512 {
		t.Fatalf("expected SHA-512 reference, got %#v", md.Content)
	}
	if !ref.Verify([]byte("recording-6b1c3b52")) {
		t.Fatalf("reference digest does not verify")
	}
	if _, ok := doc.Attachments[0].Extensions["x-labels"]; !ok {
		t.Fatalf("attachment extension lost")
	}
	if doc.Analysis[0].Content.(Reference).Signature.Alg() != SHA384 {
		t.Fatalf("expected SHA-384 analysis reference")
	}

	thread, err := NewCodec(wire.JSON()).Decode(readVector(t, "email_thread.json"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	td, ok := thread.Dialog[3].Detail.(*TransferDialog)
	if !ok || td.Consultation == nil || *td.Consultation != 2 || td.TargetDialog != 1 {
		t.Fatalf("unexpected transfer %+v", thread.Dialog[3].Detail)
	}
	if thread.Dialog[3].Campaign != "renewals-2024" {
		t.Fatalf("campaign lost")
	}
	if inc, ok := thread.Dialog[2].Detail.(*IncompleteDialog); !ok || inc.Disposition != "no-answer" {
		t.Fatalf("unexpected incomplete dialog %+v", thread.Dialog[2].Detail)
	}
	if thread.Amended == nil || thread.Amended.Type != "amended" {
		t.Fatalf("amended link lost")
	}
	if got := thread.Extensions.Keys(); !reflect.DeepEqual(got, []string{"x-crm", "x-thread-id"}) {
		t.Fatalf("extensions %v", got)
	}
}
