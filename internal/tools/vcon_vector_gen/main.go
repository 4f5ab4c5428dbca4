package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/pflag"

	"xdao.co/vcon/cidutil"
	"xdao.co/vcon/vcon"
	"xdao.co/vcon/wire"
)

// vector_gen re-derives the conformance vectors for every JSON fixture:
// the canonical JSON CID, the CBOR bytes (hex) and the CBOR CID.
// With --write the .json.cid, .cbor.hex and .cbor.cid files are rewritten.
func main() {
	dir := pflag.String("dir", "testdata/conformance/vcon", "fixture directory")
	write := pflag.Bool("write", false, "rewrite the vector files next to each fixture")
	pflag.Parse()

	paths, err := filepath.Glob(filepath.Join(*dir, "*.json"))
	if err != nil {
		panic(err)
	}
	sort.Strings(paths)

	jsonCodec := vcon.NewCodec(wire.JSON())
	cborCodec := vcon.NewCodec(wire.CBOR())
	for _, path := range paths {
		in, err := os.ReadFile(path)
		if err != nil {
			panic(err)
		}
		doc, err := jsonCodec.Decode(in)
		if err != nil {
			panic(fmt.Errorf("%s: %w", path, err))
		}
		canonical, err := jsonCodec.Encode(doc)
		if err != nil {
			panic(err)
		}
		if string(canonical) != strings.TrimSpace(string(in)) {
			fmt.Fprintf(os.Stderr, "warning: %s is not in canonical form\n", path)
		}
		cborBytes, err := cborCodec.Encode(doc)
		if err != nil {
			panic(err)
		}

		base := strings.TrimSuffix(path, ".json")
		vectors := map[string]string{
			".json.cid": cidutil.CIDv1RawSHA256(canonical),
			".cbor.hex": hex.EncodeToString(cborBytes),
			".cbor.cid": cidutil.CIDv1RawSHA256(cborBytes),
		}
		fmt.Printf("%s\n", filepath.Base(base))
		for _, ext := range []string{".json.cid", ".cbor.hex", ".cbor.cid"} {
			fmt.Printf("  %s=%s\n", strings.TrimPrefix(ext, "."), vectors[ext])
			if *write {
				if err := os.WriteFile(base+ext, []byte(vectors[ext]+"\n"), 0o644); err != nil {
					panic(err)
				}
			}
		}
	}
}
