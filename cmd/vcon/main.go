package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"xdao.co/vcon/cidutil"
	"xdao.co/vcon/config"
	"xdao.co/vcon/vcon"
	"xdao.co/vcon/wire"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "validate":
		return cmdValidate(args[1:], out, errOut)
	case "convert":
		return cmdConvert(args[1:], out, errOut)
	case "cid":
		return cmdCID(args[1:], out, errOut)
	case "digest":
		return cmdDigest(args[1:], out, errOut)
	case "sniff":
		return cmdSniff(args[1:], out, errOut)
	case "diag":
		return cmdDiag(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "vcon: vCon conversation container tool")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  vcon validate [--all] [common flags] <file>")
	fmt.Fprintln(w, "  vcon convert --to json|cbor [--out <file>] [common flags] <file>")
	fmt.Fprintln(w, "  vcon cid [--raw] [common flags] <file>")
	fmt.Fprintln(w, "  vcon digest [--alg SHA-256|SHA-384|SHA-512] <file>")
	fmt.Fprintln(w, "  vcon sniff <file>")
	fmt.Fprintln(w, "  vcon diag <file.cbor>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Common flags:")
	fmt.Fprintln(w, "  --config <file>       YAML config (default $"+config.EnvVar+")")
	fmt.Fprintln(w, "  --backend json|cbor   input wire format (overrides config)")
	fmt.Fprintln(w, "  --mode permissive|strict")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - cid prints the CIDv1 (raw, sha2-256) of the re-encoded document; --raw hashes the file as is")
	fmt.Fprintln(w, "  - digest prints the alg, signature and CID a content reference would carry for the file")
	fmt.Fprintln(w, "  - convert writes the document bytes to stdout unless --out is given (no trailing newline)")
}

// commonFlags are the flags shared by the document subcommands.
type commonFlags struct {
	configPath string
	backend    string
	mode       string
}

func (c *commonFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "YAML config file")
	fs.StringVar(&c.backend, "backend", "", "input backend: json or cbor")
	fs.StringVar(&c.mode, "mode", "", "compliance mode: permissive or strict")
}

// load reads the config and applies flag overrides.
func (c *commonFlags) load() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	if c.backend != "" {
		cfg.Backend = c.backend
		if strings.EqualFold(c.backend, wire.NameCBOR) {
			cfg.AllowComments = false
		}
	}
	if c.mode != "" {
		cfg.Mode = c.mode
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config, errOut io.Writer) *slog.Logger {
	lvl, err := cfg.SlogLevel()
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: lvl}))
}

func newFlagSet(name string, errOut io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(errOut)
	return fs
}

// errorAttrs renders a codec error for the log.
func errorAttrs(err error) []any {
	attrs := []any{"error", err}
	if id := vcon.RuleID(err); id != "" {
		attrs = append(attrs, "rule", id)
	}
	if p := vcon.ErrorPath(err); p != "" {
		attrs = append(attrs, "path", p)
	}
	return attrs
}

// openDocument loads the config, reads path and decodes it.
func openDocument(flags *commonFlags, path string, errOut io.Writer) (*vcon.Vcon, config.Config, *slog.Logger, int) {
	cfg, err := flags.load()
	if err != nil {
		fmt.Fprintf(errOut, "config: %v\n", err)
		return nil, cfg, nil, 2
	}
	logger := newLogger(cfg, errOut)
	codec, err := cfg.Codec()
	if err != nil {
		fmt.Fprintf(errOut, "config: %v\n", err)
		return nil, cfg, logger, 2
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(errOut, "read vcon: %v\n", err)
		return nil, cfg, logger, 1
	}
	doc, err := codec.Decode(data)
	if err != nil {
		logger.Error("decode failed", append([]any{"file", path, "backend", codec.Backend().Name()}, errorAttrs(err)...)...)
		return nil, cfg, logger, 1
	}
	logger.Debug("decoded document", "file", path, "backend", codec.Backend().Name(), "mode", codec.Mode(), "uuid", doc.UUID, "bytes", len(data))
	return doc, cfg, logger, 0
}

func cmdValidate(args []string, out io.Writer, errOut io.Writer) int {
	fs := newFlagSet("validate", errOut)
	var flags commonFlags
	flags.register(fs)
	all := fs.Bool("all", false, "report every rule violation instead of the first")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: vcon validate [--all] <file>")
		return 2
	}
	doc, _, logger, code := openDocument(&flags, fs.Arg(0), errOut)
	if code != 0 {
		return code
	}

	var errs []error
	if *all {
		errs = vcon.ValidateAll(doc)
	} else if err := vcon.Validate(doc); err != nil {
		errs = []error{err}
	}
	for _, err := range errs {
		logger.Error("validation failed", append([]any{"file", fs.Arg(0)}, errorAttrs(err)...)...)
	}
	if len(errs) > 0 {
		return 1
	}
	_, _ = fmt.Fprintf(out, "ok %s\n", doc.UUID)
	return 0
}

func cmdConvert(args []string, out io.Writer, errOut io.Writer) int {
	fs := newFlagSet("convert", errOut)
	var flags commonFlags
	flags.register(fs)
	to := fs.String("to", "", "output backend: json or cbor")
	outPath := fs.String("out", "", "write output to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 || *to == "" {
		fmt.Fprintln(errOut, "usage: vcon convert --to json|cbor [--out <file>] <file>")
		return 2
	}
	doc, cfg, logger, code := openDocument(&flags, fs.Arg(0), errOut)
	if code != 0 {
		return code
	}
	target, err := cfg.CodecFor(*to)
	if err != nil {
		fmt.Fprintf(errOut, "--to: %v\n", err)
		return 2
	}
	b, err := target.Encode(doc)
	if err != nil {
		logger.Error("encode failed", append([]any{"backend", target.Backend().Name()}, errorAttrs(err)...)...)
		return 1
	}
	if *outPath == "" {
		_, _ = out.Write(b)
		return 0
	}
	if err := os.WriteFile(*outPath, b, 0o644); err != nil {
		fmt.Fprintf(errOut, "write --out: %v\n", err)
		return 1
	}
	logger.Info("converted", "file", fs.Arg(0), "out", *outPath, "backend", target.Backend().Name(), "bytes", len(b))
	return 0
}

func cmdCID(args []string, out io.Writer, errOut io.Writer) int {
	fs := newFlagSet("cid", errOut)
	var flags commonFlags
	flags.register(fs)
	raw := fs.Bool("raw", false, "hash the file bytes without decoding")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: vcon cid [--raw] <file>")
		return 2
	}
	if *raw {
		b, err := os.ReadFile(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(errOut, "read file: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintln(out, cidutil.CIDv1RawSHA256(b))
		return 0
	}
	doc, cfg, logger, code := openDocument(&flags, fs.Arg(0), errOut)
	if code != 0 {
		return code
	}
	canonical := cfg
	canonical.Indent = ""
	codec, err := canonical.CodecFor(cfg.Backend)
	if err != nil {
		fmt.Fprintf(errOut, "config: %v\n", err)
		return 2
	}
	id, err := codec.CID(doc)
	if err != nil {
		logger.Error("cid failed", errorAttrs(err)...)
		return 1
	}
	_, _ = fmt.Fprintln(out, id)
	return 0
}

func cmdDigest(args []string, out io.Writer, errOut io.Writer) int {
	fs := newFlagSet("digest", errOut)
	algLabel := fs.String("alg", string(vcon.SHA512), "digest algorithm")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: vcon digest [--alg SHA-512] <file>")
		return 2
	}
	alg, err := vcon.ParseHashAlg(*algLabel)
	if err != nil {
		fmt.Fprintf(errOut, "--alg: %v\n", err)
		return 2
	}
	b, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read file: %v\n", err)
		return 1
	}
	sig, err := vcon.DigestOf(alg, b)
	if err != nil {
		fmt.Fprintf(errOut, "digest: %v\n", err)
		return 1
	}
	id, err := vcon.Reference{Signature: sig}.CID()
	if err != nil {
		fmt.Fprintf(errOut, "cid: %v\n", err)
		return 1
	}
	label, text := vcon.EncodeSignature(sig)
	_, _ = fmt.Fprintf(out, "alg: %s\nsignature: %s\ncid: %s\n", label, text, id)
	return 0
}

func cmdSniff(args []string, out io.Writer, errOut io.Writer) int {
	fs := newFlagSet("sniff", errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: vcon sniff <file>")
		return 2
	}
	b, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read file: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, vcon.SniffMediaType(b))
	return 0
}

func cmdDiag(args []string, out io.Writer, errOut io.Writer) int {
	fs := newFlagSet("diag", errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: vcon diag <file.cbor>")
		return 2
	}
	b, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read file: %v\n", err)
		return 1
	}
	text, err := wire.Diagnose(b)
	if err != nil {
		fmt.Fprintf(errOut, "invalid cbor: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, text)
	return 0
}
