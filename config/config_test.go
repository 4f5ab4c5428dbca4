package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"xdao.co/vcon/compliance"
	"xdao.co/vcon/wire"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vcon.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, "backend: cbor\nmode: Strict\nlog_level: debug\n")
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Backend != "cbor" || cfg.Mode != "Strict" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	mode, err := cfg.ComplianceMode()
	if err != nil || mode != compliance.Strict {
		t.Fatalf("mode=%v err=%v", mode, err)
	}
	lvl, err := cfg.SlogLevel()
	if err != nil || lvl != slog.LevelDebug {
		t.Fatalf("level=%v err=%v", lvl, err)
	}
	codec, err := cfg.Codec()
	if err != nil {
		t.Fatalf("Codec: %v", err)
	}
	if codec.Backend().Name() != wire.NameCBOR || codec.Mode() != compliance.Strict {
		t.Fatalf("codec backend=%s mode=%v", codec.Backend().Name(), codec.Mode())
	}
}

func TestLoadFile_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("got %+v, want %+v", cfg, Default())
	}
}

func TestLoadFile_Errors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "backend: json\nformat: xml\n", "field format not found"},
		{"bad backend", "backend: xml\n", "unknown backend"},
		{"bad mode", "mode: lenient\n", "unknown mode"},
		{"bad indent", "indent: \"--\"\n", "indent"},
		{"comments on cbor", "backend: cbor\nallow_comments: true\n", "allow_comments"},
		{"bad level", "log_level: loud\n", "log_level"},
		{"not yaml", "backend: [json\n", "config: parse"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tc.body))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadFile_EmptyPath(t *testing.T) {
	if _, err := LoadFile(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoad_Env(t *testing.T) {
	path := writeConfig(t, "mode: strict\n")
	t.Setenv(EnvVar, path)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != "strict" {
		t.Fatalf("env config not loaded: %+v", cfg)
	}

	t.Setenv(EnvVar, "")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("got %+v, want defaults", cfg)
	}
}

func TestCodecFor_DropsComments(t *testing.T) {
	cfg := Default()
	cfg.AllowComments = true
	cfg.Indent = "  "
	in, err := cfg.Codec()
	if err != nil {
		t.Fatalf("Codec: %v", err)
	}
	if _, err := in.Backend().Unmarshal([]byte("{/* c */ \"a\": 1}")); err != nil {
		t.Fatalf("input codec should accept comments: %v", err)
	}
	out, err := cfg.CodecFor(wire.NameJSON)
	if err != nil {
		t.Fatalf("CodecFor: %v", err)
	}
	if _, err := out.Backend().Unmarshal([]byte("{/* c */ \"a\": 1}")); err == nil {
		t.Fatalf("output codec should not strip comments")
	}
	if _, err := cfg.CodecFor(wire.NameCBOR); err != nil {
		t.Fatalf("CodecFor cbor: %v", err)
	}
}
