package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"xdao.co/vcon/compliance"
	"xdao.co/vcon/vcon"
	"xdao.co/vcon/wire"
)

// EnvVar names the environment variable consulted when no --config flag is
// given.
const EnvVar = "VCON_CONFIG"

// Config selects how the vcon command reads and writes documents.
//
// Example:
//
//	backend: cbor
//	mode: strict
//	allow_comments: true
//	indent: "  "
//	log_level: debug
//
// Every field is optional; Default fills the gaps.
type Config struct {
	// Backend is the wire format of input documents: "json" or "cbor".
	Backend string `yaml:"backend"`
	// Mode is the compliance mode: "permissive" or "strict".
	Mode string `yaml:"mode"`
	// AllowComments strips // and /* */ comments from JSON input.
	AllowComments bool `yaml:"allow_comments"`
	// Indent pretty-prints JSON output with this per-level prefix.
	Indent   string `yaml:"indent"`
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is named.
func Default() Config {
	return Config{
		Backend:  wire.NameJSON,
		Mode:     compliance.Permissive.String(),
		LogLevel: "info",
	}
}

// Load reads the file at path, or the file named by VCON_CONFIG when path is
// empty. With neither set it returns Default().
func Load(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a YAML config. Unknown keys are rejected.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, errors.New("config: empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if _, err := c.wireBackend(); err != nil {
		return err
	}
	if _, err := c.ComplianceMode(); err != nil {
		return err
	}
	if strings.Trim(c.Indent, " \t") != "" {
		return fmt.Errorf("config: indent must be spaces or tabs, got %q", c.Indent)
	}
	if c.AllowComments && strings.EqualFold(c.Backend, wire.NameCBOR) {
		return errors.New("config: allow_comments requires the json backend")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

func (c Config) wireBackend() (wire.Backend, error) {
	var opts []wire.JSONOption
	if c.AllowComments {
		opts = append(opts, wire.WithComments())
	}
	if c.Indent != "" {
		opts = append(opts, wire.WithIndent(c.Indent))
	}
	name := c.Backend
	if name == "" {
		name = wire.NameJSON
	}
	b, err := wire.Lookup(name, opts...)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return b, nil
}

// ComplianceMode parses Mode.
func (c Config) ComplianceMode() (compliance.ComplianceMode, error) {
	m, err := compliance.Parse(c.Mode)
	if err != nil {
		return m, fmt.Errorf("config: %w", err)
	}
	return m, nil
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error"). Empty means
// info.
func (c Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: invalid log_level %q", c.LogLevel)
	}
	return lvl, nil
}

// Codec builds the codec the config describes.
func (c Config) Codec() (*vcon.Codec, error) {
	b, err := c.wireBackend()
	if err != nil {
		return nil, err
	}
	mode, err := c.ComplianceMode()
	if err != nil {
		return nil, err
	}
	return vcon.NewCodec(b, vcon.WithMode(mode)), nil
}

// CodecFor builds a codec for backend name with the config's mode and
// output indent. Comment stripping stays with the configured input backend.
func (c Config) CodecFor(name string) (*vcon.Codec, error) {
	out := c
	out.Backend = name
	out.AllowComments = false
	return out.Codec()
}
