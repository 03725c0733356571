package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/qgrepcode/qgrepcode"
	"github.com/qgrepcode/qgrepcode/lines"
	"github.com/qgrepcode/qgrepcode/logging"
	"github.com/qgrepcode/qgrepcode/regexp"
)

const (
	// EnvPath names a config file.
	EnvPath = "QGREPCODE_CONFIG"
	// EnvTOML holds the config file content itself.
	EnvTOML = "QGREPCODE_CONFIG_TOML"
	// FileName is looked up in the working directory.
	FileName = ".qgrepcode.toml"
)

// MalformedPolicy decides what happens to a line that does not parse.
type MalformedPolicy string

const (
	MalformedSkip  MalformedPolicy = "skip"
	MalformedWarn  MalformedPolicy = "warn"
	MalformedAbort MalformedPolicy = "abort"
)

func (p *MalformedPolicy) UnmarshalText(text []byte) error {
	switch v := MalformedPolicy(strings.ToLower(string(text))); v {
	case MalformedSkip, MalformedWarn, MalformedAbort:
		*p = v
		return nil
	}
	return fmt.Errorf("unknown malformed line policy %q", text)
}

// Config holds everything that can be set from a .qgrepcode.toml file.
type Config struct {
	// Encoding of the tool output, a WHATWG label.
	Encoding  string                  `toml:"encoding"`
	EndColumn qgrepcode.EndColumnMode `toml:"end_column"`
	// MaxResults caps the number of reported records. Zero means no limit.
	MaxResults  int             `toml:"max_results"`
	OnMalformed MalformedPolicy `toml:"on_malformed"`
	Engine      string          `toml:"engine"`
	// Concurrency is the number of inputs processed at once.
	Concurrency int    `toml:"concurrency"`
	Report      Report `toml:"report"`
	Query       Query  `toml:"query"`
}

type Report struct {
	Format       string `toml:"format"`
	PreviewWidth int    `toml:"preview_width"`
	NoColor      bool   `toml:"no_color"`
}

type Query struct {
	// Project is the search tool project passed to `search`.
	Project string `toml:"project"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Encoding:    lines.DefaultEncoding,
		EndColumn:   qgrepcode.EndColumnDecrement,
		OnMalformed: MalformedWarn,
		Engine:      regexp.ECMAScript,
		Concurrency: 4,
		Report: Report{
			Format:       "text",
			PreviewWidth: 120,
		},
	}
}

// Parse reads TOML content on top of the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), toml.Parser()); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()
	err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "toml",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.TextUnmarshallerHookFunc(),
			ErrorUnused:      true,
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	})
	if err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile parses the config file at path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Load resolves the config in order of precedence: path, the file named by
// QGREPCODE_CONFIG, the content of QGREPCODE_CONFIG_TOML, .qgrepcode.toml in
// dir, and finally the defaults. It returns a description of the source.
func Load(path, dir string) (Config, string, error) {
	if path != "" {
		logging.Debug().Msgf("using config %s from `--config`", path)
		cfg, err := LoadFile(path)
		return cfg, path, err
	}
	if envPath := os.Getenv(EnvPath); envPath != "" {
		logging.Debug().Msgf("using config from %s env var: %s", EnvPath, envPath)
		cfg, err := LoadFile(envPath)
		return cfg, envPath, err
	}
	if content := os.Getenv(EnvTOML); content != "" {
		logging.Debug().Str("content", content).Msgf("using config from %s env var content", EnvTOML)
		cfg, err := Parse([]byte(content))
		return cfg, EnvTOML, err
	}

	local := filepath.Join(dir, FileName)
	cfg, err := LoadFile(local)
	if errors.Is(err, os.ErrNotExist) {
		logging.Debug().Msgf("no config found at %s, using defaults", local)
		return Default(), "default", nil
	}
	return cfg, local, err
}
