// Package config loads redpen.toml.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"redpen/internal/tokenizer"
)

// FileName is the conventional configuration file name.
const FileName = "redpen.toml"

var (
	// ErrUnknownKey indicates keys in the file that no section declares.
	ErrUnknownKey = errors.New("unknown configuration key")
	// ErrInvalidValue indicates a key with a value outside its allowed set.
	ErrInvalidValue = errors.New("invalid configuration value")
)

// Tokenizer is the [tokenizer] section.
type Tokenizer struct {
	Validation string `toml:"validation"`
	Normalize  string `toml:"normalize"`
}

// Output is the [output] section.
type Output struct {
	Format string `toml:"format"`
	Color  string `toml:"color"`
}

// Cache is the [cache] section.
type Cache struct {
	Dir string `toml:"dir"`
}

// Log is the [log] section.
type Log struct {
	Level string `toml:"level"`
}

// Config is the decoded redpen.toml.
type Config struct {
	Tokenizer Tokenizer `toml:"tokenizer"`
	Output    Output    `toml:"output"`
	Cache     Cache     `toml:"cache"`
	Log       Log       `toml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Tokenizer: Tokenizer{Validation: "lenient", Normalize: "none"},
		Output:    Output{Format: "pretty", Color: "auto"},
		Log:       Log{Level: "info"},
	}
}

// Load parses path on top of Default. Sections or keys missing from the file
// keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: %w: %s", path, ErrUnknownKey, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Find walks up from dir looking for redpen.toml. It returns "" and no error
// when none exists.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, FileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Validate checks every enumerated value.
func (c Config) Validate() error {
	if _, err := tokenizer.ParsePolicy(c.Tokenizer.Validation); err != nil {
		return fmt.Errorf("tokenizer.validation: %w", err)
	}
	if _, err := tokenizer.ParseNormalization(c.Tokenizer.Normalize); err != nil {
		return fmt.Errorf("tokenizer.normalize: %w", err)
	}
	switch c.Output.Format {
	case "pretty", "json":
	default:
		return fmt.Errorf("output.format: %w: %q", ErrInvalidValue, c.Output.Format)
	}
	switch c.Output.Color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("output.color: %w: %q", ErrInvalidValue, c.Output.Color)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// LogLevel returns the slog level for [log].level, falling back to info.
func (c Config) LogLevel() slog.Level {
	lvl, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Factory builds a tokenizer factory from the [tokenizer] section.
func (c Config) Factory(log *slog.Logger) (*tokenizer.Factory, error) {
	policy, err := tokenizer.ParsePolicy(c.Tokenizer.Validation)
	if err != nil {
		return nil, err
	}
	normalization, err := tokenizer.ParseNormalization(c.Tokenizer.Normalize)
	if err != nil {
		return nil, err
	}
	return tokenizer.NewFactory(tokenizer.FactoryOptions{
		Policy:        policy,
		Normalization: normalization,
		Logger:        log,
	}), nil
}

// CacheDir resolves [cache].dir. An empty value means $XDG_CACHE_HOME/redpen,
// or ~/.cache/redpen when XDG_CACHE_HOME is unset.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "redpen"), nil
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidValue, s)
	}
	return lvl, nil
}
