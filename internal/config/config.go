package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/textcore/internal/engine/buffer"
)

// Environment variables that override file settings.
const (
	EnvLogLevel  = "TEXTCORE_LOG_LEVEL"
	EnvLogFormat = "TEXTCORE_LOG_FORMAT"
	EnvMaxUndo   = "TEXTCORE_MAX_UNDO"
)

// Config is the complete textcore configuration.
type Config struct {
	Editor   EditorConfig   `toml:"editor"`
	Log      LogConfig      `toml:"log"`
	Autosave AutosaveConfig `toml:"autosave"`
	Script   ScriptConfig   `toml:"script"`
}

// EditorConfig controls the document core.
type EditorConfig struct {
	// MaxUndoEntries bounds the undo history. 0 means unbounded.
	MaxUndoEntries int `toml:"max_undo_entries"`

	// IndexStrategy is "incremental" or "rebuild".
	IndexStrategy string `toml:"index_strategy"`

	// ReadOnly opens documents read-only.
	ReadOnly bool `toml:"read_only"`
}

// LogConfig controls process logging.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `toml:"level"`

	// Format is "text" or "json".
	Format string `toml:"format"`

	// File is the log destination. Empty means stderr.
	File string `toml:"file"`
}

// AutosaveConfig controls periodic saving while a document is open.
type AutosaveConfig struct {
	Enabled  bool     `toml:"enabled"`
	Interval Duration `toml:"interval"`

	// Suffix is appended to the document path to name the autosave file.
	Suffix string `toml:"suffix"`
}

// ScriptConfig controls Lua edit scripts.
type ScriptConfig struct {
	// Timeout bounds how long a script may run. 0 means no limit.
	Timeout Duration `toml:"timeout"`
}

// Duration is a time.Duration written as a string such as "30s".
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration as a string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			MaxUndoEntries: 0,
			IndexStrategy:  buffer.IndexIncremental.String(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Autosave: AutosaveConfig{
			Interval: Duration(30 * time.Second),
			Suffix:   ".autosave",
		},
		Script: ScriptConfig{
			Timeout: Duration(5 * time.Second),
		},
	}
}

// DefaultPath returns the user config file path, or "" if the user config
// directory is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "textcore", "config.toml")
}

// Load reads the config file at path over the defaults, applies
// environment overrides and validates the result. A missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// File doesn't exist, not an error
		case err != nil:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := cfg.decode(path, data); err != nil {
				return nil, err
			}
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML data over the defaults and validates the result.
// Environment variables are not consulted.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode("<data>", data); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(source string, data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(c); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}

		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			perr.Message = "unknown setting: " + strings.TrimSpace(serr.String())
			if len(serr.Errors) > 0 {
				perr.Line, perr.Column = serr.Errors[0].Position()
			}
		}
		return perr
	}
	return nil
}

// ApplyEnv overrides settings from environment variables, read through
// lookup (os.LookupEnv in production).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.Log.Format = strings.ToLower(v)
	}
	if v, ok := lookup(EnvMaxUndo); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ValidationError{Path: EnvMaxUndo, Message: "must be an integer", Value: v}
		}
		c.Editor.MaxUndoEntries = n
	}
	return nil
}

// Validate checks every setting and returns all failures joined.
func (c *Config) Validate() error {
	var errs []error

	if c.Editor.MaxUndoEntries < 0 {
		errs = append(errs, &ValidationError{Path: "editor.max_undo_entries", Message: "must be >= 0", Value: c.Editor.MaxUndoEntries})
	}
	if _, ok := buffer.ParseIndexStrategy(c.Editor.IndexStrategy); !ok {
		errs = append(errs, &ValidationError{Path: "editor.index_strategy", Message: `must be "incremental" or "rebuild"`, Value: c.Editor.IndexStrategy})
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, &ValidationError{Path: "log.level", Message: "must be debug, info, warn or error", Value: c.Log.Level})
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, &ValidationError{Path: "log.format", Message: `must be "text" or "json"`, Value: c.Log.Format})
	}

	if c.Autosave.Enabled && c.Autosave.Interval.Std() <= 0 {
		errs = append(errs, &ValidationError{Path: "autosave.interval", Message: "must be positive", Value: c.Autosave.Interval.Std()})
	}
	if c.Autosave.Enabled && c.Autosave.Suffix == "" {
		errs = append(errs, &ValidationError{Path: "autosave.suffix", Message: "must not be empty", Value: c.Autosave.Suffix})
	}

	if c.Script.Timeout < 0 {
		errs = append(errs, &ValidationError{Path: "script.timeout", Message: "must be >= 0", Value: c.Script.Timeout.Std()})
	}

	return errors.Join(errs...)
}

// IndexStrategy returns the configured buffer index strategy.
func (c *Config) IndexStrategy() buffer.IndexStrategy {
	s, _ := buffer.ParseIndexStrategy(c.Editor.IndexStrategy)
	return s
}

// Marshal encodes the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
