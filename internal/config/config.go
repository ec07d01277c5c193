package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/retrace/internal/logging"
)

// Config holds all retrace settings.
type Config struct {
	History HistoryConfig `mapstructure:"history"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// HistoryConfig controls how edits are recorded.
type HistoryConfig struct {
	// Debounce is the quiet period after which input is committed.
	Debounce time.Duration `mapstructure:"debounce"`

	// UndoFloor is the position undo must stay above.
	UndoFloor int `mapstructure:"undo_floor"`

	// MaxDepth caps the number of recorded commands; 0 means unlimited.
	MaxDepth int `mapstructure:"max_depth"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	// Addr is the listen address for /metrics; empty disables it.
	Addr string `mapstructure:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		History: HistoryConfig{
			Debounce:  time.Second,
			UndoFloor: 1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// defaultMap returns the defaults as the bottom configuration layer.
func defaultMap() map[string]any {
	d := Default()
	return map[string]any{
		"history": map[string]any{
			"debounce":   d.History.Debounce,
			"undo_floor": d.History.UndoFloor,
			"max_depth":  d.History.MaxDepth,
		},
		"logging": map[string]any{
			"level": d.Logging.Level,
		},
		"metrics": map[string]any{
			"addr": d.Metrics.Addr,
		},
	}
}

// Validate checks that settings are in range.
func (c Config) Validate() error {
	var errs []error
	if c.History.Debounce < 0 {
		errs = append(errs, &ValidationError{Path: "history.debounce", Message: "must not be negative"})
	}
	if c.History.UndoFloor < 0 {
		errs = append(errs, &ValidationError{Path: "history.undo_floor", Message: "must not be negative"})
	}
	if c.History.MaxDepth < 0 {
		errs = append(errs, &ValidationError{Path: "history.max_depth", Message: "must not be negative"})
	}
	if !logging.ValidLevel(c.Logging.Level) {
		errs = append(errs, &ValidationError{
			Path:    "logging.level",
			Message: fmt.Sprintf("%q is not one of debug, info, warn, error", c.Logging.Level),
		})
	}
	return errors.Join(errs...)
}

// Load resolves the configuration from defaults, the file at path (skipped
// when path is empty or the file does not exist) and the environment.
func Load(path string) (Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (Config, error) {
	merged := defaultMap()

	if path != "" {
		file, err := ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		merged = DeepMerge(merged, file)
	}

	merged = DeepMerge(merged, envLayer(lookup))

	cfg, err := decode(merged)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ReadFile parses a configuration file into a map. A missing file yields
// nil, nil.
func ReadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // File doesn't exist, not an error
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes data according to the extension of path.
func Parse(path string, data []byte) (map[string]any, error) {
	result := make(map[string]any)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &result); err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
	case ".toml":
		if err := toml.Unmarshal(data, &result); err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return result, nil
}

func decode(data map[string]any) (Config, error) {
	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(data); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}
