package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds all configurable dfscan settings.
type Config struct {
	APIBaseURL    string `json:"api_base_url"`   // backend base address
	DefaultFormat string `json:"default_format"` // "text" | "markdown" | "json"
	WatchDir      string `json:"watch_dir"`      // default drop folder for watch mode
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		APIBaseURL:    "http://127.0.0.1:8000",
		DefaultFormat: "text",
	}
}

// LoadGlobal reads ~/.config/dfscan/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "dfscan", "config.json")
	return loadFile(path, true)
}

// LoadProject reads .dfscanconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".dfscanconfig", false)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// FromEnv returns overrides taken from the environment (typically populated
// from a .env file). Nil when nothing relevant is set.
func FromEnv() *Config {
	cfg := Config{
		APIBaseURL:    os.Getenv("DFSCAN_API_BASE"),
		DefaultFormat: os.Getenv("DFSCAN_FORMAT"),
		WatchDir:      os.Getenv("DFSCAN_WATCH_DIR"),
	}
	if cfg == (Config{}) {
		return nil
	}
	return &cfg
}

// Merge combines configs in increasing precedence order, with later non-empty
// values winning. Missing keys fall back to earlier layers, then defaults.
func Merge(layers ...*Config) Config {
	result := Defaults()
	for _, layer := range layers {
		if layer == nil {
			continue
		}
		if layer.APIBaseURL != "" {
			result.APIBaseURL = layer.APIBaseURL
		}
		if layer.DefaultFormat != "" {
			result.DefaultFormat = layer.DefaultFormat
		}
		if layer.WatchDir != "" {
			result.WatchDir = layer.WatchDir
		}
	}
	return result
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
