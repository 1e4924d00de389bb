package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dshills/meg/internal/config/loader"
)

// DefaultEnvPrefix is the prefix of environment variables read by Load.
const DefaultEnvPrefix = "MEG_"

// Config provides unified access to the meg configuration.
// It merges built-in defaults, a config file, environment variables and
// explicit overrides, in that order of increasing priority.
type Config struct {
	mu sync.RWMutex

	// Layers, lowest priority first
	defaults  map[string]any
	file      map[string]any
	env       map[string]any
	overrides map[string]any

	merged map[string]any

	fs        loader.FileSystem
	path      string
	pathSet   bool
	explicit  bool
	envPrefix string

	// configErrors stores errors encountered during configuration access.
	// This allows detection of type mismatches and other config problems.
	configErrors map[string]error
}

// Option configures a Config instance.
type Option func(*Config)

// WithConfigFile sets the config file path. A file named this way must
// exist when Load runs. An empty path disables the file layer.
func WithConfigFile(path string) Option {
	return func(c *Config) {
		c.path = path
		c.pathSet = true
		c.explicit = path != ""
	}
}

// WithEnvPrefix sets the environment variable prefix. An empty prefix
// disables the environment layer.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithFileSystem sets the file system config files are read from.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fsys
	}
}

// New creates a new Config instance holding the defaults.
func New(opts ...Option) *Config {
	c := &Config{
		defaults:  defaultConfig(),
		overrides: make(map[string]any),
		fs:        loader.DefaultFS(),
		envPrefix: DefaultEnvPrefix,
	}

	for _, opt := range opts {
		opt(c)
	}

	if !c.pathSet {
		c.path = DefaultConfigPath()
	}

	c.remerge()
	return c
}

// Load reads the config file and the environment. A missing default config
// file is not an error.
func (c *Config) Load(_ context.Context) error {
	file, err := c.loadFile()
	if err != nil {
		return err
	}

	var env map[string]any
	if c.envPrefix != "" {
		env, err = loader.NewEnvLoader(c.envPrefix).Load()
		if err != nil {
			return fmt.Errorf("loading environment: %w", err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.file = file
	c.env = env
	c.configErrors = nil
	c.remerge()
	return nil
}

// Path returns the config file path.
func (c *Config) Path() string {
	return c.path
}

func (c *Config) loadFile() (map[string]any, error) {
	if c.path == "" {
		return nil, nil
	}

	if c.explicit {
		if _, err := c.fs.Stat(c.path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrFileNotFound, c.path)
			}
			return nil, fmt.Errorf("reading config file %s: %w", c.path, err)
		}
	}

	return loader.ForPath(c.fs, c.path).Load()
}

// remerge rebuilds the merged view. Callers hold the write lock or own c
// exclusively.
func (c *Config) remerge() {
	merged := loader.Clone(c.defaults)
	for _, layer := range []map[string]any{c.file, c.env, c.overrides} {
		merged = loader.DeepMerge(merged, loader.Clone(layer))
	}
	c.merged = merged
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return getPath(c.merged, path)
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case uint64:
		return int(val), nil
	case float64:
		if val != float64(int(val)) {
			return 0, &TypeError{Path: path, Expected: "int", Actual: "float64"}
		}
		return int(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
	}
}

// GetBool returns a boolean value at the given path. The integers 0 and 1
// are accepted so MEG_ATOMIC_SAVE=1 works as expected.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	switch val := v.(type) {
	case bool:
		return val, nil
	case int64:
		if val == 0 || val == 1 {
			return val == 1, nil
		}
	case int:
		if val == 0 || val == 1 {
			return val == 1, nil
		}
	}
	return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
}

// Set sets a value at the given path in the override layer, which takes
// priority over every loaded source.
func (c *Config) Set(path string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A setting cannot hold both a value and nested settings.
	parts := splitPath(path)
	for i := 1; i < len(parts); i++ {
		if v, ok := getPath(c.merged, strings.Join(parts[:i], ".")); ok {
			if _, isMap := v.(map[string]any); !isMap {
				return ErrInvalidPath
			}
		}
	}

	if err := setPath(c.overrides, path, value); err != nil {
		return err
	}
	c.remerge()
	return nil
}

// DefaultConfigPath returns the default config file location, or "" when
// the user config directory cannot be determined.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "meg", "config.toml")
}

// defaultConfig returns the default configuration values.
func defaultConfig() map[string]any {
	return map[string]any{
		"editor": map[string]any{
			"initialCapacity": 1024,
			"maxCapacity":     0,
			"maxFileSize":     0,
			"atomicSave":      false,
			"tabWidth":        8,
		},
		"keys": map[string]any{
			"quit": "Ctrl+Q",
			"save": "Ctrl+S",
		},
		"ui": map[string]any{
			"statusForeground": "",
			"statusBackground": "",
			"saveMessage":      "Saved %d bytes to %s",
		},
		"logging": map[string]any{
			"level": "info",
			"file":  "",
		},
	}
}

// getPath retrieves a value from a nested map using a dot-separated path.
func getPath(m map[string]any, path string) (any, bool) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, false
	}

	current := any(m)
	for _, part := range parts {
		cm, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = cm[part]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// setPath sets a value in a nested map using a dot-separated path.
func setPath(m map[string]any, path string, value any) error {
	parts := splitPath(path)
	if len(parts) == 0 {
		return ErrInvalidPath
	}

	current := m
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part]
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		nextMap, ok := next.(map[string]any)
		if !ok {
			return ErrInvalidPath
		}
		current = nextMap
	}

	current[parts[len(parts)-1]] = value
	return nil
}

// splitPath splits a dot-separated path into parts, skipping empty ones.
func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, ".") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64, uint64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case []any:
		return "[]any"
	case map[string]any:
		return "map"
	default:
		return "unknown"
	}
}
