package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/meg/internal/input/key"
)

// Section accessor methods return snapshot structs. Mutating the returned
// struct does not modify the underlying configuration. Use Config.Set()
// to update configuration values.

// EditorConfig provides type-safe access to editor settings.
type EditorConfig struct {
	// InitialCapacity is the capacity of a buffer started without content.
	InitialCapacity int

	// MaxCapacity caps buffer growth in bytes. Zero means unlimited.
	MaxCapacity int

	// MaxFileSize is the largest file, in bytes, that is loaded. Larger
	// files open as an empty buffer. Zero means unlimited.
	MaxFileSize int

	// AtomicSave writes a temporary file and renames it over the target.
	AtomicSave bool

	// TabWidth is the tab stop interval used when echoing tabs.
	TabWidth int
}

// KeysConfig holds the key bindings.
type KeysConfig struct {
	// Quit is the quit key, e.g. "Ctrl+Q" or "<C-q>".
	Quit string

	// Save is the save key.
	Save string
}

// UIConfig provides type-safe access to UI settings.
type UIConfig struct {
	// StatusForeground is the status line text color ("#rrggbb", "" for default).
	StatusForeground string

	// StatusBackground is the status line background color.
	StatusBackground string

	// SaveMessage is the format of the status shown after a save. It
	// receives the byte count and the filename.
	SaveMessage string
}

// LoggingConfig provides type-safe access to logging settings.
type LoggingConfig struct {
	// Level is the minimum level logged (debug, info, warn, error).
	Level string

	// File is the log file path. Logging is disabled when empty.
	File string
}

// Editor returns type-safe access to editor settings.
func (c *Config) Editor() EditorConfig {
	return EditorConfig{
		InitialCapacity: c.getIntOr("editor.initialCapacity", 1024),
		MaxCapacity:     c.getIntOr("editor.maxCapacity", 0),
		MaxFileSize:     c.getIntOr("editor.maxFileSize", 0),
		AtomicSave:      c.getBoolOr("editor.atomicSave", false),
		TabWidth:        c.getIntOr("editor.tabWidth", 8),
	}
}

// Keys returns the key bindings.
func (c *Config) Keys() KeysConfig {
	return KeysConfig{
		Quit: c.getStringOr("keys.quit", key.DefaultQuit),
		Save: c.getStringOr("keys.save", key.DefaultSave),
	}
}

// UI returns type-safe access to UI settings.
func (c *Config) UI() UIConfig {
	return UIConfig{
		StatusForeground: c.getStringOr("ui.statusForeground", ""),
		StatusBackground: c.getStringOr("ui.statusBackground", ""),
		SaveMessage:      c.getStringOr("ui.saveMessage", "Saved %d bytes to %s"),
	}
}

// Logging returns type-safe access to logging settings.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level: c.getStringOr("logging.level", "info"),
		File:  c.getStringOr("logging.file", ""),
	}
}

// Keymap builds the key map from the configured bindings.
func (c *Config) Keymap() (key.Keymap, error) {
	keys := c.Keys()
	return key.NewKeymap(keys.Quit, keys.Save)
}

// Validate checks every setting and returns all failures as
// ValidationErrors, or nil. Type errors recorded by the section accessors
// are included.
func (c *Config) Validate() error {
	var errs ValidationErrors

	editor := c.Editor()
	if editor.InitialCapacity < 0 {
		errs = append(errs, &ValidationError{Path: "editor.initialCapacity", Value: editor.InitialCapacity, Message: "must not be negative"})
	}
	if editor.MaxCapacity < 0 {
		errs = append(errs, &ValidationError{Path: "editor.maxCapacity", Value: editor.MaxCapacity, Message: "must not be negative"})
	}
	if editor.MaxCapacity > 0 && editor.MaxCapacity < editor.InitialCapacity {
		errs = append(errs, &ValidationError{Path: "editor.maxCapacity", Value: editor.MaxCapacity, Message: "must not be below editor.initialCapacity"})
	}
	if editor.MaxFileSize < 0 {
		errs = append(errs, &ValidationError{Path: "editor.maxFileSize", Value: editor.MaxFileSize, Message: "must not be negative"})
	}
	if editor.TabWidth < 1 {
		errs = append(errs, &ValidationError{Path: "editor.tabWidth", Value: editor.TabWidth, Message: "must be at least 1"})
	}

	keys := c.Keys()
	if _, err := key.Parse(keys.Quit); err != nil {
		errs = append(errs, &ValidationError{Path: "keys.quit", Value: keys.Quit, Message: err.Error()})
	}
	if _, err := key.Parse(keys.Save); err != nil {
		errs = append(errs, &ValidationError{Path: "keys.save", Value: keys.Save, Message: err.Error()})
	}
	if len(errs) == 0 {
		if _, err := c.Keymap(); err != nil {
			errs = append(errs, &ValidationError{Path: "keys", Value: keys.Quit, Message: err.Error()})
		}
	}

	ui := c.UI()
	if n := strings.Count(ui.SaveMessage, "%"); n > 0 && !validSaveMessage(ui.SaveMessage) {
		errs = append(errs, &ValidationError{Path: "ui.saveMessage", Value: ui.SaveMessage, Message: "must use %d then %s"})
	}

	switch strings.ToLower(c.Logging().Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, &ValidationError{Path: "logging.level", Value: c.Logging().Level, Message: "unknown level"})
	}

	for path, err := range c.ConfigErrors() {
		var te *TypeError
		if errors.As(err, &te) {
			errs = append(errs, &ValidationError{Path: path, Value: te.Actual, Message: "expected " + te.Expected})
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// validSaveMessage reports whether format formats cleanly with a byte
// count and a filename.
func validSaveMessage(format string) bool {
	return !strings.Contains(fmt.Sprintf(format, 0, "f"), "%!")
}

// These methods only return the default for ErrSettingNotFound.
// Type errors are recorded and return the default to avoid breaking callers,
// but indicate a configuration problem that Validate reports.

func (c *Config) getStringOr(path string, defaultValue string) string {
	v, err := c.GetString(path)
	if err != nil {
		if err != ErrSettingNotFound {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getIntOr(path string, defaultValue int) int {
	v, err := c.GetInt(path)
	if err != nil {
		if err != ErrSettingNotFound {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getBoolOr(path string, defaultValue bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		if err != ErrSettingNotFound {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

// recordConfigError stores configuration errors for later retrieval.
// Only the first error for each path is recorded to preserve the original cause.
func (c *Config) recordConfigError(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.configErrors == nil {
		c.configErrors = make(map[string]error)
	}
	if _, exists := c.configErrors[path]; !exists {
		c.configErrors[path] = err
	}
}

// ConfigErrors returns any configuration errors encountered during access.
func (c *Config) ConfigErrors() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.configErrors == nil {
		return nil
	}
	result := make(map[string]error, len(c.configErrors))
	for k, v := range c.configErrors {
		result[k] = v
	}
	return result
}
