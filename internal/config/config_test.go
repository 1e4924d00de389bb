package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// newTestConfig returns a Config that ignores the user's real config file
// and environment.
func newTestConfig(t *testing.T, opts ...Option) *Config {
	t.Helper()
	base := []Option{WithConfigFile(""), WithEnvPrefix("")}
	return New(append(base, opts...)...)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfig_Defaults(t *testing.T) {
	c := New(WithConfigFile(""), WithEnvPrefix(""))

	editor := c.Editor()
	if editor.InitialCapacity != 1024 {
		t.Errorf("InitialCapacity = %d, want 1024", editor.InitialCapacity)
	}
	if editor.MaxCapacity != 0 || editor.MaxFileSize != 0 {
		t.Errorf("MaxCapacity = %d, MaxFileSize = %d, want unlimited", editor.MaxCapacity, editor.MaxFileSize)
	}
	if editor.AtomicSave {
		t.Error("AtomicSave = true, want false")
	}
	if editor.TabWidth != 8 {
		t.Errorf("TabWidth = %d, want 8", editor.TabWidth)
	}

	keys := c.Keys()
	if keys.Quit != "Ctrl+Q" || keys.Save != "Ctrl+S" {
		t.Errorf("Keys = %+v", keys)
	}
	if got := c.UI().SaveMessage; got != "Saved %d bytes to %s" {
		t.Errorf("SaveMessage = %q", got)
	}
	if got := c.Logging(); got.Level != "info" || got.File != "" {
		t.Errorf("Logging = %+v", got)
	}

	if err := c.Validate(); err != nil {
		t.Errorf("defaults fail validation: %v", err)
	}
}

func TestConfig_LoadTOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
[editor]
tabWidth = 4
atomicSave = true
maxCapacity = 65536

[keys]
quit = "<C-x>"
`)

	c := New(WithConfigFile(path), WithEnvPrefix(""))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	editor := c.Editor()
	if editor.TabWidth != 4 || !editor.AtomicSave || editor.MaxCapacity != 65536 {
		t.Errorf("Editor = %+v", editor)
	}
	if editor.InitialCapacity != 1024 {
		t.Errorf("unset InitialCapacity = %d, want default", editor.InitialCapacity)
	}
	if c.Keys().Quit != "<C-x>" {
		t.Errorf("Quit = %q", c.Keys().Quit)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestConfig_LoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
ui:
  statusForeground: "#ffffff"
  statusBackground: "#005f87"
logging:
  level: debug
`)

	c := New(WithConfigFile(path), WithEnvPrefix(""))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := c.UI(); got.StatusForeground != "#ffffff" || got.StatusBackground != "#005f87" {
		t.Errorf("UI = %+v", got)
	}
	if c.Logging().Level != "debug" {
		t.Errorf("Level = %q, want debug", c.Logging().Level)
	}
}

func TestConfig_ExplicitFileMissing(t *testing.T) {
	c := New(WithConfigFile(filepath.Join(t.TempDir(), "nope.toml")), WithEnvPrefix(""))
	if err := c.Load(context.Background()); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Load() = %v, want ErrFileNotFound", err)
	}
}

func TestConfig_DefaultFileMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	c := New(WithEnvPrefix(""))
	if err := c.Load(context.Background()); err != nil {
		t.Errorf("missing default file should not fail: %v", err)
	}
}

func TestConfig_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "config.toml", `
[editor]
tabWidth = 4

[logging]
level = "warn"
`)
	t.Setenv("MEG_TAB_WIDTH", "2")
	t.Setenv("MEG_LOG_FILE", "/tmp/meg.log")
	t.Setenv("MEG_EDITOR_ATOMIC_SAVE", "1")
	t.Setenv("MEG_MAX_FILE_SIZE", "1048576")

	c := New(WithConfigFile(path))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := c.Editor().TabWidth; got != 2 {
		t.Errorf("TabWidth = %d, want env value 2", got)
	}
	if !c.Editor().AtomicSave {
		t.Error("AtomicSave = false, want true from MEG_EDITOR_ATOMIC_SAVE=1")
	}
	if got := c.Editor().MaxFileSize; got != 1048576 {
		t.Errorf("MaxFileSize = %d, want env value 1048576", got)
	}
	if got := c.Logging(); got.Level != "warn" || got.File != "/tmp/meg.log" {
		t.Errorf("Logging = %+v", got)
	}
}

func TestConfig_SetOverridesAll(t *testing.T) {
	t.Setenv("MEG_LOG_LEVEL", "error")

	c := New(WithConfigFile(""))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := c.Set("logging.level", "debug"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if got := c.Logging().Level; got != "debug" {
		t.Errorf("Level = %q, want debug", got)
	}
}

func TestConfig_SetInvalidPath(t *testing.T) {
	c := newTestConfig(t)

	if err := c.Set("", 1); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Set(\"\") = %v, want ErrInvalidPath", err)
	}
	if err := c.Set("editor.tabWidth.deeper", 1); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Set through a scalar = %v, want ErrInvalidPath", err)
	}
	if got := c.Editor().TabWidth; got != 8 {
		t.Errorf("TabWidth = %d after rejected Set, want 8", got)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() after rejected Set = %v", err)
	}

	// New sections and settings below existing sections are still allowed.
	if err := c.Set("editor.extra.depth", 1); err != nil {
		t.Errorf("Set(editor.extra.depth) = %v", err)
	}
}

func TestConfig_TypeMismatch(t *testing.T) {
	c := newTestConfig(t)
	c.Set("editor.tabWidth", "wide")

	if _, err := c.GetInt("editor.tabWidth"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("GetInt = %v, want ErrTypeMismatch", err)
	}
	if got := c.Editor().TabWidth; got != 8 {
		t.Errorf("TabWidth = %d, want default on type error", got)
	}

	err := c.Validate()
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("Validate() = %v, want ErrValidationFailed", err)
	}
	var verrs ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) != 1 || verrs[0].Path != "editor.tabWidth" {
		t.Errorf("Validate() = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		value any
	}{
		{"negative initial capacity", "editor.initialCapacity", -1},
		{"negative max capacity", "editor.maxCapacity", -5},
		{"max capacity below initial", "editor.maxCapacity", 512},
		{"negative max file size", "editor.maxFileSize", -1},
		{"zero tab width", "editor.tabWidth", 0},
		{"bad quit key", "keys.quit", "Hyper+Q"},
		{"bad save key", "keys.save", ""},
		{"shared binding", "keys.save", "Ctrl+Q"},
		{"bad save message", "ui.saveMessage", "%s was saved"},
		{"bad level", "logging.level", "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestConfig(t)
			c.Set(tt.path, tt.value)

			if err := c.Validate(); !errors.Is(err, ErrValidationFailed) {
				t.Errorf("Validate() = %v, want ErrValidationFailed", err)
			}
		})
	}
}

func TestConfig_Keymap(t *testing.T) {
	c := newTestConfig(t)
	c.Set("keys.save", "<C-w>")

	km, err := c.Keymap()
	if err != nil {
		t.Fatalf("Keymap() error = %v", err)
	}
	if km.Save.Rune != 'w' {
		t.Errorf("Save = %v, want Ctrl+W", km.Save)
	}
}

