package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/meg/internal/config"
	"github.com/dshills/meg/internal/engine/buffer"
	"github.com/dshills/meg/internal/project/filestore"
	"github.com/dshills/meg/internal/project/vfs"
	"github.com/dshills/meg/internal/renderer/backend"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      opts,
		initOrder: make([]string, 0, 6),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initConfig,
		b.initLogging,
		b.initStore,
		b.initDocument,
		b.initTerminal,
		b.initSession,
	}

	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}
	return nil
}

// initConfig loads and validates the configuration. Command line values
// override every other source.
func (b *bootstrapper) initConfig() error {
	var configOpts []config.Option
	if b.opts.ConfigPath != "" {
		configOpts = append(configOpts, config.WithConfigFile(b.opts.ConfigPath))
	}

	cfg := config.New(configOpts...)
	if err := cfg.Load(context.Background()); err != nil {
		return &InitError{Component: "config", Err: err}
	}

	if b.opts.LogLevel != "" {
		if err := cfg.Set("logging.level", b.opts.LogLevel); err != nil {
			return &InitError{Component: "config", Err: err}
		}
	}
	if b.opts.LogFile != "" {
		if err := cfg.Set("logging.file", b.opts.LogFile); err != nil {
			return &InitError{Component: "config", Err: err}
		}
	}

	if err := cfg.Validate(); err != nil {
		return &InitError{Component: "config", Err: err}
	}

	b.app.config = cfg
	b.initOrder = append(b.initOrder, "config")
	return nil
}

// initLogging opens the log file, if any, and tags the logger with a
// fresh session identifier.
func (b *bootstrapper) initLogging() error {
	logCfg := b.app.config.Logging()
	b.app.sessionID = uuid.NewString()

	if logCfg.File == "" {
		b.app.logger = NullLogger
		b.initOrder = append(b.initOrder, "logging")
		return nil
	}

	f, err := OpenLogFile(logCfg.File)
	if err != nil {
		return &InitError{Component: "logging", Err: err}
	}
	b.app.logFile = f

	b.app.logger = NewLogger(LoggerConfig{
		Level:  ParseLogLevel(logCfg.Level),
		Output: f,
		Prefix: "meg",
	}).WithField("session", b.app.sessionID)

	b.initOrder = append(b.initOrder, "logging")
	b.app.logger.Debug("config loaded from %s", b.app.config.Path())
	return nil
}

// initStore sets up file persistence.
func (b *bootstrapper) initStore() error {
	fsys := b.opts.FS
	if fsys == nil {
		fsys = vfs.NewOSFS()
	}

	editor := b.app.config.Editor()
	b.app.store = filestore.New(fsys,
		filestore.WithAtomicSave(editor.AtomicSave),
		filestore.WithMaxFileSize(int64(editor.MaxFileSize)),
	)
	b.initOrder = append(b.initOrder, "store")
	return nil
}

// initDocument loads the file into a buffer. Load failures leave an empty
// buffer and are reported when the session starts.
func (b *bootstrapper) initDocument() error {
	editor := b.app.config.Editor()

	var bufOpts []buffer.Option
	if editor.MaxCapacity > 0 {
		bufOpts = append(bufOpts, buffer.WithMaxCapacity(editor.MaxCapacity))
	}

	doc := OpenDocument(b.app.store, b.opts.Filename, editor.InitialCapacity, bufOpts...)
	if doc.LoadErr != nil {
		if doc.IsNew {
			b.app.logger.Info("%v; starting empty", doc.LoadErr)
		} else {
			b.app.logger.Warn("%v; starting empty", doc.LoadErr)
		}
	}

	b.app.document = doc
	b.initOrder = append(b.initOrder, "document")
	return nil
}

// initTerminal creates the tcell terminal unless one was supplied.
func (b *bootstrapper) initTerminal() error {
	if b.opts.Terminal != nil {
		b.app.term = b.opts.Terminal
		b.initOrder = append(b.initOrder, "terminal")
		return nil
	}

	ui := b.app.config.UI()
	fg, err := backend.ParseColor(ui.StatusForeground)
	if err != nil {
		return &InitError{Component: "terminal", Err: fmt.Errorf("ui.statusForeground: %w", err)}
	}
	bg, err := backend.ParseColor(ui.StatusBackground)
	if err != nil {
		return &InitError{Component: "terminal", Err: fmt.Errorf("ui.statusBackground: %w", err)}
	}

	term, err := backend.NewTerminal(
		backend.WithTabWidth(b.app.config.Editor().TabWidth),
		backend.WithStatusColors(fg, bg),
	)
	if err != nil {
		return &InitError{Component: "terminal", Err: fmt.Errorf("%w: %w", ErrTerminal, err)}
	}

	b.app.term = term
	b.initOrder = append(b.initOrder, "terminal")
	return nil
}

// initSession wires the document, terminal and store into a session.
func (b *bootstrapper) initSession() error {
	km, err := b.app.config.Keymap()
	if err != nil {
		return &InitError{Component: "keymap", Err: err}
	}

	b.app.session = NewSession(b.app.document.Buffer, b.app.document.Path, b.app.term, b.app.store,
		WithKeymap(km),
		WithLogger(b.app.logger),
		WithMetrics(b.app.metrics),
		WithSaveMessage(b.app.config.UI().SaveMessage),
		WithStartupStatus(b.app.document.StartupStatus()),
	)
	b.initOrder = append(b.initOrder, "session")
	return nil
}

// cleanup performs cleanup in reverse initialization order.
// Called when bootstrap fails partway through.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		b.cleanupComponent(b.initOrder[i])
	}
	b.initOrder = b.initOrder[:0]
}

// cleanupComponent cleans up a single component.
func (b *bootstrapper) cleanupComponent(component string) {
	switch component {
	case "config":
		b.app.config = nil
	case "logging":
		b.app.closeLog()
	case "store":
		b.app.store = nil
	case "document":
		b.app.document = nil
	case "terminal":
		b.app.term = nil
	case "session":
		b.app.session = nil
	}
}
