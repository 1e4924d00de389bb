// Package app wires the editor together: configuration, logging, file
// persistence, the terminal, and the editing Session that drives them.
package app

import (
	"io"

	"github.com/dshills/meg/internal/config"
	"github.com/dshills/meg/internal/project/filestore"
	"github.com/dshills/meg/internal/project/vfs"
)

// Application owns every component of one editor run.
type Application struct {
	config    *config.Config
	logger    *Logger
	logFile   io.Closer
	sessionID string
	metrics   *Metrics

	store    *filestore.Store
	document *Document
	term     Terminal
	session  *Session

	opts Options
}

// Options configures the application.
type Options struct {
	// Filename is the file to edit.
	Filename string

	// ConfigPath is the path to the configuration file. Empty means the
	// default location, where a missing file is not an error.
	ConfigPath string

	// LogLevel overrides logging.level.
	LogLevel string

	// LogFile overrides logging.file.
	LogFile string

	// Terminal replaces the tcell terminal, for tests.
	Terminal Terminal

	// FS replaces the OS file system, for tests.
	FS vfs.VFS
}

// New creates a new Application with the given options. The terminal is
// not touched until Run.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		logger:  NullLogger,
		metrics: NewMetrics(),
	}

	if err := newBootstrapper(app, opts).bootstrap(); err != nil {
		return nil, err
	}

	return app, nil
}

// Run edits the document until the user quits. The error is nil on a
// normal quit; IsFatal reports whether it should end the process with a
// failure status.
func (app *Application) Run() error {
	app.logger.Info("starting session for %s", app.opts.Filename)
	return app.session.Run()
}

// Close releases resources held after Run returns.
func (app *Application) Close() {
	app.closeLog()
}

func (app *Application) closeLog() {
	if app.logFile != nil {
		_ = app.logFile.Close()
		app.logFile = nil
	}
	app.logger = NullLogger
}

// Config returns the configuration system.
func (app *Application) Config() *config.Config {
	return app.config
}

// Document returns the edited document.
func (app *Application) Document() *Document {
	return app.document
}

// Session returns the editing session.
func (app *Application) Session() *Session {
	return app.session
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// SessionID returns the identifier attached to every log line of this run.
func (app *Application) SessionID() string {
	return app.sessionID
}

// Metrics returns the session metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}
