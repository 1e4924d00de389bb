package app

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/dshills/meg/internal/engine/buffer"
	"github.com/dshills/meg/internal/input/key"
	"github.com/dshills/meg/internal/renderer/backend"
)

// State is the state of an editing session.
type State int

const (
	// StateEditing accepts text input, save and quit.
	StateEditing State = iota
	// StateConfirmingQuit waits for the answer to the save-on-quit prompt.
	StateConfirmingQuit
	// StateTerminated ends the loop.
	StateTerminated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateConfirmingQuit:
		return "confirming-quit"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// tooSmallStatus replaces the status line while the screen has no room for
// text.
const tooSmallStatus = "Window too small"

// DefaultSaveMessage is the status shown after a successful save. It
// receives the byte count and the filename.
const DefaultSaveMessage = "Saved %d bytes to %s"

// Saver writes a document to its file.
type Saver interface {
	Save(path string, data []byte) error
}

// Session is the editing loop for one buffer. It reads events from a
// Terminal, applies them to the buffer, and writes the buffer through a
// Saver on request or on quit.
//
// A Session is single-threaded; Run blocks until the user quits or a
// fatal error occurs.
type Session struct {
	buf      *buffer.Buffer
	filename string
	term     Terminal
	saver    Saver

	keymap      key.Keymap
	logger      *Logger
	metrics     *Metrics
	saveMessage string
	startStatus string

	state  State
	status string
	ran    bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithKeymap sets the quit and save bindings.
func WithKeymap(km key.Keymap) SessionOption {
	return func(s *Session) {
		s.keymap = km
	}
}

// WithLogger sets the session logger.
func WithLogger(l *Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics the session records into.
func WithMetrics(m *Metrics) SessionOption {
	return func(s *Session) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithSaveMessage sets the format of the status shown after a save.
func WithSaveMessage(format string) SessionOption {
	return func(s *Session) {
		if format != "" {
			s.saveMessage = format
		}
	}
}

// WithStartupStatus replaces the status shown when the session starts.
func WithStartupStatus(text string) SessionOption {
	return func(s *Session) {
		s.startStatus = text
	}
}

// NewSession creates a session editing buf, which is saved to filename.
// The session owns buf; term and saver are borrowed.
func NewSession(buf *buffer.Buffer, filename string, term Terminal, saver Saver, opts ...SessionOption) *Session {
	s := &Session{
		buf:         buf,
		filename:    filename,
		term:        term,
		saver:       saver,
		keymap:      key.DefaultKeymap(),
		logger:      NullLogger,
		metrics:     NewMetrics(),
		saveMessage: DefaultSaveMessage,
		state:       StateEditing,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("session")
	return s
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Buffer returns the edited buffer.
func (s *Session) Buffer() *buffer.Buffer {
	return s.buf
}

// Metrics returns the session metrics.
func (s *Session) Metrics() *Metrics {
	return s.metrics
}

// Run puts the terminal in raw mode and processes events until the user
// quits. The terminal is restored on every return path. A nil error means
// the user quit; errors wrap ErrTerminal or ErrOutOfMemory.
func (s *Session) Run() error {
	if s.ran {
		return ErrAlreadyRunning
	}
	s.ran = true

	if err := s.term.Init(); err != nil {
		s.term.Shutdown()
		return terminalError("init", err)
	}
	defer s.term.Shutdown()

	if h := s.term.Height(); h < 2 {
		return terminalError("init", fmt.Errorf("screen height %d, need at least 2 rows", h))
	}

	s.logger.Info("editing %s (%d bytes)", s.filename, s.buf.Len())
	s.redraw()
	if s.startStatus != "" {
		s.setStatus(s.startStatus)
	} else {
		s.setStatus(s.baseStatus() + "  " + s.helpHint())
	}

	for s.state != StateTerminated {
		ev, err := s.term.ReadEvent()
		if err != nil {
			s.logger.Error("reading terminal: %v", err)
			return terminalError("read", err)
		}
		if err := s.handle(ev); err != nil {
			s.logger.Error("%v", err)
			return err
		}
	}

	s.logger.WithFields(s.metrics.Snapshot().Fields()).Info("session ended")
	return nil
}

// handle applies one terminal event.
func (s *Session) handle(ev backend.Event) error {
	var action key.Action
	switch ev.Type {
	case backend.EventResize:
		if h := s.term.Height(); h < 2 {
			s.logger.Debug("screen height %d, text hidden", h)
			s.term.SetStatus(tooSmallStatus)
			return nil
		}
		action = key.Action{Kind: key.KindResize}
	case backend.EventKey:
		s.metrics.RecordKey()
		action = s.keymap.Classify(toKeyEvent(ev))
	default:
		return nil
	}

	switch s.state {
	case StateEditing:
		return s.handleEditing(action)
	case StateConfirmingQuit:
		s.handleConfirm(action)
	}
	return nil
}

func (s *Session) handleEditing(action key.Action) error {
	switch action.Kind {
	case key.KindQuit:
		if !s.buf.IsDirty() {
			s.logger.Debug("quit with no changes")
			s.state = StateTerminated
			return nil
		}
		s.state = StateConfirmingQuit
		s.setStatus(s.quitPrompt())

	case key.KindSave:
		if n, err := s.persist(); err != nil {
			s.setStatus(fmt.Sprintf("Error: %v", err))
		} else {
			s.setStatus(s.savedStatus(n))
		}

	case key.KindBackspace:
		if _, ok := s.buf.DeleteLastRune(); !ok {
			return nil
		}
		s.metrics.RecordDelete()
		if !s.term.EraseRune() {
			s.redraw()
		}
		s.refreshStatus()

	case key.KindChar:
		if err := s.buf.AppendRune(action.Rune); err != nil {
			return NewOperationError("append", s.filename, err)
		}
		s.metrics.RecordInsert()
		s.term.PutRune(action.Rune)
		s.refreshStatus()

	case key.KindResize:
		s.redraw()
		s.term.SetStatus(s.status)
	}
	return nil
}

// handleConfirm answers the save-on-quit prompt. 'y' saves and quits; a
// failed save keeps the prompt up so the user can retry or discard. Any
// other key discards the changes.
func (s *Session) handleConfirm(action key.Action) {
	switch {
	case action.Kind == key.KindResize:
		s.redraw()
		s.term.SetStatus(s.status)

	case action.Kind == key.KindChar && unicode.ToLower(action.Rune) == 'y':
		if _, err := s.persist(); err != nil {
			s.setStatus(fmt.Sprintf("Error: %v. %s", err, s.quitPrompt()))
			return
		}
		s.state = StateTerminated

	default:
		s.logger.Info("discarding %d bytes of unsaved changes", s.buf.Len())
		s.state = StateTerminated
	}
}

// persist writes the whole buffer to the file and clears the dirty flag.
// On failure the buffer stays dirty.
func (s *Session) persist() (int, error) {
	data := s.buf.Bytes()
	timer := StartTimer()

	if err := s.saver.Save(s.filename, data); err != nil {
		s.metrics.RecordSaveFailure()
		s.logger.Warn("save failed: %v", err)
		return 0, NewOperationError("save", s.filename, fmt.Errorf("%w: %w", ErrWrite, err))
	}

	s.buf.ClearDirty()
	s.metrics.RecordSave(len(data), timer.Elapsed())
	s.logger.WithField("bytes", len(data)).Info("saved %s", s.filename)
	return len(data), nil
}

func (s *Session) redraw() {
	s.metrics.RecordRedraw()
	s.term.Redraw(s.buf.Text())
}

func (s *Session) setStatus(text string) {
	s.status = text
	s.term.SetStatus(text)
}

// refreshStatus replaces a transient message with the filename and dirty
// marker, writing only when the line changes.
func (s *Session) refreshStatus() {
	if base := s.baseStatus(); base != s.status {
		s.setStatus(base)
	}
}

func (s *Session) baseStatus() string {
	name := filepath.Base(s.filename)
	if s.buf.IsDirty() {
		return name + " [+]"
	}
	return name
}

func (s *Session) quitPrompt() string {
	return fmt.Sprintf("Save changes to %s? (y/n)", filepath.Base(s.filename))
}

func (s *Session) savedStatus(n int) string {
	if !strings.Contains(s.saveMessage, "%") {
		return s.saveMessage
	}
	return fmt.Sprintf(s.saveMessage, n, s.filename)
}

func (s *Session) helpHint() string {
	return keyHint(s.keymap.Save) + " save  " + keyHint(s.keymap.Quit) + " quit"
}

// keyHint renders Ctrl+letter chords in caret notation.
func keyHint(ev key.Event) string {
	if ev.Key == key.KeyRune && ev.Modifiers == key.ModCtrl && unicode.IsLetter(ev.Rune) {
		return "^" + string(unicode.ToUpper(ev.Rune))
	}
	return ev.String()
}

// toKeyEvent converts a terminal key event to a key.Event.
func toKeyEvent(ev backend.Event) key.Event {
	var mods key.Modifier
	if ev.Mod.Has(backend.ModShift) {
		mods = mods.With(key.ModShift)
	}
	if ev.Mod.Has(backend.ModCtrl) {
		mods = mods.With(key.ModCtrl)
	}
	if ev.Mod.Has(backend.ModAlt) {
		mods = mods.With(key.ModAlt)
	}
	if ev.Mod.Has(backend.ModMeta) {
		mods = mods.With(key.ModMeta)
	}

	switch ev.Key {
	case backend.KeyRune:
		return key.NewRuneEvent(ev.Rune, mods)
	case backend.KeyEnter:
		return key.NewSpecialEvent(key.KeyEnter, mods)
	case backend.KeyTab:
		return key.NewSpecialEvent(key.KeyTab, mods)
	case backend.KeyBackspace:
		return key.NewSpecialEvent(key.KeyBackspace, mods)
	case backend.KeyEscape:
		return key.NewSpecialEvent(key.KeyEscape, mods)
	default:
		return key.NewSpecialEvent(key.KeyNone, mods)
	}
}
