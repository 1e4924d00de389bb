package app

import (
	"errors"
	"fmt"

	"github.com/dshills/meg/internal/engine/buffer"
)

// Application errors.
var (
	// ErrFileNotFound indicates the file to edit does not exist yet.
	ErrFileNotFound = errors.New("file not found")

	// ErrIO indicates the file exists but could not be read.
	ErrIO = errors.New("i/o error")

	// ErrWrite indicates the buffer could not be written to its file.
	ErrWrite = errors.New("write failed")

	// ErrOutOfMemory indicates the buffer could not grow.
	ErrOutOfMemory = buffer.ErrOutOfMemory

	// ErrTerminal indicates the terminal could not be set up or read.
	ErrTerminal = errors.New("terminal error")

	// ErrAlreadyRunning indicates the session is already running.
	ErrAlreadyRunning = errors.New("session already running")
)

// IsFatal reports whether err ends the session: terminal failures and
// buffer growth failures are fatal, file errors are not.
func IsFatal(err error) bool {
	return errors.Is(err, ErrTerminal) || errors.Is(err, ErrOutOfMemory)
}

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op      string // Operation name (e.g., "save", "load", "read")
	Target  string // Target of the operation (e.g., file path, "terminal")
	Context string // Additional context
	Err     error  // Underlying error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{
		Op:     op,
		Target: target,
		Err:    err,
	}
}

// WithContext adds context to the error.
// Safe to call on nil receiver - returns nil.
func (e *OperationError) WithContext(ctx string) *OperationError {
	if e == nil {
		return nil
	}
	e.Context = ctx
	return e
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}

	var msg string
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	} else {
		msg = e.Op
	}

	if e.Context != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Context)
	}

	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is implements errors.Is for OperationError.
// Matches both the wrapper itself and the wrapped error.
func (e *OperationError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*OperationError); ok {
		return e == t
	}
	return errors.Is(e.Err, target)
}

// InitError represents an initialization error.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// terminalError wraps err from the terminal as ErrTerminal.
func terminalError(op string, err error) *OperationError {
	return NewOperationError(op, "terminal", fmt.Errorf("%w: %w", ErrTerminal, err))
}
