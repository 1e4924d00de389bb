package app

import "github.com/dshills/meg/internal/renderer/backend"

// Terminal is the terminal capability a Session drives. Init enters raw
// mode and Shutdown leaves it; Shutdown must be safe to call after a
// failed or repeated Init.
type Terminal interface {
	Init() error
	Shutdown()

	// ReadEvent blocks for the next input event.
	ReadEvent() (backend.Event, error)

	// PutRune echoes r at the cursor.
	PutRune(r rune)

	// EraseRune erases the last echoed rune. It returns false when the
	// rune is no longer on screen and the caller must redraw.
	EraseRune() bool

	// SetStatus replaces the status line on the last row.
	SetStatus(text string)

	// Redraw replaces the text area with text.
	Redraw(text string)

	// Height returns the number of screen rows, status line included.
	Height() int
}

// Compile-time interface checks.
var (
	_ Terminal = (*backend.Terminal)(nil)
	_ Terminal = (*backend.NullBackend)(nil)
)
