// Package backend provides the terminal implementations the editing session
// draws on: a tcell-based Terminal for real use and a NullBackend for tests.
package backend

import (
	"errors"
	"unicode/utf8"
)

// Errors returned by backends.
var (
	// ErrClosed is returned by ReadEvent once the terminal is shut down or
	// its input is exhausted.
	ErrClosed = errors.New("terminal closed")

	// ErrNotInitialized is returned when a backend is used before Init.
	ErrNotInitialized = errors.New("terminal not initialized")
)

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventResize
)

// Key represents a keyboard key.
type Key int

// Key constants for the keys the editor distinguishes. Ctrl chords on
// letters are reported as KeyRune with ModCtrl and a lowercase Rune.
const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
)

// ModMask represents modifier key state.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// Event represents a terminal event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune
	Mod  ModMask

	// Resize event fields
	Width, Height int
}

// RuneEvent returns a key event for a character.
func RuneEvent(r rune, mod ModMask) Event {
	return Event{Type: EventKey, Key: KeyRune, Rune: r, Mod: mod}
}

// KeyEvent returns a key event for a special key.
func KeyEvent(k Key) Event {
	return Event{Type: EventKey, Key: k}
}

// NullBackend is a scripted, in-memory terminal for testing. Events queued
// with PostEvent are returned in order by ReadEvent; once the queue is
// empty ReadEvent fails with ErrClosed. Output is kept as plain text.
type NullBackend struct {
	width, height int

	events []Event
	text   []byte
	status string

	// StatusHistory records every status line written.
	StatusHistory []string

	// InitErr, when set, is returned by Init.
	InitErr error

	// EraseFails makes EraseRune report that nothing could be erased.
	EraseFails bool

	initialized bool
	inits       int
	shutdowns   int
	redraws     int
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{width: width, height: height}
}

func (b *NullBackend) Init() error {
	b.inits++
	if b.InitErr != nil {
		return b.InitErr
	}
	b.initialized = true
	return nil
}

func (b *NullBackend) Shutdown() {
	b.shutdowns++
	b.initialized = false
}

func (b *NullBackend) ReadEvent() (Event, error) {
	if !b.initialized {
		return Event{}, ErrNotInitialized
	}
	if len(b.events) == 0 {
		return Event{}, ErrClosed
	}
	ev := b.events[0]
	b.events = b.events[1:]
	if ev.Type == EventResize {
		b.width, b.height = ev.Width, ev.Height
	}
	return ev, nil
}

func (b *NullBackend) PutRune(r rune) {
	b.text = utf8.AppendRune(b.text, r)
}

func (b *NullBackend) EraseRune() bool {
	if b.EraseFails || len(b.text) == 0 {
		return false
	}
	_, size := utf8.DecodeLastRune(b.text)
	b.text = b.text[:len(b.text)-size]
	return true
}

func (b *NullBackend) SetStatus(text string) {
	b.status = text
	b.StatusHistory = append(b.StatusHistory, text)
}

func (b *NullBackend) Redraw(text string) {
	b.redraws++
	b.text = append(b.text[:0], text...)
}

func (b *NullBackend) Height() int {
	return b.height
}

// PostEvent queues events for ReadEvent.
func (b *NullBackend) PostEvent(events ...Event) {
	b.events = append(b.events, events...)
}

// PostKeys queues one rune event per character of s.
func (b *NullBackend) PostKeys(s string) {
	for _, r := range s {
		b.events = append(b.events, RuneEvent(r, ModNone))
	}
}

// Text returns the text currently shown.
func (b *NullBackend) Text() string { return string(b.text) }

// Status returns the last status line written.
func (b *NullBackend) Status() string { return b.status }

// Initialized reports whether the backend is between Init and Shutdown.
func (b *NullBackend) Initialized() bool { return b.initialized }

// Inits returns the number of Init calls.
func (b *NullBackend) Inits() int { return b.inits }

// Shutdowns returns the number of Shutdown calls.
func (b *NullBackend) Shutdowns() int { return b.shutdowns }

// Redraws returns the number of full redraws.
func (b *NullBackend) Redraws() int { return b.redraws }

// Pending returns the number of queued events not yet read.
func (b *NullBackend) Pending() int { return len(b.events) }
