package key

import (
	"fmt"
	"unicode"
)

// Event represents a single key press.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent creates a key event for a special key.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// Equals reports whether two events name the same key chord. Rune case is
// ignored when Ctrl is held, since terminals do not report it.
func (e Event) Equals(other Event) bool {
	if e.Key != other.Key || e.Modifiers.Without(ModShift) != other.Modifiers.Without(ModShift) {
		return false
	}
	if e.Key != KeyRune {
		return true
	}
	if e.Modifiers.Has(ModCtrl) {
		return unicode.ToLower(e.Rune) == unicode.ToLower(other.Rune)
	}
	return e.Rune == other.Rune
}

// String returns a representation like "Ctrl+q" or "Enter".
func (e Event) String() string {
	var name string
	if e.Key == KeyRune {
		name = string(e.Rune)
	} else {
		name = e.Key.String()
	}
	if mods := e.Modifiers.String(); mods != "" {
		return fmt.Sprintf("%s+%s", mods, name)
	}
	return name
}
