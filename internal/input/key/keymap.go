package key

import "fmt"

// Kind tags the editing action a key event maps to.
type Kind uint8

const (
	// KindOther is any event the editor ignores.
	KindOther Kind = iota
	// KindChar inserts Action.Rune.
	KindChar
	// KindBackspace deletes the last character.
	KindBackspace
	// KindQuit requests the end of the session.
	KindQuit
	// KindSave requests the buffer be written to disk.
	KindSave
	// KindResize reports a terminal size change.
	KindResize
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindChar:
		return "char"
	case KindBackspace:
		return "backspace"
	case KindQuit:
		return "quit"
	case KindSave:
		return "save"
	case KindResize:
		return "resize"
	default:
		return "other"
	}
}

// Action is the tagged result of classifying a key event.
type Action struct {
	Kind Kind
	Rune rune
}

// Default bindings.
const (
	DefaultQuit = "Ctrl+Q"
	DefaultSave = "Ctrl+S"
)

// Keymap holds the quit and save bindings.
type Keymap struct {
	Quit Event
	Save Event
}

// DefaultKeymap returns the Ctrl+Q / Ctrl+S keymap.
func DefaultKeymap() Keymap {
	return Keymap{
		Quit: MustParse(DefaultQuit),
		Save: MustParse(DefaultSave),
	}
}

// NewKeymap builds a keymap from key specifications.
func NewKeymap(quit, save string) (Keymap, error) {
	q, err := Parse(quit)
	if err != nil {
		return Keymap{}, fmt.Errorf("quit binding: %w", err)
	}
	s, err := Parse(save)
	if err != nil {
		return Keymap{}, fmt.Errorf("save binding: %w", err)
	}
	if q.Equals(s) {
		return Keymap{}, fmt.Errorf("%w: quit and save share binding %s", ErrInvalidSpec, q)
	}
	return Keymap{Quit: q, Save: s}, nil
}

// Classify maps a key event to an action. Bindings take precedence over
// text input. Enter and Tab insert '\n' and '\t'; other special keys and
// chords with Ctrl, Alt or Meta are ignored.
func (km Keymap) Classify(ev Event) Action {
	switch {
	case ev.Equals(km.Quit):
		return Action{Kind: KindQuit}
	case ev.Equals(km.Save):
		return Action{Kind: KindSave}
	}

	if ev.Modifiers.Has(ModCtrl) || ev.Modifiers.Has(ModAlt) || ev.Modifiers.Has(ModMeta) {
		return Action{Kind: KindOther}
	}

	switch ev.Key {
	case KeyBackspace:
		return Action{Kind: KindBackspace}
	case KeyEnter:
		return Action{Kind: KindChar, Rune: '\n'}
	case KeyTab:
		return Action{Kind: KindChar, Rune: '\t'}
	case KeyRune:
		if ev.Rune != 0 {
			return Action{Kind: KindChar, Rune: ev.Rune}
		}
	}
	return Action{Kind: KindOther}
}
