package backend

import (
	"fmt"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Terminal implements the editor's terminal capability on top of tcell.
// The screen is split into a text area and a status line on the last row.
type Terminal struct {
	screen      tcell.Screen
	view        *View
	tabWidth    int
	status      string
	statusStyle tcell.Style
	initialized bool
}

// TerminalOption configures a Terminal.
type TerminalOption func(*Terminal)

// WithTabWidth sets the tab stop interval.
func WithTabWidth(width int) TerminalOption {
	return func(t *Terminal) {
		if width > 0 {
			t.tabWidth = width
		}
	}
}

// WithStatusColors sets the status line colors.
func WithStatusColors(fg, bg tcell.Color) TerminalOption {
	return func(t *Terminal) {
		t.statusStyle = tcell.StyleDefault.Foreground(fg).Background(bg)
		if fg == tcell.ColorDefault && bg == tcell.ColorDefault {
			t.statusStyle = t.statusStyle.Reverse(true)
		}
	}
}

// NewTerminal creates a terminal backend for the controlling terminal.
func NewTerminal(opts ...TerminalOption) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalWithScreen(screen, opts...), nil
}

// NewTerminalWithScreen creates a terminal backend drawing on screen.
func NewTerminalWithScreen(screen tcell.Screen, opts ...TerminalOption) *Terminal {
	t := &Terminal{
		screen:      screen,
		tabWidth:    DefaultTabWidth,
		statusStyle: tcell.StyleDefault.Reverse(true),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ParseColor parses a "#rrggbb" or "#rgb" color. An empty string yields
// the terminal's default color.
func ParseColor(s string) (tcell.Color, error) {
	if s == "" {
		return tcell.ColorDefault, nil
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b)), nil
}

// Init puts the terminal in raw mode and clears the screen.
func (t *Terminal) Init() error {
	if err := t.screen.Init(); err != nil {
		return err
	}
	t.initialized = true
	t.screen.Clear()

	w, h := t.screen.Size()
	t.view = NewView(w, h-1, t.tabWidth)
	t.flush()
	return nil
}

// Shutdown restores the terminal. It is safe to call more than once.
func (t *Terminal) Shutdown() {
	if !t.initialized {
		return
	}
	t.initialized = false
	t.screen.Fini()
}

// Height returns the number of screen rows, including the status line.
func (t *Terminal) Height() int {
	_, h := t.screen.Size()
	return h
}

// ReadEvent blocks for the next key or resize event. Other tcell events
// are reported as EventNone.
func (t *Terminal) ReadEvent() (Event, error) {
	if !t.initialized {
		return Event{}, ErrNotInitialized
	}

	ev := t.screen.PollEvent()
	switch e := ev.(type) {
	case nil:
		return Event{}, ErrClosed
	case *tcell.EventError:
		return Event{}, e
	case *tcell.EventResize:
		w, h := e.Size()
		t.screen.Sync()
		t.view.Resize(w, h-1)
		return Event{Type: EventResize, Width: w, Height: h}, nil
	case *tcell.EventKey:
		return convertKeyEvent(e), nil
	default:
		return Event{Type: EventNone}, nil
	}
}

// PutRune echoes r at the cursor.
func (t *Terminal) PutRune(r rune) {
	if t.view == nil {
		return
	}
	t.view.Put(r)
	t.flush()
}

// EraseRune erases the last echoed rune. It returns false when that rune
// is no longer on screen and the caller must redraw.
func (t *Terminal) EraseRune() bool {
	if t.view == nil {
		return false
	}
	ok := t.view.Erase()
	t.flush()
	return ok
}

// Redraw replaces the text area with text, scrolled so its end is visible.
func (t *Terminal) Redraw(text string) {
	if t.view == nil {
		return
	}
	t.view.Load(text)
	t.flush()
}

// SetStatus writes text on the status line.
func (t *Terminal) SetStatus(text string) {
	t.status = text
	if t.view == nil {
		return
	}
	t.drawStatus()
	t.showCursor()
	t.screen.Show()
}

// flush paints changed rows and the status line, then shows the screen.
// A screen with no room for text below the status line shows only the
// status line.
func (t *Terminal) flush() {
	if t.hasTextArea() {
		t.view.Flush(t.paintRow)
	}
	t.drawStatus()
	t.showCursor()
	t.screen.Show()
}

func (t *Terminal) paintRow(y int) {
	w, _ := t.view.Size()
	for x := 0; x < w; x++ {
		r, comb, ok := t.view.content(x, y)
		if !ok {
			continue
		}
		t.screen.SetContent(x, y, r, comb, tcell.StyleDefault)
	}
}

func (t *Terminal) drawStatus() {
	w, h := t.screen.Size()
	if h < 1 {
		return
	}
	y := h - 1
	x := 0
	for _, r := range t.status {
		if x >= w {
			break
		}
		rw := runeWidth(r)
		if r < 0x20 {
			r = ' '
		}
		t.screen.SetContent(x, y, r, nil, t.statusStyle)
		x += max(rw, 1)
	}
	for ; x < w; x++ {
		t.screen.SetContent(x, y, ' ', nil, t.statusStyle)
	}
}

func (t *Terminal) showCursor() {
	if !t.hasTextArea() {
		t.screen.HideCursor()
		return
	}
	x, y := t.view.Cursor()
	t.screen.ShowCursor(x, y)
}

func (t *Terminal) hasTextArea() bool {
	_, h := t.screen.Size()
	return h >= 2
}

// convertKeyEvent converts a tcell key event to our Event type.
func convertKeyEvent(e *tcell.EventKey) Event {
	mod := convertMod(e.Modifiers())

	switch k := e.Key(); {
	case k == tcell.KeyRune:
		r := e.Rune()
		if mod.Has(ModCtrl) {
			r = unicode.ToLower(r)
		}
		return Event{Type: EventKey, Key: KeyRune, Rune: r, Mod: mod}
	case k == tcell.KeyEnter:
		return Event{Type: EventKey, Key: KeyEnter, Mod: mod &^ ModCtrl}
	case k == tcell.KeyTab:
		return Event{Type: EventKey, Key: KeyTab, Mod: mod &^ ModCtrl}
	case k == tcell.KeyBackspace, k == tcell.KeyBackspace2:
		return Event{Type: EventKey, Key: KeyBackspace, Mod: mod &^ ModCtrl}
	case k == tcell.KeyEscape:
		return Event{Type: EventKey, Key: KeyEscape, Mod: mod}
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return Event{
			Type: EventKey,
			Key:  KeyRune,
			Rune: 'a' + rune(k-tcell.KeyCtrlA),
			Mod:  mod | ModCtrl,
		}
	default:
		return Event{Type: EventKey, Key: KeyNone, Mod: mod}
	}
}

// convertMod converts tcell modifier mask to our ModMask.
func convertMod(m tcell.ModMask) ModMask {
	var result ModMask
	if m&tcell.ModShift != 0 {
		result |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= ModMeta
	}
	return result
}
