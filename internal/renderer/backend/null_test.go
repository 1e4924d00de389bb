package backend

import (
	"errors"
	"testing"
)

func TestNullBackendScriptedEvents(t *testing.T) {
	b := NewNullBackend(80, 24)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	b.PostKeys("hi")
	b.PostEvent(KeyEvent(KeyBackspace))

	for _, want := range []Event{RuneEvent('h', ModNone), RuneEvent('i', ModNone), KeyEvent(KeyBackspace)} {
		got, err := b.ReadEvent()
		if err != nil {
			t.Fatalf("ReadEvent failed: %v", err)
		}
		if got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
	}

	if _, err := b.ReadEvent(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed once the script is exhausted, got %v", err)
	}
}

func TestNullBackendOutput(t *testing.T) {
	b := NewNullBackend(80, 24)
	b.Init()

	b.PutRune('a')
	b.PutRune('界')
	if !b.EraseRune() {
		t.Error("EraseRune should succeed")
	}
	if b.Text() != "a" {
		t.Errorf("text = %q, want %q", b.Text(), "a")
	}

	b.Redraw("fresh")
	if b.Text() != "fresh" || b.Redraws() != 1 {
		t.Errorf("redraw: text = %q, redraws = %d", b.Text(), b.Redraws())
	}

	b.EraseFails = true
	if b.EraseRune() {
		t.Error("EraseRune should fail when EraseFails is set")
	}
}

func TestNullBackendLifecycle(t *testing.T) {
	b := NewNullBackend(80, 24)
	if _, err := b.ReadEvent(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}

	b.InitErr = errors.New("no tty")
	if err := b.Init(); err == nil {
		t.Error("expected Init error")
	}
	if b.Initialized() {
		t.Error("backend should not be initialized after failed Init")
	}

	b.InitErr = nil
	b.Init()
	b.Shutdown()
	if b.Initialized() || b.Shutdowns() != 1 {
		t.Errorf("initialized = %v, shutdowns = %d", b.Initialized(), b.Shutdowns())
	}
}

func TestNullBackendResize(t *testing.T) {
	b := NewNullBackend(80, 24)
	b.Init()
	b.PostEvent(Event{Type: EventResize, Width: 100, Height: 40})

	if _, err := b.ReadEvent(); err != nil {
		t.Fatalf("ReadEvent failed: %v", err)
	}
	if b.Height() != 40 {
		t.Errorf("Height() = %d, want 40", b.Height())
	}
}
