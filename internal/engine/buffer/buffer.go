package buffer

import (
	"errors"
	"unicode/utf8"
)

// Errors returned by buffer operations.
var (
	// ErrOutOfMemory is returned when the buffer cannot grow to hold an
	// appended rune. The content is left unchanged.
	ErrOutOfMemory = errors.New("out of memory")
)

const (
	// DefaultCapacity is the capacity of a buffer started without content.
	DefaultCapacity = 1024

	// GrowthFactor is the multiplier applied to the capacity on each
	// growth event. A growth event is triggered whenever an append would
	// make length+n reach or pass the capacity, which keeps one slot free
	// past the last byte.
	GrowthFactor = 2
)

// Stats reports buffer allocation counters.
type Stats struct {
	// Growths is the number of growth events since construction.
	Growths int
}

// Buffer is an append-only-at-end text buffer with explicit capacity
// management and a dirty flag.
type Buffer struct {
	data     []byte
	length   int
	capacity int
	maxCap   int
	dirty    bool
	growths  int
}

// New creates an empty buffer with the given initial capacity.
// A negative capacity is treated as zero.
func New(capacity int, opts ...Option) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	b := &Buffer{
		data:     make([]byte, capacity),
		capacity: capacity,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewFromBytes creates a buffer holding a copy of data. The capacity is
// one past the content length. The maximum capacity option only limits
// later growth; it never rejects the initial content. Use CanGrow to find
// out whether the result is editable.
func NewFromBytes(data []byte, opts ...Option) *Buffer {
	b := New(len(data)+1, opts...)
	b.length = copy(b.data, data)
	return b
}

// NewFromString creates a buffer holding s.
func NewFromString(s string, opts ...Option) *Buffer {
	return NewFromBytes([]byte(s), opts...)
}

// Text returns the buffer content as a string.
func (b *Buffer) Text() string {
	return string(b.data[:b.length])
}

// Bytes returns a copy of the buffer content.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, b.length)
	copy(out, b.data[:b.length])
	return out
}

// Len returns the content length in bytes.
func (b *Buffer) Len() int {
	return b.length
}

// Cap returns the allocated capacity in bytes.
func (b *Buffer) Cap() int {
	return b.capacity
}

// IsEmpty returns true if the buffer holds no text.
func (b *Buffer) IsEmpty() bool {
	return b.length == 0
}

// IsDirty returns true if the content changed since construction or the
// last ClearDirty.
func (b *Buffer) IsDirty() bool {
	return b.dirty
}

// ClearDirty marks the content as saved.
func (b *Buffer) ClearDirty() {
	b.dirty = false
}

// Stats returns allocation counters.
func (b *Buffer) Stats() Stats {
	return Stats{Growths: b.growths}
}

// AppendRune appends r to the end of the buffer, growing the capacity as
// needed. Invalid runes are stored as utf8.RuneError.
func (b *Buffer) AppendRune(r rune) error {
	n := utf8.RuneLen(r)
	if n < 0 {
		r = utf8.RuneError
		n = utf8.RuneLen(r)
	}

	for b.length+n >= b.capacity {
		if err := b.grow(); err != nil {
			return err
		}
	}

	utf8.EncodeRune(b.data[b.length:], r)
	b.length += n
	b.dirty = true
	return nil
}

// DeleteLastRune removes the last code point. It returns the removed rune
// and true, or false if the buffer was empty. Bytes that are not valid
// UTF-8 are removed one at a time and reported as utf8.RuneError.
func (b *Buffer) DeleteLastRune() (rune, bool) {
	if b.length == 0 {
		return 0, false
	}

	r, size := utf8.DecodeLastRune(b.data[:b.length])
	b.length -= size
	b.dirty = true
	return r, true
}

// CanGrow reports whether one more growth event fits under the maximum
// capacity. A loaded buffer that cannot grow cannot accept any input.
func (b *Buffer) CanGrow() bool {
	_, err := b.nextCap()
	return err == nil
}

// grow performs one growth event.
func (b *Buffer) grow() error {
	newCap, err := b.nextCap()
	if err != nil {
		return err
	}

	data := make([]byte, newCap)
	copy(data, b.data[:b.length])
	b.data = data
	b.capacity = newCap
	b.growths++
	return nil
}

// nextCap returns the capacity after one growth event. The capacity always
// strictly increases so a zero-capacity buffer still makes progress, and it
// never stops short of a full doubling to fit under the maximum.
func (b *Buffer) nextCap() (int, error) {
	newCap := b.capacity * GrowthFactor
	if newCap <= b.capacity {
		// Zero capacity or overflow.
		newCap = b.capacity + 1
		if newCap <= 0 {
			return 0, ErrOutOfMemory
		}
	}

	if b.maxCap > 0 && newCap > b.maxCap {
		return 0, ErrOutOfMemory
	}
	return newCap, nil
}
