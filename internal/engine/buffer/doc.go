// Package buffer provides the growable text buffer edited by a session.
//
// A Buffer holds UTF-8 encoded text in a byte slice whose capacity is
// managed explicitly rather than left to append. Growth doubles the
// capacity whenever an append would reach it, so the number of growth
// events for a given sequence of appends is predictable:
//
//	buf := buffer.New(4)
//	for _, r := range "hello" {
//	    if err := buf.AppendRune(r); err != nil {
//	        return err
//	    }
//	}
//	buf.Cap()   // 8
//	buf.Text()  // "hello"
//
// Editing is append and delete-at-end only. DeleteLastRune removes exactly
// one code point, so AppendRune followed by DeleteLastRune always restores
// the previous content.
//
// # Dirty Tracking
//
// A buffer is clean when constructed. Any successful mutation marks it
// dirty; callers clear the flag after persisting the text.
//
// # Thread Safety
//
// A Buffer has a single owner and is not safe for concurrent use.
package buffer
