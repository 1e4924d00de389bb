// Package key provides key event types, key specification parsing and the
// keymap that turns raw key events into editing actions.
//
// This package defines:
//
//   - Key: identifies a keyboard key (a small set of special keys, or a rune)
//   - Modifier: modifier keys (Ctrl, Alt, Shift, Meta)
//   - Event: a single key press with modifiers
//   - Action: the tagged result of classifying an Event (char, backspace,
//     quit, save, resize, other)
//   - Keymap: the quit and save bindings used to classify events
//
// # Key Specifications
//
// Bindings can be written in two formats:
//
//   - With modifiers: "Ctrl+S", "Ctrl+Q", "Alt+X"
//   - Vim-style: "<C-s>", "<C-q>", "<Esc>"
package key
