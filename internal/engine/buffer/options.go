package buffer

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithMaxCapacity limits how far the buffer may grow. A growth event whose
// doubled capacity would exceed limit fails with ErrOutOfMemory; the
// capacity is never clamped to limit. Zero means unlimited.
func WithMaxCapacity(limit int) Option {
	return func(b *Buffer) {
		if limit > 0 {
			b.maxCap = limit
		}
	}
}
