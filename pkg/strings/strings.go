// Package strings provides pooled string builders and the column padding
// helpers used when rendering fixed-width text.
package strings

import (
	"strings"
	"sync"
	"unicode/utf8"
)

// Builder provides efficient string building over a reusable byte buffer
type Builder struct {
	buf []byte
}

// NewBuilder creates a new string builder
func NewBuilder(capacity int) *Builder {
	return &Builder{
		buf: make([]byte, 0, capacity),
	}
}

// WriteString appends a string to the builder
func (b *Builder) WriteString(s string) {
	b.buf = append(b.buf, s...)
}

// WriteByte appends a single byte
func (b *Builder) WriteByte(c byte) error {
	b.buf = append(b.buf, c)
	return nil
}

// WriteSpaces appends n spaces. Non-positive n is a no-op.
func (b *Builder) WriteSpaces(n int) {
	for i := 0; i < n; i++ {
		b.buf = append(b.buf, ' ')
	}
}

// WritePadded appends s padded with spaces to width.
// Left-aligned text is padded on the right, otherwise on the left.
func (b *Builder) WritePadded(s string, width int, leftAlign bool) {
	pad := width - utf8.RuneCountInString(s)
	if leftAlign {
		b.WriteString(s)
		b.WriteSpaces(pad)
		return
	}
	b.WriteSpaces(pad)
	b.WriteString(s)
}

// Write implements io.Writer interface
func (b *Builder) Write(p []byte) (n int, err error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// Bytes returns the built bytes. They are only valid until the next write
// or Reset.
func (b *Builder) Bytes() []byte {
	return b.buf
}

// String returns a copy of the built string
func (b *Builder) String() string {
	return string(b.buf)
}

// Len returns the length of the built string
func (b *Builder) Len() int {
	return len(b.buf)
}

// Reset resets the builder for reuse
func (b *Builder) Reset() {
	b.buf = b.buf[:0]
}

// TrimRight drops trailing spaces from the buffer
func (b *Builder) TrimRight() {
	n := len(b.buf)
	for n > 0 && b.buf[n-1] == ' ' {
		n--
	}
	b.buf = b.buf[:n]
}

// Global pools for different string building scenarios
var (
	// Small strings (< 1KB): single rendered lines
	smallBuilderPool = &sync.Pool{
		New: func() interface{} {
			return NewBuilder(1024)
		},
	}

	// Large strings: whole rendered blocks
	largeBuilderPool = &sync.Pool{
		New: func() interface{} {
			return NewBuilder(64 * 1024)
		},
	}
)

// BuilderSize represents different builder sizes
type BuilderSize int

const (
	Small BuilderSize = iota // < 1KB
	Large                    // 64KB
)

func poolFor(size BuilderSize) *sync.Pool {
	if size == Large {
		return largeBuilderPool
	}
	return smallBuilderPool
}

// GetBuilder retrieves a pooled builder of the specified size
func GetBuilder(size BuilderSize) *Builder {
	builder := poolFor(size).Get().(*Builder)
	builder.Reset()
	return builder
}

// PutBuilder returns a builder to the appropriate pool
func PutBuilder(builder *Builder, size BuilderSize) {
	if builder == nil {
		return
	}
	builder.Reset()
	poolFor(size).Put(builder)
}

// PadRight pads s with trailing spaces up to width runes.
func PadRight(s string, width int) string {
	pad := width - utf8.RuneCountInString(s)
	if pad <= 0 {
		return s
	}
	return s + strings.Repeat(" ", pad)
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n < 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
