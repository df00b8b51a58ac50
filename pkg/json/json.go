// Package json provides pooled buffers and an ordered object writer on top
// of goccy/go-json.
//
// Go maps lose key order, so table rows and config maps are written field
// by field through ObjectWriter instead of being marshaled as maps.
package json

import (
	"bytes"
	"io"
	"sync"

	gojson "github.com/goccy/go-json"
)

var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 4096))
	},
}

// GetBuffer gets a pooled bytes.Buffer
func GetBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns a buffer to the pool
func PutBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 1024*1024 { // Don't pool very large buffers
		return
	}
	bufferPool.Put(buf)
}

// Marshal is a drop-in replacement for encoding/json.Marshal
func Marshal(v interface{}) ([]byte, error) {
	return gojson.Marshal(v)
}

// ObjectWriter builds a JSON object whose keys keep the order they were
// written in
type ObjectWriter struct {
	buf []byte
}

// NewObjectWriter creates a writer with room for initialSize bytes
func NewObjectWriter(initialSize int) *ObjectWriter {
	return &ObjectWriter{buf: make([]byte, 0, initialSize)}
}

// WriteField appends key and the marshaled value
func (w *ObjectWriter) WriteField(key string, value interface{}) error {
	data, err := gojson.Marshal(value)
	if err != nil {
		return err
	}
	return w.WriteRawField(key, data)
}

// WriteRawField appends key and an already encoded value
func (w *ObjectWriter) WriteRawField(key string, raw []byte) error {
	k, err := gojson.Marshal(key)
	if err != nil {
		return err
	}
	if len(w.buf) > 0 {
		w.buf = append(w.buf, ',')
	}
	w.buf = append(w.buf, k...)
	w.buf = append(w.buf, ':')
	w.buf = append(w.buf, raw...)
	return nil
}

// Bytes returns a copy of the object built so far
func (w *ObjectWriter) Bytes() []byte {
	out := make([]byte, 0, len(w.buf)+2)
	out = append(out, '{')
	out = append(out, w.buf...)
	return append(out, '}')
}

// WriteTo writes the object to dst followed by a newline
func (w *ObjectWriter) WriteTo(dst io.Writer) (int64, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	buf.WriteByte('{')
	buf.Write(w.buf)
	buf.WriteString("}\n")
	return buf.WriteTo(dst)
}

// Reset empties the writer for reuse
func (w *ObjectWriter) Reset() {
	w.buf = w.buf[:0]
}
