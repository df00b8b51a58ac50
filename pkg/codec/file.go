package codec

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/ajitpratap0/asciitab/pkg/compression"
	"github.com/ajitpratap0/asciitab/pkg/errors"
	"github.com/ajitpratap0/asciitab/pkg/logger"
	"github.com/ajitpratap0/asciitab/pkg/metrics"
	"github.com/ajitpratap0/asciitab/pkg/record"
	"github.com/ajitpratap0/asciitab/pkg/schema"
	stringpool "github.com/ajitpratap0/asciitab/pkg/strings"
	"github.com/ajitpratap0/asciitab/pkg/tokenizer"
)

// Reporter receives advisory messages, such as the count of rows dropped
// while reading a file
type Reporter func(message string)

// WarnReporter logs advisories at warn level through the global logger
func WarnReporter(message string) {
	logger.Warn(message)
}

// ReadOption configures ReadFile
type ReadOption func(*readOptions)

type readOptions struct {
	schema   *schema.Schema
	reporter Reporter
}

// WithSchema decodes with s instead of the schema declared in the file
func WithSchema(s *schema.Schema) ReadOption {
	return func(o *readOptions) {
		o.schema = s
	}
}

// WithReporter sends advisories to r instead of the logger
func WithReporter(r Reporter) ReadOption {
	return func(o *readOptions) {
		o.reporter = r
	}
}

// WriteOption configures WriteFile, OpenAppend and StartFile
type WriteOption func(*writeOptions)

type writeOptions struct {
	level compression.Level
}

// WithCompressionLevel sets the level used when the path names a
// compressed format
func WithCompressionLevel(level compression.Level) WriteOption {
	return func(o *writeOptions) {
		o.level = level
	}
}

func newWriteOptions(opts []WriteOption) writeOptions {
	o := writeOptions{level: compression.Default}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ReadFile tokenizes and decodes the table file at path. Dropped rows are
// reported through the advisory reporter and never fail the read.
func ReadFile(path string, opts ...ReadOption) (*Result, error) {
	o := readOptions{reporter: WarnReporter}
	for _, opt := range opts {
		opt(&o)
	}

	timer := metrics.NewTimer(metrics.OpRead)
	f, err := tokenizer.ParseFile(path)
	if err != nil {
		return nil, err
	}

	s := o.schema
	if s == nil {
		s = f.Schema
	}
	if s == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "file declares no columns and no schema was given").
			WithDetail("path", path)
	}

	res := decode(f.Body, f.Lines, s)
	res.Comments = f.Comments
	metrics.RowsDecoded.Add(float64(len(res.Table.Rows)))
	metrics.RowsDropped.Add(float64(res.Failures))
	timer.ObserveDuration()

	for _, rowErr := range res.Errors {
		logger.Debug("row dropped", zap.String("path", path), zap.Int("line", rowErr.Line), zap.Error(rowErr.Err))
	}
	if res.Failures > 0 && o.reporter != nil {
		o.reporter(fmt.Sprintf("%d lines not read in %s.", res.Failures, path))
	}
	return res, nil
}

// WriteFile renders t to path, replacing any existing file. The file is
// compressed when the extension asks for it.
func WriteFile(path string, t *record.Table, layout Layout, opts ...WriteOption) (err error) {
	o := newWriteOptions(opts)
	timer := metrics.NewTimer(metrics.OpWrite)
	lines, err := Encode(t, layout)
	if err != nil {
		return err
	}

	w, err := compression.CreateFile(path, o.level)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()

	if err := writeLines(w, lines); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to write table").WithDetail("path", path)
	}
	metrics.LinesWritten.WithLabelValues(metrics.OpWrite).Add(float64(len(lines)))
	timer.ObserveDuration()
	logger.Debug("table written", zap.String("path", path), zap.Int("rows", t.Len()))
	return nil
}

// writeChunk is the buffered size at which writeLines hands data to w
const writeChunk = 32 * 1024

func writeLines(w io.Writer, lines []string) error {
	b := stringpool.GetBuilder(stringpool.Large)
	defer stringpool.PutBuilder(b, stringpool.Large)

	for _, line := range lines {
		b.WriteString(line)
		_ = b.WriteByte('\n')
		if b.Len() >= writeChunk {
			if _, err := w.Write(b.Bytes()); err != nil {
				return err
			}
			b.Reset()
		}
	}
	if b.Len() > 0 {
		if _, err := w.Write(b.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// Appender keeps a table file open so records can be added one at a time.
// Each Write reaches the file before it returns. The caller must Close it.
type Appender struct {
	path   string
	w      compression.Writer
	format *LineFormatter
	closed bool
}

// OpenAppend writes t to path like WriteFile and returns the open file for
// further records
func OpenAppend(path string, t *record.Table, layout Layout, opts ...WriteOption) (*Appender, error) {
	if t == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "nil table")
	}
	a, err := create(path, t.Schema, layout, layout.EmitHeader, newWriteOptions(opts))
	if err != nil {
		return nil, err
	}
	for _, rec := range t.Rows {
		if err := a.Write(rec); err != nil {
			_ = a.Close()
			return nil, err
		}
	}
	return a, nil
}

// StartFile creates path with only the header block of s and returns the
// open file for records
func StartFile(path string, s *schema.Schema, layout Layout, opts ...WriteOption) (*Appender, error) {
	return create(path, s, layout, true, newWriteOptions(opts))
}

func create(path string, s *schema.Schema, layout Layout, header bool, o writeOptions) (*Appender, error) {
	lf, err := NewLineFormatter(s, layout)
	if err != nil {
		return nil, err
	}
	w, err := compression.CreateFile(path, o.level)
	if err != nil {
		return nil, err
	}
	a := &Appender{path: path, w: w, format: lf}

	if header {
		lines := s.HeaderLines()
		if err := a.writeAndFlush(lines); err != nil {
			_ = w.Close()
			return nil, err
		}
	}
	return a, nil
}

// Write renders rec and flushes it to the file
func (a *Appender) Write(rec record.Record) error {
	if a.closed {
		return errors.New(errors.ErrorTypeIO, "appender is closed").WithDetail("path", a.path)
	}
	line, err := a.format.Format(rec)
	if err != nil {
		return err
	}
	return a.writeAndFlush([]string{line})
}

func (a *Appender) writeAndFlush(lines []string) error {
	if err := writeLines(a.w, lines); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to append").WithDetail("path", a.path)
	}
	if err := a.w.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to flush").WithDetail("path", a.path)
	}
	metrics.LinesWritten.WithLabelValues(metrics.OpAppend).Add(float64(len(lines)))
	return nil
}

// Format returns the line formatter shared by every record of the file
func (a *Appender) Format() *LineFormatter {
	return a.format
}

// Path returns the file the appender writes to
func (a *Appender) Path() string {
	return a.path
}

// Close finishes the file and releases it. Later calls are no-ops.
func (a *Appender) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	return a.w.Close()
}
