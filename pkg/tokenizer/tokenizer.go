// Package tokenizer splits table and config files into whitespace
// separated tokens.
//
// A table file mixes three kinds of lines:
//
//	##  comment text
//	#<  col_1                    int32
//	1       3.14159         Feynman
//
// Comment lines are collected, column declarations build the file's
// schema in order, and every other non-blank line becomes a body row.
// Lines starting with a single "#" are ignored.
package tokenizer

import (
	"bufio"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/ajitpratap0/asciitab/pkg/compression"
	"github.com/ajitpratap0/asciitab/pkg/errors"
	"github.com/ajitpratap0/asciitab/pkg/logger"
	"github.com/ajitpratap0/asciitab/pkg/schema"
)

// maxLineSize bounds a single line; wide string columns overflow the
// scanner's 64KiB default.
const maxLineSize = 4 << 20

// File is a tokenized table file
type File struct {
	// Body holds one token slice per data line
	Body [][]string
	// Lines holds the 1-based source line number of each Body row
	Lines []int
	// Comments holds the text of each "##" line, prefix and padding removed
	Comments []string
	// Schema is declared by the "#<" lines; nil when there are none
	Schema *schema.Schema
}

// KeyTokens is one line of a config file split into its key and the
// tokens that follow it
type KeyTokens struct {
	Key    string
	Tokens []string
	Line   int
}

// Parse tokenizes a table file
func Parse(r io.Reader) (*File, error) {
	f := &File{}
	var header []string

	err := scan(r, func(n int, line string) {
		switch {
		case strings.HasPrefix(line, schema.CommentPrefix):
			f.Comments = append(f.Comments, strings.TrimSpace(line[len(schema.CommentPrefix):]))
		case strings.HasPrefix(line, schema.HeaderPrefix):
			header = append(header, line)
		case strings.HasPrefix(line, "#"):
		default:
			f.Body = append(f.Body, strings.Fields(line))
			f.Lines = append(f.Lines, n)
		}
	})
	if err != nil {
		return nil, err
	}

	if len(header) > 0 {
		s, err := schema.ParseHeader(header)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeValidation, "invalid column declaration")
		}
		f.Schema = s
	}
	return f, nil
}

// ParseFile tokenizes the table file at path, decompressing by extension
func ParseFile(path string) (*File, error) {
	r, err := compression.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	f, err := Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to parse file").WithDetail("path", path)
	}
	logger.Debug("file tokenized",
		zap.String("path", path),
		zap.Int("rows", len(f.Body)),
		zap.Int("comments", len(f.Comments)),
		zap.Int("columns", f.Schema.Len()))
	return f, nil
}

// ParseBody returns every non-blank line that is not a comment as a key
// and its remaining tokens
func ParseBody(r io.Reader) ([]KeyTokens, error) {
	var body []KeyTokens
	err := scan(r, func(n int, line string) {
		if strings.HasPrefix(line, "#") {
			return
		}
		tokens := strings.Fields(line)
		body = append(body, KeyTokens{Key: tokens[0], Tokens: tokens[1:], Line: n})
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// GetBody reads the config body of the file at path
func GetBody(path string) ([]KeyTokens, error) {
	r, err := compression.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	body, err := ParseBody(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to parse file").WithDetail("path", path)
	}
	return body, nil
}

// scan calls fn for every non-blank line, trimmed of surrounding whitespace
func scan(r io.Reader, fn func(n int, line string)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fn(n, line)
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to read line").WithDetail("line", n+1)
	}
	return nil
}
