// Package codec converts between tokenized table files and typed tables.
//
// Decoding is tolerant: a row that does not match the schema is dropped
// and counted, and the remaining rows are still returned.
//
//	res, err := codec.ReadFile("catalog.dat")
//	if err != nil {
//	    return err
//	}
//	for _, rec := range res.Table.Rows {
//	    ...
//	}
//
// Encoding renders each record through a LineFormatter built once per
// schema, so every line of a file shares the same column layout.
package codec

import (
	"fmt"

	"github.com/ajitpratap0/asciitab/pkg/errors"
	"github.com/ajitpratap0/asciitab/pkg/record"
	"github.com/ajitpratap0/asciitab/pkg/schema"
)

// RowError describes one dropped row
type RowError struct {
	// Row is the 0-based index of the row in the decoded input
	Row int
	// Line is the 1-based source line, or 0 when decoding raw rows
	Line int
	Err  error
}

// Error implements the error interface
func (e RowError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// Unwrap returns the coercion failure
func (e RowError) Unwrap() error {
	return e.Err
}

// Result is the outcome of decoding a set of rows
type Result struct {
	Table *record.Table
	// Failures counts the dropped rows; len(Table.Rows) + Failures equals
	// the number of input rows
	Failures int
	Errors   []RowError
	// Comments holds the "##" lines of a decoded file
	Comments []string
}

// Decode coerces every row through s. Rows that fail are dropped and
// reported in the result; Decode itself never fails.
func Decode(rows [][]string, s *schema.Schema) *Result {
	return decode(rows, nil, s)
}

func decode(rows [][]string, lines []int, s *schema.Schema) *Result {
	res := &Result{
		Table: &record.Table{Schema: s, Rows: make([]record.Record, 0, len(rows))},
	}
	for i, tokens := range rows {
		rec, err := DecodeRow(tokens, s)
		if err != nil {
			rowErr := RowError{Row: i, Err: err}
			if i < len(lines) {
				rowErr.Line = lines[i]
			}
			res.Failures++
			res.Errors = append(res.Errors, rowErr)
			continue
		}
		res.Table.Rows = append(res.Table.Rows, rec)
	}
	return res
}

// DecodeRow coerces a single row of tokens, one token per column
func DecodeRow(tokens []string, s *schema.Schema) (record.Record, error) {
	if len(tokens) != s.Len() {
		return nil, errors.Newf(errors.ErrorTypeRowCoercion,
			"row has %d tokens, schema has %d columns", len(tokens), s.Len())
	}
	rec := make(record.Record, len(tokens))
	for i, token := range tokens {
		f := s.Field(i)
		v, err := f.Type.Parse(token)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeRowCoercion, "column "+f.Name).
				WithDetail("token", token)
		}
		rec[i] = v
	}
	return rec, nil
}
