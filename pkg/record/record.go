// Package record holds typed rows and the tables that pair them with a
// schema.
//
// A Record is positionally aligned with its schema: value i belongs to
// column i. Values use the normalized representation of their column type
// (int64, uint64, float64, string or bool, see schema.Type).
package record

import (
	"github.com/ajitpratap0/asciitab/pkg/errors"
	"github.com/ajitpratap0/asciitab/pkg/schema"
)

// Record is one typed row
type Record []any

// Clone returns a shallow copy of the record. Values are immutable scalars,
// so a shallow copy is a full copy.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	copy(out, r)
	return out
}

// Table is an ordered collection of records sharing one schema
type Table struct {
	Schema *schema.Schema
	Rows   []Record
}

// NewTable builds a table after coercing every value through its column
// type. Rows with the wrong number of values fail with a shape mismatch.
func NewTable(s *schema.Schema, rows []Record) (*Table, error) {
	if s == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "table needs a schema")
	}

	out := make([]Record, len(rows))
	for i, row := range rows {
		if len(row) != s.Len() {
			return nil, errors.Newf(errors.ErrorTypeShapeMismatch,
				"row %d has %d values, schema has %d columns", i, len(row), s.Len()).
				WithDetail("row", i)
		}
		rec := make(Record, len(row))
		for j, v := range row {
			f := s.Field(j)
			cv, err := f.Type.Coerce(v)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeValidation, "column "+f.Name).
					WithDetail("row", i)
			}
			rec[j] = cv
		}
		out[i] = rec
	}

	return &Table{Schema: s, Rows: out}, nil
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Column returns the values of the named column, one per row
func (t *Table) Column(name string) ([]any, error) {
	i, ok := t.Schema.Index(name)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeSchemaLookup, "column %q not found", name)
	}
	out := make([]any, len(t.Rows))
	for r, rec := range t.Rows {
		out[r] = rec[i]
	}
	return out, nil
}

// Value returns the value of the named column in the given row
func (t *Table) Value(row int, name string) (any, error) {
	i, ok := t.Schema.Index(name)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeSchemaLookup, "column %q not found", name)
	}
	if row < 0 || row >= len(t.Rows) {
		return nil, errors.Newf(errors.ErrorTypeValidation, "row %d out of range [0,%d)", row, len(t.Rows))
	}
	return t.Rows[row][i], nil
}

// Map returns the row as a column name to value map
func (t *Table) Map(row int) map[string]any {
	rec := t.Rows[row]
	m := make(map[string]any, len(rec))
	for i, name := range t.Schema.Names() {
		m[name] = rec[i]
	}
	return m
}
