package record

import (
	"go.uber.org/zap"

	"github.com/ajitpratap0/asciitab/pkg/errors"
	"github.com/ajitpratap0/asciitab/pkg/logger"
	"github.com/ajitpratap0/asciitab/pkg/schema"
)

// AnchorKind selects where AddColumn places a new column
type AnchorKind uint8

const (
	// AnchorLast appends the column. It is the zero value.
	AnchorLast AnchorKind = iota
	// AnchorFirst makes the column the first field
	AnchorFirst
	// AnchorAfter places the column right after a named column
	AnchorAfter
)

// Anchor is an insertion position for AddColumn
type Anchor struct {
	Kind AnchorKind
	Name string
}

// Predefined anchors
var (
	Last  = Anchor{Kind: AnchorLast}
	First = Anchor{Kind: AnchorFirst}
)

// After anchors a new column right after the named one
func After(name string) Anchor {
	return Anchor{Kind: AnchorAfter, Name: name}
}

// ParseAnchor reads the textual anchor used on the command line:
// "" or "LAST" appends, "FIRST" prepends, anything else is a column name.
func ParseAnchor(s string) Anchor {
	switch s {
	case "", "LAST":
		return Last
	case "FIRST":
		return First
	default:
		return After(s)
	}
}

// String returns the textual form accepted by ParseAnchor
func (a Anchor) String() string {
	switch a.Kind {
	case AnchorFirst:
		return "FIRST"
	case AnchorAfter:
		return a.Name
	default:
		return "LAST"
	}
}

// position resolves the anchor against s. A name that is not in the
// schema falls back to appending.
func (a Anchor) position(s *schema.Schema) int {
	switch a.Kind {
	case AnchorFirst:
		return 0
	case AnchorAfter:
		if i, ok := s.Index(a.Name); ok {
			return i + 1
		}
		logger.Debug("anchor column not found, appending",
			zap.String("anchor", a.Name),
			zap.Error(errors.Newf(errors.ErrorTypeSchemaLookup, "column %q not found", a.Name)))
		return s.Len()
	default:
		return s.Len()
	}
}

// AddColumn returns a new table with field inserted at the anchor.
//
// Every original value is copied into the new layout under its original
// column name; t itself is left untouched. The new column is filled from
// data when given, which must hold exactly one value per row, and with the
// zero value of the field type otherwise. On error no table is returned.
func AddColumn(t *Table, field schema.Field, data []any, at Anchor) (*Table, error) {
	if t == nil || t.Schema == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "add column needs a table with a schema")
	}
	if data != nil && len(data) != len(t.Rows) {
		return nil, errors.Newf(errors.ErrorTypeShapeMismatch,
			"column %q has %d values, table has %d rows", field.Name, len(data), len(t.Rows)).
			WithDetail("column", field.Name)
	}

	pos := at.position(t.Schema)
	grown, err := t.Schema.Insert(pos, field)
	if err != nil {
		return nil, err
	}

	fill, err := columnValues(field, data, len(t.Rows))
	if err != nil {
		return nil, err
	}

	rows := make([]Record, len(t.Rows))
	for r, old := range t.Rows {
		if len(old) != t.Schema.Len() {
			return nil, errors.Newf(errors.ErrorTypeShapeMismatch,
				"row %d has %d values, schema has %d columns", r, len(old), t.Schema.Len())
		}
		rec := make(Record, 0, len(old)+1)
		rec = append(rec, old[:pos]...)
		rec = append(rec, fill[r])
		rec = append(rec, old[pos:]...)
		rows[r] = rec
	}

	logger.Debug("column added",
		zap.String("column", field.Name),
		zap.String("type", field.Type.String()),
		zap.String("anchor", at.String()),
		zap.Int("position", pos),
		zap.Int("rows", len(rows)))

	return &Table{Schema: grown, Rows: rows}, nil
}

// columnValues coerces the supplied data, or produces zero values
func columnValues(field schema.Field, data []any, n int) ([]any, error) {
	out := make([]any, n)
	if data == nil {
		zero := field.Type.Zero()
		for i := range out {
			out[i] = zero
		}
		return out, nil
	}
	for i, v := range data {
		cv, err := field.Type.Coerce(v)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeValidation, "column "+field.Name).
				WithDetail("row", i)
		}
		out[i] = cv
	}
	return out, nil
}
