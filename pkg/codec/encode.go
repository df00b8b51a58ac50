package codec

import (
	"github.com/ajitpratap0/asciitab/pkg/errors"
	"github.com/ajitpratap0/asciitab/pkg/record"
)

// Encode renders t as text lines: the header block first when
// layout.EmitHeader is set, then one line per record.
func Encode(t *record.Table, layout Layout) ([]string, error) {
	if t == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "nil table")
	}
	lf, err := NewLineFormatter(t.Schema, layout)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, t.Schema.Len()+len(t.Rows))
	if layout.EmitHeader {
		lines = append(lines, t.Schema.HeaderLines()...)
	}
	for i, rec := range t.Rows {
		line, err := lf.Format(rec)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeValidation, "failed to encode record").
				WithDetail("row", i)
		}
		lines = append(lines, line)
	}
	return lines, nil
}
