package formats

import (
	"bufio"
	"io"

	"github.com/ajitpratap0/asciitab/pkg/cfgfile"
	"github.com/ajitpratap0/asciitab/pkg/errors"
	jsonpool "github.com/ajitpratap0/asciitab/pkg/json"
	"github.com/ajitpratap0/asciitab/pkg/record"
	"github.com/ajitpratap0/asciitab/pkg/schema"
)

type columnJSON struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// WriteJSON writes {"schema":[...],"rows":[...]} with one object per row
func WriteJSON(w io.Writer, t *record.Table) error {
	bw := bufio.NewWriter(w)

	columns := make([]columnJSON, t.Schema.Len())
	for i, f := range t.Schema.Fields() {
		columns[i] = columnJSON{Name: f.Name, Type: f.Type.String()}
	}
	header, err := jsonpool.Marshal(columns)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeValidation, "failed to encode schema")
	}

	_, _ = bw.WriteString(`{"schema":`)
	_, _ = bw.Write(header)
	_, _ = bw.WriteString(`,"rows":[`)

	obj := jsonpool.NewObjectWriter(256)
	for i, rec := range t.Rows {
		if err := rowObject(obj, t.Schema, rec); err != nil {
			return errors.Wrap(err, errors.ErrorTypeValidation, "failed to encode row").WithDetail("row", i)
		}
		if i > 0 {
			_ = bw.WriteByte(',')
		}
		_, _ = bw.Write(obj.Bytes())
	}
	_, _ = bw.WriteString("]}\n")

	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to write json")
	}
	return nil
}

// WriteJSONLines writes one JSON object per record
func WriteJSONLines(w io.Writer, t *record.Table) error {
	bw := bufio.NewWriter(w)
	obj := jsonpool.NewObjectWriter(256)
	for i, rec := range t.Rows {
		if err := rowObject(obj, t.Schema, rec); err != nil {
			return errors.Wrap(err, errors.ErrorTypeValidation, "failed to encode row").WithDetail("row", i)
		}
		_, _ = bw.Write(obj.Bytes())
		_ = bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to write json lines")
	}
	return nil
}

// WriteConfigJSON writes a config map as one JSON object, keys in file order
func WriteConfigJSON(w io.Writer, m *cfgfile.Map) error {
	obj := jsonpool.NewObjectWriter(256)
	var err error
	m.Each(func(key string, v any) {
		if err == nil {
			err = obj.WriteField(key, v)
		}
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeValidation, "failed to encode config")
	}
	if _, err := obj.WriteTo(w); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to write json")
	}
	return nil
}

func rowObject(obj *jsonpool.ObjectWriter, s *schema.Schema, rec record.Record) error {
	if len(rec) != s.Len() {
		return errors.Newf(errors.ErrorTypeShapeMismatch, "record has %d values, schema has %d columns", len(rec), s.Len())
	}
	obj.Reset()
	for i, f := range s.Fields() {
		if err := obj.WriteField(f.Name, rec[i]); err != nil {
			return err
		}
	}
	return nil
}
