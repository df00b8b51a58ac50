package formats

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/asciitab/pkg/errors"
	"github.com/ajitpratap0/asciitab/pkg/record"
	"github.com/ajitpratap0/asciitab/pkg/schema"
)

// TypeMetadataKey holds the original column type name in Arrow field
// metadata, since Arrow columns are always 64 bits wide
const TypeMetadataKey = "asciitab.type"

// ArrowSchema maps a table schema to Arrow
func ArrowSchema(s *schema.Schema) *arrow.Schema {
	fields := make([]arrow.Field, s.Len())
	for i, f := range s.Fields() {
		fields[i] = arrow.Field{
			Name:     f.Name,
			Type:     arrowType(f.Type),
			Metadata: arrow.NewMetadata([]string{TypeMetadataKey}, []string{f.Type.String()}),
		}
	}
	return arrow.NewSchema(fields, nil)
}

func arrowType(t schema.Type) arrow.DataType {
	switch t.Kind {
	case schema.Int:
		return arrow.PrimitiveTypes.Int64
	case schema.Uint:
		return arrow.PrimitiveTypes.Uint64
	case schema.Float:
		return arrow.PrimitiveTypes.Float64
	case schema.Bool:
		return arrow.FixedWidthTypes.Boolean
	default:
		return arrow.BinaryTypes.String
	}
}

// WriteArrow writes t as a single record batch in the Arrow IPC file format
func WriteArrow(w io.Writer, t *record.Table) error {
	pool := memory.NewGoAllocator()
	arrowSchema := ArrowSchema(t.Schema)

	b := array.NewRecordBuilder(pool, arrowSchema)
	defer b.Release()

	for r, rec := range t.Rows {
		if len(rec) != t.Schema.Len() {
			return errors.Newf(errors.ErrorTypeShapeMismatch,
				"record has %d values, schema has %d columns", len(rec), t.Schema.Len()).WithDetail("row", r)
		}
		for i, f := range t.Schema.Fields() {
			v, err := f.Type.Coerce(rec[i])
			if err != nil {
				return errors.Wrap(err, errors.ErrorTypeValidation, "column "+f.Name).WithDetail("row", r)
			}
			appendArrowValue(b.Field(i), v)
		}
	}

	batch := b.NewRecord()
	defer batch.Release()

	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(arrowSchema), ipc.WithAllocator(pool))
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to create arrow writer")
	}
	if err := fw.Write(batch); err != nil {
		_ = fw.Close()
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to write record batch")
	}
	if err := fw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to close arrow writer")
	}
	return nil
}

// appendArrowValue appends a normalized value; builders match arrowType
func appendArrowValue(builder array.Builder, v any) {
	switch b := builder.(type) {
	case *array.Int64Builder:
		b.Append(v.(int64))
	case *array.Uint64Builder:
		b.Append(v.(uint64))
	case *array.Float64Builder:
		b.Append(v.(float64))
	case *array.BooleanBuilder:
		b.Append(v.(bool))
	case *array.StringBuilder:
		b.Append(v.(string))
	default:
		builder.AppendNull()
	}
}
