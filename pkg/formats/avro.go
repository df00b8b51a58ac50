package formats

import (
	"io"
	"math"

	"github.com/linkedin/goavro/v2"

	"github.com/ajitpratap0/asciitab/pkg/errors"
	jsonpool "github.com/ajitpratap0/asciitab/pkg/json"
	"github.com/ajitpratap0/asciitab/pkg/record"
	"github.com/ajitpratap0/asciitab/pkg/schema"
)

// AvroRecordName names the record type in exported Avro files
const AvroRecordName = "AsciiTable"

// AvroSchema returns the Avro record schema for s as JSON
func AvroSchema(s *schema.Schema) (string, error) {
	fields := make([]map[string]interface{}, 0, s.Len())
	seen := make(map[string]string, s.Len())
	for _, f := range s.Fields() {
		name := avroName(f.Name)
		if prev, ok := seen[name]; ok {
			return "", errors.Newf(errors.ErrorTypeValidation,
				"columns %q and %q map to the same avro field %q", prev, f.Name, name)
		}
		seen[name] = f.Name
		fields = append(fields, map[string]interface{}{
			"name": name,
			"type": avroType(f.Type),
		})
	}

	schemaMap := map[string]interface{}{
		"type":   "record",
		"name":   AvroRecordName,
		"fields": fields,
	}
	data, err := jsonpool.Marshal(schemaMap)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeValidation, "failed to encode avro schema")
	}
	return string(data), nil
}

func avroType(t schema.Type) string {
	switch t.Kind {
	case schema.Int, schema.Uint:
		return "long"
	case schema.Float:
		return "double"
	case schema.Bool:
		return "boolean"
	default:
		return "string"
	}
}

// avroName replaces characters Avro does not allow in names with '_'
func avroName(name string) string {
	out := []byte(name)
	for i, c := range out {
		letter := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		digit := c >= '0' && c <= '9'
		if !letter && !(digit && i > 0) {
			out[i] = '_'
		}
	}
	return string(out)
}

// WriteAvro writes t as a deflate compressed Avro object container file
func WriteAvro(w io.Writer, t *record.Table) error {
	avroSchema, err := AvroSchema(t.Schema)
	if err != nil {
		return err
	}
	codec, err := goavro.NewCodec(avroSchema)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeValidation, "failed to create avro codec")
	}
	ocf, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:               w,
		Codec:           codec,
		CompressionName: goavro.CompressionDeflateLabel,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to create avro writer")
	}

	fields := t.Schema.Fields()
	batch := make([]interface{}, 0, len(t.Rows))
	for r, rec := range t.Rows {
		if len(rec) != len(fields) {
			return errors.Newf(errors.ErrorTypeShapeMismatch,
				"record has %d values, schema has %d columns", len(rec), len(fields)).WithDetail("row", r)
		}
		native := make(map[string]interface{}, len(fields))
		for i, f := range fields {
			v, err := avroValue(f.Type, rec[i])
			if err != nil {
				return errors.Wrap(err, errors.ErrorTypeValidation, "column "+f.Name).WithDetail("row", r)
			}
			native[avroName(f.Name)] = v
		}
		batch = append(batch, native)
	}

	if err := ocf.Append(batch); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to write avro records")
	}
	return nil
}

func avroValue(t schema.Type, v any) (any, error) {
	cv, err := t.Coerce(v)
	if err != nil {
		return nil, err
	}
	if u, ok := cv.(uint64); ok {
		if u > math.MaxInt64 {
			return nil, errors.Newf(errors.ErrorTypeValidation, "value %d does not fit an avro long", u)
		}
		return int64(u), nil
	}
	return cv, nil
}
