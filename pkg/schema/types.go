package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ajitpratap0/asciitab/pkg/errors"
	stringpool "github.com/ajitpratap0/asciitab/pkg/strings"
)

// Kind is the closed set of primitive column kinds.
type Kind uint8

const (
	// Invalid is the zero Kind; no column may use it
	Invalid Kind = iota
	// Int is a signed integer of Width bits
	Int
	// Uint is an unsigned integer of Width bits
	Uint
	// Float is a floating point number of Width bits
	Float
	// String is a fixed-length string of at most Width characters
	String
	// Bool is a boolean
	Bool
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Uint:
		return "uint"
	case Float:
		return "float"
	case String:
		return "string"
	case Bool:
		return "bool"
	default:
		return "invalid"
	}
}

// Type is a primitive column type. Width is a bit size for numeric kinds
// and a maximum length in characters for String; Bool ignores it.
//
// Values decoded or coerced through a Type are always normalized to one Go
// representation per kind: int64, uint64, float64, string or bool.
type Type struct {
	Kind  Kind
	Width int
}

// Predefined types
var (
	Int8    = Type{Kind: Int, Width: 8}
	Int16   = Type{Kind: Int, Width: 16}
	Int32   = Type{Kind: Int, Width: 32}
	Int64   = Type{Kind: Int, Width: 64}
	Uint8   = Type{Kind: Uint, Width: 8}
	Uint16  = Type{Kind: Uint, Width: 16}
	Uint32  = Type{Kind: Uint, Width: 32}
	Uint64  = Type{Kind: Uint, Width: 64}
	Float16 = Type{Kind: Float, Width: 16}
	Float32 = Type{Kind: Float, Width: 32}
	Float64 = Type{Kind: Float, Width: 64}
	Boolean = Type{Kind: Bool}
)

// FixedString returns a string type holding at most n characters.
func FixedString(n int) Type {
	return Type{Kind: String, Width: n}
}

// EmptyString is the token written for an empty string value. Rows are
// split on whitespace, so an empty field would otherwise vanish.
const EmptyString = `""`

// kindOps is the per-kind behaviour table. Every Kind except Invalid has
// an entry, so lookups never miss for a validated Type.
type kindOps struct {
	parse  func(t Type, token string) (any, error)
	coerce func(t Type, v any) (any, error)
	zero   any
}

var ops = map[Kind]kindOps{
	Int:    {parse: parseInt, coerce: coerceInt, zero: int64(0)},
	Uint:   {parse: parseUint, coerce: coerceUint, zero: uint64(0)},
	Float:  {parse: parseFloat, coerce: coerceFloat, zero: float64(0)},
	String: {parse: parseString, coerce: coerceString, zero: ""},
	Bool:   {parse: parseBool, coerce: coerceBool, zero: false},
}

// ParseType parses a type name as written in a `#<` header line.
//
// Accepted names: int8..int64 and int (64 bits), uint8..uint64 and uint,
// float16, float32, float64 and float (64 bits), bool and bool_, and fixed
// strings written U<n>, S<n> or str<n>. Byte-order prefixes (<, >, =, |)
// are ignored, so "<U20" and "|S8" are accepted.
func ParseType(name string) (Type, error) {
	n := strings.TrimLeft(strings.TrimSpace(name), "<>=|")

	switch n {
	case "bool", "bool_", "?":
		return Boolean, nil
	case "int":
		return Int64, nil
	case "uint":
		return Uint64, nil
	case "float":
		return Float64, nil
	}

	var t Type
	var digits string
	switch {
	case strings.HasPrefix(n, "uint"):
		t.Kind, digits = Uint, n[4:]
	case strings.HasPrefix(n, "int"):
		t.Kind, digits = Int, n[3:]
	case strings.HasPrefix(n, "float"):
		t.Kind, digits = Float, n[5:]
	case strings.HasPrefix(n, "str"):
		t.Kind, digits = String, n[3:]
	case strings.HasPrefix(n, "U"), strings.HasPrefix(n, "S"):
		t.Kind, digits = String, n[1:]
	default:
		return Type{}, errors.Newf(errors.ErrorTypeValidation, "unknown column type %q", name)
	}

	width, err := strconv.Atoi(digits)
	if err != nil {
		return Type{}, errors.Newf(errors.ErrorTypeValidation, "unknown column type %q", name)
	}
	t.Width = width

	if err := t.Validate(); err != nil {
		return Type{}, err
	}
	return t, nil
}

// Validate checks that the kind and width combination is supported
func (t Type) Validate() error {
	switch t.Kind {
	case Int, Uint:
		switch t.Width {
		case 8, 16, 32, 64:
			return nil
		}
	case Float:
		switch t.Width {
		case 16, 32, 64:
			return nil
		}
	case String:
		if t.Width > 0 {
			return nil
		}
	case Bool:
		return nil
	}
	return errors.Newf(errors.ErrorTypeValidation, "unsupported %s width %d", t.Kind, t.Width)
}

// String returns the canonical type name written into headers
func (t Type) String() string {
	switch t.Kind {
	case Int:
		return "int" + strconv.Itoa(t.Width)
	case Uint:
		return "uint" + strconv.Itoa(t.Width)
	case Float:
		return "float" + strconv.Itoa(t.Width)
	case String:
		return "U" + strconv.Itoa(t.Width)
	case Bool:
		return "bool"
	default:
		return "invalid"
	}
}

// Parse converts a raw text token into the normalized value for t.
func (t Type) Parse(token string) (any, error) {
	op, ok := ops[t.Kind]
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeValidation, "cannot parse into %s", t)
	}
	return op.parse(t, token)
}

// Coerce normalizes a caller supplied Go value to the representation used
// for t. Numeric conversions are range checked against the width.
func (t Type) Coerce(v any) (any, error) {
	op, ok := ops[t.Kind]
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeValidation, "cannot coerce into %s", t)
	}
	if v == nil {
		return nil, errors.Newf(errors.ErrorTypeValidation, "nil value for %s column", t)
	}
	return op.coerce(t, v)
}

// Zero returns the default value for t
func (t Type) Zero() any {
	return ops[t.Kind].zero
}

func parseInt(t Type, token string) (any, error) {
	v, err := strconv.ParseInt(token, 10, t.Width)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, "invalid "+t.String())
	}
	return v, nil
}

func parseUint(t Type, token string) (any, error) {
	v, err := strconv.ParseUint(token, 10, t.Width)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, "invalid "+t.String())
	}
	return v, nil
}

func parseFloat(t Type, token string) (any, error) {
	bits := 64
	if t.Width == 32 {
		bits = 32
	}
	v, err := strconv.ParseFloat(token, bits)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, "invalid "+t.String())
	}
	if t.Width == 16 {
		h := roundHalf(v)
		if math.IsInf(h, 0) && !math.IsInf(v, 0) {
			return nil, errors.Newf(errors.ErrorTypeValidation, "invalid %s: %q out of range", t, token)
		}
		return h, nil
	}
	return v, nil
}

// roundHalf rounds f to the nearest IEEE 754 half precision value, ties
// to even. Magnitudes past the largest half overflow to infinity.
func roundHalf(f float64) float64 {
	if f == 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return f
	}
	_, exp := math.Frexp(f)
	// 10 stored mantissa bits; subnormals share the 2^-24 step.
	step := exp - 11
	if step < -24 {
		step = -24
	}
	h := math.Ldexp(math.RoundToEven(math.Ldexp(f, -step)), step)
	if math.Abs(h) > maxHalf {
		return math.Copysign(math.Inf(1), f)
	}
	return h
}

// maxHalf is the largest finite half precision value
const maxHalf = 65504

func parseString(t Type, token string) (any, error) {
	if token == EmptyString {
		return "", nil
	}
	return stringpool.Truncate(token, t.Width), nil
}

func parseBool(t Type, token string) (any, error) {
	switch strings.ToLower(token) {
	case "true", "t", "1":
		return true, nil
	case "false", "f", "0":
		return false, nil
	}
	return nil, errors.Newf(errors.ErrorTypeValidation, "invalid bool %q", token)
}

func intRange(width int) (int64, int64) {
	if width >= 64 {
		return math.MinInt64, math.MaxInt64
	}
	return -(int64(1) << (width - 1)), int64(1)<<(width-1) - 1
}

func uintMax(width int) uint64 {
	if width >= 64 {
		return math.MaxUint64
	}
	return uint64(1)<<width - 1
}

func coerceInt(t Type, v any) (any, error) {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int8:
		n = int64(x)
	case int16:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case uint, uint8, uint16, uint32, uint64:
		u, _ := toUint64(x)
		if u > math.MaxInt64 {
			return nil, outOfRange(t, v)
		}
		n = int64(u)
	case float32, float64:
		f := toFloat64(x)
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return nil, outOfRange(t, v)
		}
		n = int64(f)
	case string:
		return parseInt(t, strings.TrimSpace(x))
	default:
		return nil, unsupported(t, v)
	}
	lo, hi := intRange(t.Width)
	if n < lo || n > hi {
		return nil, outOfRange(t, v)
	}
	return n, nil
}

func coerceUint(t Type, v any) (any, error) {
	var n uint64
	switch x := v.(type) {
	case uint, uint8, uint16, uint32, uint64:
		n, _ = toUint64(x)
	case int, int8, int16, int32, int64:
		i := toInt64(x)
		if i < 0 {
			return nil, outOfRange(t, v)
		}
		n = uint64(i)
	case float32, float64:
		f := toFloat64(x)
		if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
			return nil, outOfRange(t, v)
		}
		n = uint64(f)
	case string:
		return parseUint(t, strings.TrimSpace(x))
	default:
		return nil, unsupported(t, v)
	}
	if n > uintMax(t.Width) {
		return nil, outOfRange(t, v)
	}
	return n, nil
}

func coerceFloat(t Type, v any) (any, error) {
	var f float64
	switch x := v.(type) {
	case float32:
		f = float64(x)
	case float64:
		f = x
	case int, int8, int16, int32, int64:
		f = float64(toInt64(x))
	case uint, uint8, uint16, uint32, uint64:
		u, _ := toUint64(x)
		f = float64(u)
	case string:
		return parseFloat(t, strings.TrimSpace(x))
	default:
		return nil, unsupported(t, v)
	}
	switch t.Width {
	case 16:
		f = roundHalf(f)
	case 32:
		f = float64(float32(f))
	}
	return f, nil
}

func coerceString(t Type, v any) (any, error) {
	switch x := v.(type) {
	case string:
		return stringpool.Truncate(x, t.Width), nil
	case []byte:
		return stringpool.Truncate(string(x), t.Width), nil
	case fmt.Stringer:
		return stringpool.Truncate(x.String(), t.Width), nil
	default:
		return stringpool.Truncate(fmt.Sprint(x), t.Width), nil
	}
}

func coerceBool(t Type, v any) (any, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case int, int8, int16, int32, int64:
		return toInt64(x) != 0, nil
	case uint, uint8, uint16, uint32, uint64:
		u, _ := toUint64(x)
		return u != 0, nil
	case string:
		return parseBool(t, strings.TrimSpace(x))
	default:
		return nil, unsupported(t, v)
	}
}

func toInt64(v any) int64 {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	}
	return 0
}

func toUint64(v any) (uint64, bool) {
	switch x := v.(type) {
	case uint:
		return uint64(x), true
	case uint8:
		return uint64(x), true
	case uint16:
		return uint64(x), true
	case uint32:
		return uint64(x), true
	case uint64:
		return x, true
	}
	return 0, false
}

func toFloat64(v any) float64 {
	switch x := v.(type) {
	case float32:
		return float64(x)
	case float64:
		return x
	}
	return 0
}

func outOfRange(t Type, v any) error {
	return errors.Newf(errors.ErrorTypeValidation, "value %v out of range for %s", v, t)
}

func unsupported(t Type, v any) error {
	return errors.Newf(errors.ErrorTypeValidation, "cannot store %T in %s column", v, t)
}
