package value

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unique"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindInvalid represents an invalid kind.
	KindInvalid Kind = iota
	// KindNull represents a null value.
	KindNull
	// KindInt represents an integer value.
	KindInt
	// KindFloat represents a float value.
	KindFloat
	// KindString represents a string value.
	KindString
	// KindBool represents a boolean value.
	KindBool
	// KindArray represents an array value.
	KindArray
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	default:
		return "invalid"
	}
}

// Value is a small typed value used for record cells, dimension keys and aggregate results.
//
// The zero Value has KindInvalid and is treated like Null by the store.
type Value struct {
	Kind Kind                  `json:"k"`
	I64  int64                 `json:"i,omitempty"`
	F64  float64               `json:"f,omitempty"`
	s    unique.Handle[string] `json:"-"`
	B    bool                  `json:"b,omitempty"`
	A    []Value               `json:"a,omitempty"`
}

// Null returns a null Value.
func Null() Value { return Value{Kind: KindNull} }

// Int returns an int64 Value.
func Int(v int64) Value { return Value{Kind: KindInt, I64: v} }

// Float returns a float64 Value.
func Float(v float64) Value { return Value{Kind: KindFloat, F64: v} }

// String returns a string Value.
func String(v string) Value { return Value{Kind: KindString, s: unique.Make(v)} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{Kind: KindBool, B: v} }

// Array returns an array Value.
func Array(v []Value) Value { return Value{Kind: KindArray, A: v} }

// Floats returns an array Value of floats.
func Floats(vs []float64) Value {
	arr := make([]Value, len(vs))
	for i := range vs {
		arr[i] = Float(vs[i])
	}
	return Array(arr)
}

// Strings returns an array Value of strings.
func Strings(vs []string) Value {
	arr := make([]Value, len(vs))
	for i := range vs {
		arr[i] = String(vs[i])
	}
	return Array(arr)
}

// IsNull reports whether v carries no value (null or invalid).
func (v Value) IsNull() bool {
	return v.Kind == KindNull || v.Kind == KindInvalid
}

// IsNumber reports whether v is an Int or a Float.
func (v Value) IsNumber() bool {
	return v.Kind == KindInt || v.Kind == KindFloat
}

// StringValue returns the string value if Kind is KindString, otherwise empty string.
func (v Value) StringValue() string {
	if v.Kind == KindString {
		return v.s.Value()
	}
	return ""
}

// AsInt64 returns the int64 value if Kind is KindInt.
func (v Value) AsInt64() (int64, bool) {
	if v.Kind != KindInt {
		return 0, false
	}
	return v.I64, true
}

// AsFloat64 returns the float64 value if Kind is KindFloat.
func (v Value) AsFloat64() (float64, bool) {
	if v.Kind != KindFloat {
		return 0, false
	}
	return v.F64, true
}

// AsString returns the string value if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.s.Value(), true
}

// AsBool returns the boolean value if Kind is KindBool.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.B, true
}

// AsArray returns the array value if Kind is KindArray.
func (v Value) AsArray() ([]Value, bool) {
	if v.Kind != KindArray {
		return nil, false
	}
	return v.A, true
}

// Float64 coerces numeric values to float64.
func (v Value) Float64() (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.I64), true
	case KindFloat:
		return v.F64, true
	default:
		return 0, false
	}
}

// Interface returns the plain Go representation of v.
func (v Value) Interface() any {
	switch v.Kind {
	case KindInt:
		return v.I64
	case KindFloat:
		return v.F64
	case KindString:
		return v.s.Value()
	case KindBool:
		return v.B
	case KindArray:
		out := make([]any, len(v.A))
		for i := range v.A {
			out[i] = v.A[i].Interface()
		}
		return out
	default:
		return nil
	}
}

// String implements fmt.Stringer. Null renders as the empty string.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.I64, 10)
	case KindFloat:
		return strconv.FormatFloat(v.F64, 'g', -1, 64)
	case KindString:
		return v.s.Value()
	case KindBool:
		return strconv.FormatBool(v.B)
	case KindArray:
		parts := make([]string, len(v.A))
		for i := range v.A {
			parts[i] = v.A[i].String()
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return ""
	}
}

// Key returns a stable, injective string encoding for use in maps.
//
// Numerically equal Int and Float values share a key, so 1 and 1.0 group together.
// Strings are length-prefixed: no value can forge the encoding of a sequence of values.
func (v Value) Key() string {
	var sb strings.Builder
	v.appendKey(&sb)
	return sb.String()
}

func (v Value) appendKey(sb *strings.Builder) {
	switch v.Kind {
	case KindInt:
		sb.WriteString("i:")
		sb.WriteString(strconv.FormatInt(v.I64, 10))
	case KindFloat:
		if f := v.F64; f == math.Trunc(f) && math.Abs(f) < 1<<63 {
			sb.WriteString("i:")
			sb.WriteString(strconv.FormatInt(int64(f), 10))
			return
		}
		sb.WriteString("f:")
		sb.WriteString(strconv.FormatUint(math.Float64bits(v.F64), 16))
	case KindString:
		s := v.s.Value()
		sb.WriteString("s")
		sb.WriteString(strconv.Itoa(len(s)))
		sb.WriteByte(':')
		sb.WriteString(s)
	case KindBool:
		if v.B {
			sb.WriteString("b:1")
		} else {
			sb.WriteString("b:0")
		}
	case KindArray:
		sb.WriteString("a")
		sb.WriteString(strconv.Itoa(len(v.A)))
		sb.WriteByte('[')
		for i := range v.A {
			v.A[i].appendKey(sb)
			sb.WriteByte(';')
		}
		sb.WriteByte(']')
	default:
		sb.WriteString("null")
	}
}

// AppendKey appends the Key encoding of v to sb.
func AppendKey(sb *strings.Builder, v Value) {
	v.appendKey(sb)
}

// MarshalJSON encodes v as the plain JSON value it represents.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.Kind == KindFloat && (math.IsNaN(v.F64) || math.IsInf(v.F64, 0)) {
		return []byte("null"), nil
	}
	return json.Marshal(v.Interface())
}

// UnmarshalJSON decodes any plain JSON scalar or array into v.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = out
	return nil
}

// Record is one row of a query result, keyed by column name.
type Record map[string]Value

// Get returns the value of column name, or Null when absent.
func (r Record) Get(name string) Value {
	v, ok := r[name]
	if !ok {
		return Null()
	}
	return v
}

// Has reports whether the record carries column name.
func (r Record) Has(name string) bool {
	_, ok := r[name]
	return ok
}

// Clone creates a shallow copy of the record. Values are immutable apart from arrays,
// which are never mutated by this module.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ToMap returns the record as plain Go values.
func (r Record) ToMap() map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		out[k] = v.Interface()
	}
	return out
}
