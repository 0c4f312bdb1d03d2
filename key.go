package measurestore

import (
	"encoding/json"
	"strings"

	"github.com/hupe1980/measurestore/value"
)

// Key is a dimension key: one value per dimension column.
type Key []value.Value

// KeyOf builds a Key from Go values. Wrapped query values ({"value": ...}) are unwrapped.
func KeyOf(parts ...any) (Key, error) {
	k := make(Key, len(parts))
	for i, p := range parts {
		if v, ok := p.(value.Value); ok {
			k[i] = v
			continue
		}
		v, err := value.FromAny(p)
		if err != nil {
			return nil, err
		}
		k[i] = v
	}
	return k, nil
}

// MustKey is like KeyOf but panics on unconvertible parts. Intended for literals.
func MustKey(parts ...any) Key {
	k, err := KeyOf(parts...)
	if err != nil {
		panic(err)
	}
	return k
}

// Compare orders keys element-wise; a strict prefix sorts first.
func (k Key) Compare(other Key) int {
	n := min(len(k), len(other))
	for i := 0; i < n; i++ {
		if c := value.Compare(k[i], other[i]); c != 0 {
			return c
		}
	}
	return len(k) - len(other)
}

// naturalCompare orders keys element-wise with natural string ordering.
func (k Key) naturalCompare(other Key) int {
	n := min(len(k), len(other))
	for i := 0; i < n; i++ {
		if c := value.NaturalCompareValues(k[i], other[i]); c != 0 {
			return c
		}
	}
	return len(k) - len(other)
}

// Equal reports structural equality.
func (k Key) Equal(other Key) bool {
	return len(k) == len(other) && k.Compare(other) == 0
}

// Value returns the single element of a one-column key, or the key as an array value.
func (k Key) Value() value.Value {
	if len(k) == 1 {
		return k[0]
	}
	return value.Array(k)
}

func (k Key) String() string {
	parts := make([]string, len(k))
	for i, v := range k {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// MarshalJSON encodes a one-column key as its scalar and composite keys as arrays.
func (k Key) MarshalJSON() ([]byte, error) {
	if len(k) == 1 {
		return json.Marshal(k[0])
	}
	return json.Marshal([]value.Value(k))
}

func (k Key) encode() string {
	var sb strings.Builder
	sb.WriteByte('k')
	for _, v := range k {
		value.AppendKey(&sb, v)
		sb.WriteByte(';')
	}
	return sb.String()
}

func (k Key) slice(from, to int) Key {
	out := make(Key, to-from)
	copy(out, k[from:to])
	return out
}
