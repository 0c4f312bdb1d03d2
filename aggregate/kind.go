package aggregate

import (
	"fmt"
	"strings"
)

// Kind names an aggregate operation.
type Kind uint8

const (
	// Count is the number of (non-null) values folded in.
	Count Kind = iota + 1
	// Sum is the sum of values.
	Sum
	// Mean is Sum / Count.
	Mean
	// Median is the middle value, or the mean of the two middle values.
	Median
	// Min is the smallest value.
	Min
	// Max is the largest value.
	Max
	// Var is the sample variance (n-1 denominator).
	Var
	// StdDev is the square root of Var.
	StdDev
	// StdErr is StdDev / sqrt(Count).
	StdErr
	// CountDistinct is the number of distinct values.
	CountDistinct
	// Values is the collected values as an array.
	Values
	// Value is the single value shared by every folded record, if there is one.
	Value
)

var kindNames = map[Kind]string{
	Count:         "COUNT",
	Sum:           "SUM",
	Mean:          "MEAN",
	Median:        "MEDIAN",
	Min:           "MIN",
	Max:           "MAX",
	Var:           "VAR",
	StdDev:        "STDDEV",
	StdErr:        "STDERR",
	CountDistinct: "COUNTDISTINCT",
	Values:        "VALUES",
	Value:         "VALUE",
}

// String returns the upper-case name of the kind, e.g. "STDDEV".
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind parses an aggregate name case-insensitively.
func ParseKind(s string) (Kind, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("aggregate %q does not exist", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("invalid aggregate kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
