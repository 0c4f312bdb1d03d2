package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/hupe1980/measurestore"
	"github.com/hupe1980/measurestore/value"
)

// columnFilter is the set of accepted keys of one column.
type columnFilter struct {
	column string
	keys   []measurestore.Key
}

// parseFilters groups col=value arguments by column, in first-seen order.
func parseFilters(args []string) ([]columnFilter, error) {
	var out []columnFilter
	for _, arg := range args {
		col, raw, ok := strings.Cut(arg, "=")
		col = strings.TrimSpace(col)
		if !ok || col == "" {
			return nil, fmt.Errorf("invalid filter %q: want col=value", arg)
		}
		key := measurestore.Key{parseValue(raw)}

		i := slices.IndexFunc(out, func(f columnFilter) bool { return f.column == col })
		if i < 0 {
			out = append(out, columnFilter{column: col})
			i = len(out) - 1
		}
		out[i].keys = append(out[i].keys, key)
	}
	return out, nil
}

// parseValue reads numbers and booleans as such; everything else is a string.
// An empty value matches null.
func parseValue(raw string) value.Value {
	if raw == "" {
		return value.Null()
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return value.Int(i)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return value.Float(f)
	}
	switch raw {
	case "true":
		return value.Bool(true)
	case "false":
		return value.Bool(false)
	}
	return value.String(raw)
}

func applyFilters(ms *measurestore.Store, filters []columnFilter) error {
	for _, f := range filters {
		var flt measurestore.Filter
		if len(f.keys) == 1 {
			flt = measurestore.Exact(f.keys[0])
		} else {
			flt = measurestore.In(f.keys...)
		}
		if err := ms.Filter([]string{f.column}, flt); err != nil {
			return err
		}
	}
	return nil
}

// splitColumns turns "a,b" into [a b], dropping blanks.
func splitColumns(s string) []string {
	var out []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
