package loader

import (
	"fmt"

	"github.com/hupe1980/measurestore/codec"
)

// Format identifies the response shape of a document.
type Format uint8

const (
	// FormatUnknown is returned when no known shape matches.
	FormatUnknown Format = iota
	// FormatSelectRows is a selectRows result.
	FormatSelectRows
	// FormatGetData is a getData result.
	FormatGetData
	// FormatCellSet is an OLAP cellset.
	FormatCellSet
)

func (f Format) String() string {
	switch f {
	case FormatSelectRows:
		return "selectRows"
	case FormatGetData:
		return "getData"
	case FormatCellSet:
		return "cellset"
	default:
		return "unknown"
	}
}

// DetectFormat guesses the shape of a decoded document from its top-level keys.
func DetectFormat(c codec.Codec, data []byte) (Format, error) {
	if c == nil {
		c = codec.Default
	}
	var probe map[string]any
	if err := c.Unmarshal(data, &probe); err != nil {
		return FormatUnknown, fmt.Errorf("decode: %w", err)
	}
	switch {
	case has(probe, "axes") && has(probe, "cells"):
		return FormatCellSet, nil
	case has(probe, "metaData"):
		return FormatSelectRows, nil
	case has(probe, "rows"):
		return FormatGetData, nil
	default:
		return FormatUnknown, nil
	}
}

func has(m map[string]any, k string) bool {
	_, ok := m[k]
	return ok
}

// DecodeSelectRows decodes a selectRows result.
func DecodeSelectRows(c codec.Codec, data []byte) (*SelectRowsResponse, error) {
	return decode[SelectRowsResponse](c, data)
}

// DecodeGetData decodes a getData result.
func DecodeGetData(c codec.Codec, data []byte) (*GetDataResponse, error) {
	return decode[GetDataResponse](c, data)
}

// DecodeCellSet decodes an OLAP cellset.
func DecodeCellSet(c codec.Codec, data []byte) (*CellSet, error) {
	return decode[CellSet](c, data)
}

func decode[T any](c codec.Codec, data []byte) (*T, error) {
	if c == nil {
		c = codec.Default
	}
	var out T
	if err := c.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode with %s: %w", c.Name(), err)
	}
	return &out, nil
}
