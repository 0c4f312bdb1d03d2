// Package value provides the typed scalar values and records a measure store works on.
//
// Query responses deliver rows as loosely typed maps. Every cell is converted once,
// at ingestion, into a Value so that grouping, sorting and aggregation never need
// reflection or fmt-based stringification.
//
// # Value Types
//
//   - Null:   value.Null()
//   - Int:    value.Int(2024)
//   - Float:  value.Float(3.14)
//   - String: value.String("CD4")
//   - Bool:   value.Bool(true)
//   - Array:  value.Array([]value.Value{...})
//
// # Wrapped Cells
//
// Some query APIs emit cells as objects:
//
//	{"value": 42, "displayValue": "42.0", "url": "...", "mvValue": null}
//
// RecordFromAny unwraps those transparently, keeping only the raw value.
//
// # Ordering
//
// Compare defines a total order over all kinds (Null < Bool < numbers < String < Array)
// with Int and Float compared numerically. NaturalCompare orders strings the way a
// person would ("Visit 2" before "Visit 10").
package value
