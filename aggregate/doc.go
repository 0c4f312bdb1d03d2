// Package aggregate implements the per-group, per-column accumulators of a measure store.
//
// An Accumulator folds records into a running aggregate with AddTo and undoes a fold
// with RemoveFrom, which lets a group follow filter changes incrementally instead of
// being rebuilt. Four variants exist, selected once per column when a store is built:
//
//   - CountStar:            the synthetic "*" column, a row counter
//   - UniqueValue:          non-measure columns; reports the column value when every
//     row in the group agrees on it (case-insensitively)
//   - CollectValues:        ad hoc measures; keeps every non-null value so exact
//     statistics (median, count distinct) can be computed lazily
//   - CollectPreAggregated: measures the server already aggregated into count, sum,
//     sum-of-squares, min and max columns
//
// Callers ask for results by Kind. Asking a variant for a Kind outside Supports()
// returns an *UnsupportedError rather than a made-up number.
package aggregate
