// Package measurestore provides an in-memory aggregation store for query results.
//
// A Store is built once from a batch of records. Records are grouped by one or more
// dimension columns, and every column of every group is reduced by an accumulator:
// a row counter for the synthetic "*" column, a raw-value or pre-aggregated
// accumulator for measures, and a unique-value check for everything else.
//
// # Quick Start
//
//	ms, _ := measurestore.NewFromMaps(rows,
//	    measurestore.WithMeasureNames("Weight"),
//	)
//	weights, _ := ms.SelectArray([]string{"Visit"}, "Weight", aggregate.Mean)
//
// # Cross-filtering
//
// A filter on one dimension is observed by groups over every other dimension, but
// not by groups over the filtered dimension itself:
//
//	_ = ms.Filter([]string{"Gender"}, measurestore.Exact(measurestore.MustKey("f")))
//	rows, _ := ms.Select("Visit")         // female participants only
//	genders, _ := ms.Members("Gender")    // still lists every gender
//
// Groups obtained from Store.Group are maintained incrementally as filters and
// records change. Dispose them when done; select operations dispose their own.
//
// # Axes
//
// An AxisStore joins selections from several stores, one per plot axis:
//
//	as := measurestore.NewAxisStore()
//	as.SetXMeasure(weights, "Weight")
//	as.SetYMeasure(heights, "Height")
//	rows, _ := as.Select([]string{"ParticipantId"}, false)
//
// Keys missing from any configured axis are dropped.
package measurestore
