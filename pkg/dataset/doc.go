// Package dataset shapes heterogeneous datasets into uniform item
// descriptors for list-like widgets.
//
// A dataset may be a comma separated string, a slice of primitives, a plain
// object, a slice of objects or raw JSON holding any of those. The pipeline
// normalizes it into []*Item, removes duplicates, orders the items, attaches
// nested children and optionally partitions the result into groups:
//
//	res, err := dataset.Transform(rows, dataset.Options{
//		DataField:    "id",
//		DisplayField: "name",
//		OrderBy:      "name:asc",
//		GroupBy:      "createdAt",
//		Match:        dataset.MatchDay,
//	})
//
// Results are memoized by a Transformer. They are shared between callers
// and must be treated as read-only.
package dataset
