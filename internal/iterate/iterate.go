// Package iterate enumerates every field of a sphere exactly once, in a
// deterministic order, for reproducible partitioning (spec component 4.C).
package iterate

import "github.com/geof/geof/internal/topology"

// ForAllFields visits North, South, then every Sxy(s,x,y) field in
// section-major, then-x, then-y order, calling f on each. The order is
// fixed so that callers relying on it (e.g. the panel partitioner) see
// reproducible results across runs.
func ForAllFields(divisions int, f func(topology.Field)) {
	f(topology.North())
	f(topology.South())
	for s := 0; s < 5; s++ {
		for x := 0; x < 2*divisions; x++ {
			for y := 0; y < divisions; y++ {
				f(topology.Sxy(s, x, y))
			}
		}
	}
}

// All collects every field of a sphere with the given divisions into a
// slice, in the same deterministic order as ForAllFields.
func All(divisions int) []topology.Field {
	fields := make([]topology.Field, 0, topology.FieldCount(divisions))
	ForAllFields(divisions, func(f topology.Field) {
		fields = append(fields, f)
	})
	return fields
}
