package meshgeo

import (
	"github.com/geof/geof/internal/centroid"
	"github.com/geof/geof/internal/iterate"
	"github.com/geof/geof/internal/topology"
)

// Wireframe is the edge-list geometry of spec §6's Query wireframe: one
// line segment per adjacency relation, each relation emitted exactly
// once regardless of which of the two fields named it.
type Wireframe struct {
	Position []float64
	Index    []int
}

// BuildWireframe constructs the wireframe for every field of a sphere
// with the given divisions, connecting each field's centroid to every
// present neighbour's centroid.
func BuildWireframe(divisions int) *Wireframe {
	cs := centroid.NewSphere(divisions)
	vb := newVertexBuffer()
	w := &Wireframe{}

	seen := make(map[[2]int]bool)
	for _, f := range iterate.All(divisions) {
		idx := topology.FlattenedIndex(f, divisions)
		center := cs.Centroid(f)
		centerID := vb.id(center)

		adj := topology.Neighbors(f, divisions)
		for _, d := range topology.Directions() {
			n := adj.Get(d)
			if !n.Present {
				continue
			}
			nIdx := topology.FlattenedIndex(n.Field, divisions)
			key := edgeKey(idx, nIdx)
			if seen[key] {
				continue
			}
			seen[key] = true

			neighborID := vb.id(cs.Centroid(n.Field))
			w.Index = append(w.Index, centerID, neighborID)
		}
	}

	w.Position = make([]float64, 0, 3*len(vb.position))
	for _, v := range vb.position {
		w.Position = append(w.Position, v.X, v.Y, v.Z)
	}
	return w
}

func edgeKey(a, b int) [2]int {
	if a < b {
		return [2]int{a, b}
	}
	return [2]int{b, a}
}
