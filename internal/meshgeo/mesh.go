// Package meshgeo emits renderable mesh and wireframe geometry for a
// sphere (the §6 "Query mesh"/"Query wireframe" supplement). Each field
// becomes one polygon — 5 triangles for a pentagon, 6 for a hexagon —
// fan-triangulated from the field's own centroid. The vertex-buffer
// dedup idiom is grounded on render/finiteelements/mesh/fem.go's
// VBuff/addVertex pattern; that package's buffer.VB type is not part of
// this retrieval, so the dedup table here is a small self-contained
// equivalent keyed on a rounded coordinate.
package meshgeo

import (
	"fmt"

	"github.com/geof/geof/internal/centroid"
	"github.com/geof/geof/internal/iterate"
	"github.com/geof/geof/internal/topology"
	"github.com/geof/geof/internal/vecmath"
)

// vertexBuffer deduplicates vertices by a rounded coordinate key, the
// way buffer.VB deduplicates by hashing the raw vector.
type vertexBuffer struct {
	position []vecmath.Vec3
	index    map[string]int
}

func newVertexBuffer() *vertexBuffer {
	return &vertexBuffer{index: make(map[string]int)}
}

func (b *vertexBuffer) id(v vecmath.Vec3) int {
	key := fmt.Sprintf("%.9f|%.9f|%.9f", v.X, v.Y, v.Z)
	if i, ok := b.index[key]; ok {
		return i
	}
	i := len(b.position)
	b.position = append(b.position, v)
	b.index[key] = i
	return i
}

// Mesh is the triangle-list geometry of spec §6's Query mesh: flat
// position/normal arrays suitable for a GPU buffer, a flat triangle
// index list, and the per-field vertex order (centroid vertex first,
// then its polygon ring) so a caller can recover which triangles belong
// to which field.
type Mesh struct {
	Position    []float64
	Normal      []float64
	Index       []int
	VertexOrder map[int][]int // flattened field index -> vertex buffer indices
}

// BuildMesh constructs the mesh for every field of a sphere with the
// given divisions.
func BuildMesh(divisions int) *Mesh {
	cs := centroid.NewSphere(divisions)
	vb := newVertexBuffer()
	m := &Mesh{VertexOrder: make(map[int][]int)}

	for _, f := range iterate.All(divisions) {
		idx := topology.FlattenedIndex(f, divisions)
		center := cs.Centroid(f)
		ring := fieldRing(cs, f, divisions)

		centerID := vb.id(center)
		ringIDs := make([]int, len(ring))
		for i, v := range ring {
			ringIDs[i] = vb.id(v)
		}

		order := append([]int{centerID}, ringIDs...)
		m.VertexOrder[idx] = order

		for i := 0; i < len(ringIDs); i++ {
			a := ringIDs[i]
			b := ringIDs[(i+1)%len(ringIDs)]
			m.Index = append(m.Index, centerID, a, b)
		}
	}

	m.Position = make([]float64, 0, 3*len(vb.position))
	m.Normal = make([]float64, 0, 3*len(vb.position))
	for _, v := range vb.position {
		m.Position = append(m.Position, v.X, v.Y, v.Z)
		n := vecmath.Normalize(v)
		m.Normal = append(m.Normal, n.X, n.Y, n.Z)
	}
	return m
}

// fieldRing returns the polygon boundary of a field, in the fixed
// cyclic direction order nw,w,sw,se,e,ne (skipping ne when absent):
// each ring vertex is the (normalized) average of the field's own
// centroid and two cyclically-consecutive neighbours, approximating the
// dual-mesh corner shared by all three fields.
func fieldRing(cs *centroid.Sphere, f topology.Field, divisions int) []vecmath.Vec3 {
	adj := topology.Neighbors(f, divisions)
	order := []topology.Direction{topology.NW, topology.W, topology.SW, topology.SE, topology.E, topology.NE}

	var present []vecmath.Vec3
	for _, d := range order {
		n := adj.Get(d)
		if n.Present {
			present = append(present, cs.Centroid(n.Field))
		}
	}

	center := cs.Centroid(f)
	ring := make([]vecmath.Vec3, len(present))
	for i := range present {
		a := present[i]
		b := present[(i+1)%len(present)]
		avg := vecmath.Scale(1.0/3.0, vecmath.Add(vecmath.Add(center, a), b))
		ring[i] = vecmath.Normalize(avg)
	}
	return ring
}
