// Package partition assigns every field of a sphere to a panel, using a
// tetrahedral or octahedral face classification of field centroids
// (spec 4.E). It also maintains an rtreego spatial index over field
// centroids so callers can answer nearest-field queries without a
// linear scan; the classifier remains the source of truth for panel
// assignment, the tree is a read-side accelerator.
package partition

import (
	"runtime"

	"github.com/dhconnelly/rtreego"
	"github.com/geof/geof/internal/centroid"
	"github.com/geof/geof/internal/iterate"
	"github.com/geof/geof/internal/topology"
	"github.com/geof/geof/internal/vecmath"
)

// pointEpsilon is the half-width used to give a centroid point a
// non-degenerate bounding box, as rtreego requires positive rect
// lengths.
const pointEpsilon = 1e-9

// fieldPoint is the rtreego.Spatial wrapper around one field's centroid.
type fieldPoint struct {
	idx int
	pos vecmath.Vec3
}

func (fp *fieldPoint) Bounds() rtreego.Rect {
	p := rtreego.Point{fp.pos.X, fp.pos.Y, fp.pos.Z}
	r, err := rtreego.NewRect(p, []float64{pointEpsilon, pointEpsilon, pointEpsilon})
	if err != nil {
		panic(err) // epsilon lengths are fixed and always positive
	}
	return r
}

// ChoosePanelCount selects N=8 (octahedron) when at least 8 hardware
// threads are available, else N=4 (tetrahedron), per spec 4.E.
func ChoosePanelCount() int {
	if runtime.NumCPU() >= 8 {
		return 8
	}
	return 4
}

// Partition holds the disjoint panel -> field-set assignment for one
// sphere, plus the spatial index used for nearest-field queries.
type Partition struct {
	Divisions  int
	PanelCount int

	// PanelOf maps a flattened field index to its owning panel.
	PanelOf map[int]int
	// Fields maps a panel index to the fields it owns, in the order
	// iterate.ForAllFields visited them.
	Fields [][]topology.Field

	centroids map[int]vecmath.Vec3
	tree      *rtreego.Rtree
}

// Build partitions every field of a sphere with the given divisions
// across panelCount panels (4 or 8; any other value is treated as 4).
func Build(divisions, panelCount int) *Partition {
	var poly *vecmath.Polyhedron
	switch panelCount {
	case 8:
		poly = vecmath.Octahedron()
	default:
		poly = vecmath.Tetrahedron()
		panelCount = 4
	}

	cs := centroid.NewSphere(divisions)
	p := &Partition{
		Divisions:  divisions,
		PanelCount: panelCount,
		PanelOf:    make(map[int]int),
		Fields:     make([][]topology.Field, panelCount),
		centroids:  make(map[int]vecmath.Vec3),
		tree:       rtreego.NewTree(3, 25, 50),
	}

	iterate.ForAllFields(divisions, func(f topology.Field) {
		idx := topology.FlattenedIndex(f, divisions)
		pos := cs.Centroid(f)
		panelIdx := poly.Classify(pos)

		p.PanelOf[idx] = panelIdx
		p.Fields[panelIdx] = append(p.Fields[panelIdx], f)
		p.centroids[idx] = pos
		p.tree.Insert(&fieldPoint{idx: idx, pos: pos})
	})

	return p
}

// Centroid returns the cached centroid for a flattened field index.
func (p *Partition) Centroid(flattenedIdx int) (vecmath.Vec3, bool) {
	c, ok := p.centroids[flattenedIdx]
	return c, ok
}

// NearestField returns the field whose centroid is closest to point.
func (p *Partition) NearestField(point vecmath.Vec3) (topology.Field, bool) {
	rp := rtreego.Point{point.X, point.Y, point.Z}
	hit := p.tree.NearestNeighbor(rp)
	fp, ok := hit.(*fieldPoint)
	if !ok {
		return topology.Field{}, false
	}
	f, err := topology.Unflatten(fp.idx, p.Divisions)
	if err != nil {
		return topology.Field{}, false
	}
	return f, true
}

// NearestPanel returns the panel index owning the field nearest point.
func (p *Partition) NearestPanel(point vecmath.Vec3) (int, bool) {
	f, ok := p.NearestField(point)
	if !ok {
		return 0, false
	}
	return p.PanelOf[topology.FlattenedIndex(f, p.Divisions)], true
}
