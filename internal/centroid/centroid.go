// Package centroid derives the unit-sphere position of every field of a
// sphere (spec component 4.D). The embedding places the poles on the
// y-axis and interpolates each section's (x,y) grid across the known
// icosahedron ring vertices, so adjacent fields land near one another.
package centroid

import (
	"math"

	"github.com/geof/geof/internal/topology"
	"github.com/geof/geof/internal/vecmath"
)

const ringLatitude = 0.4636476090008061 // asin(1/sqrt(5)), the icosahedron ring latitude.

// ringVertex returns the unit vector at the given latitude/longitude (both
// radians), with latitude measured from the equator and longitude from
// the +Z axis around the Y (pole) axis.
func ringVertex(latitude, longitude float64) vecmath.Vec3 {
	cosLat := math.Cos(latitude)
	return vecmath.Vec3{
		X: cosLat * math.Sin(longitude),
		Y: math.Sin(latitude),
		Z: cosLat * math.Cos(longitude),
	}
}

// icosahedronVertices holds the ten non-polar icosahedron vertices: five
// on the upper ring (near the north pole) and five on the lower ring
// (near the south pole), each pair of rings offset by half a section.
type icosahedronVertices struct {
	upper, lower [5]vecmath.Vec3
}

func newIcosahedronVertices() icosahedronVertices {
	var iv icosahedronVertices
	const twoPi = 2 * math.Pi
	for k := 0; k < 5; k++ {
		iv.upper[k] = ringVertex(ringLatitude, float64(k)*twoPi/5)
		iv.lower[k] = ringVertex(-ringLatitude, (float64(k)+0.5)*twoPi/5)
	}
	return iv
}

func (iv icosahedronVertices) v(k int) vecmath.Vec3 { return iv.upper[((k%5)+5)%5] }
func (iv icosahedronVertices) w(k int) vecmath.Vec3 { return iv.lower[((k%5)+5)%5] }

var north = vecmath.Vec3{X: 0, Y: 1, Z: 0}
var south = vecmath.Vec3{X: 0, Y: -1, Z: 0}

// frac maps a local index in [0, denom] to [0,1]. When denom is zero (the
// d=1 sphere, where a section's grid has a single column/row) the index
// is interpreted per farEdge: true resolves it to the far corner (needed
// because at d=1 every field satisfies the "x==d-1" pentagon condition),
// false resolves it to the near corner.
func frac(local, denom int, farEdge bool) float64 {
	if denom == 0 {
		if farEdge {
			return 1
		}
		return 0
	}
	return float64(local) / float64(denom)
}

// bilinear spherically interpolates across a quad with corners c00, c10
// (u axis), c01, c11, at parameters u,v in [0,1].
func bilinear(c00, c10, c01, c11 vecmath.Vec3, u, v float64) vecmath.Vec3 {
	top := vecmath.Slerp(c00, c10, u)
	bot := vecmath.Slerp(c01, c11, u)
	return vecmath.Normalize(vecmath.Slerp(top, bot, v))
}

// Sphere caches the icosahedron reference vertices for a given
// divisions count, so callers computing many centroids do not recompute
// the ring geometry each time.
type Sphere struct {
	divisions int
	iv        icosahedronVertices
}

// NewSphere builds a centroid calculator for a sphere with the given
// divisions. divisions must be >= 1.
func NewSphere(divisions int) *Sphere {
	return &Sphere{divisions: divisions, iv: newIcosahedronVertices()}
}

// Centroid returns the unit-sphere position of field f.
func (s *Sphere) Centroid(f topology.Field) vecmath.Vec3 {
	switch f.Kind {
	case topology.KindNorth:
		return north
	case topology.KindSouth:
		return south
	default:
		return s.sxyCentroid(f.S, f.X, f.Y)
	}
}

func (s *Sphere) sxyCentroid(section, x, y int) vecmath.Vec3 {
	d := s.divisions
	v := func(k int) vecmath.Vec3 { return s.iv.v(k) }
	w := func(k int) vecmath.Vec3 { return s.iv.w(k) }

	if x < d {
		// Upper half: spans the north-cap triangle and the upper belt
		// triangle of this section.
		u := frac(x, d-1, true)
		vv := frac(y, d-1, false)
		return bilinear(north, v(section), v(section-1), w(section), u, vv)
	}
	// Lower half: spans the lower belt triangle and the south-cap
	// triangle of this section.
	u := frac(x-d, d-1, true)
	vv := frac(y, d-1, false)
	return bilinear(v(section), w(section), w(section), south, u, vv)
}

// All computes the centroid of every field of a sphere with the given
// divisions, in the deterministic order of iterate.ForAllFields, returned
// as a slice indexed by flattened index.
func All(divisions int) []vecmath.Vec3 {
	s := NewSphere(divisions)
	out := make([]vecmath.Vec3, topology.FieldCount(divisions))
	for idx := range out {
		f, err := topology.Unflatten(idx, divisions)
		if err != nil {
			panic(err) // idx is always in range by construction
		}
		out[idx] = s.Centroid(f)
	}
	return out
}
