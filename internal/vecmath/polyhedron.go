package vecmath

import "math"

// Polyhedron enumerates the two classifiers the panel partitioner needs:
// a tetrahedron (4 faces) and an octahedron (8 faces), both circumscribed
// about the origin with a fixed, well-known vertex layout.
type Polyhedron struct {
	faces []Triangle3
}

var origin = Vec3{X: 0, Y: 0, Z: 0}

// Tetrahedron returns the canonical regular tetrahedron classifier (N=4).
func Tetrahedron() *Polyhedron {
	v := [4]Vec3{
		Normalize(Vec3{X: 1, Y: 1, Z: 1}),
		Normalize(Vec3{X: 1, Y: -1, Z: -1}),
		Normalize(Vec3{X: -1, Y: 1, Z: -1}),
		Normalize(Vec3{X: -1, Y: -1, Z: 1}),
	}
	// Each face omits the vertex of the same index, in a fixed order so
	// ties on an edge resolve to the lowest face index deterministically.
	return &Polyhedron{faces: []Triangle3{
		{V: [3]Vec3{v[1], v[2], v[3]}},
		{V: [3]Vec3{v[0], v[2], v[3]}},
		{V: [3]Vec3{v[0], v[1], v[3]}},
		{V: [3]Vec3{v[0], v[1], v[2]}},
	}}
}

// Octahedron returns the canonical regular octahedron classifier (N=8).
func Octahedron() *Polyhedron {
	px, nx := Vec3{X: 1}, Vec3{X: -1}
	py, ny := Vec3{Y: 1}, Vec3{Y: -1}
	pz, nz := Vec3{Z: 1}, Vec3{Z: -1}
	// Octant order: signs of (x,y,z) from +++ down to ---, matching the
	// natural binary enumeration so the face index is reproducible.
	signed := []struct{ x, y, z Vec3 }{
		{px, py, pz}, {px, py, nz}, {px, ny, pz}, {px, ny, nz},
		{nx, py, pz}, {nx, py, nz}, {nx, ny, pz}, {nx, ny, nz},
	}
	faces := make([]Triangle3, len(signed))
	for i, s := range signed {
		faces[i] = Triangle3{V: [3]Vec3{s.x, s.y, s.z}}
	}
	return &Polyhedron{faces: faces}
}

// FaceCount returns the number of faces (4 or 8).
func (p *Polyhedron) FaceCount() int { return len(p.faces) }

// Classify returns the index of the face whose ray from the origin
// through point contains point, testing faces in their fixed declaration
// order and returning the first hit. LineIntersectsTriangle treats the
// line through origin and point as unbounded in both directions, so a
// hit is only accepted on the forward ray (the face's centroid lies in
// the same hemisphere as point); without that check the face crossed by
// the backward half of the line would also report a hit (for the
// centrally symmetric octahedron, the antipodal face). If no face
// reports a forward hit — which in
// principle cannot happen for a point that truly lies on the polyhedron,
// but numerical drift on a near-unit-sphere point can cause a miss — it
// falls back to the face whose centroid is nearest to point, so callers
// always get a definite assignment.
func (p *Polyhedron) Classify(point Vec3) int {
	for i, f := range p.faces {
		if !LineIntersectsTriangle(origin, point, f) {
			continue
		}
		if Dot(point, faceCentroid(f)) <= 0 {
			continue
		}
		return i
	}
	return p.nearestFaceCentroid(point)
}

func faceCentroid(f Triangle3) Vec3 {
	return Scale(1.0/3.0, Add(Add(f.V[0], f.V[1]), f.V[2]))
}

func (p *Polyhedron) nearestFaceCentroid(point Vec3) int {
	best := 0
	bestDist := math.Inf(1)
	for i, f := range p.faces {
		d := Length(Sub(point, faceCentroid(f)))
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}
