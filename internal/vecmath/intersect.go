package vecmath

// Triangle3 is a triangle in 3-space, specified by its three corners.
// Named to echo the teacher's render.Triangle3.
type Triangle3 struct {
	V [3]Vec3
}

// LineIntersectsTriangle reports whether the infinite line through a and b
// passes through the triangle t. The line is treated as unbounded: the
// affine parameter along a-b is not computed, only the barycentric
// coordinates of the intersection with the triangle's plane.
func LineIntersectsTriangle(a, b Vec3, t Triangle3) bool {
	e1 := Sub(t.V[1], t.V[0])
	e2 := Sub(t.V[2], t.V[0])
	n := Cross(e1, e2)
	dir := Sub(a, b)
	d := Dot(dir, n)
	if d == 0 {
		return false
	}
	aMinusP0 := Sub(a, t.V[0])
	u := Dot(Cross(e2, dir), aMinusP0) / d
	v := Dot(Cross(dir, e1), aMinusP0) / d
	return u >= 0 && v >= 0 && u+v <= 1
}
