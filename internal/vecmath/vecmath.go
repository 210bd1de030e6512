// Package vecmath provides the 3D vector arithmetic and shape primitives
// that the rest of GEOF is built on: field centroids, panel classification
// and mesh emission all route through here.
package vecmath

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 is a point or direction in three-space. It is a thin alias over
// gonum's r3.Vec so the arithmetic below is just a thin, named wrapper
// around well-tested primitives rather than a reimplementation.
type Vec3 = r3.Vec

// Add returns a+b.
func Add(a, b Vec3) Vec3 { return r3.Add(a, b) }

// Sub returns a-b.
func Sub(a, b Vec3) Vec3 { return r3.Sub(a, b) }

// Negate returns -a.
func Negate(a Vec3) Vec3 { return r3.Scale(-1, a) }

// Scale returns a scaled by f.
func Scale(f float64, a Vec3) Vec3 { return r3.Scale(f, a) }

// Dot returns the dot product of a and b.
func Dot(a, b Vec3) float64 { return r3.Dot(a, b) }

// Cross returns the cross product a×b.
func Cross(a, b Vec3) Vec3 { return r3.Cross(a, b) }

// Length returns the Euclidean norm of a.
func Length(a Vec3) float64 { return r3.Norm(a) }

// Normalize returns a scaled to unit length. The zero vector is returned
// unchanged (there is no well-defined direction to normalize to).
func Normalize(a Vec3) Vec3 {
	l := Length(a)
	if l == 0 {
		return a
	}
	return Scale(1/l, a)
}

// Lerp linearly interpolates between a and b at parameter t in [0,1].
func Lerp(a, b Vec3, t float64) Vec3 {
	return Add(Scale(1-t, a), Scale(t, b))
}

// Slerp spherically interpolates between unit vectors a and b at
// parameter t in [0,1]. Falls back to Lerp+normalize when a and b are
// nearly colinear, where slerp's angle-based formula is numerically
// unstable.
func Slerp(a, b Vec3, t float64) Vec3 {
	cosTheta := Dot(a, b)
	if cosTheta > 1 {
		cosTheta = 1
	} else if cosTheta < -1 {
		cosTheta = -1
	}
	theta := math.Acos(cosTheta)
	const epsilon = 1e-9
	if math.Abs(theta) < epsilon || math.Abs(theta-math.Pi) < epsilon {
		return Normalize(Lerp(a, b, t))
	}
	sinTheta := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sinTheta
	wb := math.Sin(t*theta) / sinTheta
	return Add(Scale(wa, a), Scale(wb, b))
}
