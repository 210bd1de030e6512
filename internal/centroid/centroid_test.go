package centroid

import (
	"testing"

	"github.com/geof/geof/internal/topology"
	"github.com/geof/geof/internal/vecmath"
	"github.com/stretchr/testify/assert"
)

func TestPolesAreOnAxis(t *testing.T) {
	s := NewSphere(4)
	assert.Equal(t, north, s.Centroid(topology.North()))
	assert.Equal(t, south, s.Centroid(topology.South()))
}

func TestAllCentroidsAreUnitLength(t *testing.T) {
	for _, d := range []int{1, 2, 3, 8} {
		for _, c := range All(d) {
			assert.InDelta(t, 1.0, vecmath.Length(c), 1e-9, "d=%d centroid %v not unit length", d, c)
		}
	}
}

func TestNeighboursAreCloserThanFarFields(t *testing.T) {
	d := 4
	s := NewSphere(d)
	for _, f := range []topology.Field{topology.Sxy(0, 2, 2), topology.Sxy(2, 5, 1)} {
		c := s.Centroid(f)
		adj := topology.Neighbors(f, d)
		farthestNeighbour := 0.0
		for _, dir := range topology.Directions() {
			n := adj.Get(dir)
			if !n.Present {
				continue
			}
			dist := vecmath.Length(vecmath.Sub(c, s.Centroid(n.Field)))
			if dist > farthestNeighbour {
				farthestNeighbour = dist
			}
		}
		antipodalDist := vecmath.Length(vecmath.Sub(c, s.Centroid(topology.Sxy((f.S+2)%5, d, d-1))))
		assert.Greater(t, antipodalDist, farthestNeighbour, "field far across the sphere should be farther than any neighbour")
	}
}
