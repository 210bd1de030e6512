package frame

import (
	"testing"

	"github.com/geof/geof/internal/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTetrahedronPatternOnD1UsesFiveColourPalette(t *testing.T) {
	colors := TetrahedronPattern(1)
	assert.Len(t, colors, topology.FieldCount(1))

	seen := make(map[RGB]bool)
	for idx, c := range colors {
		seen[c] = true
		f, err := topology.Unflatten(idx, 1)
		require.NoError(t, err)
		assert.True(t, topology.IsPentagonal(f, 1), "d=1 every field is pentagonal")
	}
	for c := range seen {
		found := false
		for _, p := range tetrahedronPalette {
			if c == p {
				found = true
				break
			}
		}
		assert.True(t, found, "colour %v not in the tetrahedron palette", c)
	}
}

func TestHighlightIcosahedronMarksExactlyTwelveFields(t *testing.T) {
	for _, d := range []int{1, 2, 3, 8} {
		colors := HighlightIcosahedron(d)
		highlighted := 0
		for idx, c := range colors {
			f, err := topology.Unflatten(idx, d)
			require.NoError(t, err)
			if c == vertexColor {
				highlighted++
				assert.True(t, topology.IsPentagonal(f, d))
			}
		}
		assert.Equal(t, 12, highlighted, "d=%d", d)
	}
}

func TestOctahedronPatternUsesEightColours(t *testing.T) {
	colors := OctahedronPattern(3)
	assert.Len(t, colors, topology.FieldCount(3))
	seen := make(map[RGB]bool)
	for _, c := range colors {
		seen[c] = true
		found := false
		for _, p := range octahedronPalette {
			if c == p {
				found = true
			}
		}
		assert.True(t, found)
	}
	assert.Len(t, seen, len(octahedronPalette))
}

func TestRegistryResolvesBuiltins(t *testing.T) {
	r := NewDefaultRegistry()
	fn, err := r.Resolve("geof", "identity")
	require.NoError(t, err)
	v, err := fn(0, 42, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestRegistryUnknownFunctionRef(t *testing.T) {
	r := NewDefaultRegistry()
	_, err := r.Resolve("geof", "does_not_exist")
	assert.Error(t, err)
}
