// Package frame holds the built-in pattern frames of spec §6
// (highlight_icosahedron, tetrahedron, octahedron) and the name-based
// function registry spec §9 calls for in place of runtime string
// resolution: "reimplement as a registered function table mapping
// string keys to typed callables, populated at process start".
package frame

import (
	"github.com/geof/geof/internal/iterate"
	"github.com/geof/geof/internal/partition"
	"github.com/geof/geof/internal/topology"
)

// RGB is a single colour triple.
type RGB struct{ R, G, B uint8 }

// PatternFunc produces a colour for every field of a sphere with the
// given divisions, keyed by flattened index.
type PatternFunc func(divisions int) map[int]RGB

var vertexColor = RGB{R: 255, G: 215, B: 0}
var fieldColor = RGB{R: 40, G: 90, B: 200}

// HighlightIcosahedron colours the twelve pentagonal fields (the
// icosahedron's original vertices) distinctly from every hexagonal
// field.
func HighlightIcosahedron(divisions int) map[int]RGB {
	out := make(map[int]RGB, topology.FieldCount(divisions))
	for _, f := range iterate.All(divisions) {
		idx := topology.FlattenedIndex(f, divisions)
		if topology.IsPentagonal(f, divisions) {
			out[idx] = vertexColor
		} else {
			out[idx] = fieldColor
		}
	}
	return out
}

// tetrahedronPalette has five colours: one per tetrahedron face/panel,
// plus a distinct accent colour reserved for the two poles.
var tetrahedronPalette = [5]RGB{
	{R: 220, G: 20, B: 60},
	{R: 34, G: 139, B: 34},
	{R: 30, G: 144, B: 255},
	{R: 238, G: 130, B: 238},
	{R: 255, G: 215, B: 0}, // poles
}

// TetrahedronPattern colours each field by its tetrahedron panel index
// (4 colours), with the poles always drawn in the fifth, reserved
// colour regardless of which panel they classify into.
func TetrahedronPattern(divisions int) map[int]RGB {
	return classifiedPattern(divisions, 4, tetrahedronPalette[:4], &tetrahedronPalette[4])
}

var octahedronPalette = [8]RGB{
	{R: 220, G: 20, B: 60},
	{R: 34, G: 139, B: 34},
	{R: 30, G: 144, B: 255},
	{R: 238, G: 130, B: 238},
	{R: 255, G: 140, B: 0},
	{R: 0, G: 206, B: 209},
	{R: 128, G: 0, B: 128},
	{R: 210, G: 180, B: 140},
}

// OctahedronPattern colours each field by its octahedron panel index
// (8 colours), with no special treatment of the poles.
func OctahedronPattern(divisions int) map[int]RGB {
	return classifiedPattern(divisions, 8, octahedronPalette[:], nil)
}

func classifiedPattern(divisions, panelCount int, palette []RGB, poleColor *RGB) map[int]RGB {
	part := partition.Build(divisions, panelCount)
	out := make(map[int]RGB, topology.FieldCount(divisions))
	for panelIdx, fields := range part.Fields {
		for _, f := range fields {
			idx := topology.FlattenedIndex(f, divisions)
			if poleColor != nil && (f.Kind == topology.KindNorth || f.Kind == topology.KindSouth) {
				out[idx] = *poleColor
				continue
			}
			out[idx] = palette[panelIdx]
		}
	}
	return out
}

// Patterns is the built-in pattern-frame table, keyed by the names used
// in spec §6 and §9.
var Patterns = map[string]PatternFunc{
	"highlight_icosahedron": HighlightIcosahedron,
	"tetrahedron":           TetrahedronPattern,
	"octahedron":            OctahedronPattern,
}
