// Package export renders a sphere's geometry to on-disk debug formats:
// SVG and DXF wireframes, a panel-colored PNG, and a 3MF solid mesh.
// Each exporter mirrors examples/spiral/main.go's end-of-pipeline
// "build it, then write one file" shape, just aimed at GEOF's own
// domain dependencies (svgo, draw2d, yofu/dxf, go3mf, freetype) instead
// of the teacher's SDF renderers.
package export

import "math"

// equirectangular maps a unit-sphere point to a (u,v) pair in [0,1]x[0,1],
// longitude running left-to-right and latitude top-to-bottom, for the
// flat-image exporters (SVG wireframe, PNG panel map).
func equirectangular(x, y, z float64) (u, v float64) {
	lon := math.Atan2(y, x)
	lat := math.Asin(clamp(z, -1, 1))
	u = (lon + math.Pi) / (2 * math.Pi)
	v = (math.Pi/2 - lat) / math.Pi
	return u, v
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
