package export

import (
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/geof/geof/internal/meshgeo"
)

// SVGWireframe writes an equirectangular-projected wireframe of a
// sphere with the given divisions to w, sized width x height pixels.
// Edges crossing the +/-180 degree seam are drawn as a single long
// line rather than split into two segments; this is a debug export,
// not a publication-quality map projection.
func SVGWireframe(w io.Writer, divisions, width, height int) error {
	wf := meshgeo.BuildWireframe(divisions)
	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:white")

	for i := 0; i+1 < len(wf.Index); i += 2 {
		a, b := wf.Index[i], wf.Index[i+1]
		ax, ay := projectPixel(wf.Position, a, width, height)
		bx, by := projectPixel(wf.Position, b, width, height)
		canvas.Line(ax, ay, bx, by, "stroke:black;stroke-width:1")
	}

	canvas.End()
	return nil
}

func projectPixel(pos []float64, vertexID, width, height int) (int, int) {
	x, y, z := pos[3*vertexID], pos[3*vertexID+1], pos[3*vertexID+2]
	u, v := equirectangular(x, y, z)
	return int(u * float64(width)), int(v * float64(height))
}
