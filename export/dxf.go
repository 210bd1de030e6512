package export

import (
	"github.com/yofu/dxf"

	"github.com/geof/geof/internal/meshgeo"
)

// DXFWireframe writes a true 3D wireframe (one DXF LINE entity per
// adjacency edge, unprojected) of a sphere with the given divisions to
// path, scaled by radius.
func DXFWireframe(path string, divisions int, radius float64) error {
	wf := meshgeo.BuildWireframe(divisions)
	d := dxf.NewDrawing()

	for i := 0; i+1 < len(wf.Index); i += 2 {
		a, b := wf.Index[i], wf.Index[i+1]
		ax, ay, az := wf.Position[3*a]*radius, wf.Position[3*a+1]*radius, wf.Position[3*a+2]*radius
		bx, by, bz := wf.Position[3*b]*radius, wf.Position[3*b+1]*radius, wf.Position[3*b+2]*radius
		d.Line(ax, ay, az, bx, by, bz)
	}

	return d.SaveAs(path)
}
