package export

import (
	"io"
	"os"

	"github.com/hpinc/go3mf"

	"github.com/geof/geof/internal/meshgeo"
)

// ThreeMFMesh writes a sphere's triangle mesh (internal/meshgeo.BuildMesh)
// as a single-object 3MF model, scaled by radius, to path.
func ThreeMFMesh(path string, divisions int, radius float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return writeThreeMF(f, divisions, radius)
}

func writeThreeMF(w io.Writer, divisions int, radius float64) error {
	m := meshgeo.BuildMesh(divisions)

	mesh := &go3mf.Mesh{}
	for i := 0; i+2 < len(m.Position); i += 3 {
		mesh.Vertices.Vertex = append(mesh.Vertices.Vertex, go3mf.Point3D{
			float32(m.Position[i] * radius),
			float32(m.Position[i+1] * radius),
			float32(m.Position[i+2] * radius),
		})
	}
	for i := 0; i+2 < len(m.Index); i += 3 {
		mesh.Triangles.Triangle = append(mesh.Triangles.Triangle, go3mf.Triangle{
			V1: uint32(m.Index[i]),
			V2: uint32(m.Index[i+1]),
			V3: uint32(m.Index[i+2]),
		})
	}

	model := &go3mf.Model{}
	model.Resources.Objects = append(model.Resources.Objects, &go3mf.Object{
		ID:   1,
		Name: "geof-sphere",
		Mesh: mesh,
	})
	model.Build.Items = append(model.Build.Items, &go3mf.Item{ObjectID: 1})

	return go3mf.NewEncoder(w).Encode(model)
}
