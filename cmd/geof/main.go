// Command geof builds a geodesic sphere, runs a frame against it, and
// writes a debug export to disk, in the single-linear-script style of
// examples/spiral/main.go and examples/hollowing_stl/main.go.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"time"

	"github.com/geof/geof/export"
	"github.com/geof/geof/frame"
	"github.com/geof/geof/geof"
	"github.com/geof/geof/sphere"
)

func main() {
	divisions := flag.Int("divisions", 8, "subdivision frequency of the geodesic sphere")
	op := flag.String("op", "identity", "frame operation: identity, neighbour_count, or pattern")
	pattern := flag.String("pattern", "tetrahedron", "pattern name when -op=pattern (tetrahedron, octahedron, highlight_icosahedron)")
	frames := flag.Int("frames", 1, "number of frames to run when -op is identity or neighbour_count")
	format := flag.String("format", "svg", "export format: svg, dxf, png, 3mf")
	out := flag.String("out", "", "output path (defaults to geof-output.<format>)")
	width := flag.Int("width", 800, "image width in pixels, for svg/png")
	height := flag.Int("height", 400, "image height in pixels, for svg/png")
	radius := flag.Float64("radius", 1.0, "sphere radius, for dxf/3mf")
	flag.Parse()

	path := *out
	if path == "" {
		path = fmt.Sprintf("geof-output.%s", *format)
	}

	e := geof.NewEngine()
	id, err := e.Create(*divisions)
	if err != nil {
		log.Fatalf("create sphere: %s", err)
	}
	defer e.Teardown(id)

	switch *op {
	case "identity":
		runFrames(e, id, [2]string{"geof", "identity"}, *frames)
	case "neighbour_count":
		runFrames(e, id, [2]string{"geof", "neighbour_count"}, *frames)
	case "pattern":
		if err := writePattern(*pattern, *divisions, *format, path, *width, *height); err != nil {
			log.Fatalf("write pattern: %s", err)
		}
		log.Printf("wrote %s", path)
		return
	default:
		log.Fatalf("unknown -op %q", *op)
	}

	if err := writeExport(e, id, *divisions, *format, path, *width, *height, *radius); err != nil {
		log.Fatalf("write export: %s", err)
	}
	log.Printf("wrote %s", path)
}

func runFrames(e *geof.Engine, id string, fn [2]string, count int) {
	for i := 0; i < count; i++ {
		reply := make(chan sphere.FrameEvent, 1)
		if err := e.StartFrame(id, fn, [2]string{}, nil, reply); err != nil {
			log.Fatalf("start frame %d: %s", i, err)
		}
		select {
		case ev := <-reply:
			if ev.Err != nil {
				log.Fatalf("frame %d failed: %s", i, ev.Err)
			}
		case <-time.After(time.Minute):
			log.Fatalf("frame %d: timed out waiting for frame_complete", i)
		}
	}
}

func writeExport(e *geof.Engine, id string, divisions int, format, path string, width, height int, radius float64) error {
	switch format {
	case "svg":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return export.SVGWireframe(f, divisions, width, height)
	case "dxf":
		return export.DXFWireframe(path, divisions, radius)
	case "png":
		part, err := e.Partition(id)
		if err != nil {
			return err
		}
		return export.PNGPanelMap(path, divisions, width, height, part)
	case "3mf":
		return export.ThreeMFMesh(path, divisions, radius)
	default:
		return fmt.Errorf("unknown -format %q", format)
	}
}

func writePattern(name string, divisions int, format, path string, width, height int) error {
	fn, ok := frame.Patterns[name]
	if !ok {
		return fmt.Errorf("unknown pattern %q", name)
	}
	colors := fn(divisions)

	rgba := make(map[int]color.RGBA, len(colors))
	for idx, c := range colors {
		rgba[idx] = color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
	}

	if format != "png" {
		return fmt.Errorf("-op=pattern only supports -format=png, got %q", format)
	}
	return export.PNGFieldColorMap(path, divisions, width, height, rgba)
}
