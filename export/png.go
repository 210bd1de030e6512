package export

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/golang/freetype"
	"github.com/llgcode/draw2d/draw2dimg"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/geof/geof/internal/meshgeo"
	"github.com/geof/geof/internal/partition"
)

// PanelColors assigns a stable, visually distinct color to each panel
// index by spacing hues evenly around the color wheel.
func PanelColors(panelCount int) []color.RGBA {
	colors := make([]color.RGBA, panelCount)
	for i := range colors {
		colors[i] = hsvToRGBA(float64(i)/float64(panelCount), 0.65, 0.9)
	}
	return colors
}

func hsvToRGBA(h, s, v float64) color.RGBA {
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return color.RGBA{uint8(r * 255), uint8(g * 255), uint8(b * 255), 255}
}

// PNGPanelMap renders an equirectangular, panel-colored map of a sphere
// to path: every field's polygon is filled with its panel's color, and
// each panel is labeled with its index at the first ring vertex of one
// of its fields. Fields are visited in map order, so which field
// carries the label is not fixed.
func PNGPanelMap(path string, divisions, width, height int, part *partition.Partition) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return writePNGPanelMap(f, divisions, width, height, part)
}

func writePNGPanelMap(w io.Writer, divisions, width, height int, part *partition.Partition) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	gc := draw2dimg.NewGraphicContext(img)
	palette := PanelColors(part.PanelCount)
	m := meshgeo.BuildMesh(divisions)

	labelAnchor := make(map[int][2]float64)
	for idx, order := range m.VertexOrder {
		panelIdx := part.PanelOf[idx]
		gc.SetFillColor(palette[panelIdx%len(palette)])

		ring := order[1:]
		for i, vid := range ring {
			x, y, z := m.Position[3*vid], m.Position[3*vid+1], m.Position[3*vid+2]
			u, v := equirectangular(x, y, z)
			px, py := u*float64(width), v*float64(height)
			if i == 0 {
				gc.MoveTo(px, py)
			} else {
				gc.LineTo(px, py)
			}
			if _, ok := labelAnchor[panelIdx]; !ok {
				labelAnchor[panelIdx] = [2]float64{px, py}
			}
		}
		gc.Close()
		gc.Fill()
	}

	return drawPanelLabels(img, labelAnchor, w)
}

func drawPanelLabels(img *image.RGBA, anchors map[int][2]float64, w io.Writer) error {
	font, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return err
	}

	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(font)
	c.SetFontSize(14)
	c.SetClip(img.Bounds())
	c.SetDst(img)
	c.SetSrc(image.NewUniform(color.Black))

	for panelIdx, pos := range anchors {
		pt := freetype.Pt(int(pos[0]), int(pos[1]))
		if _, err := c.DrawString(panelLabel(panelIdx), pt); err != nil {
			return err
		}
	}

	return png.Encode(w, img)
}

// PNGFieldColorMap renders an equirectangular map of a sphere to path,
// filling each field's polygon with the color given by colors (fields
// absent from colors are left unfilled/background). Used for exporting
// the frame package's built-in pattern frames.
func PNGFieldColorMap(path string, divisions, width, height int, colors map[int]color.RGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return writeFieldColorPNG(f, divisions, width, height, colors)
}

func writeFieldColorPNG(w io.Writer, divisions, width, height int, colors map[int]color.RGBA) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	gc := draw2dimg.NewGraphicContext(img)
	m := meshgeo.BuildMesh(divisions)

	for idx, order := range m.VertexOrder {
		c, ok := colors[idx]
		if !ok {
			continue
		}
		gc.SetFillColor(c)

		ring := order[1:]
		for i, vid := range ring {
			x, y, z := m.Position[3*vid], m.Position[3*vid+1], m.Position[3*vid+2]
			u, v := equirectangular(x, y, z)
			px, py := u*float64(width), v*float64(height)
			if i == 0 {
				gc.MoveTo(px, py)
			} else {
				gc.LineTo(px, py)
			}
		}
		gc.Close()
		gc.Fill()
	}

	return png.Encode(w, img)
}

func panelLabel(panelIdx int) string {
	digits := []byte{'0' + byte(panelIdx%10)}
	if panelIdx >= 10 {
		return string([]byte{'0' + byte(panelIdx/10)}) + string(digits)
	}
	return string(digits)
}
