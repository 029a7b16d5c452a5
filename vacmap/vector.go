package vacmap

import (
	"image/color"
	"image/png"
	"io"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"
)

// nrgbaToRGBA premultiplies alpha, which the canvas library expects.
func nrgbaToRGBA(c color.NRGBA) color.RGBA {
	switch c.A {
	case 0:
		return color.RGBA{}
	case 255:
		return color.RGBA{c.R, c.G, c.B, 255}
	}
	a := uint32(c.A)
	return color.RGBA{
		R: uint8((uint32(c.R) * a) / 255),
		G: uint8((uint32(c.G) * a) / 255),
		B: uint8((uint32(c.B) * a) / 255),
		A: c.A,
	}
}

// VectorRenderer renders a decoded map as vector graphics: per-row cell
// runs become rectangles, the travel path a stroked polyline, the dock a
// circle. One canvas unit equals one grid cell.
type VectorRenderer struct {
	Header  *MapHeader
	Grid    *PixelGrid
	Palette ColorPalette
	Path    []PathPoint

	// Resolution controls PNG output density (default 300 DPI).
	Resolution canvas.Resolution
}

// NewVectorRenderer creates a vector renderer with default settings.
func NewVectorRenderer(h *MapHeader, grid *PixelGrid, palette ColorPalette) *VectorRenderer {
	return &VectorRenderer{
		Header:     h,
		Grid:       grid,
		Palette:    palette,
		Resolution: canvas.DPI(300),
	}
}

// canvasRenderer is the interface both the svg and rasterizer renderers
// implement.
type canvasRenderer interface {
	RenderPath(path *canvas.Path, style canvas.Style, m canvas.Matrix)
}

// RenderToSVG writes the map as an SVG to the provided writer.
func (r *VectorRenderer) RenderToSVG(w io.Writer) error {
	width := float64(r.Grid.Width)
	height := float64(r.Grid.Height)

	svgRenderer := svg.New(w, width, height, nil)
	r.renderToCanvas(svgRenderer, width, height)
	return svgRenderer.Close()
}

// RenderToPNG writes the map as a rasterized PNG to the provided writer.
func (r *VectorRenderer) RenderToPNG(w io.Writer) error {
	width := float64(r.Grid.Width)
	height := float64(r.Grid.Height)

	rast := rasterizer.New(width, height, r.Resolution, canvas.DefaultColorSpace)
	r.renderToCanvas(rast, width, height)
	return png.Encode(w, rast)
}

// renderToCanvas draws the map onto a canvas renderer. Canvas space is
// y-up, so grid rows are mirrored around the vertical center.
func (r *VectorRenderer) renderToCanvas(renderer canvasRenderer, width, height float64) {
	bgStyle := canvas.DefaultStyle
	bgStyle.Fill = canvas.Paint{Color: nrgbaToRGBA(r.Palette.Cell(SemanticCell{Kind: CellEmpty}))}
	renderer.RenderPath(canvas.Rectangle(width, height), bgStyle, canvas.Identity)

	toCanvasY := func(row int) float64 {
		return height - float64(row) - 1
	}

	// Runs of identically-colored cells per row become single rectangles.
	for y := 0; y < r.Grid.Height; y++ {
		x := 0
		for x < r.Grid.Width {
			cell := r.Grid.At(x, y)
			if cell.Kind == CellEmpty {
				x++
				continue
			}
			runColor := r.Palette.Cell(cell)
			run := 1
			for x+run < r.Grid.Width && r.Palette.Cell(r.Grid.At(x+run, y)) == runColor {
				run++
			}

			style := canvas.DefaultStyle
			style.Fill = canvas.Paint{Color: nrgbaToRGBA(runColor)}
			style.Stroke = canvas.Paint{Color: canvas.Transparent}
			rect := canvas.Rectangle(float64(run), 1).Translate(float64(x), toCanvasY(y))
			renderer.RenderPath(rect, style, canvas.Identity)

			x += run
		}
	}

	if len(r.Path) > 1 {
		pathStyle := canvas.DefaultStyle
		pathStyle.Fill = canvas.Paint{Color: canvas.Transparent}
		pathStyle.Stroke = canvas.Paint{Color: nrgbaToRGBA(r.Palette.Path())}
		pathStyle.StrokeWidth = 0.5

		cp := &canvas.Path{}
		for i, p := range r.Path {
			cx := p.X
			cy := height - p.Y
			if i == 0 {
				cp.MoveTo(cx, cy)
			} else {
				cp.LineTo(cx, cy)
			}
		}
		renderer.RenderPath(cp, pathStyle, canvas.Identity)
	}

	if dock, ok := DockPoint(r.Header); ok {
		dockStyle := canvas.DefaultStyle
		dockStyle.Fill = canvas.Paint{Color: nrgbaToRGBA(dockFillColor)}
		dockStyle.Stroke = canvas.Paint{Color: canvas.White}
		dockStyle.StrokeWidth = 0.3

		circle := canvas.Circle(1.5).Translate(dock.X, height-dock.Y)
		renderer.RenderPath(circle, dockStyle, canvas.Identity)
	}
}
