package vacmap

import (
	"errors"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	pathStrokeWidth = 2
	dockRadius      = 10
	dockOutline     = 2
)

var (
	dockFillColor    = color.NRGBA{0, 255, 0, 255}
	dockOutlineColor = color.NRGBA{255, 255, 255, 255}
	labelColor       = color.RGBA{0, 0, 0, 255}
)

// Upscale enlarges an image by an integer factor using box resampling
// (pixel replication). A factor below 2 returns the input unchanged.
func Upscale(img *image.RGBA, factor int) *image.RGBA {
	if factor < 2 {
		return img
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := img.RGBAAt(b.Min.X+x, b.Min.Y+y)
			for dy := 0; dy < factor; dy++ {
				for dx := 0; dx < factor; dx++ {
					out.SetRGBA(x*factor+dx, y*factor+dy, c)
				}
			}
		}
	}
	return out
}

// DrawPath draws a connected polyline through the points with a fixed
// stroke width of 2 pixels, alpha-composited over existing pixels. Points
// must already be scaled to the image's pixel space.
func DrawPath(img *image.RGBA, points []PathPoint, col color.NRGBA) {
	if len(points) == 0 {
		return
	}
	for i := 0; i+1 < len(points); i++ {
		drawLine(img, points[i], points[i+1], col)
	}
}

// drawLine strokes one segment by sampling along its length and stamping a
// strokeWidth-sized block at each sample, blending with the background.
func drawLine(img *image.RGBA, a, b PathPoint, col color.NRGBA) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	steps := int(math.Max(math.Abs(dx), math.Abs(dy))) + 1
	for s := 0; s <= steps; s++ {
		t := float64(s) / float64(steps)
		cx := int(math.Round(a.X + t*dx))
		cy := int(math.Round(a.Y + t*dy))
		for oy := 0; oy < pathStrokeWidth; oy++ {
			for ox := 0; ox < pathStrokeWidth; ox++ {
				blendPixel(img, cx+ox, cy+oy, col)
			}
		}
	}
}

// DrawDock draws the charging dock marker: a filled circle of radius 10
// with a contrasting outline, centered on the (already scaled) position.
func DrawDock(img *image.RGBA, p PathPoint) {
	cx := int(math.Round(p.X))
	cy := int(math.Round(p.Y))
	outer := dockRadius + dockOutline
	for dy := -outer; dy <= outer; dy++ {
		for dx := -outer; dx <= outer; dx++ {
			d2 := dx*dx + dy*dy
			switch {
			case d2 <= dockRadius*dockRadius:
				setPixel(img, cx+dx, cy+dy, dockFillColor)
			case d2 <= outer*outer:
				setPixel(img, cx+dx, cy+dy, dockOutlineColor)
			}
		}
	}
}

// DrawRoomLabels writes each named room's label at the centroid of its
// cells, scaled into the image's pixel space.
func DrawRoomLabels(img *image.RGBA, h *MapHeader, grid *PixelGrid, scale int) {
	type acc struct {
		sumX, sumY, n int
	}
	centroids := make(map[int]*acc)
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			c := grid.At(x, y)
			if c.Kind != CellRoom {
				continue
			}
			a := centroids[c.Room]
			if a == nil {
				a = &acc{}
				centroids[c.Room] = a
			}
			a.sumX += x
			a.sumY += y
			a.n++
		}
	}

	for _, room := range h.Rooms {
		a := centroids[room.ID]
		if a == nil || room.Name == "" {
			continue
		}
		cx := a.sumX * scale / a.n
		cy := a.sumY * scale / a.n
		drawText(img, cx, cy, room.Name)
	}
}

// ApplyTransform applies the rotate and flip settings. Only 90, 180, 270
// and -90 degree rotations are recognized; anything else leaves the image
// unrotated. Rotation always happens before the flips: vertical flip first,
// then horizontal, each gated by its own flag.
func ApplyTransform(img *image.RGBA, settings RenderSettings) (*image.RGBA, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, &RenderError{Stage: "transform", Err: errEmptyImage}
	}

	out := img
	switch settings.Rotate {
	case 90:
		out = rotate90CCW(out)
	case 180:
		out = rotate180(out)
	case 270, -90:
		out = rotate90CW(out)
	}
	if settings.FlipVertical {
		out = flipVertical(out)
	}
	if settings.FlipHorizontal {
		out = flipHorizontal(out)
	}
	return out, nil
}

var errEmptyImage = errors.New("image is empty")

func rotate90CCW(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < w; y++ {
		for x := 0; x < h; x++ {
			out.SetRGBA(x, y, img.RGBAAt(b.Min.X+w-1-y, b.Min.Y+x))
		}
	}
	return out
}

func rotate90CW(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < w; y++ {
		for x := 0; x < h; x++ {
			out.SetRGBA(x, y, img.RGBAAt(b.Min.X+y, b.Min.Y+h-1-x))
		}
	}
	return out
}

func rotate180(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.SetRGBA(x, y, img.RGBAAt(b.Min.X+w-1-x, b.Min.Y+h-1-y))
		}
	}
	return out
}

func flipVertical(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.SetRGBA(x, y, img.RGBAAt(b.Min.X+x, b.Min.Y+h-1-y))
		}
	}
	return out
}

func flipHorizontal(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.SetRGBA(x, y, img.RGBAAt(b.Min.X+w-1-x, b.Min.Y+y))
		}
	}
	return out
}

// setPixel writes an opaque pixel, ignoring out-of-bounds coordinates.
func setPixel(img *image.RGBA, x, y int, c color.NRGBA) {
	if !image.Pt(x, y).In(img.Bounds()) {
		return
	}
	img.Set(x, y, c)
}

// blendPixel alpha-composites a color over the existing pixel, ignoring
// out-of-bounds coordinates.
func blendPixel(img *image.RGBA, x, y int, fg color.NRGBA) {
	if !image.Pt(x, y).In(img.Bounds()) {
		return
	}
	if fg.A == 255 {
		img.Set(x, y, fg)
		return
	}

	bg := img.RGBAAt(x, y)
	var bgN color.NRGBA
	switch bg.A {
	case 0:
		bgN = color.NRGBA{}
	case 255:
		bgN = color.NRGBA{bg.R, bg.G, bg.B, 255}
	default:
		// Un-premultiply before blending.
		a := uint32(bg.A)
		bgN = color.NRGBA{
			R: uint8((uint32(bg.R) * 255) / a),
			G: uint8((uint32(bg.G) * 255) / a),
			B: uint8((uint32(bg.B) * 255) / a),
			A: bg.A,
		}
	}

	alpha := float64(fg.A) / 255.0
	inv := 1.0 - alpha
	img.Set(x, y, color.NRGBA{
		R: uint8(float64(fg.R)*alpha + float64(bgN.R)*inv),
		G: uint8(float64(fg.G)*alpha + float64(bgN.G)*inv),
		B: uint8(float64(fg.B)*alpha + float64(bgN.B)*inv),
		A: 255,
	})
}

// drawText renders text onto the image at the given position.
func drawText(img *image.RGBA, x, y int, text string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
