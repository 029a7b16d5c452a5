package vacmap

import (
	"fmt"
	"image"
	"image/color"
)

// Palette keys recognized in the colors configuration map.
const (
	ColorKeyEmpty = "empty"
	ColorKeyWall  = "wall"
	ColorKeyFloor = "floor"
	ColorKeyPath  = "path_color"
)

// Default colors used when a palette lookup misses. Palette lookups never
// fail: any unknown semantic key resolves to one of these.
var (
	defaultEmpty = color.NRGBA{255, 255, 255, 255}
	defaultWall  = color.NRGBA{60, 60, 60, 255}
	defaultFloor = color.NRGBA{200, 200, 200, 255}
	defaultPath  = color.NRGBA{0, 255, 0, 255}

	// defaultRoomColors is cycled by room id for rooms without an explicit
	// palette entry.
	defaultRoomColors = []color.NRGBA{
		{100, 149, 237, 255}, // cornflower blue
		{255, 99, 71, 255},   // tomato
		{144, 238, 144, 255}, // light green
		{255, 215, 0, 255},   // gold
	}
)

// ColorPalette maps semantic keys (cell kinds, "room_<id>", "path_color") to
// colors. The zero value is a valid all-defaults palette. Construct a fresh
// palette per request; palettes are never shared or mutated across requests.
type ColorPalette struct {
	entries map[string]color.NRGBA
}

// NewPalette builds a palette from hex color strings keyed by semantic key,
// e.g. {"wall": "#323232", "room_3": "#FF6B6B", "path_color": "#00FF00"}.
// Unparsable entries are skipped so a bad config value degrades to the
// default color instead of failing the render.
func NewPalette(hexColors map[string]string) ColorPalette {
	p := ColorPalette{entries: make(map[string]color.NRGBA, len(hexColors))}
	for key, hex := range hexColors {
		if c, ok := ParseHexColor(hex); ok {
			p.entries[key] = c
		}
	}
	return p
}

// Cell resolves the color for one semantic cell.
func (p ColorPalette) Cell(c SemanticCell) color.NRGBA {
	switch c.Kind {
	case CellWall:
		return p.lookup(ColorKeyWall, defaultWall)
	case CellFloor:
		return p.lookup(ColorKeyFloor, defaultFloor)
	case CellRoom:
		key := fmt.Sprintf("room_%d", c.Room)
		fallback := defaultRoomColors[c.Room%len(defaultRoomColors)]
		return p.lookup(key, fallback)
	default:
		return p.lookup(ColorKeyEmpty, defaultEmpty)
	}
}

// Path resolves the path overlay color.
func (p ColorPalette) Path() color.NRGBA {
	return p.lookup(ColorKeyPath, defaultPath)
}

func (p ColorPalette) lookup(key string, fallback color.NRGBA) color.NRGBA {
	if c, ok := p.entries[key]; ok {
		return c
	}
	return fallback
}

// ParseHexColor parses "#RRGGBB" (the # is optional) into an opaque color.
func ParseHexColor(hex string) (color.NRGBA, bool) {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 {
		return color.NRGBA{}, false
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{r, g, b, 255}, true
}

// Rasterize maps a semantic grid and palette to an RGBA pixel buffer. It is
// a pure function: the same grid and palette always yield a byte-identical
// buffer. Dimension mismatches are enforced by the grid decoders, not here.
func Rasterize(grid *PixelGrid, palette ColorPalette) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, grid.Width, grid.Height))
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			img.Set(x, y, palette.Cell(grid.At(x, y)))
		}
	}
	return img
}
