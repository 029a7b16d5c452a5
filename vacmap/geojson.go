package vacmap

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"
)

// pathSimplifyTolerance is the Douglas-Peucker tolerance for exported
// paths, in grid pixel units.
const pathSimplifyTolerance = 1.0

// ExportGeoJSON converts a decoded map into a GeoJSON feature collection
// for integrations that want geometry instead of pixels: one polygon per
// room (bounding outline with name and area), a simplified LineString for
// the travel path, and a Point for the dock. Coordinates are in grid pixel
// space.
func ExportGeoJSON(h *MapHeader, grid *PixelGrid, path []PathPoint) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, room := range h.Rooms {
		poly, ok := roomOutline(grid, room.ID)
		if !ok {
			continue
		}
		f := geojson.NewFeature(poly)
		f.Properties["type"] = "room"
		f.Properties["id"] = room.ID
		f.Properties["name"] = room.Name
		f.Properties["area"] = planar.Area(poly)
		fc.Append(f)
	}

	if len(path) > 1 {
		ls := make(orb.LineString, len(path))
		for i, p := range path {
			ls[i] = orb.Point{p.X, p.Y}
		}
		if s, ok := simplify.DouglasPeucker(pathSimplifyTolerance).Simplify(ls.Clone()).(orb.LineString); ok {
			ls = s
		}
		f := geojson.NewFeature(ls)
		f.Properties["type"] = "path"
		f.Properties["samples"] = len(path)
		fc.Append(f)
	}

	if dock, ok := DockPoint(h); ok {
		f := geojson.NewFeature(orb.Point{dock.X, dock.Y})
		f.Properties["type"] = "dock"
		fc.Append(f)
	}

	return fc
}

// roomOutline returns the bounding polygon of a room's cells. The bool is
// false when the room has no cells in the grid.
func roomOutline(grid *PixelGrid, roomID int) (orb.Polygon, bool) {
	minX, minY := grid.Width, grid.Height
	maxX, maxY := -1, -1
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			c := grid.At(x, y)
			if c.Kind != CellRoom || c.Room != roomID {
				continue
			}
			if x < minX {
				minX = x
			}
			if y < minY {
				minY = y
			}
			if x > maxX {
				maxX = x
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < 0 {
		return nil, false
	}

	bound := orb.Bound{
		Min: orb.Point{float64(minX), float64(minY)},
		Max: orb.Point{float64(maxX + 1), float64(maxY + 1)},
	}
	return bound.ToPolygon(), true
}

// MarshalGeoJSON renders the collection to JSON bytes.
func MarshalGeoJSON(fc *geojson.FeatureCollection) ([]byte, error) {
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshaling GeoJSON: %w", err)
	}
	return data, nil
}
