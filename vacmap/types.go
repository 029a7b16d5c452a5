package vacmap

// Version identifies which of the three wire encodings produced a map payload.
type Version int

const (
	// VersionLegacy is the binary v0 format: header plus one code byte per
	// cell, no room segmentation.
	VersionLegacy Version = iota
	// VersionRich is the binary v1 format: header, a room table, then one
	// code byte per cell with room ids packed into the high bits.
	VersionRich
	// VersionStructured is the JSON-wrapped vendor format with embedded
	// indexed or run-length cell arrays and world-space coordinates.
	VersionStructured
)

func (v Version) String() string {
	switch v {
	case VersionLegacy:
		return "legacy"
	case VersionRich:
		return "rich"
	case VersionStructured:
		return "structured"
	}
	return "unknown"
}

// RoomInfo describes one room from the Rich room table or the structured
// payload's room list.
type RoomInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MapHeader is the normalized header shared by all three formats. It is
// created once per request and read-only afterwards.
//
// MapResolution, XMin and YMin describe the world-to-grid mapping and are
// only meaningful for the structured format. PileX/PileY are the dock
// coordinates in the format's native coordinate space: raw device units for
// the binary formats, world units for the structured format.
type MapHeader struct {
	Version       Version
	MapID         int
	Width         int
	Height        int
	MapResolution float64
	XMin          float64
	YMin          float64
	PileX         float64
	PileY         float64
	HasPile       bool
	Rooms         []RoomInfo
}

// Room returns the room table entry with the given id.
func (h *MapHeader) Room(id int) (RoomInfo, bool) {
	for _, r := range h.Rooms {
		if r.ID == id {
			return r, true
		}
	}
	return RoomInfo{}, false
}

// CellKind classifies a map grid cell.
type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellWall
	CellFloor
	CellRoom
)

// SemanticCell is one classified grid unit. Room is only meaningful when
// Kind is CellRoom and indexes the header's room table.
type SemanticCell struct {
	Kind CellKind
	Room int
}

// PixelGrid is a row-major matrix of semantic cells. Decoders guarantee
// len(Cells) == Width*Height before the grid reaches the rasterizer.
type PixelGrid struct {
	Width  int
	Height int
	Cells  []SemanticCell
}

// At returns the cell at (x, y). Callers are responsible for bounds.
func (g *PixelGrid) At(x, y int) SemanticCell {
	return g.Cells[y*g.Width+x]
}

// PathPoint is a 2-D coordinate already expressed in grid pixel space.
type PathPoint struct {
	X float64
	Y float64
}

// RenderSettings controls the optional stages of a render. The zero value
// disables everything; construct a fresh value per request.
type RenderSettings struct {
	// Rotate is applied counter-clockwise for positive angles. Only 90,
	// 180, 270 and -90 are recognized; any other value is a no-op.
	Rotate         int
	FlipVertical   bool
	FlipHorizontal bool
	PathEnabled    bool
	RoomLabels     bool
}

// DownloadLink is one entry from the cloud link list. The first entry with a
// map URL locates the map blob; the next such entry locates the path blob.
type DownloadLink struct {
	MapURL string `json:"map_url"`
}
