package vacmap

// Cell code layout, shared by all formats: the low 2 bits carry the cell
// class, the high 6 bits a room id (Rich and structured only).
const (
	cellClassMask = 0x03
	cellRoomShift = 2

	classEmpty = 0
	classWall  = 1
	classFloor = 2
	classRoom  = 3
)

// decodeLegacyGrid decodes the v0 cell payload: one code byte per cell with
// no room segmentation. Room-class codes degrade to floor.
func decodeLegacyGrid(cells []byte, h *MapHeader) (*PixelGrid, error) {
	want := h.Width * h.Height
	if len(cells) != want {
		return nil, decodeErrf("legacy grid has %d cells, want %dx%d=%d", len(cells), h.Width, h.Height, want)
	}

	grid := make([]SemanticCell, want)
	for i, code := range cells {
		switch code & cellClassMask {
		case classEmpty:
			grid[i] = SemanticCell{Kind: CellEmpty}
		case classWall:
			grid[i] = SemanticCell{Kind: CellWall}
		default:
			grid[i] = SemanticCell{Kind: CellFloor}
		}
	}
	return &PixelGrid{Width: h.Width, Height: h.Height, Cells: grid}, nil
}

// decodeRichGrid decodes the v1 cell payload. Room-class codes resolve
// through the header's room table; ids missing from the table fall back to
// plain floor rather than failing.
func decodeRichGrid(cells []byte, h *MapHeader) (*PixelGrid, error) {
	want := h.Width * h.Height
	if len(cells) != want {
		return nil, decodeErrf("rich grid has %d cells, want %dx%d=%d", len(cells), h.Width, h.Height, want)
	}

	known := knownRooms(h)
	grid := make([]SemanticCell, want)
	for i, code := range cells {
		grid[i] = cellFromCode(int(code), known)
	}
	return &PixelGrid{Width: h.Width, Height: h.Height, Cells: grid}, nil
}

// expandStructuredGrid expands the structured payload's cell data into the
// same width×height grid shape as the binary variants. This is the
// normalization point that keeps the rasterizer format-agnostic.
//
// Cell data arrives either as an indexed array ("pixels", one code per cell)
// or as run-length pairs ("cells", alternating code and run count).
func expandStructuredGrid(sm *structuredMap, h *MapHeader) (*PixelGrid, error) {
	want := h.Width * h.Height
	known := knownRooms(h)

	switch {
	case len(sm.Pixels) > 0:
		if len(sm.Pixels) != want {
			return nil, decodeErrf("structured grid has %d cells, want %dx%d=%d", len(sm.Pixels), h.Width, h.Height, want)
		}
		grid := make([]SemanticCell, want)
		for i, code := range sm.Pixels {
			grid[i] = cellFromCode(code, known)
		}
		return &PixelGrid{Width: h.Width, Height: h.Height, Cells: grid}, nil

	case len(sm.Cells) > 0:
		if len(sm.Cells)%2 != 0 {
			return nil, decodeErrf("run-length cell array has odd length %d", len(sm.Cells))
		}
		grid := make([]SemanticCell, 0, want)
		for i := 0; i < len(sm.Cells); i += 2 {
			code, run := sm.Cells[i], sm.Cells[i+1]
			if run < 0 || len(grid)+run > want {
				return nil, decodeErrf("run-length cell array overflows %dx%d grid", h.Width, h.Height)
			}
			cell := cellFromCode(code, known)
			for j := 0; j < run; j++ {
				grid = append(grid, cell)
			}
		}
		if len(grid) != want {
			return nil, decodeErrf("run-length grid has %d cells, want %dx%d=%d", len(grid), h.Width, h.Height, want)
		}
		return &PixelGrid{Width: h.Width, Height: h.Height, Cells: grid}, nil
	}

	return nil, decodeErrf("structured map carries no cell data")
}

// cellFromCode classifies one cell code, resolving room ids against the
// header room table.
func cellFromCode(code int, known map[int]struct{}) SemanticCell {
	switch code & cellClassMask {
	case classEmpty:
		return SemanticCell{Kind: CellEmpty}
	case classWall:
		return SemanticCell{Kind: CellWall}
	case classFloor:
		return SemanticCell{Kind: CellFloor}
	default:
		id := code >> cellRoomShift
		if _, ok := known[id]; ok {
			return SemanticCell{Kind: CellRoom, Room: id}
		}
		return SemanticCell{Kind: CellFloor}
	}
}

func knownRooms(h *MapHeader) map[int]struct{} {
	known := make(map[int]struct{}, len(h.Rooms))
	for _, r := range h.Rooms {
		known[r.ID] = struct{}{}
	}
	return known
}
