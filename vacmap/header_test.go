package vacmap

import (
	"errors"
	"testing"
)

func TestDecodeBinaryHeader(t *testing.T) {
	hexData := buildHeaderHex(headerFields{
		version:    1,
		mapID:      42,
		width:      120,
		height:     80,
		originX:    -250, // centimeters
		originY:    130,
		resolution: 50, // millimeters per cell
		pileX:      -12,
		pileY:      34,
		roomCount:  3,
	})

	h, err := DecodeBinaryHeader(hexData)
	if err != nil {
		t.Fatalf("DecodeBinaryHeader() error = %v", err)
	}

	if h.Version != VersionRich {
		t.Errorf("Version = %v, want %v", h.Version, VersionRich)
	}
	if h.MapID != 42 {
		t.Errorf("MapID = %d, want 42", h.MapID)
	}
	if h.Width != 120 || h.Height != 80 {
		t.Errorf("dimensions = %dx%d, want 120x80", h.Width, h.Height)
	}
	if h.XMin != -2.5 {
		t.Errorf("XMin = %v, want -2.5", h.XMin)
	}
	if h.YMin != 1.3 {
		t.Errorf("YMin = %v, want 1.3", h.YMin)
	}
	if h.MapResolution != 0.05 {
		t.Errorf("MapResolution = %v, want 0.05", h.MapResolution)
	}
	if !h.HasPile {
		t.Error("HasPile = false, want true")
	}
	if h.PileX != -12 || h.PileY != 34 {
		t.Errorf("dock = (%v, %v), want (-12, 34)", h.PileX, h.PileY)
	}
}

func TestDecodeBinaryHeaderLegacy(t *testing.T) {
	hexData := buildHeaderHex(headerFields{version: 0, mapID: 1, width: 10, height: 10})

	h, err := DecodeBinaryHeader(hexData)
	if err != nil {
		t.Fatalf("DecodeBinaryHeader() error = %v", err)
	}
	if h.Version != VersionLegacy {
		t.Errorf("Version = %v, want %v", h.Version, VersionLegacy)
	}
	if h.HasPile {
		t.Error("HasPile = true for zeroed dock fields, want false")
	}
}

func TestDecodeBinaryHeaderTooShort(t *testing.T) {
	// 47 hex chars: one short of the fixed preamble.
	hexData := buildHeaderHex(headerFields{version: 0, width: 10, height: 10})[:47]

	_, err := DecodeBinaryHeader(hexData)
	if err == nil {
		t.Fatal("DecodeBinaryHeader() error = nil, want FormatDecodeError")
	}
	var decodeErr *FormatDecodeError
	if !errors.As(err, &decodeErr) {
		t.Errorf("error = %v, want FormatDecodeError", err)
	}
}

func TestDecodeBinaryHeaderUnsupportedVersion(t *testing.T) {
	hexData := buildHeaderHex(headerFields{version: 7, width: 10, height: 10})

	_, err := DecodeBinaryHeader(hexData)
	if err == nil {
		t.Fatal("DecodeBinaryHeader() error = nil, want UnsupportedFormatError")
	}
	var unsupported *UnsupportedFormatError
	if !errors.As(err, &unsupported) {
		t.Fatalf("error = %v, want UnsupportedFormatError", err)
	}
	if unsupported.Version != 7 {
		t.Errorf("Version = %d, want 7", unsupported.Version)
	}
}

func TestDecodeBinaryHeaderInvalidDimensions(t *testing.T) {
	hexData := buildHeaderHex(headerFields{version: 0, width: 0, height: 10})

	_, err := DecodeBinaryHeader(hexData)
	var decodeErr *FormatDecodeError
	if !errors.As(err, &decodeErr) {
		t.Errorf("error = %v, want FormatDecodeError", err)
	}
}

func TestParseRoomTable(t *testing.T) {
	data := []byte{
		1, 7, 'K', 'i', 't', 'c', 'h', 'e', 'n',
		2, 0,
		3, 4, 'H', 'a', 'l', 'l',
		0xaa, 0xbb, // trailing grid bytes, not part of the table
	}

	rooms, consumed, err := parseRoomTable(data, 3)
	if err != nil {
		t.Fatalf("parseRoomTable() error = %v", err)
	}
	want := []RoomInfo{
		{ID: 1, Name: "Kitchen"},
		{ID: 2, Name: ""},
		{ID: 3, Name: "Hall"},
	}
	if len(rooms) != len(want) {
		t.Fatalf("parseRoomTable() returned %d rooms, want %d", len(rooms), len(want))
	}
	for i := range want {
		if rooms[i] != want[i] {
			t.Errorf("room %d = %+v, want %+v", i, rooms[i], want[i])
		}
	}
	if consumed != len(data)-2 {
		t.Errorf("consumed = %d, want %d", consumed, len(data)-2)
	}
}

func TestParseRoomTableTruncated(t *testing.T) {
	tests := []struct {
		name  string
		data  []byte
		count int
	}{
		{"missing entry", []byte{1, 4, 'a', 'b', 'c', 'd'}, 2},
		{"truncated name", []byte{1, 9, 'a', 'b'}, 1},
		{"empty table", nil, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseRoomTable(tt.data, tt.count)
			var decodeErr *FormatDecodeError
			if !errors.As(err, &decodeErr) {
				t.Errorf("error = %v, want FormatDecodeError", err)
			}
		})
	}
}

func TestHeaderFromStructured(t *testing.T) {
	px, py := 3.5, -1.0
	sm := &structuredMap{
		Width:      50,
		Height:     40,
		Resolution: 0.05,
		XMin:       -1.25,
		YMin:       -0.75,
		PileX:      &px,
		PileY:      &py,
		Rooms:      []RoomInfo{{ID: 5, Name: "Study"}},
	}

	h, err := headerFromStructured(sm)
	if err != nil {
		t.Fatalf("headerFromStructured() error = %v", err)
	}
	if h.Version != VersionStructured {
		t.Errorf("Version = %v, want %v", h.Version, VersionStructured)
	}
	if !h.HasPile || h.PileX != 3.5 || h.PileY != -1.0 {
		t.Errorf("dock = (%v, %v, %v), want (3.5, -1, true)", h.PileX, h.PileY, h.HasPile)
	}
	if len(h.Rooms) != 1 || h.Rooms[0].Name != "Study" {
		t.Errorf("Rooms = %+v, want one room named Study", h.Rooms)
	}
}

func TestHeaderFromStructuredMissingFields(t *testing.T) {
	tests := []struct {
		name string
		sm   structuredMap
	}{
		{"no width", structuredMap{Height: 10, Resolution: 0.05}},
		{"no height", structuredMap{Width: 10, Resolution: 0.05}},
		{"no resolution", structuredMap{Width: 10, Height: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := headerFromStructured(&tt.sm)
			var decodeErr *FormatDecodeError
			if !errors.As(err, &decodeErr) {
				t.Errorf("error = %v, want FormatDecodeError", err)
			}
		})
	}
}

func TestHeaderFromStructuredPartialDock(t *testing.T) {
	px := 3.5
	sm := &structuredMap{Width: 10, Height: 10, Resolution: 0.05, PileX: &px}

	h, err := headerFromStructured(sm)
	if err != nil {
		t.Fatalf("headerFromStructured() error = %v", err)
	}
	if h.HasPile {
		t.Error("HasPile = true with only one dock coordinate, want false")
	}
}
