package vacmap

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExpandStructuredGridRunLength(t *testing.T) {
	h := &MapHeader{
		Version: VersionStructured,
		Width:   4,
		Height:  2,
		Rooms:   []RoomInfo{{ID: 2, Name: "Den"}},
	}
	sm := &structuredMap{
		Width:  4,
		Height: 2,
		// wall x3, empty x2, room 2 x2, floor x1
		Cells: []int{1, 3, 0, 2, 2<<cellRoomShift | classRoom, 2, 2, 1},
	}

	grid, err := expandStructuredGrid(sm, h)
	if err != nil {
		t.Fatalf("expandStructuredGrid() error = %v", err)
	}

	want := []SemanticCell{
		{Kind: CellWall}, {Kind: CellWall}, {Kind: CellWall},
		{Kind: CellEmpty}, {Kind: CellEmpty},
		{Kind: CellRoom, Room: 2}, {Kind: CellRoom, Room: 2},
		{Kind: CellFloor},
	}
	if diff := cmp.Diff(want, grid.Cells); diff != "" {
		t.Errorf("expanded cells mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandStructuredGridRunLengthErrors(t *testing.T) {
	h := &MapHeader{Version: VersionStructured, Width: 2, Height: 2}
	tests := []struct {
		name  string
		cells []int
	}{
		{"odd length", []int{1, 2, 0}},
		{"overflow", []int{1, 5}},
		{"negative run", []int{1, -1, 0, 5}},
		{"shortfall", []int{1, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := &structuredMap{Width: 2, Height: 2, Cells: tt.cells}
			_, err := expandStructuredGrid(sm, h)
			var decodeErr *FormatDecodeError
			if !errors.As(err, &decodeErr) {
				t.Errorf("error = %v, want FormatDecodeError", err)
			}
		})
	}
}

func TestExpandStructuredGridIndexedLengthMismatch(t *testing.T) {
	h := &MapHeader{Version: VersionStructured, Width: 3, Height: 3}
	sm := &structuredMap{Width: 3, Height: 3, Pixels: []int{0, 1, 2}}

	_, err := expandStructuredGrid(sm, h)
	var decodeErr *FormatDecodeError
	if !errors.As(err, &decodeErr) {
		t.Errorf("error = %v, want FormatDecodeError", err)
	}
}

func TestCellFromCode(t *testing.T) {
	known := map[int]struct{}{1: {}, 5: {}}
	tests := []struct {
		name string
		code int
		want SemanticCell
	}{
		{"empty", 0, SemanticCell{Kind: CellEmpty}},
		{"wall", 1, SemanticCell{Kind: CellWall}},
		{"floor", 2, SemanticCell{Kind: CellFloor}},
		{"known room", 1<<cellRoomShift | classRoom, SemanticCell{Kind: CellRoom, Room: 1}},
		{"another known room", 5<<cellRoomShift | classRoom, SemanticCell{Kind: CellRoom, Room: 5}},
		{"unknown room", 9<<cellRoomShift | classRoom, SemanticCell{Kind: CellFloor}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cellFromCode(tt.code, known); got != tt.want {
				t.Errorf("cellFromCode(%#x) = %+v, want %+v", tt.code, got, tt.want)
			}
		})
	}
}

func TestDecodeRichGridLengthMismatch(t *testing.T) {
	h := &MapHeader{Version: VersionRich, Width: 5, Height: 5}
	_, err := decodeRichGrid(make([]byte, 24), h)
	var decodeErr *FormatDecodeError
	if !errors.As(err, &decodeErr) {
		t.Errorf("error = %v, want FormatDecodeError", err)
	}
}
