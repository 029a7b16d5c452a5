package vacmap

import (
	"fmt"
	"strconv"
)

// Binary header layout, in hex-character offsets into the 48-character
// (24-byte) preamble. These offsets are a compatibility contract with
// existing device firmwares and must not change.
//
//	[0:2)   version tag
//	[2:6)   map id
//	[6:10)  grid width
//	[10:14) grid height
//	[14:18) origin x (int16, centimeters)
//	[18:22) origin y (int16, centimeters)
//	[22:26) map resolution (millimeters per cell)
//	[26:30) dock x (int16, device units)
//	[30:34) dock y (int16, device units)
//	[34:42) payload byte count
//	[42:44) room count (Rich only)
//	[44:48) reserved
const (
	headerHexLen  = 48
	headerByteLen = headerHexLen / 2
)

// DecodeBinaryHeader parses the fixed preamble of a binary map payload,
// given as a hex string. It fails with FormatDecodeError when the preamble
// is shorter than 48 hex characters and with UnsupportedFormatError when the
// version tag is neither 0 nor 1.
func DecodeBinaryHeader(hexData string) (*MapHeader, error) {
	if len(hexData) < headerHexLen {
		return nil, decodeErrf("header too short: %d hex chars, need %d", len(hexData), headerHexLen)
	}

	version, err := hexUint(hexData, 0, 2)
	if err != nil {
		return nil, &FormatDecodeError{Reason: "invalid version field", Err: err}
	}

	h := &MapHeader{}
	switch version {
	case 0:
		h.Version = VersionLegacy
	case 1:
		h.Version = VersionRich
	default:
		return nil, &UnsupportedFormatError{Version: version}
	}

	fields := []struct {
		dst        *int
		start, end int
		name       string
	}{
		{&h.MapID, 2, 6, "map id"},
		{&h.Width, 6, 10, "width"},
		{&h.Height, 10, 14, "height"},
	}
	for _, f := range fields {
		v, err := hexUint(hexData, f.start, f.end)
		if err != nil {
			return nil, &FormatDecodeError{Reason: "invalid " + f.name + " field", Err: err}
		}
		*f.dst = v
	}
	if h.Width <= 0 || h.Height <= 0 {
		return nil, decodeErrf("invalid grid dimensions %dx%d", h.Width, h.Height)
	}

	originX, err := hexInt16(hexData, 14, 18)
	if err != nil {
		return nil, &FormatDecodeError{Reason: "invalid origin x field", Err: err}
	}
	originY, err := hexInt16(hexData, 18, 22)
	if err != nil {
		return nil, &FormatDecodeError{Reason: "invalid origin y field", Err: err}
	}
	resolution, err := hexUint(hexData, 22, 26)
	if err != nil {
		return nil, &FormatDecodeError{Reason: "invalid resolution field", Err: err}
	}
	pileX, err := hexInt16(hexData, 26, 30)
	if err != nil {
		return nil, &FormatDecodeError{Reason: "invalid dock x field", Err: err}
	}
	pileY, err := hexInt16(hexData, 30, 34)
	if err != nil {
		return nil, &FormatDecodeError{Reason: "invalid dock y field", Err: err}
	}

	h.XMin = float64(originX) / 100
	h.YMin = float64(originY) / 100
	h.MapResolution = float64(resolution) / 1000
	h.PileX = float64(pileX)
	h.PileY = float64(pileY)
	// A zeroed dock field means the device never reported a dock.
	h.HasPile = pileX != 0 || pileY != 0

	return h, nil
}

// binaryRoomCount reads the Rich room table length from the preamble.
func binaryRoomCount(hexData string) (int, error) {
	n, err := hexUint(hexData, 42, 44)
	if err != nil {
		return 0, &FormatDecodeError{Reason: "invalid room count field", Err: err}
	}
	return n, nil
}

// parseRoomTable decodes the Rich room table that follows the preamble.
// Each entry is: room id (1 byte), name length (1 byte), name bytes.
// Returns the rooms and the number of bytes consumed.
func parseRoomTable(data []byte, count int) ([]RoomInfo, int, error) {
	rooms := make([]RoomInfo, 0, count)
	pos := 0
	for i := 0; i < count; i++ {
		if pos+2 > len(data) {
			return nil, 0, decodeErrf("room table truncated at entry %d", i)
		}
		id := int(data[pos])
		nameLen := int(data[pos+1])
		pos += 2
		if pos+nameLen > len(data) {
			return nil, 0, decodeErrf("room name truncated at entry %d", i)
		}
		rooms = append(rooms, RoomInfo{ID: id, Name: string(data[pos : pos+nameLen])})
		pos += nameLen
	}
	return rooms, pos, nil
}

// structuredMap mirrors the map object embedded in a structured payload,
// either under the "result" list or the "map_data" wrapper.
type structuredMap struct {
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	Resolution float64    `json:"resolution"`
	XMin       float64    `json:"x_min"`
	YMin       float64    `json:"y_min"`
	PileX      *float64   `json:"pile_x"`
	PileY      *float64   `json:"pile_y"`
	Rooms      []RoomInfo `json:"rooms"`
	Pixels     []int      `json:"pixels"`
	Cells      []int      `json:"cells"`
}

// headerFromStructured extracts the normalized header from a structured map
// object. Width, height and a positive resolution are mandatory.
func headerFromStructured(sm *structuredMap) (*MapHeader, error) {
	if sm.Width <= 0 || sm.Height <= 0 {
		return nil, decodeErrf("structured map missing width/height")
	}
	if sm.Resolution <= 0 {
		return nil, decodeErrf("structured map missing resolution")
	}

	h := &MapHeader{
		Version:       VersionStructured,
		Width:         sm.Width,
		Height:        sm.Height,
		MapResolution: sm.Resolution,
		XMin:          sm.XMin,
		YMin:          sm.YMin,
		Rooms:         sm.Rooms,
	}
	if sm.PileX != nil && sm.PileY != nil {
		h.PileX = *sm.PileX
		h.PileY = *sm.PileY
		h.HasPile = true
	}
	return h, nil
}

// hexUint parses hexData[start:end] as an unsigned integer.
func hexUint(hexData string, start, end int) (int, error) {
	v, err := strconv.ParseUint(hexData[start:end], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("parsing hex field [%d:%d): %w", start, end, err)
	}
	return int(v), nil
}

// hexInt16 parses hexData[start:end] as a signed 16-bit integer.
func hexInt16(hexData string, start, end int) (int16, error) {
	v, err := strconv.ParseUint(hexData[start:end], 16, 16)
	if err != nil {
		return 0, fmt.Errorf("parsing hex field [%d:%d): %w", start, end, err)
	}
	return int16(v), nil
}
