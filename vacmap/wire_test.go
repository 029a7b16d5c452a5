package vacmap

import (
	"encoding/hex"
	"fmt"
)

// headerFields collects the binary preamble fields for test payload builders.
type headerFields struct {
	version    int
	mapID      int
	width      int
	height     int
	originX    int16
	originY    int16
	resolution int
	pileX      int16
	pileY      int16
	payloadLen int
	roomCount  int
}

// buildHeaderHex encodes a headerFields into the 48-character preamble.
func buildHeaderHex(s headerFields) string {
	return fmt.Sprintf("%02x%04x%04x%04x%04x%04x%04x%04x%04x%08x%02x0000",
		s.version, s.mapID, s.width, s.height,
		uint16(s.originX), uint16(s.originY), s.resolution,
		uint16(s.pileX), uint16(s.pileY), s.payloadLen, s.roomCount)
}

// buildBinaryBlob assembles preamble + extra bytes into a raw payload.
func buildBinaryBlob(s headerFields, extra []byte) []byte {
	header, err := hex.DecodeString(buildHeaderHex(s))
	if err != nil {
		panic(err)
	}
	return append(header, extra...)
}

// buildLegacyBlob builds a v0 payload with the given cell codes.
func buildLegacyBlob(width, height int, cells []byte) []byte {
	return buildBinaryBlob(headerFields{
		version: 0,
		mapID:   7,
		width:   width,
		height:  height,
	}, cells)
}

// buildRichBlob builds a v1 payload: room table then cell codes.
func buildRichBlob(width, height int, rooms []RoomInfo, cells []byte) []byte {
	var table []byte
	for _, r := range rooms {
		table = append(table, byte(r.ID), byte(len(r.Name)))
		table = append(table, r.Name...)
	}
	return buildBinaryBlob(headerFields{
		version:   1,
		mapID:     7,
		width:     width,
		height:    height,
		pileX:     50,
		pileY:     50,
		roomCount: len(rooms),
	}, append(table, cells...))
}

// buildPathBlob builds a binary path payload from raw int16 coordinates.
func buildPathBlob(points [][2]int16) []byte {
	blob := []byte{0x00, 0x01} // payload type tag
	count := len(points)
	blob = append(blob, byte(count>>24), byte(count>>16), byte(count>>8), byte(count))
	for _, p := range points {
		x, y := uint16(p[0]), uint16(p[1])
		blob = append(blob, byte(x>>8), byte(x), byte(y>>8), byte(y))
	}
	return blob
}

// emptyCells returns n empty-class cell codes.
func emptyCells(n int) []byte {
	return make([]byte, n)
}
