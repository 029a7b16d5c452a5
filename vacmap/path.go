package vacmap

import (
	"encoding/hex"
	"encoding/json"
)

// Binary path payload layout, in hex-character offsets:
//
//	[0:4)   payload type tag
//	[4:12)  point count
//	[12:)   int16 x, int16 y per point
const pathHeaderHexLen = 12

// DecodeBinaryPath decodes the Legacy/Rich path payload into grid pixel
// coordinates. All failures are PathDecodeError; the caller recovers them.
func DecodeBinaryPath(blob []byte) ([]PathPoint, error) {
	hexData := hex.EncodeToString(blob)
	if len(hexData) < pathHeaderHexLen {
		return nil, pathErrf("path payload too short: %d hex chars, need %d", len(hexData), pathHeaderHexLen)
	}

	count, err := hexUint(hexData, 4, 12)
	if err != nil {
		return nil, &PathDecodeError{Err: err}
	}

	const pointBytes = 4
	start := pathHeaderHexLen / 2
	if len(blob) < start+count*pointBytes {
		return nil, pathErrf("path payload truncated: %d points declared, %d bytes available", count, len(blob)-start)
	}

	points := make([]PathPoint, 0, count)
	for i := 0; i < count; i++ {
		off := start + i*pointBytes
		x := int16(uint16(blob[off])<<8 | uint16(blob[off+1]))
		y := int16(uint16(blob[off+2])<<8 | uint16(blob[off+3]))
		points = append(points, formatPathPoint(float64(x), float64(y)))
	}
	return points, nil
}

// DecodeStructuredPath decodes the structured path payload, mapping each
// world-space coordinate into grid pixel space through the header's
// origin and resolution.
func DecodeStructuredPath(blob []byte, h *MapHeader) ([]PathPoint, error) {
	var payload struct {
		Data struct {
			Points [][]float64 `json:"points"`
		} `json:"data"`
	}
	if err := json.Unmarshal(blob, &payload); err != nil {
		return nil, &PathDecodeError{Err: err}
	}
	if len(payload.Data.Points) == 0 {
		return nil, pathErrf("structured path carries no points")
	}

	points := make([]PathPoint, 0, len(payload.Data.Points))
	for i, raw := range payload.Data.Points {
		if len(raw) < 2 {
			return nil, pathErrf("structured path point %d has %d coordinates", i, len(raw))
		}
		points = append(points, mapToImage(raw[0], raw[1], h.MapResolution, h.XMin, h.YMin))
	}
	return points, nil
}

// DecodePath selects the path decoder matching the map format.
func DecodePath(blob []byte, h *MapHeader) ([]PathPoint, error) {
	if h.Version == VersionStructured {
		return DecodeStructuredPath(blob, h)
	}
	return DecodeBinaryPath(blob)
}

// formatPathPoint normalizes a raw binary coordinate pair into grid pixel
// space. Devices report path samples and the dock in tenths of a cell; the
// same routine serves both so they stay aligned.
func formatPathPoint(x, y float64) PathPoint {
	return PathPoint{X: x / 10, Y: y / 10}
}

// mapToImage converts a structured-format world coordinate into grid pixel
// space: pixel = (raw - origin) / resolution. It is the single place that
// knows the structured coordinate system; the compositor never does.
func mapToImage(x, y, resolution, xMin, yMin float64) PathPoint {
	return PathPoint{
		X: (x - xMin) / resolution,
		Y: (y - yMin) / resolution,
	}
}

// DockPoint returns the dock position in grid pixel space, applying the
// same per-format mapping as the path decoders.
func DockPoint(h *MapHeader) (PathPoint, bool) {
	if !h.HasPile {
		return PathPoint{}, false
	}
	if h.Version == VersionStructured {
		return mapToImage(h.PileX, h.PileY, h.MapResolution, h.XMin, h.YMin), true
	}
	return formatPathPoint(h.PileX, h.PileY), true
}
