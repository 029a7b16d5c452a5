package vacmap

import (
	"encoding/hex"
	"encoding/json"
)

// DecodeMapBlob inspects a fetched map blob, selects the matching decoder and
// returns the normalized header and semantic grid.
//
// Dispatch order is structured-first, binary-fallback, and must stay that
// way: some devices emit payloads that parse as JSON but carry none of the
// recognized keys, and those fall through to binary parsing of the same
// bytes. The probe only checks "does it parse and contain an expected key";
// it never tries to disambiguate further.
func DecodeMapBlob(blob []byte) (*MapHeader, *PixelGrid, error) {
	if len(blob) == 0 {
		return nil, nil, decodeErrf("empty map payload")
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(blob, &probe); err == nil {
		if raw, ok := probe["result"]; ok {
			return decodeStructuredResult(raw)
		}
		if raw, ok := probe["map_data"]; ok {
			return decodeStructuredObject(raw)
		}
		// Parses as JSON but carries no recognized key: treat as binary.
	}

	return decodeBinaryBlob(blob)
}

// decodeStructuredResult handles the standard cloud response shape: a
// "result" list whose first entry wraps the map object.
func decodeStructuredResult(raw json.RawMessage) (*MapHeader, *PixelGrid, error) {
	var results []struct {
		Map *structuredMap `json:"map"`
	}
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, nil, &FormatDecodeError{Reason: "malformed result list", Err: err}
	}
	if len(results) == 0 || results[0].Map == nil {
		return nil, nil, decodeErrf("result list carries no map object")
	}
	return finishStructured(results[0].Map)
}

// decodeStructuredObject handles the alternate shape some devices use: a
// "map_data" wrapper holding the map object directly.
func decodeStructuredObject(raw json.RawMessage) (*MapHeader, *PixelGrid, error) {
	var sm structuredMap
	if err := json.Unmarshal(raw, &sm); err != nil {
		return nil, nil, &FormatDecodeError{Reason: "malformed map_data object", Err: err}
	}
	return finishStructured(&sm)
}

func finishStructured(sm *structuredMap) (*MapHeader, *PixelGrid, error) {
	h, err := headerFromStructured(sm)
	if err != nil {
		return nil, nil, err
	}
	grid, err := expandStructuredGrid(sm, h)
	if err != nil {
		return nil, nil, err
	}
	return h, grid, nil
}

// decodeBinaryBlob decodes a raw binary payload: fixed preamble, optional
// room table (Rich), then one cell code byte per grid cell.
func decodeBinaryBlob(blob []byte) (*MapHeader, *PixelGrid, error) {
	hexData := hex.EncodeToString(blob)
	h, err := DecodeBinaryHeader(hexData)
	if err != nil {
		return nil, nil, err
	}

	payload := blob[headerByteLen:]
	switch h.Version {
	case VersionLegacy:
		grid, err := decodeLegacyGrid(payload, h)
		if err != nil {
			return nil, nil, err
		}
		return h, grid, nil
	case VersionRich:
		count, err := binaryRoomCount(hexData)
		if err != nil {
			return nil, nil, err
		}
		rooms, consumed, err := parseRoomTable(payload, count)
		if err != nil {
			return nil, nil, err
		}
		h.Rooms = rooms
		grid, err := decodeRichGrid(payload[consumed:], h)
		if err != nil {
			return nil, nil, err
		}
		return h, grid, nil
	}
	// DecodeBinaryHeader only returns Legacy or Rich.
	return nil, nil, &UnsupportedFormatError{Version: int(h.Version)}
}
