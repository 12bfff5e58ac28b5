package channel

import (
	"fmt"
	"unicode/utf16"

	json "github.com/goccy/go-json"
)

// encodePayload converts a JSON-serializable value into UTF-16 code units.
// Non-BMP runes become surrogate pairs, one pair member per cell.
func encodePayload(v any) ([]uint16, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("channel: encode payload: %w", err)
	}
	return utf16.Encode([]rune(string(raw))), nil
}

// decodePayload reverses encodePayload.
func decodePayload(units []uint16) (any, error) {
	raw := string(utf16.Decode(units))
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("channel: decode payload: %w", err)
	}
	return v, nil
}
