package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var cborEncMode = mustCBOREncMode()

func mustCBOREncMode() cbor.EncMode {
	em, err := cbor.EncOptions{
		Sort: cbor.SortCanonical,
		Time: cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("snapshot: invalid CBOR encoding options: %v", err))
	}
	return em
}

// Encode serializes a snapshot in the given format.
func Encode(s *Snapshot, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal snapshot JSON: %w", err)
		}
		return data, nil
	case FormatCBOR:
		data, err := cborEncMode.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("marshal snapshot CBOR: %w", err)
		}
		return data, nil
	default:
		return nil, &UnknownFormatError{Format: string(format)}
	}
}

// Decode parses snapshot bytes, detecting JSON or CBOR from the first byte.
// Input that is not a JSON object or CBOR map fails with ErrMalformedSnapshot.
func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	switch DetectFormat(data) {
	case FormatJSON:
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, malformed("parse JSON: %v", err)
		}
	case FormatCBOR:
		if err := cbor.Unmarshal(data, &s); err != nil {
			return nil, malformed("parse CBOR: %v", err)
		}
	default:
		return nil, malformed("not a JSON object or CBOR map")
	}
	return &s, nil
}

// DetectFormat reports the encoding of snapshot bytes, or "" if neither.
func DetectFormat(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}
	// CBOR major type 5 (map) occupies initial bytes 0xa0-0xbf
	if len(data) > 0 && data[0]&0xe0 == 0xa0 {
		return FormatCBOR
	}
	return ""
}
