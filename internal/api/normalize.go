package api

import (
	"bytes"
	"encoding/json"
)

// The backend returns lists in three shapes depending on endpoint and
// version: a bare object, an array, or a {"data": ...} wrapper. These
// adapters flatten all of them so call sites never branch on shape.

// NormalizeList coerces raw into a slice of elements. A null or empty
// body yields an empty slice.
func NormalizeList(raw json.RawMessage) ([]json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Data) > 0 {
		if inner := bytes.TrimSpace(wrapped.Data); !bytes.Equal(inner, raw) {
			return NormalizeList(wrapped.Data)
		}
	}

	// single bare object
	return []json.RawMessage{raw}, nil
}

// Unwrap strips an optional {"data": ...} envelope from a single-record
// response.
func Unwrap(raw json.RawMessage) json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return raw
	}
	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		if inner := bytes.TrimSpace(wrapped.Data); len(inner) > 0 && !bytes.Equal(inner, []byte("null")) {
			return inner
		}
	}
	return raw
}
