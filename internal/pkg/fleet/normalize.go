package fleet

import (
	"bytes"
	"encoding/json"
)

// NormalizeToSequence decodes a JSON body that may hold either a single
// object or an array of objects. null and empty bodies give an empty,
// non-nil slice.
func NormalizeToSequence[T any](raw []byte) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}

	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		if items == nil {
			items = []T{}
		}
		return items, nil
	}

	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, err
	}
	return []T{item}, nil
}
