package emma

import (
	"bytes"
	"encoding/json"
	"fmt"
)

func decodeObject(raw json.RawMessage) (map[string]any, error) {
	if raw == nil {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	contents := map[string]any{}
	if err := dec.Decode(&contents); err != nil {
		return nil, fmt.Errorf("failed to decode object: %w", err)
	}

	return contents, nil
}

func decodeList(raw json.RawMessage) ([]map[string]any, error) {
	if raw == nil {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	contents := []map[string]any{}
	if err := dec.Decode(&contents); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}

	return contents, nil
}

func asInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case json.Number:
		i, err := v.Int64()
		return i, err == nil
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	}

	return 0, false
}

func asString(value any) (string, bool) {
	s, ok := value.(string)
	return s, ok
}

// truthy mirrors the looseness of the api: an empty, null, false or zero
// response counts as a failure on write paths.
func truthy(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)

	switch string(trimmed) {
	case "", "null", "false", "0", `""`, "{}", "[]":
		return false
	}

	return true
}
