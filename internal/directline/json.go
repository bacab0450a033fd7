package directline

import "encoding/json"

// parseJSONWithStringFallback decodes s as JSON; when s is not valid JSON it
// is returned unchanged as a literal string. Malformed payloads are never an
// error in this layer.
func parseJSONWithStringFallback(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}

// mustMarshalString marshals v to a compact JSON string. The values passed
// here come from json.Unmarshal or from literal maps, so marshaling cannot
// fail; the empty string is returned if it somehow does.
func mustMarshalString(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

// mergeTitle folds a button title into an opaque payload value so an inbound
// click can recover which button was pressed. A map payload gains a "title"
// key (existing titles win); any other payload is wrapped.
func mergeTitle(payload any, title string) any {
	if title == "" {
		return payload
	}
	if m, ok := payload.(map[string]any); ok {
		merged := make(map[string]any, len(m)+1)
		for k, v := range m {
			merged[k] = v
		}
		if _, exists := merged["title"]; !exists {
			merged["title"] = title
		}
		return merged
	}
	return map[string]any{"value": payload, "title": title}
}

// isEmptyValue reports whether a decoded JSON value counts as absent for
// classification purposes: nil, the empty string, or an empty map/slice.
// Numbers and booleans are never empty.
func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	default:
		return false
	}
}
