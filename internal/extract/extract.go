package extract

import (
	"encoding/json"
	"strings"
)

// Extract builds the contact record for url from a job result payload.
//
// A list result is scanned for objects keyed by url; every match contributes,
// later matches overriding earlier ones. An object result is used through its
// url key when present, otherwise as the field map itself. Any field that
// cannot be read keeps its default, so Extract never fails.
func Extract(result json.RawMessage, url string) Contact {
	contact := DefaultContact()
	for _, data := range fieldMaps(result, url) {
		for _, f := range Fields {
			raw, ok := data[f.Name]
			if !ok {
				continue
			}
			if text, ok := firstText(raw); ok {
				f.set(&contact, text)
			}
		}
	}
	return contact
}

// CleanText collapses whitespace runs to single spaces and trims the ends.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func fieldMaps(result json.RawMessage, url string) []map[string]any {
	if len(result) == 0 {
		return nil
	}
	var decoded any
	if err := json.Unmarshal(result, &decoded); err != nil {
		return nil
	}

	switch v := decoded.(type) {
	case []any:
		var out []map[string]any
		for _, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if data, ok := obj[url].(map[string]any); ok {
				out = append(out, data)
			}
		}
		return out
	case map[string]any:
		if data, ok := v[url].(map[string]any); ok {
			return []map[string]any{data}
		}
		return []map[string]any{v}
	default:
		return nil
	}
}

// firstText reads the first element of a field value, which is either a list
// of {"text": ...} objects or a list of strings.
func firstText(raw any) (string, bool) {
	list, ok := raw.([]any)
	if !ok || len(list) == 0 {
		return "", false
	}
	switch first := list[0].(type) {
	case map[string]any:
		text, ok := first["text"].(string)
		if !ok {
			return "", false
		}
		return CleanText(text), true
	case string:
		return CleanText(first), true
	default:
		return "", false
	}
}
