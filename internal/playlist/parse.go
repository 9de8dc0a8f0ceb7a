package playlist

import (
	"bytes"
	"encoding/json"
)

// Parse parses raw into entries. skipped counts source entries that were
// recognized but dropped (missing URL, missing name, wrong type). A result
// with zero valid entries is an error even when nothing failed hard.
func Parse(raw []byte, hint Hint) (entries []RawEntry, skipped int, err error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, 0, ErrEmptyPayload
	}
	switch hint {
	case HintM3U:
		entries, skipped = parseM3U(raw)
	case HintJSON:
		entries, skipped, err = parseJSONList(raw)
	default:
		if looksLikeJSON(raw) {
			entries, skipped, err = parseJSONList(raw)
		} else {
			entries, skipped = parseM3U(raw)
		}
	}
	if err != nil {
		return nil, skipped, err
	}
	if len(entries) == 0 {
		return nil, skipped, ErrNoValidEntries
	}
	return entries, skipped, nil
}

// looksLikeJSON reports whether raw decodes as JSON and has a channel-list
// shape: a top-level array, or an object with a "channels" key. Everything
// else is treated as M3U text.
func looksLikeJSON(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	switch trimmed[0] {
	case '[':
		return json.Valid(trimmed)
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return false
		}
		_, ok := obj["channels"]
		return ok
	}
	return false
}
