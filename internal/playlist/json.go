package playlist

import (
	"bytes"
	"encoding/json"
	"strings"
)

// jsonChannel is the recognized field set of one JSON channel object.
// "link" and "url" are synonyms; "link" wins when both are present.
type jsonChannel struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Link       string `json:"link"`
	URL        string `json:"url"`
	Logo       string `json:"logo"`
	Category   string `json:"category"`
	DrmScheme  string `json:"drmScheme"`
	DrmLicense string `json:"drmLicense"`
	Cookie     string `json:"cookie"`
}

// parseJSONList accepts a top-level array of channel objects or an object
// with a "channels" array. A bad element skips that one entry, not the whole
// payload.
func parseJSONList(raw []byte) (entries []RawEntry, skipped int, err error) {
	trimmed := bytes.TrimSpace(raw)
	var items []json.RawMessage
	switch {
	case len(trimmed) > 0 && trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, 0, ErrUnrecognizedFormat
		}
	case len(trimmed) > 0 && trimmed[0] == '{':
		var obj struct {
			Channels []json.RawMessage `json:"channels"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil || obj.Channels == nil {
			return nil, 0, ErrUnrecognizedFormat
		}
		items = obj.Channels
	default:
		return nil, 0, ErrUnrecognizedFormat
	}

	for _, item := range items {
		var jc jsonChannel
		if err := json.Unmarshal(item, &jc); err != nil {
			skipped++
			continue
		}
		link := strings.TrimSpace(jc.Link)
		if link == "" {
			link = strings.TrimSpace(jc.URL)
		}
		name := strings.TrimSpace(jc.Name)
		if name == "" || link == "" {
			skipped++
			continue
		}
		entries = append(entries, RawEntry{
			SourceID:   strings.TrimSpace(jc.ID),
			Name:       name,
			Logo:       strings.TrimSpace(jc.Logo),
			Group:      strings.TrimSpace(jc.Category),
			StreamURL:  link,
			DrmScheme:  jc.DrmScheme,
			DrmLicense: jc.DrmLicense,
			Cookie:     jc.Cookie,
			Format:     FormatJSON,
		})
	}
	return entries, skipped, nil
}
