// Package playlist turns raw playlist payloads (M3U/M3U8 text or JSON channel
// lists) into a flat list of RawEntry values. Parsing is tolerant: malformed
// lines and objects are dropped and tallied, never fatal mid-stream.
package playlist

import "errors"

var (
	ErrEmptyPayload       = errors.New("playlist: empty payload")
	ErrUnrecognizedFormat = errors.New("playlist: unrecognized format")
	ErrNoValidEntries     = errors.New("playlist: no valid entries")
)

// Format identifies which parser produced an entry.
type Format int

const (
	FormatM3U Format = iota
	FormatJSON
)

// Hint lets a caller force a parser when the source is known; HintAuto runs
// detection (JSON first, then M3U text).
type Hint int

const (
	HintAuto Hint = iota
	HintM3U
	HintJSON
)

// RawEntry is one channel as the source described it, before normalization.
// All fields except StreamURL are optional.
type RawEntry struct {
	SourceID   string // explicit id (tvg-id, JSON "id")
	Name       string
	Logo       string
	Group      string // free-text category hint (group-title / JSON "category")
	StreamURL  string
	DrmScheme  string
	DrmLicense string
	Cookie     string
	Format     Format
}
