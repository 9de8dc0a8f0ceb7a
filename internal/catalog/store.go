package catalog

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

// SearchCap bounds Search results to protect downstream UIs.
const SearchCap = 50

var (
	ErrEmptyID        = errors.New("catalog: channel has empty id")
	ErrEmptyStreamURL = errors.New("catalog: channel has empty stream url")
	ErrBadCategory    = errors.New("catalog: category not in the fixed set")
)

// Store holds the current channel set. Reads are safe concurrently with an
// in-progress ingest; each Upsert replaces the whole record under the lock so
// readers never observe a partially-written channel.
type Store struct {
	mu       sync.RWMutex
	channels map[string]Channel
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{channels: make(map[string]Channel)}
}

// Upsert inserts or fully replaces the channel by ID and stamps UpdatedAt.
// Returns true when the channel was newly created.
func (s *Store) Upsert(ch Channel) (created bool, err error) {
	if ch.ID == "" {
		return false, ErrEmptyID
	}
	if ch.StreamURL == "" {
		return false, ErrEmptyStreamURL
	}
	if ch.Category != "" {
		if _, ok := ParseCategory(string(ch.Category)); !ok {
			return false, ErrBadCategory
		}
	}
	ch.UpdatedAt = time.Now().UTC()
	s.mu.Lock()
	_, existed := s.channels[ch.ID]
	s.channels[ch.ID] = ch
	s.mu.Unlock()
	return !existed, nil
}

// Get returns the channel by ID.
func (s *Store) Get(id string) (Channel, bool) {
	s.mu.RLock()
	ch, ok := s.channels[id]
	s.mu.RUnlock()
	return ch, ok
}

// Len returns the number of channels.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.channels)
}

// All returns every channel ordered by name.
func (s *Store) All() []Channel {
	s.mu.RLock()
	out := make([]Channel, 0, len(s.channels))
	for _, ch := range s.channels {
		out = append(out, ch)
	}
	s.mu.RUnlock()
	sortByName(out)
	return out
}

// ListByCategory returns the channels assigned to cat, ordered by name.
func (s *Store) ListByCategory(cat Category) []Channel {
	s.mu.RLock()
	var out []Channel
	for _, ch := range s.channels {
		if ch.Category == cat {
			out = append(out, ch)
		}
	}
	s.mu.RUnlock()
	sortByName(out)
	return out
}

// Search returns channels whose name contains q case-insensitively, ordered
// by name and capped at SearchCap.
func (s *Store) Search(q string) []Channel {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return nil
	}
	s.mu.RLock()
	var out []Channel
	for _, ch := range s.channels {
		if strings.Contains(strings.ToLower(ch.Name), q) {
			out = append(out, ch)
		}
	}
	s.mu.RUnlock()
	sortByName(out)
	if len(out) > SearchCap {
		out = out[:SearchCap]
	}
	return out
}

// CategoryEntry is one row of the derived category index.
type CategoryEntry struct {
	Count int      `json:"count"`
	IDs   []string `json:"ids"`
}

// Categories derives the category → channel-ids index from the live channel
// set. IDs are ordered by channel name. Channels still pending categorization
// are not indexed.
func (s *Store) Categories() map[Category]CategoryEntry {
	byCat := make(map[Category][]Channel)
	s.mu.RLock()
	for _, ch := range s.channels {
		if ch.Category == "" {
			continue
		}
		byCat[ch.Category] = append(byCat[ch.Category], ch)
	}
	s.mu.RUnlock()
	out := make(map[Category]CategoryEntry, len(byCat))
	for cat, chs := range byCat {
		sortByName(chs)
		ids := make([]string, len(chs))
		for i, ch := range chs {
			ids[i] = ch.ID
		}
		out[cat] = CategoryEntry{Count: len(chs), IDs: ids}
	}
	return out
}

// Pending returns channels awaiting categorization, ordered by name.
func (s *Store) Pending() []Channel {
	s.mu.RLock()
	var out []Channel
	for _, ch := range s.channels {
		if ch.Category == "" {
			out = append(out, ch)
		}
	}
	s.mu.RUnlock()
	sortByName(out)
	return out
}

// SetCategory assigns cat to the channel with the given ID. The categorizer
// is the only caller; cat must be a member of the fixed set.
func (s *Store) SetCategory(id string, cat Category) error {
	if _, ok := ParseCategory(string(cat)); !ok {
		return ErrBadCategory
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.channels[id]
	if !ok {
		return nil
	}
	ch.Category = cat
	ch.UpdatedAt = time.Now().UTC()
	s.channels[id] = ch
	return nil
}

// Restore replaces the whole channel set, preserving stored UpdatedAt values.
// Used when warming the store from the sqlite snapshot at boot.
func (s *Store) Restore(chs []Channel) {
	m := make(map[string]Channel, len(chs))
	for _, ch := range chs {
		if ch.ID == "" || ch.StreamURL == "" {
			continue
		}
		m[ch.ID] = ch
	}
	s.mu.Lock()
	s.channels = m
	s.mu.Unlock()
}

func sortByName(chs []Channel) {
	sort.Slice(chs, func(i, j int) bool {
		if chs[i].Name == chs[j].Name {
			return chs[i].ID < chs[j].ID
		}
		return chs[i].Name < chs[j].Name
	})
}
