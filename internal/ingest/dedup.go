package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// DefaultDedupWindow is how long an identical payload is skipped after a
// successful ingest.
const DefaultDedupWindow = 10 * time.Minute

// Summary records what a processed payload produced.
type Summary struct {
	Added   int
	Updated int
	Errors  int
}

type fingerprint struct {
	processedAt time.Time
	summary     Summary
}

// DedupGate skips reprocessing of byte-identical payloads inside a cooldown
// window. Advisory only: disabling it (window 0) causes redundant work, never
// incorrect catalog state.
type DedupGate struct {
	mu     sync.Mutex
	window time.Duration
	seen   map[string]fingerprint
	now    func() time.Time
}

// NewDedupGate returns a gate with the given cooldown window. window <= 0
// means always reprocess.
func NewDedupGate(window time.Duration) *DedupGate {
	return &DedupGate{
		window: window,
		seen:   make(map[string]fingerprint),
		now:    time.Now,
	}
}

// ShouldProcess reports whether payload needs processing. False means an
// identical payload was processed within the window; callers report that as
// already-satisfied success, not an error.
func (g *DedupGate) ShouldProcess(payload []byte) bool {
	if g.window <= 0 {
		return true
	}
	key := payloadHash(payload)
	g.mu.Lock()
	defer g.mu.Unlock()
	fp, ok := g.seen[key]
	if !ok {
		return true
	}
	return g.now().Sub(fp.processedAt) >= g.window
}

// MarkProcessed records the payload's fingerprint and run summary, and
// prunes fingerprints past the window.
func (g *DedupGate) MarkProcessed(payload []byte, s Summary) {
	if g.window <= 0 {
		return
	}
	now := g.now()
	g.mu.Lock()
	defer g.mu.Unlock()
	for key, fp := range g.seen {
		if now.Sub(fp.processedAt) >= g.window {
			delete(g.seen, key)
		}
	}
	g.seen[payloadHash(payload)] = fingerprint{processedAt: now, summary: s}
}

// LastSummary returns the recorded summary for payload, if it is still inside
// the window.
func (g *DedupGate) LastSummary(payload []byte) (Summary, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fp, ok := g.seen[payloadHash(payload)]
	if !ok || g.now().Sub(fp.processedAt) >= g.window {
		return Summary{}, false
	}
	return fp.summary, true
}

// Clear forgets all fingerprints (explicit cache-clear by an operator).
func (g *DedupGate) Clear() {
	g.mu.Lock()
	g.seen = make(map[string]fingerprint)
	g.mu.Unlock()
}

func payloadHash(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
