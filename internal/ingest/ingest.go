// Package ingest runs the playlist pipeline: fetch → parse → normalize →
// categorize → catalog, guarded so only one reload runs at a time.
package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"

	"github.com/tvgateway/tv-gateway/internal/catalog"
	"github.com/tvgateway/tv-gateway/internal/fetch"
	"github.com/tvgateway/tv-gateway/internal/metrics"
	"github.com/tvgateway/tv-gateway/internal/playlist"
	"github.com/tvgateway/tv-gateway/internal/safeurl"
)

// ErrBusy means a reload is already in progress; the second request is
// rejected rather than racing writes.
var ErrBusy = errors.New("ingest: reload already in progress")

// Result is the outcome of one reload.
type Result struct {
	Added      int  `json:"channels_added"`
	Updated    int  `json:"channels_updated"`
	Errors     int  `json:"channels_errors"`
	Categories int  `json:"categories"`
	Skipped    bool `json:"skipped"` // identical payload inside the dedup window
}

// Ingestor owns the write path into the catalog.
type Ingestor struct {
	fetcher     *fetch.Fetcher
	store       *catalog.Store
	gate        *DedupGate
	categorizer *Categorizer
	db          *sql.DB // optional snapshot target; nil = memory only
	spoofHosts  map[string]bool

	mu sync.Mutex // single-flight reload guard
}

// New wires an Ingestor. db may be nil to skip persistence; spoofHosts is the
// list of hosts requiring proxied playback.
func New(fetcher *fetch.Fetcher, store *catalog.Store, gate *DedupGate, cat *Categorizer, db *sql.DB, spoofHosts []string) *Ingestor {
	hosts := make(map[string]bool, len(spoofHosts))
	for _, h := range spoofHosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			hosts[h] = true
		}
	}
	return &Ingestor{
		fetcher:     fetcher,
		store:       store,
		gate:        gate,
		categorizer: cat,
		db:          db,
		spoofHosts:  hosts,
	}
}

// Reload fetches sourceURL and ingests its payload. A concurrent reload
// returns ErrBusy. A fetch or parse failure leaves the existing catalog
// intact.
func (in *Ingestor) Reload(ctx context.Context, sourceURL string, hint playlist.Hint) (Result, error) {
	if !safeurl.IsHTTPOrHTTPS(sourceURL) {
		return Result{}, fmt.Errorf("ingest: source url %q is not http(s)", sourceURL)
	}
	if !in.mu.TryLock() {
		return Result{}, ErrBusy
	}
	defer in.mu.Unlock()

	payload, err := in.fetcher.Fetch(ctx, sourceURL)
	if err != nil {
		metrics.IngestRuns.WithLabelValues("error").Inc()
		return Result{}, fmt.Errorf("ingest: fetch source: %w", err)
	}
	return in.ingestLocked(ctx, payload, sourceURL, hint)
}

// IngestPayload ingests an already-fetched payload (admin-supplied body).
// baseURL resolves relative stream links and may be empty.
func (in *Ingestor) IngestPayload(ctx context.Context, payload []byte, baseURL string, hint playlist.Hint) (Result, error) {
	if !in.mu.TryLock() {
		return Result{}, ErrBusy
	}
	defer in.mu.Unlock()
	return in.ingestLocked(ctx, payload, baseURL, hint)
}

func (in *Ingestor) ingestLocked(ctx context.Context, payload []byte, baseURL string, hint playlist.Hint) (Result, error) {
	if !in.gate.ShouldProcess(payload) {
		log.Printf("ingest: identical payload within cooldown window; skipping reprocess")
		metrics.IngestRuns.WithLabelValues("skipped").Inc()
		res := Result{Skipped: true, Categories: len(in.store.Categories())}
		// Report the run this payload already had; the catalog state is the
		// same as if it had run again.
		if s, ok := in.gate.LastSummary(payload); ok {
			res.Added, res.Updated, res.Errors = s.Added, s.Updated, s.Errors
		}
		return res, nil
	}

	entries, skipped, err := playlist.Parse(payload, hint)
	if err != nil {
		metrics.IngestRuns.WithLabelValues("error").Inc()
		return Result{}, fmt.Errorf("ingest: parse: %w", err)
	}

	base := sourceBase(baseURL)
	res := Result{Errors: skipped}
	for i, e := range entries {
		ch, ok := normalizeEntry(e, base, i, in.spoofHosts)
		if !ok {
			res.Errors++
			continue
		}
		created, err := in.store.Upsert(ch)
		if err != nil {
			res.Errors++
			continue
		}
		if created {
			res.Added++
		} else {
			res.Updated++
		}
	}
	if res.Added+res.Updated == 0 {
		metrics.IngestRuns.WithLabelValues("error").Inc()
		return Result{}, fmt.Errorf("ingest: %w", playlist.ErrNoValidEntries)
	}

	assigned := in.categorizer.Run(ctx, in.store)
	res.Categories = len(in.store.Categories())
	in.gate.MarkProcessed(payload, Summary{Added: res.Added, Updated: res.Updated, Errors: res.Errors})

	if in.db != nil {
		if err := catalog.SaveSnapshot(in.db, in.store.All()); err != nil {
			log.Printf("ingest: warning: snapshot save failed: %v", err)
		}
	}
	metrics.IngestRuns.WithLabelValues("ok").Inc()
	metrics.ChannelsTotal.Set(float64(in.store.Len()))
	log.Printf("ingest: done added=%d updated=%d errors=%d categorized=%d categories=%d",
		res.Added, res.Updated, res.Errors, assigned, res.Categories)
	return res, nil
}

// sourceBase reduces a source URL to its scheme+host for relative stream
// resolution.
func sourceBase(sourceURL string) *url.URL {
	u, err := url.Parse(sourceURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host}
}
