// Command tv-gateway ingests an IPTV playlist into a searchable channel
// catalog and proxies playback for providers that gate their streams behind
// browser headers. Configuration comes from the environment (and .env).
package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tvgateway/tv-gateway/internal/catalog"
	"github.com/tvgateway/tv-gateway/internal/config"
	"github.com/tvgateway/tv-gateway/internal/fetch"
	"github.com/tvgateway/tv-gateway/internal/ingest"
	"github.com/tvgateway/tv-gateway/internal/metrics"
	"github.com/tvgateway/tv-gateway/internal/playlist"
	"github.com/tvgateway/tv-gateway/internal/proxy"
	"github.com/tvgateway/tv-gateway/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("main: load .env: %v", err)
	}
	cfg := config.Load()

	store := catalog.NewStore()
	db := openCatalogDB(cfg.CatalogPath, store)
	if db != nil {
		defer db.Close()
	}

	headerOpts := fetch.Options{
		Timeout:    cfg.FetchTimeout,
		MaxRetries: cfg.FetchRetries,
		Backoff:    cfg.FetchBackoff,
		UserAgent:  fetch.DefaultUserAgent,
		Referer:    cfg.Referer,
		Origin:     cfg.Origin,
	}
	ing := ingest.New(
		fetch.New(headerOpts),
		store,
		ingest.NewDedupGate(cfg.DedupWindow),
		ingest.NewCategorizer(nil, cfg.ClassifyDelay, cfg.ClassifyLimit),
		db,
		cfg.SpoofHosts,
	)
	px := proxy.New(store, headerOpts)
	hint := sourceHint(cfg.SourceFormat)
	srv := server.New(store, ing, px, cfg.SourceURL, hint)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Warm the catalog at startup. A failed source is not fatal: whatever the
	// snapshot restored keeps serving until the next reload succeeds.
	if cfg.SourceURL != "" {
		if res, err := ing.Reload(ctx, cfg.SourceURL, hint); err != nil {
			log.Printf("main: startup ingest failed: %v (serving %d restored channels)", err, store.Len())
		} else {
			log.Printf("main: startup ingest: added=%d updated=%d errors=%d", res.Added, res.Updated, res.Errors)
		}
	} else {
		log.Printf("main: TVGW_SOURCE_URL not set; catalog loads only via POST /api/reload with a body")
	}

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("main: listening on %s (%d channels)", cfg.ListenAddr, store.Len())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main: serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("main: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("main: shutdown: %v", err)
	}
}

// openCatalogDB opens the snapshot database and restores it into store.
// Returns nil (memory-only mode) when persistence is disabled or the open
// fails; a broken snapshot never blocks startup.
func openCatalogDB(path string, store *catalog.Store) *sql.DB {
	if path == "" {
		return nil
	}
	db, err := catalog.OpenDB(path)
	if err != nil {
		log.Printf("main: open catalog db %s: %v (running memory-only)", path, err)
		return nil
	}
	chs, err := catalog.LoadChannels(db)
	if err != nil {
		log.Printf("main: load catalog snapshot: %v", err)
		return db
	}
	store.Restore(chs)
	metrics.ChannelsTotal.Set(float64(store.Len()))
	if len(chs) > 0 {
		log.Printf("main: restored %d channels from %s", len(chs), path)
	}
	return db
}

func sourceHint(format string) playlist.Hint {
	switch format {
	case "m3u":
		return playlist.HintM3U
	case "json":
		return playlist.HintJSON
	default:
		return playlist.HintAuto
	}
}
