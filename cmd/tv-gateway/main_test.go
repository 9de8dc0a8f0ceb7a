package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tvgateway/tv-gateway/internal/catalog"
	"github.com/tvgateway/tv-gateway/internal/metrics"
)

func TestOpenCatalogDBRestoresAndSetsGauge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	db, err := catalog.OpenDB(path)
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now().UTC()
	snapshot := []catalog.Channel{
		{ID: "a", Name: "Alpha", StreamURL: "http://x/a.m3u8", UpdatedAt: now},
		{ID: "b", Name: "Beta", StreamURL: "http://x/b.m3u8", UpdatedAt: now},
	}
	if err := catalog.SaveSnapshot(db, snapshot); err != nil {
		t.Fatal(err)
	}
	db.Close()

	store := catalog.NewStore()
	restored := openCatalogDB(path, store)
	if restored == nil {
		t.Fatal("openCatalogDB returned nil for a valid snapshot")
	}
	defer restored.Close()

	if store.Len() != 2 {
		t.Errorf("restored %d channels, want 2", store.Len())
	}
	if got := testutil.ToFloat64(metrics.ChannelsTotal); got != 2 {
		t.Errorf("channels gauge = %v, want 2 right after restore", got)
	}
}

func TestOpenCatalogDBMemoryOnly(t *testing.T) {
	if db := openCatalogDB("", catalog.NewStore()); db != nil {
		db.Close()
		t.Error("empty path should disable persistence")
	}
}
