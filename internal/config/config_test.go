package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"TVGW_SOURCE_URL", "TVGW_SOURCE_FORMAT", "TVGW_LISTEN_ADDR",
		"TVGW_CATALOG_DB", "TVGW_DEDUP_WINDOW", "TVGW_FETCH_RETRIES",
		"TVGW_SPOOF_HOSTS",
	} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q", c.ListenAddr)
	}
	if c.SourceFormat != "auto" {
		t.Errorf("SourceFormat = %q", c.SourceFormat)
	}
	if c.DedupWindow != 10*time.Minute {
		t.Errorf("DedupWindow = %v", c.DedupWindow)
	}
	if c.FetchRetries != 3 {
		t.Errorf("FetchRetries = %d", c.FetchRetries)
	}
	if c.SpoofHosts != nil {
		t.Errorf("SpoofHosts = %v, want nil", c.SpoofHosts)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TVGW_SOURCE_URL", "http://provider.example/list.m3u")
	t.Setenv("TVGW_SOURCE_FORMAT", "JSON")
	t.Setenv("TVGW_DEDUP_WINDOW", "0s")
	t.Setenv("TVGW_SPOOF_HOSTS", "cdn.a.example, cdn.b.example ,,")
	t.Setenv("TVGW_FETCH_BACKOFF", "250ms")

	c := Load()
	if c.SourceURL != "http://provider.example/list.m3u" {
		t.Errorf("SourceURL = %q", c.SourceURL)
	}
	if c.SourceFormat != "json" {
		t.Errorf("SourceFormat = %q, want lowered json", c.SourceFormat)
	}
	if c.DedupWindow != 0 {
		t.Errorf("DedupWindow = %v, want 0 (disabled)", c.DedupWindow)
	}
	if len(c.SpoofHosts) != 2 || c.SpoofHosts[0] != "cdn.a.example" || c.SpoofHosts[1] != "cdn.b.example" {
		t.Errorf("SpoofHosts = %v", c.SpoofHosts)
	}
	if c.FetchBackoff != 250*time.Millisecond {
		t.Errorf("FetchBackoff = %v", c.FetchBackoff)
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	t.Setenv("TVGW_SOURCE_FORMAT", "xmltv")
	if c := Load(); c.SourceFormat != "auto" {
		t.Errorf("SourceFormat = %q, want auto fallback", c.SourceFormat)
	}
}
