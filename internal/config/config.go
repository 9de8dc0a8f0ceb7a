// Package config reads service settings from the environment. Call
// godotenv.Load before Load to pick up a .env file.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds gateway settings.
type Config struct {
	// Source playlist
	SourceURL    string // M3U or JSON playlist URL fetched on reload
	SourceFormat string // "auto" | "m3u" | "json"

	// HTTP
	ListenAddr string // e.g. :8080

	// Catalog persistence
	CatalogPath string // SQLite file; "" = memory only

	// Ingest
	DedupWindow   time.Duration // 0 disables the identical-payload cooldown
	FetchTimeout  time.Duration
	FetchRetries  int
	FetchBackoff  time.Duration
	Referer       string        // spoofed Referer sent upstream
	Origin        string        // spoofed Origin sent upstream
	SpoofHosts    []string      // hosts whose playback must route through the proxy
	ClassifyDelay time.Duration // pause between classifier calls
	ClassifyLimit time.Duration // per-call classifier timeout
}

// Load reads config from environment with defaults suitable for a local run.
func Load() *Config {
	c := &Config{
		SourceURL:     os.Getenv("TVGW_SOURCE_URL"),
		SourceFormat:  getEnvFormat("TVGW_SOURCE_FORMAT", "auto"),
		ListenAddr:    getEnv("TVGW_LISTEN_ADDR", ":8080"),
		CatalogPath:   getEnv("TVGW_CATALOG_DB", "./catalog.db"),
		DedupWindow:   getEnvDuration("TVGW_DEDUP_WINDOW", 10*time.Minute),
		FetchTimeout:  getEnvDuration("TVGW_FETCH_TIMEOUT", 30*time.Second),
		FetchRetries:  getEnvInt("TVGW_FETCH_RETRIES", 3),
		FetchBackoff:  getEnvDuration("TVGW_FETCH_BACKOFF", time.Second),
		Referer:       os.Getenv("TVGW_REFERER"),
		Origin:        os.Getenv("TVGW_ORIGIN"),
		SpoofHosts:    getEnvList("TVGW_SPOOF_HOSTS"),
		ClassifyDelay: getEnvDuration("TVGW_CLASSIFY_DELAY", time.Second),
		ClassifyLimit: getEnvDuration("TVGW_CLASSIFY_TIMEOUT", 10*time.Second),
	}
	if c.FetchRetries <= 0 {
		c.FetchRetries = 3
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 30 * time.Second
	}
	return c
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

// getEnvFormat accepts only the known playlist format names.
func getEnvFormat(key, defaultVal string) string {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "auto", "m3u", "json":
		return v
	}
	return defaultVal
}

// getEnvList splits a comma-separated env var, dropping blanks.
func getEnvList(key string) []string {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
