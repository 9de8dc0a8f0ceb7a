package ingest

import (
	"net/url"
	"strings"
	"testing"

	"github.com/tvgateway/tv-gateway/internal/catalog"
	"github.com/tvgateway/tv-gateway/internal/playlist"
)

func mustBase(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestNormalize_dropsEmptyStreamURL(t *testing.T) {
	_, ok := normalizeEntry(playlist.RawEntry{Name: "X"}, nil, 0, nil)
	if ok {
		t.Error("entry without stream URL must be dropped")
	}
}

func TestNormalize_resolvesRelativeAgainstBase(t *testing.T) {
	base := mustBase(t, "http://provider.example")
	ch, ok := normalizeEntry(playlist.RawEntry{
		Name:      "Rel",
		StreamURL: "/live/stream.m3u8",
		Format:    playlist.FormatJSON,
	}, base, 0, nil)
	if !ok {
		t.Fatal("entry dropped")
	}
	if ch.StreamURL != "http://provider.example/live/stream.m3u8" {
		t.Errorf("StreamURL = %q", ch.StreamURL)
	}
	// No base: relative URL is unresolvable, entry dropped.
	if _, ok := normalizeEntry(playlist.RawEntry{Name: "Rel", StreamURL: "/live/x.m3u8"}, nil, 0, nil); ok {
		t.Error("relative URL without base must be dropped")
	}
}

func TestNormalize_idDerivation(t *testing.T) {
	e := playlist.RawEntry{SourceID: "tvg123", Name: "A", StreamURL: "http://x/a.m3u8"}
	ch, _ := normalizeEntry(e, nil, 0, nil)
	if ch.ID != "tvg123" {
		t.Errorf("explicit id not preferred: %q", ch.ID)
	}

	e.SourceID = ""
	ch, _ = normalizeEntry(e, nil, 0, nil)
	if !strings.HasPrefix(ch.ID, "m3u_") || len(ch.ID) != len("m3u_")+10 {
		t.Errorf("hash id = %q", ch.ID)
	}
	again, _ := normalizeEntry(e, nil, 5, nil)
	if again.ID != ch.ID {
		t.Error("hash id must be stable across positions")
	}

	j := playlist.RawEntry{Name: "A", StreamURL: "http://x/a.m3u8", Format: playlist.FormatJSON}
	ch, _ = normalizeEntry(j, nil, 0, nil)
	if !strings.HasPrefix(ch.ID, "ch_") {
		t.Errorf("json id tag: %q", ch.ID)
	}
}

func TestNormalize_transportInference(t *testing.T) {
	cases := []struct {
		entry playlist.RawEntry
		want  catalog.Transport
	}{
		{playlist.RawEntry{Name: "a", StreamURL: "http://x/a.m3u8"}, catalog.TransportHLS},
		{playlist.RawEntry{Name: "b", StreamURL: "http://x/b.mpd?tok=1"}, catalog.TransportDASH},
		{playlist.RawEntry{Name: "c", StreamURL: "http://x/c"}, catalog.TransportHLS},
		{playlist.RawEntry{Name: "d", StreamURL: "http://x/d", Format: playlist.FormatJSON, DrmScheme: "widevine"}, catalog.TransportDASH},
		{playlist.RawEntry{Name: "e", StreamURL: "http://x/e", Format: playlist.FormatJSON}, catalog.TransportHLS},
	}
	for _, tc := range cases {
		ch, ok := normalizeEntry(tc.entry, nil, 0, nil)
		if !ok || ch.Transport != tc.want {
			t.Errorf("%s: transport = %q; want %q", tc.entry.Name, ch.Transport, tc.want)
		}
	}
}

func TestNormalize_explicitCategoryEnumGuard(t *testing.T) {
	ch, _ := normalizeEntry(playlist.RawEntry{Name: "N", StreamURL: "http://x/n", Group: "News"}, nil, 0, nil)
	if ch.Category != catalog.CategoryNews {
		t.Errorf("exact enum group should pass through, got %q", ch.Category)
	}
	ch, _ = normalizeEntry(playlist.RawEntry{Name: "N", StreamURL: "http://x/n", Group: "US | News HD"}, nil, 0, nil)
	if ch.Category != "" {
		t.Errorf("free-text group must stay pending, got %q", ch.Category)
	}
}

func TestNormalize_needsProxyHostSet(t *testing.T) {
	hosts := map[string]bool{"locked.example": true}
	ch, _ := normalizeEntry(playlist.RawEntry{Name: "L", StreamURL: "http://locked.example:8080/x.mpd"}, nil, 0, hosts)
	if !ch.NeedsProxy {
		t.Error("host in spoof set must set NeedsProxy")
	}
	ch, _ = normalizeEntry(playlist.RawEntry{Name: "F", StreamURL: "http://free.example/x.m3u8"}, nil, 0, hosts)
	if ch.NeedsProxy {
		t.Error("host outside spoof set must not set NeedsProxy")
	}
}
