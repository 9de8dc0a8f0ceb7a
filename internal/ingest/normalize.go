package ingest

import (
	"crypto/sha1"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"

	"github.com/tvgateway/tv-gateway/internal/catalog"
	"github.com/tvgateway/tv-gateway/internal/playlist"
	"github.com/tvgateway/tv-gateway/internal/safeurl"
)

// normalizeEntry converts a RawEntry into a canonical Channel. base is the
// source URL (scheme+host) used to resolve relative stream links; spoofHosts
// is the set of hosts whose streams must be played through the proxy.
// Returns false when the entry has no resolvable stream URL, the single
// mandatory rejection rule.
func normalizeEntry(e playlist.RawEntry, base *url.URL, n int, spoofHosts map[string]bool) (catalog.Channel, bool) {
	streamURL := resolveStreamURL(e.StreamURL, base)
	if streamURL == "" {
		return catalog.Channel{}, false
	}
	name := strings.TrimSpace(e.Name)
	if name == "" {
		name = "Channel " + strconv.Itoa(n+1)
	}
	ch := catalog.Channel{
		ID:         channelID(e, name, streamURL),
		Name:       name,
		LogoURL:    e.Logo,
		StreamURL:  streamURL,
		Transport:  inferTransport(e, streamURL),
		DrmScheme:  e.DrmScheme,
		DrmLicense: e.DrmLicense,
		AuthCookie: e.Cookie,
	}
	if cat, ok := catalog.ParseCategory(strings.TrimSpace(e.Group)); ok {
		// Explicit source category is used only when it is already a member
		// of the fixed set; anything else stays pending for the categorizer.
		ch.Category = cat
	}
	if u, err := url.Parse(streamURL); err == nil && spoofHosts[strings.ToLower(u.Hostname())] {
		ch.NeedsProxy = true
	}
	return ch, true
}

// resolveStreamURL makes the entry URL absolute. Already-absolute stream
// URLs pass through unchanged; relative ones (JSON sources) resolve against
// the source's scheme+host.
func resolveStreamURL(raw string, base *url.URL) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if safeurl.IsStreamURL(raw) {
		return raw
	}
	if base == nil {
		return ""
	}
	ref, err := url.Parse(raw)
	if err != nil || ref.IsAbs() {
		return ""
	}
	resolved := base.ResolveReference(ref).String()
	if !safeurl.IsStreamURL(resolved) {
		return ""
	}
	return resolved
}

// channelID prefers the source's explicit id; otherwise a short content hash
// of name+stream URL with a per-format tag (debuggability only).
func channelID(e playlist.RawEntry, name, streamURL string) string {
	if id := strings.TrimSpace(e.SourceID); id != "" {
		return id
	}
	sum := sha1.Sum([]byte(name + "|" + streamURL))
	tag := "m3u_"
	if e.Format == playlist.FormatJSON {
		tag = "ch_"
	}
	return tag + hex.EncodeToString(sum[:])[:10]
}

// inferTransport picks HLS or DASH from the URL extension; without one, JSON
// entries carrying DRM fields default to DASH, everything else to HLS.
func inferTransport(e playlist.RawEntry, streamURL string) catalog.Transport {
	path := streamURL
	if u, err := url.Parse(streamURL); err == nil {
		path = u.Path
	}
	switch {
	case strings.HasSuffix(path, ".mpd"):
		return catalog.TransportDASH
	case strings.HasSuffix(path, ".m3u8"):
		return catalog.TransportHLS
	}
	if e.Format == playlist.FormatJSON && (e.DrmScheme != "" || e.DrmLicense != "") {
		return catalog.TransportDASH
	}
	return catalog.TransportHLS
}
