package safeurl

import (
	"net/url"
	"strings"
)

// IsHTTPOrHTTPS returns true if u is a valid URL with scheme http or https.
// Used to reject file://, ftp://, and other schemes that could lead to SSRF or local file access.
func IsHTTPOrHTTPS(u string) bool {
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	s := parsed.Scheme
	return s == "http" || s == "https"
}

// IsStreamURL returns true if u uses one of the schemes a player can open:
// http, https, rtmp, rtsp. Playlist entries with any other scheme are dropped.
func IsStreamURL(u string) bool {
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	switch parsed.Scheme {
	case "http", "https", "rtmp", "rtsp":
		return true
	}
	return false
}

// HasStreamPrefix is the cheap line-level check used by the M3U parser before
// a full parse: it only looks at the scheme prefix.
func HasStreamPrefix(line string) bool {
	return strings.HasPrefix(line, "http://") ||
		strings.HasPrefix(line, "https://") ||
		strings.HasPrefix(line, "rtmp://") ||
		strings.HasPrefix(line, "rtsp://")
}
