package safeurl

import "testing"

func TestIsHTTPOrHTTPS(t *testing.T) {
	if !IsHTTPOrHTTPS("http://example.com/a.m3u8") {
		t.Error("http should be allowed")
	}
	if !IsHTTPOrHTTPS("https://example.com") {
		t.Error("https should be allowed")
	}
	if IsHTTPOrHTTPS("file:///etc/passwd") {
		t.Error("file should be rejected")
	}
	if IsHTTPOrHTTPS("ftp://example.com") {
		t.Error("ftp should be rejected")
	}
}

func TestIsStreamURL(t *testing.T) {
	ok := []string{
		"http://example.com/live.ts",
		"https://example.com/live.m3u8",
		"rtmp://example.com/app/stream",
		"rtsp://example.com/cam1",
	}
	for _, u := range ok {
		if !IsStreamURL(u) {
			t.Errorf("IsStreamURL(%q) = false; want true", u)
		}
	}
	bad := []string{"file:///x", "mms://old", "", "not a url ://"}
	for _, u := range bad {
		if IsStreamURL(u) {
			t.Errorf("IsStreamURL(%q) = true; want false", u)
		}
	}
}

func TestHasStreamPrefix(t *testing.T) {
	if !HasStreamPrefix("rtsp://cam/1") {
		t.Error("rtsp prefix should match")
	}
	if HasStreamPrefix("#EXTINF:-1,Name") {
		t.Error("comment line should not match")
	}
}
