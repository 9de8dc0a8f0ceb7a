// Package fetch downloads playlist payloads with browser-grade headers and a
// retry/backoff policy. Providers routinely block default Go user agents, so
// every request carries the spoof header set (see ApplyBrowserHeaders).
package fetch

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/tvgateway/tv-gateway/internal/httpclient"
)

// DefaultUserAgent mimics a desktop Chrome build; provider endpoints that
// reject unknown players accept it.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36"

const maxPayloadSize = 64 << 20 // 64 MiB cap on a playlist body

// ErrEmptyBody marks a 200 response with no payload. Distinct from network
// errors for logging, retried like a transient failure.
var ErrEmptyBody = errors.New("fetch: empty response body")

// StatusError is a non-200 upstream response. 4xx values are never retried:
// 401/403 mean an auth problem, not a transient one.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return "fetch: unexpected status " + strconv.Itoa(e.Code)
}

// Options drives a Fetcher. Zero values are replaced with defaults by New.
type Options struct {
	Timeout    time.Duration // per-attempt; default 30s
	MaxRetries int           // attempts, default 3
	Backoff    time.Duration // base wait; attempt n waits Backoff<<n (default 1s → 2s, 4s, 8s)

	UserAgent string
	Referer   string
	Origin    string
	Cookie    string

	Client *http.Client // nil = httpclient.Default()
}

func (o *Options) applyDefaults() {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = 3
	}
	if o.Backoff <= 0 {
		o.Backoff = time.Second
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Client == nil {
		o.Client = httpclient.Default()
	}
}

// Fetcher downloads a URL with retries. Purely functional from the caller's
// perspective; safe for concurrent use.
type Fetcher struct {
	opts Options
}

// New returns a Fetcher for opts.
func New(opts Options) *Fetcher {
	opts.applyDefaults()
	return &Fetcher{opts: opts}
}

// Fetch retrieves url. Transport errors, 5xx and empty bodies are retried
// with exponential backoff; 4xx surface immediately.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= f.opts.MaxRetries; attempt++ {
		body, err := f.attempt(ctx, url)
		if err == nil {
			return body, nil
		}
		var se *StatusError
		if errors.As(err, &se) && se.Code >= 400 && se.Code < 500 {
			return nil, err
		}
		lastErr = err
		if attempt == f.opts.MaxRetries {
			break
		}
		wait := f.opts.Backoff << attempt
		log.Printf("fetch: attempt %d/%d failed (%v); retrying in %s", attempt, f.opts.MaxRetries, err, wait)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, lastErr
}

func (f *Fetcher) attempt(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: build request: %w", err)
	}
	ApplyBrowserHeaders(req, f.opts)
	resp, err := f.opts.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Code: resp.StatusCode}
	}
	body, err := decodeBody(resp)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, ErrEmptyBody
	}
	return body, nil
}

// ApplyBrowserHeaders sets the spoof header set on req. The proxy reuses it
// for manifest and segment fetches with per-channel Referer/Origin/Cookie.
func ApplyBrowserHeaders(req *http.Request, opts Options) {
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("Cache-Control", "no-cache")
	if opts.Referer != "" {
		req.Header.Set("Referer", opts.Referer)
	}
	if opts.Origin != "" {
		req.Header.Set("Origin", opts.Origin)
	}
	if opts.Cookie != "" {
		req.Header.Set("Cookie", opts.Cookie)
	}
}

// decodeBody reads the full body, decoding every encoding the request
// advertises (gzip, deflate, brotli). Manual Accept-Encoding disables
// net/http's transparent gzip, so all of them are handled here.
func decodeBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = resp.Body
	switch resp.Header.Get("Content-Encoding") {
	case "br":
		r = brotli.NewReader(resp.Body)
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("fetch: gzip: %w", err)
		}
		defer gz.Close()
		r = gz
	case "deflate":
		fr, err := deflateReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("fetch: deflate: %w", err)
		}
		defer fr.Close()
		r = fr
	}
	body, err := io.ReadAll(io.LimitReader(r, maxPayloadSize))
	if err != nil {
		return nil, fmt.Errorf("fetch: read body: %w", err)
	}
	return body, nil
}

// deflateReader handles both spellings of Content-Encoding: deflate seen in
// the wild: zlib-wrapped (RFC 2616's meaning) and raw DEFLATE (what many
// servers actually send). The zlib header is detected by its checksum rule.
func deflateReader(body io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(body)
	head, err := br.Peek(2)
	if err == nil && head[0]&0x0f == 8 && (uint16(head[0])<<8|uint16(head[1]))%31 == 0 {
		return zlib.NewReader(br)
	}
	return flate.NewReader(br), nil
}
