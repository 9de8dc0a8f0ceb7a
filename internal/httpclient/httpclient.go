package httpclient

import (
	"net/http"
	"time"
)

const (
	DefaultTimeout         = 30 * time.Second
	DefaultIdleConnTimeout = 90 * time.Second
	MaxIdleConnsPerHost    = 16

	// StreamingHeaderTimeout bounds only the wait for upstream response
	// headers; media segment bodies may legitimately take longer than any
	// whole-request timeout to stream through.
	StreamingHeaderTimeout = 10 * time.Second
)

var (
	defaultClient   *http.Client
	streamingClient *http.Client
)

func init() {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: MaxIdleConnsPerHost,
		IdleConnTimeout:     DefaultIdleConnTimeout,
	}
	defaultClient = &http.Client{
		Timeout:   DefaultTimeout,
		Transport: transport,
	}
	st := transport.Clone()
	st.ResponseHeaderTimeout = StreamingHeaderTimeout
	streamingClient = &http.Client{
		Transport: st,
	}
}

// Default returns the shared tuned HTTP client for playlist fetches and
// manifest requests.
func Default() *http.Client {
	return defaultClient
}

// Streaming returns a client without a whole-request timeout for segment
// passthrough. Cancellation comes from the request context (client
// disconnect), not a fixed deadline.
func Streaming() *http.Client {
	return streamingClient
}

// WithTimeout returns a client with the given timeout and the same transport as Default (or a copy).
func WithTimeout(timeout time.Duration) *http.Client {
	t, ok := defaultClient.Transport.(*http.Transport)
	if !ok {
		return &http.Client{Timeout: timeout}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: t.Clone(),
	}
}
