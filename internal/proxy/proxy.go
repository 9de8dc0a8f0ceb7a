// Package proxy serves a channel's manifest and media segments through this
// service, injecting the per-channel auth (cookie, spoofed headers) that the
// player itself cannot hold.
package proxy

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tvgateway/tv-gateway/internal/catalog"
	"github.com/tvgateway/tv-gateway/internal/fetch"
	"github.com/tvgateway/tv-gateway/internal/httpclient"
)

var (
	ErrChannelNotFound = errors.New("proxy: channel not found")
	ErrNoStreamURL     = errors.New("proxy: channel has no stream url")
)

// UpstreamError is a non-200 upstream response. Proxy fetches are single
// attempts on the play path; no retry storm against a blocking upstream.
type UpstreamError struct {
	Status int
}

func (e *UpstreamError) Error() string {
	return "proxy: upstream status " + strconv.Itoa(e.Status)
}

const (
	contentTypeHLS     = "application/vnd.apple.mpegurl"
	contentTypeDASH    = "application/dash+xml"
	contentTypeGeneric = "application/octet-stream"

	// SegmentPathPrefix is the public route segments are rewritten onto;
	// the channel id and relative path follow it.
	SegmentPathPrefix = "/proxy-segment/"
)

// Proxy resolves channels from the store and forwards upstream content.
// Stateless per request; safe for any number of concurrent calls.
type Proxy struct {
	store *catalog.Store
	opts  fetch.Options // base spoof headers (UA/Referer/Origin)

	manifestClient *http.Client
	segmentClient  *http.Client
}

// New returns a Proxy reading from store. headerOpts carries the provider
// header template; per-channel cookies are added per request.
func New(store *catalog.Store, headerOpts fetch.Options) *Proxy {
	return &Proxy{
		store:          store,
		opts:           headerOpts,
		manifestClient: httpclient.WithTimeout(30 * time.Second),
		segmentClient:  httpclient.Streaming(),
	}
}

// channelAuth returns the header options for ch: the shared template plus
// the channel's own cookie.
func (p *Proxy) channelAuth(ch catalog.Channel) fetch.Options {
	opts := p.opts
	if ch.AuthCookie != "" {
		opts.Cookie = ch.AuthCookie
	}
	return opts
}

// manifestBase strips the last path component of the channel's stream URL;
// relative segment paths resolve against it.
func manifestBase(streamURL string) (*url.URL, error) {
	u, err := url.Parse(streamURL)
	if err != nil {
		return nil, err
	}
	if i := strings.LastIndex(u.Path, "/"); i >= 0 {
		u.Path = u.Path[:i+1]
	} else {
		u.Path = "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
