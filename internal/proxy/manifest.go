package proxy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tvgateway/tv-gateway/internal/fetch"
	"github.com/tvgateway/tv-gateway/internal/metrics"
)

const maxManifestSize = 16 << 20 // 16 MiB

// Manifest fetches the channel's upstream manifest and returns the (possibly
// rewritten) body with its media type. Single upstream attempt: this sits on
// the critical path of a user pressing play.
func (p *Proxy) Manifest(ctx context.Context, channelID string) ([]byte, string, error) {
	ch, ok := p.store.Get(channelID)
	if !ok {
		return nil, "", ErrChannelNotFound
	}
	if ch.StreamURL == "" {
		return nil, "", ErrNoStreamURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ch.StreamURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("proxy: build manifest request: %w", err)
	}
	fetch.ApplyBrowserHeaders(req, p.channelAuth(ch))

	resp, err := p.manifestClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("proxy: manifest fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		metrics.ProxyUpstreamErrors.WithLabelValues("manifest").Inc()
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, "", &UpstreamError{Status: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestSize))
	if err != nil {
		return nil, "", fmt.Errorf("proxy: manifest read: %w", err)
	}

	isDASH := manifestIsDASH(ch.StreamURL, body)
	contentType := contentTypeHLS
	if isDASH {
		contentType = contentTypeDASH
	}
	if ch.NeedsProxy {
		prefix := SegmentPathPrefix + url.PathEscape(ch.ID) + "/"
		if isDASH {
			body = rewriteDASHManifest(body, prefix)
		} else {
			body = rewriteHLSManifest(body, prefix)
		}
	}
	metrics.ProxyRequests.WithLabelValues("manifest").Inc()
	return body, contentType, nil
}

// manifestIsDASH inspects the URL extension first, then the body.
func manifestIsDASH(streamURL string, body []byte) bool {
	if u, err := url.Parse(streamURL); err == nil && strings.HasSuffix(u.Path, ".mpd") {
		return true
	}
	head := body
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.Contains(head, []byte("<MPD"))
}
