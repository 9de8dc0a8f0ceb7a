package proxy

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tvgateway/tv-gateway/internal/fetch"
	"github.com/tvgateway/tv-gateway/internal/metrics"
)

// OpenSegment resolves relPath against the channel's manifest base and opens
// the upstream response with the channel's auth headers applied. The caller
// owns resp.Body and streams it to the player; canceling ctx tears the
// upstream connection down when the player disconnects.
func (p *Proxy) OpenSegment(ctx context.Context, channelID, relPath string) (*http.Response, error) {
	ch, ok := p.store.Get(channelID)
	if !ok {
		return nil, ErrChannelNotFound
	}
	if ch.StreamURL == "" {
		return nil, ErrNoStreamURL
	}

	base, err := manifestBase(ch.StreamURL)
	if err != nil {
		return nil, fmt.Errorf("proxy: parse stream url: %w", err)
	}
	ref, err := base.Parse(relPath)
	if err != nil {
		return nil, fmt.Errorf("proxy: resolve segment path: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("proxy: build segment request: %w", err)
	}
	fetch.ApplyBrowserHeaders(req, p.channelAuth(ch))

	resp, err := p.segmentClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("proxy: segment fetch: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		metrics.ProxyUpstreamErrors.WithLabelValues("segment").Inc()
		resp.Body.Close()
		return nil, &UpstreamError{Status: resp.StatusCode}
	}
	metrics.ProxyRequests.WithLabelValues("segment").Inc()
	return resp, nil
}
