// Package metrics registers the process's Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// IngestRuns counts reload attempts by outcome: ok, skipped, error.
	IngestRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvgw_ingest_runs_total",
		Help: "Playlist ingestion runs by outcome.",
	}, []string{"outcome"})

	// ChannelsTotal is the current catalog size.
	ChannelsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tvgw_catalog_channels",
		Help: "Channels currently in the catalog.",
	})

	// ProxyRequests counts manifest/segment proxy requests.
	ProxyRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvgw_proxy_requests_total",
		Help: "Proxy requests by kind (manifest, segment).",
	}, []string{"kind"})

	// ProxyUpstreamErrors counts non-200 upstream responses seen by the proxy.
	ProxyUpstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvgw_proxy_upstream_errors_total",
		Help: "Upstream fetch failures by kind (manifest, segment).",
	}, []string{"kind"})

	// ClassifierCalls counts external classifier calls by outcome:
	// accepted, rejected, error.
	ClassifierCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvgw_classifier_calls_total",
		Help: "External category classifier calls by outcome.",
	}, []string{"outcome"})
)
