// Package server exposes the catalog API and the playback proxy over HTTP.
package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tvgateway/tv-gateway/internal/catalog"
	"github.com/tvgateway/tv-gateway/internal/ingest"
	"github.com/tvgateway/tv-gateway/internal/playlist"
	"github.com/tvgateway/tv-gateway/internal/proxy"
)

// Server holds the handlers' shared dependencies.
type Server struct {
	store     *catalog.Store
	ingestor  *ingest.Ingestor
	proxy     *proxy.Proxy
	sourceURL string
	hint      playlist.Hint
}

// New wires a Server. sourceURL is the playlist fetched on POST /api/reload.
func New(store *catalog.Store, ing *ingest.Ingestor, px *proxy.Proxy, sourceURL string, hint playlist.Hint) *Server {
	return &Server{
		store:     store,
		ingestor:  ing,
		proxy:     px,
		sourceURL: sourceURL,
		hint:      hint,
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/reload", s.handleReload).Methods(http.MethodPost)
	r.HandleFunc("/api/channels", s.handleChannels).Methods(http.MethodGet)
	r.HandleFunc("/api/channel/{id}", s.handleChannel).Methods(http.MethodGet)
	r.HandleFunc("/api/categories", s.handleCategories).Methods(http.MethodGet)
	r.HandleFunc("/api/category/{name}", s.handleCategory).Methods(http.MethodGet)
	r.HandleFunc("/api/search", s.handleSearch).Methods(http.MethodGet)
	r.HandleFunc("/proxy/{id}", s.handleManifest).Methods(http.MethodGet)
	r.PathPrefix(proxy.SegmentPathPrefix).Handler(
		http.HandlerFunc(s.handleSegment)).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
