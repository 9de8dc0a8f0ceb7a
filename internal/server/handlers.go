package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/tvgateway/tv-gateway/internal/catalog"
	"github.com/tvgateway/tv-gateway/internal/fetch"
	"github.com/tvgateway/tv-gateway/internal/ingest"
	"github.com/tvgateway/tv-gateway/internal/proxy"
)

const maxReloadBody = 64 << 20

// reloadResponse flattens the ingest result with an ok flag.
type reloadResponse struct {
	OK bool `json:"ok"`
	ingest.Result
}

// handleReload triggers a catalog rebuild. A JSON body may carry {"url": ...}
// to override the configured source for this run; any other non-empty body is
// ingested directly as the playlist payload.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	var (
		res ingest.Result
		err error
	)
	switch {
	case r.ContentLength > 0 && strings.HasPrefix(r.Header.Get("Content-Type"), "application/json"):
		var body struct {
			URL string `json:"url"`
		}
		if decErr := json.NewDecoder(io.LimitReader(r.Body, maxReloadBody)).Decode(&body); decErr != nil {
			writeError(w, http.StatusBadRequest, "decode request body: "+decErr.Error())
			return
		}
		src := body.URL
		if src == "" {
			src = s.sourceURL
		}
		res, err = s.ingestor.Reload(r.Context(), src, s.hint)
	case r.ContentLength > 0:
		payload, readErr := io.ReadAll(io.LimitReader(r.Body, maxReloadBody))
		if readErr != nil {
			writeError(w, http.StatusBadRequest, "read request body: "+readErr.Error())
			return
		}
		res, err = s.ingestor.IngestPayload(r.Context(), payload, "", s.hint)
	default:
		res, err = s.ingestor.Reload(r.Context(), s.sourceURL, s.hint)
	}
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, reloadResponse{OK: true, Result: res})
	case errors.Is(err, ingest.ErrBusy):
		writeError(w, http.StatusConflict, "reload already in progress")
	default:
		var se *fetch.StatusError
		if errors.As(err, &se) {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"channels":   s.store.All(),
		"categories": s.store.Categories(),
	})
}

func (s *Server) handleChannel(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ch, ok := s.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "channel not found")
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Categories())
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	cat, ok := catalog.ParseCategory(name)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown category")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"category": cat,
		"channels": s.store.ListByCategory(cat),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}
	results := s.store.Search(q)
	if results == nil {
		results = []catalog.Channel{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query":    q,
		"channels": results,
	})
}

// handleManifest serves the channel's playlist/manifest with the upstream
// auth applied server side.
func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	body, contentType, err := s.proxy.Manifest(r.Context(), id)
	if err != nil {
		writeProxyError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(body)
}

// handleSegment streams one media segment. The path carries the channel id
// followed by the upstream-relative segment path. Splitting happens on the
// escaped path: net/http has already decoded r.URL.Path, and an id holding
// "/" or "%" must not split or decode twice.
func (s *Server) handleSegment(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.EscapedPath(), proxy.SegmentPathPrefix)
	idPart, relPath, ok := strings.Cut(rest, "/")
	if !ok || relPath == "" {
		writeError(w, http.StatusBadRequest, "missing segment path")
		return
	}
	id, err := url.PathUnescape(idPart)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad channel id")
		return
	}
	isPlaylist := strings.HasSuffix(relPath, ".m3u8") || strings.HasSuffix(relPath, ".mpd")
	if r.URL.RawQuery != "" {
		relPath += "?" + r.URL.RawQuery
	}

	resp, err := s.proxy.OpenSegment(r.Context(), id, relPath)
	if err != nil {
		writeProxyError(w, err)
		return
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	if resp.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(resp.ContentLength, 10))
	}
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if isPlaylist {
		// Variant playlists are live-edge pointers like the top manifest.
		w.Header().Set("Cache-Control", "no-cache")
	} else {
		w.Header().Set("Cache-Control", "public, max-age=3600")
	}
	w.WriteHeader(http.StatusOK)
	// Player disconnects mid-segment are routine; io.Copy just stops.
	_, _ = io.Copy(w, resp.Body)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"channels": s.store.Len(),
	})
}

func writeProxyError(w http.ResponseWriter, err error) {
	if errors.Is(err, proxy.ErrChannelNotFound) || errors.Is(err, proxy.ErrNoStreamURL) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusBadGateway, err.Error())
}
