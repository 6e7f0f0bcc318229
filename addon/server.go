// Package addon serves the catalog, meta, stream and subtitles resources over the Stremio
// addon protocol.
package addon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/kissbridge/kissbridge/bridge"
	"github.com/kissbridge/kissbridge/log"
	"github.com/kissbridge/kissbridge/source"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Service answers resolution requests.
type Service interface {
	Streams(ctx context.Context, kind source.Kind, id string) []*source.Stream
	Subtitles(ctx context.Context, kind source.Kind, id string) []*source.Subtitle
	Item(ctx context.Context, id string) mo.Option[*source.Item]
	Catalog(ctx context.Context, listing bridge.Listing) []*source.Item
}

// Server is the addon HTTP server.
type Server struct {
	service    Service
	manifest   *Manifest
	categories []source.Category
	limit      int
	router     *mux.Router
}

// NewServer returns a server. limit caps the metas of one catalog page.
func NewServer(service Service, manifest *Manifest, categories []source.Category, limit int) *Server {
	s := &Server{
		service:    service,
		manifest:   manifest,
		categories: categories,
		limit:      limit,
		router:     mux.NewRouter().UseEncodedPath(),
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(requestID, cors)

	r.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/manifest.json", s.handleManifest).Methods(http.MethodGet)
	r.HandleFunc("/catalog/{type}/{id}.json", s.handleCatalog).Methods(http.MethodGet)
	r.HandleFunc("/catalog/{type}/{id}/{extra}.json", s.handleCatalog).Methods(http.MethodGet)
	r.HandleFunc("/meta/{type}/{id}.json", s.handleMeta).Methods(http.MethodGet)
	r.HandleFunc("/stream/{type}/{id}.json", s.handleStream).Methods(http.MethodGet)
	r.HandleFunc("/subtitles/{type}/{id}.json", s.handleSubtitles).Methods(http.MethodGet)
	r.HandleFunc("/subtitles/{type}/{id}/{extra}.json", s.handleSubtitles).Methods(http.MethodGet)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("addon listen: %w", err)
	}

	server := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Stream resolution may go through several retried upstream calls.
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		errs <- server.Serve(listener)
	}()

	log.Infof("Addon listening on http://%s/manifest.json", listener.Addr())

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/manifest.json", http.StatusFound)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleManifest(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.manifest)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	vars := pathVars(r)
	extra := parseExtra(mux.Vars(r)["extra"])
	logger := entry(r).WithField("catalog", vars["id"])

	kind, ok := parseKind(vars["type"])
	if !ok {
		writeJSON(w, map[string][]Meta{"metas": {}})
		return
	}

	category := mo.None[source.Category]()
	if c, ok := lo.Find(s.categories, func(c source.Category) bool {
		return catalogID(c) == vars["id"]
	}); ok {
		category = mo.Some(c)
	}

	skip, _ := strconv.Atoi(extra.Get("skip"))
	items := s.service.Catalog(r.Context(), bridge.Listing{
		Category: category,
		Kind:     kind,
		Search:   extra.Get("search"),
		Skip:     max(skip, 0),
		Limit:    s.limit,
	})

	logger.Infof("Catalog returned %d metas", len(items))
	writeJSON(w, map[string][]Meta{
		"metas": lo.Map(items, func(item *source.Item, _ int) Meta {
			return metaOf(item, false)
		}),
	})
}

func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	item, ok := s.service.Item(r.Context(), pathVars(r)["id"]).Get()
	if !ok {
		writeJSON(w, map[string]*Meta{"meta": nil})
		return
	}

	meta := metaOf(item, true)
	writeJSON(w, map[string]*Meta{"meta": &meta})
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	vars := pathVars(r)
	kind, _ := parseKind(vars["type"])

	streams := s.service.Streams(r.Context(), kind, vars["id"])
	entry(r).WithField("id", vars["id"]).Infof("Returning %d streams", len(streams))

	writeJSON(w, map[string][]Stream{
		"streams": lo.Map(streams, func(st *source.Stream, _ int) Stream {
			return streamOf(st)
		}),
	})
}

func (s *Server) handleSubtitles(w http.ResponseWriter, r *http.Request) {
	vars := pathVars(r)
	kind, _ := parseKind(vars["type"])

	subs := s.service.Subtitles(r.Context(), kind, vars["id"])
	entry(r).WithField("id", vars["id"]).Infof("Returning %d subtitles", len(subs))

	writeJSON(w, map[string][]Subtitle{"subtitles": subtitlesOf(subs)})
}

func parseKind(s string) (source.Kind, bool) {
	switch source.Kind(s) {
	case source.Movie:
		return source.Movie, true
	case source.Series:
		return source.Series, true
	default:
		return source.Series, false
	}
}

// pathVars returns the decoded route variables. The router matches on the escaped path so
// that an encoded "/" or "&" inside an id or search term cannot change the route.
func pathVars(r *http.Request) map[string]string {
	vars := mux.Vars(r)
	decoded := make(map[string]string, len(vars))
	for k, v := range vars {
		if u, err := url.PathUnescape(v); err == nil {
			v = u
		}
		decoded[k] = v
	}
	return decoded
}

// parseExtra decodes the "search=x&skip=20" path segment.
func parseExtra(segment string) url.Values {
	values, err := url.ParseQuery(strings.TrimSuffix(segment, ".json"))
	if err != nil {
		return url.Values{}
	}
	return values
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Error writing response: %v", err)
	}
}
