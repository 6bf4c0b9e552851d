// Package server exposes the catalog, search and found state as a small JSON
// API for a browser map widget.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Makepad-fr/artspot/internal/app"
	"github.com/Makepad-fr/artspot/internal/catalog"
	"github.com/Makepad-fr/artspot/internal/found"
	"github.com/Makepad-fr/artspot/internal/geo"
	"github.com/Makepad-fr/artspot/internal/geocode"
	"github.com/Makepad-fr/artspot/internal/model"
)

type Options struct {
	CookieName    string
	Retention     time.Duration
	SearchTimeout time.Duration
	SecureCookie  bool
	Sentry        bool // report panics through an initialized Sentry client
}

type Server struct {
	catalog  *catalog.Catalog
	geocoder geocode.Geocoder
	logger   *zap.Logger
	opts     Options
}

func New(cat *catalog.Catalog, geocoder geocode.Geocoder, logger *zap.Logger, opts Options) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.CookieName == "" {
		opts.CookieName = found.DefaultKey
	}
	if opts.Retention <= 0 {
		opts.Retention = found.DefaultRetention
	}
	if opts.SearchTimeout <= 0 {
		opts.SearchTimeout = 10 * time.Second
	}
	return &Server{catalog: cat, geocoder: geocoder, logger: logger, opts: opts}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if s.opts.Sentry {
		r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "artworks": s.catalog.Len()})
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/artworks", s.listArtworks)
		r.Get("/artworks/{id}", s.getArtwork)
		r.Post("/artworks/{id}/found", s.markFound)
		r.Get("/clusters", s.listClusters)
		r.Get("/search", s.search)
		r.Get("/found", s.listFound)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// session builds per-request state over the shared catalog; found state
// lives in the client's cookie.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *app.Session {
	reqID := middleware.GetReqID(r.Context())
	tr := found.New(&cookieStore{r: r, w: w, secure: s.opts.SecureCookie},
		found.WithKey(s.opts.CookieName),
		found.WithRetention(s.opts.Retention),
		found.WithLogger(s.logger.With(zap.String("request_id", reqID))),
	)
	_ = tr.Load()
	return app.NewSession(s.catalog, tr, s.geocoder, s.logger)
}

type artworkView struct {
	model.Artwork
	Found bool `json:"found"`
}

type rankedView struct {
	model.RankedArtwork
	Found bool `json:"found"`
}

type clusterView struct {
	Position geo.Coordinate `json:"position"`
	Found    int            `json:"found"`
	Total    int            `json:"total"`
	Artworks []artworkView  `json:"artworks"`
}

func (s *Server) listArtworks(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	out := make([]artworkView, 0, s.catalog.Len())
	for _, a := range s.catalog.All() {
		out = append(out, artworkView{Artwork: a, Found: sess.IsFound(a.ID)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listClusters(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	out := make([]clusterView, 0, len(s.catalog.Clusters()))
	for _, c := range s.catalog.Clusters() {
		d, total := sess.ClusterProgress(c)
		cv := clusterView{Position: c.Position, Found: d, Total: total}
		for _, a := range c.Artworks {
			cv.Artworks = append(cv.Artworks, artworkView{Artwork: a, Found: sess.IsFound(a.ID)})
		}
		out = append(out, cv)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.opts.SearchTimeout)
	defer cancel()

	sess := s.session(w, r)
	res, err := sess.Search(ctx, r.URL.Query().Get("q"), limit)
	var ge *geocode.Error
	switch {
	case errors.Is(err, app.ErrEmptyQuery):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.As(err, &ge):
		writeError(w, http.StatusUnprocessableEntity, ge.Error())
		return
	case err != nil:
		s.logger.Error("search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	out := struct {
		Query    string         `json:"query"`
		Origin   geo.Coordinate `json:"origin"`
		Artworks []rankedView   `json:"artworks"`
	}{Query: res.Query, Origin: res.Origin, Artworks: make([]rankedView, 0, len(res.Artworks))}
	for _, ra := range res.Artworks {
		out.Artworks = append(out.Artworks, rankedView{RankedArtwork: ra, Found: sess.IsFound(ra.ID)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getArtwork(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	a, err := sess.Open(chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, app.ErrUnknownArtwork):
		writeError(w, http.StatusNotFound, "unknown artwork")
	case errors.Is(err, app.ErrNotFoundYet):
		writeError(w, http.StatusForbidden, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, artworkView{Artwork: a, Found: true})
	}
}

func (s *Server) markFound(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess := s.session(w, r)
	sess.OnFound(func(id string) {
		s.logger.Info("artwork found via api",
			zap.String("id", id), zap.String("request_id", middleware.GetReqID(r.Context())))
	})

	changed, err := sess.MarkFound(id)
	switch {
	case errors.Is(err, app.ErrUnknownArtwork):
		writeError(w, http.StatusNotFound, "unknown artwork")
		return
	case err != nil:
		s.logger.Error("mark found failed", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not save found state")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":      id,
		"changed": changed,
		"found":   nonNil(sess.FoundIDs()),
	})
}

func (s *Server) listFound(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	d, total := sess.Progress()
	writeJSON(w, http.StatusOK, map[string]any{
		"found": nonNil(sess.FoundIDs()),
		"count": d,
		"total": total,
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
