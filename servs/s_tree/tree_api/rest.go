// file:arbor/servs/s_tree/tree_api/rest.go

// Package tree_api serves a tree over HTTP with chi.
package tree_api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rskv-p/arbor/pkg/x_log"
	"github.com/rskv-p/arbor/pkg/x_metrics"
	"github.com/rskv-p/arbor/pkg/x_tree"
)

// NewRouter builds the HTTP routes over tr.
func NewRouter(tr x_tree.Tree) http.Handler {
	h := &handlers{tree: tr}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", x_metrics.Handler())

	r.Get("/root", h.getRoot)
	r.Post("/root", h.setRoot)
	r.Get("/stats", h.stats)
	r.Get("/export", h.export)

	r.Route("/nodes/{id}", func(r chi.Router) {
		r.Get("/", h.getNode)
		r.Patch("/", h.patchNode)
		r.Delete("/", h.deleteNode)
		r.Get("/children", h.children)
		r.Post("/children", h.addChild)
		r.Get("/path", h.path)
		r.Get("/subtree", h.subtree)
		r.Post("/move", h.move)
	})
	return r
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		x_log.Info().Str("addr", addr).Msg("tree API listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		x_log.Info().Msg("tree API shutting down")
		return srv.Shutdown(shutdown)
	}
}

// requestLogger logs one line per request through the context logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		began := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		l := x_log.New("tree_api").With().Str("req_id", middleware.GetReqID(r.Context())).Logger()
		r = r.WithContext(x_log.WithLogger(r.Context(), &l))
		next.ServeHTTP(ww, r)

		l.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("took", time.Since(began)).
			Msg("request")
	})
}
