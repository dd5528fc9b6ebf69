// Package server implements the optional admin surface (liveness probe)
// for long-running build or crawl jobs launched with --serve. Adapted
// from the teacher's server package, fixing its mismatched module import
// and collapsing mux construction into New so callers have one call to
// make.
package server

import (
	"net/http"
	"time"

	"github.com/shoresh319/jsearch/internal/handlers"
	"github.com/shoresh319/jsearch/internal/index"
)

// New constructs an http.Server with sane timeouts and routes registered,
// ready to ListenAndServe. The liveness endpoint reports idx's current
// stem and location counts, so an operator watching --serve on a long
// build or crawl can see the run actually making progress.
func New(addr string, idx *index.ThreadSafeIndex) *http.Server {
	mux := http.NewServeMux()
	registerRoutes(mux, idx)

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux, idx *index.ThreadSafeIndex) {
	status := handlers.NewStatus(idx)
	mux.HandleFunc("GET /healthz", status.Health)
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("jsearch is running\n"))
	})
}
