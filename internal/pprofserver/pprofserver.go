// Package pprofserver exposes the runtime profiling endpoints on a loopback-only
// listener, separate from the public API server.
package pprofserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/miljoverk/samsvar/internal/errors"
)

func Handle(mux *http.ServeMux) {
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
}

func newServer(addr string) *http.Server {
	mux := http.NewServeMux()
	Handle(mux)
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: time.Second,
	}
}

// Launch starts the pprof server on the ipv6 loopback address and the given port. It
// shuts down when ctx is cancelled. A failed launch is logged, not fatal; profiling is
// an operator convenience.
func Launch(ctx context.Context, port string, logger *slog.Logger) {
	addr := fmt.Sprintf("[::1]%s", port)
	srv := newServer(addr)
	go func() {
		logger.Info("starting pprof server", "addr", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("pprof server stopped", errors.SlogError(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
