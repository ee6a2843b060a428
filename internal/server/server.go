// Package server is the HTTP glue in front of the stock data layer. It owns
// no business rules: routing, status mapping, privilege gating, and
// telemetry emission only.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"StockDesk/internal/faults"
	"StockDesk/internal/recorder"
	"StockDesk/internal/stocks"
	"StockDesk/internal/usage"
	"StockDesk/internal/watchlist"
)

// Server wires the API routes over the service layer.
type Server struct {
	svc        *stocks.Service
	watchlist  *watchlist.Manager
	usage      *usage.Aggregator
	recorder   recorder.Recorder
	adminToken string
	http       *http.Server
}

// New builds the server. adminToken gates the privileged usage endpoint; an
// empty token disables it entirely.
func New(addr string, svc *stocks.Service, wl *watchlist.Manager, agg *usage.Aggregator, rec recorder.Recorder, adminToken string) *Server {
	s := &Server{
		svc:        svc,
		watchlist:  wl,
		usage:      agg,
		recorder:   rec,
		adminToken: adminToken,
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/stocks", s.handleListStocks).Methods(http.MethodGet)
	api.HandleFunc("/stocks/{symbol}", s.handleStockDetail).Methods(http.MethodGet)
	api.HandleFunc("/stocks/{symbol}/series", s.handlePriceSeries).Methods(http.MethodGet)
	api.HandleFunc("/usage", s.requirePrivileged(s.handleUsage)).Methods(http.MethodGet)
	api.HandleFunc("/watchlist/{symbol}", s.handleWatchlistAdd).Methods(http.MethodPut)
	api.HandleFunc("/watchlist/{symbol}", s.handleWatchlistRemove).Methods(http.MethodDelete)

	s.http = &http.Server{Addr: addr, Handler: logRequests(r)}
	return s
}

// Handler exposes the routing tree, primarily for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	log.Info().Str("addr", s.http.Addr).Msg("http server listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"cache":  s.svc.CacheStats(),
	})
}

func (s *Server) handleStockDetail(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	start := time.Now()

	detail, err := s.svc.StockDetail(r.Context(), symbol)
	s.emitLookup(symbol, err, time.Since(start))
	if err != nil {
		writeFault(w, err)
		return
	}
	if detail == nil {
		// Blank symbol: explicitly "no request", not a failure.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handlePriceSeries(w http.ResponseWriter, r *http.Request) {
	series, err := s.svc.PriceSeries(r.Context(), mux.Vars(r)["symbol"])
	if err != nil {
		writeFault(w, err)
		return
	}
	if series == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleListStocks(w http.ResponseWriter, r *http.Request) {
	details := s.svc.AllSummaries(r.Context(), s.watchlist.Symbols())
	writeJSON(w, http.StatusOK, details)
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	report, err := s.usage.Sample(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleWatchlistAdd(w http.ResponseWriter, r *http.Request) {
	s.watchlist.Add(mux.Vars(r)["symbol"])
	writeJSON(w, http.StatusOK, map[string]any{"symbols": s.watchlist.Symbols()})
}

func (s *Server) handleWatchlistRemove(w http.ResponseWriter, r *http.Request) {
	s.watchlist.Remove(mux.Vars(r)["symbol"])
	writeJSON(w, http.StatusOK, map[string]any{"symbols": s.watchlist.Symbols()})
}

// requirePrivileged reduces the identity collaborator to its boolean: a
// request is privileged iff it presents the configured admin token.
func (s *Server) requirePrivileged(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.adminToken == "" || r.Header.Get("X-Admin-Token") != s.adminToken {
			writeError(w, http.StatusForbidden, "privileged access required")
			return
		}
		next(w, r)
	}
}

// emitLookup records the lookup off the request path; a slow or broken sink
// must never delay a response.
func (s *Server) emitLookup(symbol string, err error, took time.Duration) {
	evt := &recorder.LookupEvent{
		Symbol:     symbol,
		Outcome:    outcomeOf(err),
		DurationMs: took.Milliseconds(),
	}
	go func() {
		if err := s.recorder.RecordLookup(evt); err != nil {
			log.Error().Err(err).Msg("record lookup event")
		}
	}()
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case faults.IsNotFound(err):
		return "not_found"
	case faults.IsInvalidData(err):
		return "invalid_data"
	default:
		return "error"
	}
}

func writeFault(w http.ResponseWriter, err error) {
	switch {
	case faults.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case faults.IsInvalidData(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		// Transport-level store failures surface as a bad gateway.
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}
