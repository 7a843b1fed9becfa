package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/pagepeek/internal/extract"
	"github.com/hyperifyio/pagepeek/internal/fetch"
)

type peekRequest struct {
	URL   string `json:"url"`
	Force bool   `json:"force,omitempty"`
}

type peekResponse struct {
	Record   *extract.Record `json:"record"`
	CacheHit bool            `json:"cacheHit"`
}

// Handler returns the full HTTP surface: JSON API plus the HTML viewer.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// POST /api/peek  { "url": "https://...", "force": false }
	mux.HandleFunc("/api/peek", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}
		var req peekRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		rec, hit, err := a.SubmitURL(r.Context(), req.URL, req.Force)
		if err != nil {
			writeJSON(w, httpStatusFor(err), map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, peekResponse{Record: rec, CacheHit: hit})
	})

	// GET /api/history -> cached records, most recent first
	mux.HandleFunc("/api/history", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}
		writeJSON(w, http.StatusOK, reverseRecords(a.History()))
	})

	// POST /api/history/clear
	mux.HandleFunc("/api/history/clear", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}
		a.ClearHistory()
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	})

	mux.HandleFunc("/view", a.handleView)
	mux.HandleFunc("/", a.handleIndex)

	return logRequests(mux)
}

// ListenAndServe runs the HTTP server until ctx is canceled or an interrupt
// signal arrives, then shuts down gracefully.
func (a *App) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         a.cfg.ListenAddr,
		Handler:      a.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", a.cfg.ListenAddr).Msg("server listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// httpStatusFor translates fetch and parse error categories into distinct
// user-facing statuses.
func httpStatusFor(err error) int {
	switch {
	case errors.Is(err, fetch.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, fetch.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, fetch.ErrUnsupportedContent):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, fetch.ErrBadStatus), errors.Is(err, fetch.ErrUnreachable):
		return http.StatusBadGateway
	case errors.Is(err, ErrParse):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func reverseRecords(recs []*extract.Record) []*extract.Record {
	out := make([]*extract.Record, 0, len(recs))
	for i := len(recs) - 1; i >= 0; i-- {
		out = append(out, recs[i])
	}
	return out
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
