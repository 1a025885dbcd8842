// ABOUTME: Read-only HTTP API over the qibla, alignment and prayer time operations
// ABOUTME: Routes with httprouter and logs every request through slog

package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/harper/salah/internal/compass"
	"github.com/harper/salah/internal/prayer"
	"github.com/harper/salah/internal/storage"
	"github.com/julienschmidt/httprouter"
)

// API serves the JSON endpoints.
type API struct {
	repo    storage.Repository
	times   prayer.Provider
	logger  *slog.Logger
	compass compass.Options
	now     func() time.Time
}

// New builds an API. A nil logger uses slog.Default.
func New(repo storage.Repository, times prayer.Provider, logger *slog.Logger, opts compass.Options) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		repo:    repo,
		times:   times,
		logger:  logger,
		compass: opts,
		now:     time.Now,
	}
}

// Handler returns the routed handler wrapped in request logging.
func (a *API) Handler() http.Handler {
	router := httprouter.New()
	router.HandlerFunc(http.MethodGet, "/healthz", a.healthHandler)
	router.HandlerFunc(http.MethodGet, "/v1/qibla", a.qiblaHandler)
	router.HandlerFunc(http.MethodGet, "/v1/alignment", a.alignmentHandler)
	router.HandlerFunc(http.MethodGet, "/v1/times", a.timesHandler)
	router.HandlerFunc(http.MethodGet, "/v1/next", a.nextHandler)
	router.HandlerFunc(http.MethodGet, "/v1/alarms", a.alarmsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/alarms/:id", a.alarmHandler)
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.errorResponse(w, http.StatusNotFound, "not found")
	})

	return newRequestLoggingMiddleware(a.logger)(router)
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (a *API) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
