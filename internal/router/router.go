package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"chain-metrics/internal/endpoints"
	"chain-metrics/internal/metrics"
	"chain-metrics/internal/util"
)

const shutdownTimeout = 25 * time.Second

func NewRouter(store endpoints.SnapshotReader, ingester endpoints.Ingester, webSlogger *util.MetricsLogger) *mux.Router {
	r := mux.NewRouter()

	addRoutes(r, store, ingester, webSlogger)

	r.Use(loggingMiddleware(webSlogger))
	r.Use(metrics.InstrumentHTTP)

	return r
}

func addRoutes(r *mux.Router, store endpoints.SnapshotReader, ingester endpoints.Ingester, webSlogger *util.MetricsLogger) {

	snapshotsHandler := &endpoints.Snapshots{}
	snapshotsHandler.Init(store, ingester, webSlogger)

	r.HandleFunc("/", snapshotsHandler.IndexHandler).Methods(http.MethodGet)
	r.HandleFunc("/ingest", snapshotsHandler.IngestHandler).Methods(http.MethodPost)
	r.HandleFunc("/fetch_and_ingest", snapshotsHandler.FetchAndIngestHandler).Methods(http.MethodPost)
	r.HandleFunc("/fetch_metrics", snapshotsHandler.FetchMetricsHandler).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.MethodNotAllowedHandler = http.HandlerFunc(snapshotsHandler.MethodNotAllowedHandler)
}

// NewHandler is the router wrapped for cross-origin browser clients.
func NewHandler(store endpoints.SnapshotReader, ingester endpoints.Ingester, webSlogger *util.MetricsLogger) http.Handler {
	return cors.AllowAll().Handler(NewRouter(store, ingester, webSlogger))
}

func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// Run serves handler on addr until ctx is canceled, then drains in-flight
// requests for up to shutdownTimeout.
func Run(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	server := NewServer(addr, handler)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	if err := gracefulShutdown(server, shutdownTimeout); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}

func gracefulShutdown(server *http.Server, maximumTime time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), maximumTime)
	defer cancel()

	return server.Shutdown(ctx)
}

func loggingMiddleware(logger *util.MetricsLogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.LogEvent(util.LOG_LEVEL_INFO, fmt.Sprintf("Request: %s %s", r.Method, r.RequestURI),
				zap.String("remote_addr", r.RemoteAddr))
			next.ServeHTTP(w, r)
		})
	}
}
