// Command telemetrystore runs the Telemetry Store: an append-only sink for
// plane-state samples with a time-range query interface, backed by
// Postgres.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flightstack/autopilotd/internal/logging"
	"github.com/flightstack/autopilotd/internal/telemetry"
)

var httpAddr = flag.String("http-addr", "127.0.0.1:3000", "address the telemetry store's HTTP server binds to")

func main() {
	flag.Parse()

	logger := logging.New("telemetrystore", "TS_LOG_LEVEL")
	log := logging.Entry(logger, "telemetrystore")

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL must be set")
	}

	store, err := telemetry.Open(dsn)
	if err != nil {
		log.WithError(err).Fatal("failed to open telemetry store")
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutdown signal received")
		cancel()
	}()

	httpServer := &http.Server{
		Addr:    *httpAddr,
		Handler: telemetry.NewRouter(store, log),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("http server shutdown error")
		}
	}()

	log.WithField("addr", *httpAddr).Info("telemetry store HTTP server starting")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("telemetry store exited with error")
	}
}
