// Command autopilot runs the Autopilot Engine: the fixed-rate guidance
// loop and its control-plane HTTP surface.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/flightstack/autopilotd/internal/autopilot"
	"github.com/flightstack/autopilotd/internal/logging"
)

var (
	httpAddr      = flag.String("http-addr", "127.0.0.1:3200", "address the control-plane HTTP server binds to")
	bridgeURL     = flag.String("bridge-url", "http://127.0.0.1:3100", "base URL of the Flight Bridge")
	constantsPath = flag.String("constants", "./constants.json", "path to the live-reloadable gains file")
	telemetryURL  = flag.String("telemetry-url", "http://127.0.0.1:3000", "base URL of the Telemetry Store")
)

func main() {
	flag.Parse()

	logger := logging.New("autopilot", "AP_LOG_LEVEL")
	log := logging.Entry(logger, "autopilot")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutdown signal received")
		cancel()
	}()

	actor := autopilot.New(ctx, log)
	bridgeClient := autopilot.NewBridgeClient(*bridgeURL)
	loop := autopilot.NewGuidanceLoop(actor, bridgeClient, *constantsPath, log)
	publisher := autopilot.NewPublisher(actor, *telemetryURL, log)

	httpServer := &http.Server{
		Addr:    *httpAddr,
		Handler: autopilot.NewRouter(actor, log),
	}

	var wg sync.WaitGroup
	errCh := make(chan error, 3)

	wg.Add(1)
	go func() {
		defer wg.Done()
		errCh <- loop.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		errCh <- publisher.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.WithField("addr", *httpAddr).Info("autopilot control-plane HTTP server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	var runErr error
	select {
	case runErr = <-errCh:
		cancel()
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http server shutdown error")
	}

	wg.Wait()

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.WithError(runErr).Fatal("autopilot exited with error")
	}
}
