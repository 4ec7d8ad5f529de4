// Command flightbridge runs the Flight Bridge service: the UDP protocol
// adapter between the flight simulator and the in-process Plane-State
// Actor, plus its control-plane HTTP surface and Telemetry Store
// publisher.
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

	"github.com/flightstack/autopilotd/internal/bridge"
	"github.com/flightstack/autopilotd/internal/logging"
)

var (
	httpAddr      = flag.String("http-addr", "127.0.0.1:3100", "address the control-plane HTTP server binds to")
	listenAddr    = flag.String("listen-addr", "127.0.0.1:49101", "UDP address to listen for simulator DATA frames on")
	simulatorAddr = flag.String("simulator-addr", "127.0.0.1:49000", "UDP address of the simulator's receiving port")
	telemetryURL  = flag.String("telemetry-url", "http://127.0.0.1:3000", "base URL of the Telemetry Store")
)

func main() {
	flag.Parse()

	logger := logging.New("flightbridge", "FB_LOG_LEVEL")
	log := logging.Entry(logger, "flightbridge")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutdown signal received")
		cancel()
	}()

	b := bridge.New(ctx, bridge.Config{
		ListenAddr:    *listenAddr,
		SimulatorAddr: *simulatorAddr,
		TelemetryURL:  *telemetryURL,
	}, log)

	httpServer := &http.Server{
		Addr:    *httpAddr,
		Handler: b.NewRouter(),
	}

	errCh := make(chan error, 2)

	go func() {
		errCh <- b.Run(ctx)
	}()

	go func() {
		log.WithField("addr", *httpAddr).Info("flight bridge control-plane HTTP server starting")
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

	if runErr != nil {
		log.WithError(runErr).Fatal("flight bridge exited with error")
	}
}
