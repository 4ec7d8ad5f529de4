// Package bridge implements the Flight Bridge (C4): the UDP protocol
// adapter between the simulator and the in-process Plane-State Actor, plus
// the command emit path and the Telemetry Store publisher.
package bridge

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/flightstack/autopilotd/internal/command"
	"github.com/flightstack/autopilotd/internal/planestate"
)

// ErrCommandQueueFull is returned when POST /command cannot enqueue
// because the emit mailbox is saturated.
var ErrCommandQueueFull = errors.New("bridge: command queue full")

// commandQueueSize bounds the emit mailbox; the guidance loop sends at
// most a few commands per 200ms tick, so this is generous headroom.
const commandQueueSize = 64

// Bridge wires together the ingest, emit, and publisher goroutines around
// a shared Plane-State Actor.
type Bridge struct {
	State    *planestate.Actor
	commands chan command.Command
	log      *logrus.Entry

	listenAddr    string
	simulatorAddr string
	telemetryURL  string
}

// Config holds the Flight Bridge's network endpoints.
type Config struct {
	ListenAddr    string // UDP address this process listens on for simulator DATA frames
	SimulatorAddr string // UDP address of the simulator's receiving port
	TelemetryURL  string // base URL of the Telemetry Store, e.g. http://127.0.0.1:3000
}

// New builds a Bridge around a freshly started Plane-State Actor.
func New(ctx context.Context, cfg Config, log *logrus.Entry) *Bridge {
	return &Bridge{
		State:         planestate.New(ctx, log.WithField("component", "planestate")),
		commands:      make(chan command.Command, commandQueueSize),
		log:           log,
		listenAddr:    cfg.ListenAddr,
		simulatorAddr: cfg.SimulatorAddr,
		telemetryURL:  cfg.TelemetryURL,
	}
}

// EnqueueCommand clamps and enqueues a command for the Emit goroutine. It
// never blocks: a full queue drops the command and returns
// ErrCommandQueueFull.
func (b *Bridge) EnqueueCommand(c command.Command) error {
	select {
	case b.commands <- c.Clamped():
		return nil
	default:
		return ErrCommandQueueFull
	}
}

// Run starts the ingest, emit, and publisher goroutines and blocks until
// any one of them exits (first-exit-wins cancellation), then returns that
// goroutine's error.
func (b *Bridge) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 3)
	var wg sync.WaitGroup

	run := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := fn(ctx)
			if err != nil {
				b.log.WithError(err).WithField("subtask", name).Error("flight bridge subtask exited")
			}
			select {
			case errCh <- err:
			default:
			}
			cancel()
		}()
	}

	run("ingest", b.runIngest)
	run("emit", b.runEmit)
	run("publisher", b.runPublisher)

	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}
	return nil
}
