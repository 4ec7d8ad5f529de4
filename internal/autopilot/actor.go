package autopilot

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/flightstack/autopilotd/internal/metrics"
)

// request/reply envelopes for the actor mailbox. Each signal carries its
// own reply channel, mirroring the Plane-State Actor's pattern.

type setFlyingReq struct {
	value bool
	reply chan struct{}
}

type setPlaneStateReq struct {
	batch map[string]any
	reply chan struct{}
}

type clearPlaneStateReq struct {
	reply chan struct{}
}

type getTypedSnapshotReq struct {
	reply chan typedSnapshotResult
}

type typedSnapshotResult struct {
	snapshot TypedSnapshot
	err      error
}

type getStateReq struct {
	reply chan State
}

type setStandbyReq struct {
	key   string
	value float64
	reply chan error
}

type swapReq struct {
	key   string
	reply chan error
}

type activateHorizontalReq struct {
	mode  HorizontalMode
	reply chan struct{}
}

type activateVerticalReq struct {
	mode  VerticalMode
	reply chan struct{}
}

type addHeadingIntegralReq struct {
	value float64
	reply chan struct{}
}

type addRollIntegralReq struct {
	value float64
	reply chan struct{}
}

type addEnergyIntegralReq struct {
	value float64
	reply chan struct{}
}

type addPitchIntegralReq struct {
	value float64
	reply chan struct{}
}

type refreshConstantsReq struct {
	constants Constants
	reply     chan struct{}
}

type updateHorizontalMetricsReq struct {
	metrics HorizontalMetrics
	reply   chan struct{}
}

type updateVerticalMetricsReq struct {
	metrics VerticalMetrics
	reply   chan struct{}
}

// Actor owns the AutopilotState exclusively and serves it through a
// mailbox, exactly as the Plane-State Actor does for raw plane state.
type Actor struct {
	log *logrus.Entry

	setFlyingCh             chan setFlyingReq
	setPlaneStateCh         chan setPlaneStateReq
	clearPlaneStateCh       chan clearPlaneStateReq
	getTypedSnapshotCh      chan getTypedSnapshotReq
	getStateCh              chan getStateReq
	setStandbyCh            chan setStandbyReq
	swapCh                  chan swapReq
	activateHorizontalCh    chan activateHorizontalReq
	activateVerticalCh      chan activateVerticalReq
	addHeadingIntegralCh    chan addHeadingIntegralReq
	addRollIntegralCh       chan addRollIntegralReq
	addEnergyIntegralCh     chan addEnergyIntegralReq
	addPitchIntegralCh      chan addPitchIntegralReq
	refreshConstantsCh      chan refreshConstantsReq
	updateHorizontalMetricsCh chan updateHorizontalMetricsReq
	updateVerticalMetricsCh   chan updateVerticalMetricsReq

	done chan struct{}
}

// New creates an Actor in cold-start state and starts its serving
// goroutine; the goroutine exits when ctx is cancelled.
func New(ctx context.Context, log *logrus.Entry) *Actor {
	a := &Actor{
		log:                       log,
		setFlyingCh:               make(chan setFlyingReq),
		setPlaneStateCh:           make(chan setPlaneStateReq),
		clearPlaneStateCh:         make(chan clearPlaneStateReq),
		getTypedSnapshotCh:        make(chan getTypedSnapshotReq),
		getStateCh:                make(chan getStateReq),
		setStandbyCh:              make(chan setStandbyReq),
		swapCh:                    make(chan swapReq),
		activateHorizontalCh:      make(chan activateHorizontalReq),
		activateVerticalCh:        make(chan activateVerticalReq),
		addHeadingIntegralCh:      make(chan addHeadingIntegralReq),
		addRollIntegralCh:         make(chan addRollIntegralReq),
		addEnergyIntegralCh:       make(chan addEnergyIntegralReq),
		addPitchIntegralCh:        make(chan addPitchIntegralReq),
		refreshConstantsCh:        make(chan refreshConstantsReq),
		updateHorizontalMetricsCh: make(chan updateHorizontalMetricsReq),
		updateVerticalMetricsCh:   make(chan updateVerticalMetricsReq),
		done:                      make(chan struct{}),
	}
	go a.run(ctx)
	return a
}

func (a *Actor) run(ctx context.Context) {
	defer close(a.done)

	state := NewState()
	planeState := make(map[string]any)

	for {
		select {
		case <-ctx.Done():
			return

		case req := <-a.setFlyingCh:
			state.AreWeFlying = req.value
			close(req.reply)

		case req := <-a.setPlaneStateCh:
			for k, v := range req.batch {
				planeState[k] = v
			}
			close(req.reply)

		case req := <-a.clearPlaneStateCh:
			planeState = make(map[string]any)
			close(req.reply)

		case req := <-a.getTypedSnapshotCh:
			snap, err := DeriveTypedSnapshot(planeState)
			req.reply <- typedSnapshotResult{snapshot: snap, err: err}

		case req := <-a.getStateCh:
			req.reply <- state

		case req := <-a.setStandbyCh:
			req.reply <- applyStandby(&state, req.key, req.value)

		case req := <-a.swapCh:
			req.reply <- applySwap(&state, req.key)

		case req := <-a.activateHorizontalCh:
			state.Horizontal.Mode = req.mode
			if req.mode == HorizontalHeading {
				state.Horizontal.HeadingErrorIntegral = 0
			}
			metrics.ModeTransitions.WithLabelValues("horizontal", req.mode.String()).Inc()
			close(req.reply)

		case req := <-a.activateVerticalCh:
			state.Vertical.Mode = req.mode
			if req.mode == VerticalTECS {
				state.Vertical.EnergyErrorIntegral = 0
				state.Vertical.PitchErrorIntegral = 0
			}
			metrics.ModeTransitions.WithLabelValues("vertical", req.mode.String()).Inc()
			close(req.reply)

		case req := <-a.addHeadingIntegralCh:
			state.Horizontal.HeadingErrorIntegral += req.value
			close(req.reply)

		case req := <-a.addRollIntegralCh:
			state.Horizontal.RollErrorIntegral += req.value
			close(req.reply)

		case req := <-a.addEnergyIntegralCh:
			state.Vertical.EnergyErrorIntegral += req.value
			close(req.reply)

		case req := <-a.addPitchIntegralCh:
			state.Vertical.PitchErrorIntegral += req.value
			close(req.reply)

		case req := <-a.refreshConstantsCh:
			state.Constants = req.constants
			close(req.reply)

		case req := <-a.updateHorizontalMetricsCh:
			state.HorizontalMetrics = req.metrics
			close(req.reply)

		case req := <-a.updateVerticalMetricsCh:
			state.VerticalMetrics = req.metrics
			close(req.reply)
		}
	}
}

// applyStandby validates and sets the standby value for key, clamping per
// spec §3. Called only from the actor goroutine.
func applyStandby(state *State, key string, value float64) error {
	switch key {
	case "heading":
		state.Horizontal.HeadingStandby = wrapHeading(value)
	case "altitude":
		state.Vertical.AltitudeStandby = clamp(value, 0, 25000)
	case "velocity":
		state.Vertical.VelocityStandby = clamp(value, 0, 180)
	default:
		return fmt.Errorf("unknown standby key %q", key)
	}
	return nil
}

// applySwap atomically exchanges setpoint and standby for key. A heading
// swap also resets the heading and roll integrators; altitude and velocity
// swaps reset no integrators. Called only from the actor goroutine.
func applySwap(state *State, key string) error {
	switch key {
	case "heading":
		state.Horizontal.HeadingSetpoint, state.Horizontal.HeadingStandby =
			state.Horizontal.HeadingStandby, state.Horizontal.HeadingSetpoint
		state.Horizontal.HeadingErrorIntegral = 0
		state.Horizontal.RollErrorIntegral = 0
	case "altitude":
		state.Vertical.AltitudeSetpoint, state.Vertical.AltitudeStandby =
			state.Vertical.AltitudeStandby, state.Vertical.AltitudeSetpoint
	case "velocity":
		state.Vertical.VelocitySetpoint, state.Vertical.VelocityStandby =
			state.Vertical.VelocityStandby, state.Vertical.VelocitySetpoint
	default:
		return fmt.Errorf("unknown swap key %q", key)
	}
	return nil
}

func wrapHeading(deg float64) float64 {
	deg = mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func mod(a, b float64) float64 {
	m := a - float64(int(a/b))*b
	return m
}
