package autopilot

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/flightstack/autopilotd/internal/command"
	"github.com/flightstack/autopilotd/internal/metrics"
)

const (
	tickPeriod = 200 * time.Millisecond
	dt         = 0.2 // tickPeriod expressed in seconds

	knotsToMPS = 0.514444
	feetToM    = 0.3048
	gravity    = 0.981
)

// GuidanceLoop drives the autopilot's control laws at the fixed tick rate
// described by spec §4.6, fetching plane state from and sending commands
// to the Flight Bridge over HTTP.
type GuidanceLoop struct {
	actor         *Actor
	bridge        *BridgeClient
	constantsPath string
	log           *logrus.Entry

	constantsFailing bool // last constants load failed; suppresses repeat logs
}

// NewGuidanceLoop wires an actor to a bridge client and a constants file
// path, ready to Run.
func NewGuidanceLoop(actor *Actor, bridge *BridgeClient, constantsPath string, log *logrus.Entry) *GuidanceLoop {
	return &GuidanceLoop{actor: actor, bridge: bridge, constantsPath: constantsPath, log: log}
}

// Run ticks every 200ms until ctx is cancelled. Per-tick errors are logged
// and the loop continues; it never aborts on a single bad tick.
func (g *GuidanceLoop) Run(ctx context.Context) error {
	ticker := time.NewTicker(tickPeriod)
	defer ticker.Stop()

	wasFlying := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			g.tick(ctx, &wasFlying)
		}
	}
}

func (g *GuidanceLoop) tick(ctx context.Context, wasFlying *bool) {
	start := time.Now()
	defer func() { metrics.GuidanceTickDuration.Observe(time.Since(start).Seconds()) }()

	g.refreshState(ctx, wasFlying)
	g.refreshConstants(ctx)

	state, err := g.actor.GetState(ctx)
	if err != nil {
		g.log.WithError(err).Error("guidance tick: autopilot mailbox unavailable")
		return
	}
	if !state.AreWeFlying {
		return
	}

	snapshot, err := g.actor.GetTypedSnapshot(ctx)
	if err != nil {
		g.log.WithError(err).Debug("guidance tick: typed snapshot unavailable, skipping")
		return
	}

	g.runVertical(ctx, state, snapshot)
	g.runHorizontal(ctx, state, snapshot)
}

// refreshState implements step 1: fetch the bridge's raw state, or
// collapse liveness and both guidance modes to Standby on failure.
func (g *GuidanceLoop) refreshState(ctx context.Context, wasFlying *bool) {
	raw, err := g.bridge.FetchState(ctx)
	if err != nil {
		if *wasFlying {
			*wasFlying = false
			_ = g.actor.SetFlying(ctx, false)
			_ = g.actor.ClearPlaneState(ctx)
			_ = g.actor.ActivateVerticalStandby(ctx)
			_ = g.actor.ActivateHorizontalStandby(ctx)
			g.log.WithError(err).Error("lost flight bridge feed, collapsing to standby")
		}
		return
	}

	if err := g.actor.SetPlaneState(ctx, raw); err != nil {
		g.log.WithError(err).Error("failed to apply plane state")
		return
	}
	if !*wasFlying {
		*wasFlying = true
		_ = g.actor.SetFlying(ctx, true)
		g.log.Info("flight bridge feed alive, autopilot flying")
	}
}

// refreshConstants implements step 2: unconditional re-read every tick. A
// failed load keeps the previous constants and is logged at ERROR once,
// until a later load succeeds.
func (g *GuidanceLoop) refreshConstants(ctx context.Context) {
	constants, err := LoadConstants(g.constantsPath)
	if err != nil {
		if !g.constantsFailing {
			g.constantsFailing = true
			g.log.WithError(err).Error("failed to load constants, keeping previous values")
		}
		return
	}
	g.constantsFailing = false
	_ = g.actor.RefreshConstants(ctx, constants)
}

// runVertical implements §4.6.1 (TECS).
func (g *GuidanceLoop) runVertical(ctx context.Context, state State, snapshot TypedSnapshot) {
	if state.Vertical.Mode != VerticalTECS {
		return
	}
	c := state.Constants
	v := state.Vertical

	velocitySetpointMPS := v.VelocitySetpoint * knotsToMPS
	targetKinetic := 0.5 * velocitySetpointMPS * velocitySetpointMPS
	targetPotential := v.AltitudeSetpoint * feetToM * gravity
	targetEnergy := targetKinetic + targetPotential

	velocityMPS := snapshot.VInd * knotsToMPS
	altitudeM := snapshot.AltitudeMSL * feetToM

	kinetic := 0.5 * velocityMPS * velocityMPS
	potential := altitudeM * gravity
	energy := kinetic + potential

	energyError := targetEnergy - energy
	if err := g.actor.AddEnergyErrorIntegral(ctx, energyError*dt); err != nil {
		g.log.WithError(err).Error("failed to accumulate energy error integral")
	}
	updatedState, _ := g.actor.GetState(ctx)
	energyIntegral := updatedState.Vertical.EnergyErrorIntegral

	throttleCruise := c.TECSCruiseThrottleBase + targetEnergy*c.TECSCruiseThrottleSlope
	throttle := clamp(c.TECSEnergyP*energyError+throttleCruise+energyIntegral*c.TECSEnergyI, 0, 1)

	if err := g.bridge.SendCommand(ctx, command.Throttle, throttle); err != nil {
		g.log.WithError(err).Error("failed to send throttle command")
	}

	pitchTarget := clamp((v.VelocitySetpoint-snapshot.VInd)*c.PitchErrorP, -c.MaxPitch, c.MaxPitch)
	pitchError := pitchTarget - snapshot.Pitch

	if err := g.actor.AddPitchErrorIntegral(ctx, pitchError*dt); err != nil {
		g.log.WithError(err).Error("failed to accumulate pitch error integral")
	}
	updatedState, _ = g.actor.GetState(ctx)
	pitchIntegral := updatedState.Vertical.PitchErrorIntegral

	pitchRateTarget := clamp(pitchError*c.PitchRateErrorP, -c.MaxPitchRate, c.MaxPitchRate)
	pitchRateError := pitchRateTarget - snapshot.PitchRate

	elevator := clamp(c.ElevatorP*pitchError+c.ElevatorD*pitchRateError+c.ElevatorI*pitchIntegral, -c.MaxElevator, c.MaxElevator)

	if err := g.bridge.SendCommand(ctx, command.Elevator, elevator); err != nil {
		g.log.WithError(err).Error("failed to send elevator command")
	}

	_ = g.actor.UpdateVerticalMetrics(ctx, VerticalMetrics{
		AltitudeMSL:           snapshot.AltitudeMSL,
		AltitudeTarget:        v.AltitudeSetpoint,
		Velocity:              snapshot.VInd,
		VelocityTarget:        v.VelocitySetpoint,
		KineticEnergy:         kinetic,
		KineticEnergyTarget:   targetKinetic,
		PotentialEnergy:       potential,
		PotentialEnergyTarget: targetPotential,
		Energy:                energy,
		EnergyTarget:          targetEnergy,
		EnergyError:           energyError,
		Pitch:                 snapshot.Pitch,
		PitchTarget:           pitchTarget,
		PitchError:            pitchError,
		PitchRate:             snapshot.PitchRate,
		PitchRateTarget:       pitchRateTarget,
		PitchRateError:        pitchRateError,
		ElevatorSetpoint:      elevator,
		ThrottleSetpoint:      throttle,
	})
}

// runHorizontal implements §4.6.2 (WingsLevel / Heading).
func (g *GuidanceLoop) runHorizontal(ctx context.Context, state State, snapshot TypedSnapshot) {
	c := state.Constants
	h := state.Horizontal

	switch h.Mode {
	case HorizontalStandby:
		return

	case HorizontalWingsLevel:
		aileron := clamp(-(snapshot.Roll*c.RollP + snapshot.RollRate*c.RollD), -c.MaxAileron, c.MaxAileron)
		if err := g.bridge.SendCommand(ctx, command.Aileron, aileron); err != nil {
			g.log.WithError(err).Error("failed to send aileron command")
		}
		_ = g.actor.UpdateHorizontalMetrics(ctx, HorizontalMetrics{
			Heading:         snapshot.Heading,
			RollAngle:       snapshot.Roll,
			RollRate:        snapshot.RollRate,
			AileronSetpoint: aileron,
		})

	case HorizontalHeading:
		headingError := h.HeadingSetpoint - snapshot.Heading
		rollTarget := clamp(headingError*c.HeadingErrorP, -c.MaxRoll, c.MaxRoll)
		rollError := rollTarget - snapshot.Roll
		rollRateTarget := clamp(rollError*c.HeadingRollErrorD, -c.MaxRollRate, c.MaxRollRate)
		rollRateError := rollRateTarget - snapshot.RollRate

		if err := g.actor.AddHeadingErrorIntegral(ctx, headingError*dt); err != nil {
			g.log.WithError(err).Error("failed to accumulate heading error integral")
		}
		if err := g.actor.AddRollErrorIntegral(ctx, rollError*dt); err != nil {
			g.log.WithError(err).Error("failed to accumulate roll error integral")
		}
		updatedState, _ := g.actor.GetState(ctx)
		rollIntegral := updatedState.Horizontal.RollErrorIntegral

		aileron := clamp(rollError*c.RollP+rollRateError*c.RollD+rollIntegral*c.RollI, -c.MaxAileron, c.MaxAileron)

		if err := g.bridge.SendCommand(ctx, command.Aileron, aileron); err != nil {
			g.log.WithError(err).Error("failed to send aileron command")
		}

		_ = g.actor.UpdateHorizontalMetrics(ctx, HorizontalMetrics{
			Heading:         snapshot.Heading,
			HeadingTarget:   h.HeadingSetpoint,
			HeadingError:    headingError,
			RollAngle:       snapshot.Roll,
			RollAngleTarget: rollTarget,
			RollAngleError:  rollError,
			RollRate:        snapshot.RollRate,
			RollRateTarget:  rollRateTarget,
			RollRateError:   rollRateError,
			AileronSetpoint: aileron,
		})
	}
}
