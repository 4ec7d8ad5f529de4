package autopilot

import "context"

// SetFlying records whether the Flight Bridge feed is live; the guidance
// loop skips control output while false.
func (a *Actor) SetFlying(ctx context.Context, flying bool) error {
	reply := make(chan struct{})
	select {
	case a.setFlyingCh <- setFlyingReq{value: flying, reply: reply}:
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-reply:
		return nil
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetPlaneState merges batch into the actor's raw plane-state view.
func (a *Actor) SetPlaneState(ctx context.Context, batch map[string]any) error {
	reply := make(chan struct{})
	select {
	case a.setPlaneStateCh <- setPlaneStateReq{batch: batch, reply: reply}:
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-reply:
		return nil
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ClearPlaneState drops the accumulated raw plane-state view, used when the
// UDP feed from the simulator goes quiet.
func (a *Actor) ClearPlaneState(ctx context.Context) error {
	reply := make(chan struct{})
	select {
	case a.clearPlaneStateCh <- clearPlaneStateReq{reply: reply}:
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-reply:
		return nil
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetTypedSnapshot derives the guidance loop's typed view of plane state,
// returning ErrSnapshotUnavailable if a required field hasn't arrived yet.
func (a *Actor) GetTypedSnapshot(ctx context.Context) (TypedSnapshot, error) {
	reply := make(chan typedSnapshotResult)
	select {
	case a.getTypedSnapshotCh <- getTypedSnapshotReq{reply: reply}:
	case <-a.done:
		return TypedSnapshot{}, ErrMailboxClosed
	case <-ctx.Done():
		return TypedSnapshot{}, ctx.Err()
	}
	select {
	case res := <-reply:
		return res.snapshot, res.err
	case <-a.done:
		return TypedSnapshot{}, ErrMailboxClosed
	case <-ctx.Done():
		return TypedSnapshot{}, ctx.Err()
	}
}

// GetState returns a full snapshot of the autopilot state, as served by
// GET /autopilot_state.
func (a *Actor) GetState(ctx context.Context) (State, error) {
	reply := make(chan State)
	select {
	case a.getStateCh <- getStateReq{reply: reply}:
	case <-a.done:
		return State{}, ErrMailboxClosed
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
	select {
	case s := <-reply:
		return s, nil
	case <-a.done:
		return State{}, ErrMailboxClosed
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// SetStandbyHeading sets the standby heading setpoint, wrapped to [0,360).
func (a *Actor) SetStandbyHeading(ctx context.Context, degrees float64) error {
	return a.setStandby(ctx, "heading", degrees)
}

// SetStandbyAltitude sets the standby altitude setpoint, clamped to
// [0,25000] feet MSL.
func (a *Actor) SetStandbyAltitude(ctx context.Context, feet float64) error {
	return a.setStandby(ctx, "altitude", feet)
}

// SetStandbyVelocity sets the standby airspeed setpoint, clamped to
// [0,180] knots.
func (a *Actor) SetStandbyVelocity(ctx context.Context, knots float64) error {
	return a.setStandby(ctx, "velocity", knots)
}

func (a *Actor) setStandby(ctx context.Context, key string, value float64) error {
	reply := make(chan error)
	select {
	case a.setStandbyCh <- setStandbyReq{key: key, value: value, reply: reply}:
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SwapHeading atomically exchanges the active and standby heading
// setpoints and resets the heading and roll integrators.
func (a *Actor) SwapHeading(ctx context.Context) error { return a.swap(ctx, "heading") }

// SwapAltitude atomically exchanges the active and standby altitude
// setpoints.
func (a *Actor) SwapAltitude(ctx context.Context) error { return a.swap(ctx, "altitude") }

// SwapVelocity atomically exchanges the active and standby velocity
// setpoints.
func (a *Actor) SwapVelocity(ctx context.Context) error { return a.swap(ctx, "velocity") }

func (a *Actor) swap(ctx context.Context, key string) error {
	reply := make(chan error)
	select {
	case a.swapCh <- swapReq{key: key, reply: reply}:
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ActivateHorizontalStandby, ActivateHorizontalWingsLevel and
// ActivateHorizontalHeading switch the horizontal mode; entering Heading
// mode zeroes the heading error integral.
func (a *Actor) ActivateHorizontalStandby(ctx context.Context) error {
	return a.activateHorizontal(ctx, HorizontalStandby)
}
func (a *Actor) ActivateHorizontalWingsLevel(ctx context.Context) error {
	return a.activateHorizontal(ctx, HorizontalWingsLevel)
}
func (a *Actor) ActivateHorizontalHeading(ctx context.Context) error {
	return a.activateHorizontal(ctx, HorizontalHeading)
}

func (a *Actor) activateHorizontal(ctx context.Context, mode HorizontalMode) error {
	reply := make(chan struct{})
	select {
	case a.activateHorizontalCh <- activateHorizontalReq{mode: mode, reply: reply}:
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-reply:
		return nil
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ActivateVerticalStandby and ActivateVerticalTECS switch the vertical
// mode; entering TECS mode zeroes both the energy and pitch integrals.
func (a *Actor) ActivateVerticalStandby(ctx context.Context) error {
	return a.activateVertical(ctx, VerticalStandby)
}
func (a *Actor) ActivateVerticalTECS(ctx context.Context) error {
	return a.activateVertical(ctx, VerticalTECS)
}

func (a *Actor) activateVertical(ctx context.Context, mode VerticalMode) error {
	reply := make(chan struct{})
	select {
	case a.activateVerticalCh <- activateVerticalReq{mode: mode, reply: reply}:
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-reply:
		return nil
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AddHeadingErrorIntegral accumulates the heading guidance law's integral
// term by delta.
func (a *Actor) AddHeadingErrorIntegral(ctx context.Context, delta float64) error {
	reply := make(chan struct{})
	select {
	case a.addHeadingIntegralCh <- addHeadingIntegralReq{value: delta, reply: reply}:
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-reply:
		return nil
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AddRollErrorIntegral accumulates the roll-rate guidance law's integral
// term by delta.
func (a *Actor) AddRollErrorIntegral(ctx context.Context, delta float64) error {
	reply := make(chan struct{})
	select {
	case a.addRollIntegralCh <- addRollIntegralReq{value: delta, reply: reply}:
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-reply:
		return nil
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AddEnergyErrorIntegral accumulates the TECS energy law's integral term
// by delta.
func (a *Actor) AddEnergyErrorIntegral(ctx context.Context, delta float64) error {
	reply := make(chan struct{})
	select {
	case a.addEnergyIntegralCh <- addEnergyIntegralReq{value: delta, reply: reply}:
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-reply:
		return nil
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AddPitchErrorIntegral accumulates the TECS pitch law's integral term by
// delta.
func (a *Actor) AddPitchErrorIntegral(ctx context.Context, delta float64) error {
	reply := make(chan struct{})
	select {
	case a.addPitchIntegralCh <- addPitchIntegralReq{value: delta, reply: reply}:
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-reply:
		return nil
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RefreshConstants atomically replaces the active constants set, as read
// from constants.json each tick.
func (a *Actor) RefreshConstants(ctx context.Context, constants Constants) error {
	reply := make(chan struct{})
	select {
	case a.refreshConstantsCh <- refreshConstantsReq{constants: constants, reply: reply}:
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-reply:
		return nil
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UpdateHorizontalMetrics records the latest cycle's horizontal guidance
// derivation for observability via GET /autopilot_state.
func (a *Actor) UpdateHorizontalMetrics(ctx context.Context, metrics HorizontalMetrics) error {
	reply := make(chan struct{})
	select {
	case a.updateHorizontalMetricsCh <- updateHorizontalMetricsReq{metrics: metrics, reply: reply}:
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-reply:
		return nil
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UpdateVerticalMetrics records the latest cycle's vertical guidance
// derivation for observability via GET /autopilot_state.
func (a *Actor) UpdateVerticalMetrics(ctx context.Context, metrics VerticalMetrics) error {
	reply := make(chan struct{})
	select {
	case a.updateVerticalMetricsCh <- updateVerticalMetricsReq{metrics: metrics, reply: reply}:
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-reply:
		return nil
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}
