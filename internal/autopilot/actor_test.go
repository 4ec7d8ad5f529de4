package autopilot

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
)

func newTestActor(t *testing.T) (*Actor, context.Context) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	log := logrus.NewEntry(logrus.New())
	return New(ctx, log), ctx
}

func TestNewState_ColdStartBothStandby(t *testing.T) {
	a, ctx := newTestActor(t)

	state, err := a.GetState(ctx)
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if state.AreWeFlying {
		t.Errorf("expected AreWeFlying false at cold start")
	}
	if state.Horizontal.Mode != HorizontalStandby {
		t.Errorf("expected HorizontalStandby at cold start, got %v", state.Horizontal.Mode)
	}
	if state.Vertical.Mode != VerticalStandby {
		t.Errorf("expected VerticalStandby at cold start, got %v", state.Vertical.Mode)
	}
}

func TestSwapHeading_ResetsIntegrators(t *testing.T) {
	a, ctx := newTestActor(t)

	if err := a.SetStandbyHeading(ctx, 90); err != nil {
		t.Fatalf("SetStandbyHeading: %v", err)
	}
	if err := a.AddHeadingErrorIntegral(ctx, 5); err != nil {
		t.Fatalf("AddHeadingErrorIntegral: %v", err)
	}
	if err := a.AddRollErrorIntegral(ctx, 3); err != nil {
		t.Fatalf("AddRollErrorIntegral: %v", err)
	}

	if err := a.SwapHeading(ctx); err != nil {
		t.Fatalf("SwapHeading: %v", err)
	}

	state, _ := a.GetState(ctx)
	if state.Horizontal.HeadingSetpoint != 90 {
		t.Errorf("expected heading setpoint 90 after swap, got %v", state.Horizontal.HeadingSetpoint)
	}
	if state.Horizontal.HeadingErrorIntegral != 0 || state.Horizontal.RollErrorIntegral != 0 {
		t.Errorf("expected integrators reset after swap, got %+v", state.Horizontal)
	}
}

func TestActivateHorizontalHeading_ZeroesHeadingIntegral(t *testing.T) {
	a, ctx := newTestActor(t)

	_ = a.AddHeadingErrorIntegral(ctx, 12)
	if err := a.ActivateHorizontalHeading(ctx); err != nil {
		t.Fatalf("ActivateHorizontalHeading: %v", err)
	}

	state, _ := a.GetState(ctx)
	if state.Horizontal.Mode != HorizontalHeading {
		t.Errorf("expected HorizontalHeading, got %v", state.Horizontal.Mode)
	}
	if state.Horizontal.HeadingErrorIntegral != 0 {
		t.Errorf("expected heading integral reset on mode entry, got %v", state.Horizontal.HeadingErrorIntegral)
	}
}

func TestActivateVerticalTECS_ZeroesBothIntegrals(t *testing.T) {
	a, ctx := newTestActor(t)

	_ = a.AddEnergyErrorIntegral(ctx, 7)
	_ = a.AddPitchErrorIntegral(ctx, 9)
	if err := a.ActivateVerticalTECS(ctx); err != nil {
		t.Fatalf("ActivateVerticalTECS: %v", err)
	}

	state, _ := a.GetState(ctx)
	if state.Vertical.Mode != VerticalTECS {
		t.Errorf("expected VerticalTECS, got %v", state.Vertical.Mode)
	}
	if state.Vertical.EnergyErrorIntegral != 0 || state.Vertical.PitchErrorIntegral != 0 {
		t.Errorf("expected both integrals reset on mode entry, got %+v", state.Vertical)
	}
}

func TestSetStandbyHeading_WrapsToPositiveRange(t *testing.T) {
	a, ctx := newTestActor(t)

	if err := a.SetStandbyHeading(ctx, -30); err != nil {
		t.Fatalf("SetStandbyHeading: %v", err)
	}
	state, _ := a.GetState(ctx)
	if state.Horizontal.HeadingStandby != 330 {
		t.Errorf("expected -30 to wrap to 330, got %v", state.Horizontal.HeadingStandby)
	}

	if err := a.SetStandbyHeading(ctx, 390); err != nil {
		t.Fatalf("SetStandbyHeading: %v", err)
	}
	state, _ = a.GetState(ctx)
	if state.Horizontal.HeadingStandby != 30 {
		t.Errorf("expected 390 to wrap to 30, got %v", state.Horizontal.HeadingStandby)
	}
}

func TestSetStandbyAltitude_Clamps(t *testing.T) {
	a, ctx := newTestActor(t)

	if err := a.SetStandbyAltitude(ctx, -500); err != nil {
		t.Fatalf("SetStandbyAltitude: %v", err)
	}
	state, _ := a.GetState(ctx)
	if state.Vertical.AltitudeStandby != 0 {
		t.Errorf("expected altitude clamped to 0, got %v", state.Vertical.AltitudeStandby)
	}

	if err := a.SetStandbyAltitude(ctx, 99999); err != nil {
		t.Fatalf("SetStandbyAltitude: %v", err)
	}
	state, _ = a.GetState(ctx)
	if state.Vertical.AltitudeStandby != 25000 {
		t.Errorf("expected altitude clamped to 25000, got %v", state.Vertical.AltitudeStandby)
	}
}

func TestGetTypedSnapshot_MissingFieldIsUnavailable(t *testing.T) {
	a, ctx := newTestActor(t)

	if _, err := a.GetTypedSnapshot(ctx); err != ErrSnapshotUnavailable {
		t.Fatalf("expected ErrSnapshotUnavailable, got %v", err)
	}

	full := map[string]any{
		"Vind": 120.0, "altitude_msl": 3000.0, "vpath": 0.5, "roll": 2.0,
		"P": 0.1, "pitch": 1.0, "Q": 0.05, "Gload_axial": 1.0, "heading_true": 270.0,
	}
	if err := a.SetPlaneState(ctx, full); err != nil {
		t.Fatalf("SetPlaneState: %v", err)
	}
	snap, err := a.GetTypedSnapshot(ctx)
	if err != nil {
		t.Fatalf("GetTypedSnapshot: %v", err)
	}
	if snap.Heading != 270.0 {
		t.Errorf("expected Heading 270, got %v", snap.Heading)
	}
}

func TestMailbox_ClosedAfterContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	log := logrus.NewEntry(logrus.New())
	a := New(ctx, log)

	cancel()
	<-a.done

	if err := a.SetFlying(context.Background(), true); err != ErrMailboxClosed {
		t.Errorf("expected ErrMailboxClosed, got %v", err)
	}
}
