package planestate

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

func TestUpdateBatch_AtomicAndTimestamped(t *testing.T) {
	a, ctx := newTestActor(t)

	if err := a.UpdateBatch(ctx, Batch{"pitch": 2.0, "roll": -3.0}); err != nil {
		t.Fatalf("UpdateBatch: %v", err)
	}

	raw, err := a.GetRaw(ctx)
	if err != nil {
		t.Fatalf("GetRaw: %v", err)
	}
	if raw["pitch"] != 2.0 || raw["roll"] != -3.0 {
		t.Fatalf("unexpected raw state: %+v", raw)
	}
	first, ok := raw[lastUpdatedKey].(int64)
	if !ok {
		t.Fatalf("expected last_updated_timestamp to be set")
	}

	if err := a.UpdateBatch(ctx, Batch{"pitch": 5.0}); err != nil {
		t.Fatalf("UpdateBatch: %v", err)
	}
	raw2, _ := a.GetRaw(ctx)
	second := raw2[lastUpdatedKey].(int64)
	if second <= first {
		t.Errorf("expected strictly increasing timestamp, got %d then %d", first, second)
	}
	if raw2["roll"] != -3.0 {
		t.Errorf("expected roll to survive a partial batch update, got %v", raw2["roll"])
	}
}

func TestGetFiltered_InitialisesOnFirstSight(t *testing.T) {
	a, ctx := newTestActor(t)

	if err := a.UpdateBatch(ctx, Batch{"Vind": 100.0}); err != nil {
		t.Fatalf("UpdateBatch: %v", err)
	}
	filtered, err := a.GetFiltered(ctx)
	if err != nil {
		t.Fatalf("GetFiltered: %v", err)
	}
	if filtered["Vind"] != 100.0 {
		t.Errorf("expected filter to initialise at first sample value, got %v", filtered["Vind"])
	}

	if err := a.UpdateBatch(ctx, Batch{"Vind": 200.0}); err != nil {
		t.Fatalf("UpdateBatch: %v", err)
	}
	filtered, _ = a.GetFiltered(ctx)
	if filtered["Vind"] <= 100.0 || filtered["Vind"] >= 200.0 {
		t.Errorf("expected filtered value between 100 and 200, got %v", filtered["Vind"])
	}
}

func TestClear_DropsFieldsAndFilters(t *testing.T) {
	a, ctx := newTestActor(t)

	_ = a.UpdateBatch(ctx, Batch{"pitch": 1.0})
	if err := a.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	raw, _ := a.GetRaw(ctx)
	if len(raw) != 0 {
		t.Errorf("expected empty raw state after Clear, got %+v", raw)
	}
	filtered, _ := a.GetFiltered(ctx)
	if len(filtered) != 0 {
		t.Errorf("expected empty filter state after Clear, got %+v", filtered)
	}
}

func TestMailbox_ClosedAfterContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	log := logrus.NewEntry(logrus.New())
	a := New(ctx, log)

	cancel()
	<-a.done

	if err := a.UpdateBatch(context.Background(), Batch{"pitch": 1.0}); err != ErrMailboxClosed {
		t.Errorf("expected ErrMailboxClosed, got %v", err)
	}
}
