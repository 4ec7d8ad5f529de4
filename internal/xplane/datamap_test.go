package xplane

import "testing"

func TestTranslate_PitchRollHeading(t *testing.T) {
	rec := Record{Index: 17, Values: [8]float32{2, -3, 90, 89, 0, 0, 0, 0}}
	fields, ok := Translate(rec)
	if !ok {
		t.Fatal("expected index 17 to be known")
	}

	want := map[string]any{
		"pitch":            float64(2),
		"roll":             float64(-3),
		"heading_true":     float64(90),
		"heading_magnetic": float64(89),
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("fields[%q] = %v, want %v", k, fields[k], v)
		}
	}
}

func TestTranslate_RateScaling(t *testing.T) {
	rec := Record{Index: 16, Values: [8]float32{1, 2, 3, 0, 0, 0, 0, 0}}
	fields, ok := Translate(rec)
	if !ok {
		t.Fatal("expected index 16 to be known")
	}

	wantQ := 1.0 * radToDeg
	wantP := 2.0 * radToDeg
	wantR := 3.0 * radToDeg

	if got := fields["Q"].(float64); got != wantQ {
		t.Errorf("Q = %v, want %v", got, wantQ)
	}
	if got := fields["P"].(float64); got != wantP {
		t.Errorf("P = %v, want %v", got, wantP)
	}
	if got := fields["R"].(float64); got != wantR {
		t.Errorf("R = %v, want %v", got, wantR)
	}
}

func TestTranslate_BooleanSlot(t *testing.T) {
	rec := Record{Index: 20, Values: [8]float32{52.0, 4.9, 3000, 1500, 1, 0, 0, 0}}
	fields, ok := Translate(rec)
	if !ok {
		t.Fatal("expected index 20 to be known")
	}
	if fields["on_runway"] != true {
		t.Errorf("on_runway = %v, want true", fields["on_runway"])
	}
	if fields["altitude_msl"] != float64(3000) {
		t.Errorf("altitude_msl = %v, want 3000", fields["altitude_msl"])
	}
}

func TestTranslate_UnknownIndex(t *testing.T) {
	_, ok := Translate(Record{Index: 200})
	if ok {
		t.Error("expected unknown index to report ok=false")
	}
}
