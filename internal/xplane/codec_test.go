package xplane

import (
	"errors"
	"testing"
)

func buildDataFrame(records ...Record) []byte {
	buf := []byte(dataHeader)
	for _, r := range records {
		rec := make([]byte, recordLen)
		rec[0] = r.Index
		enc, _ := EncodeData(r.Index, toFloat64Slice(r.Values[:])...)
		copy(rec[floatLen:], enc[9:41])
		buf = append(buf, rec...)
	}
	return buf
}

func toFloat64Slice(vs []float32) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = float64(v)
	}
	return out
}

func TestDecode_DataHeaderRoundTrip(t *testing.T) {
	want := Record{Index: 17, Values: [8]float32{2, -3, 90, 89, 0, 0, 0, 0}}
	frame := buildDataFrame(want)

	got, err := Decode(frame, len(frame))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].Index != want.Index || got[0].Values != want.Values {
		t.Errorf("got %+v, want %+v", got[0], want)
	}
}

func TestDecode_IgnoresNonDataHeader(t *testing.T) {
	frame := []byte("RREF\x00garbage")
	got, err := Decode(frame, len(frame))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil records for non-DATA header, got %v", got)
	}
}

func TestDecode_MalformedBodyLength(t *testing.T) {
	frame := append([]byte(dataHeader), make([]byte, 37)...)
	_, err := Decode(frame, len(frame))
	if !errors.Is(err, ErrMalformedFrame) {
		t.Fatalf("expected ErrMalformedFrame, got %v", err)
	}
}

func TestEncodeData_RoundTrip(t *testing.T) {
	enc, err := EncodeData(25, 0.75)
	if err != nil {
		t.Fatalf("EncodeData: %v", err)
	}
	if len(enc) != 41 {
		t.Fatalf("expected 41 bytes, got %d", len(enc))
	}

	// An outbound DATA packet's byte layout (header + one 36-byte record) is
	// exactly what Decode expects on the inbound side.
	got, err := Decode(enc, len(enc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != 1 || got[0].Index != 25 {
		t.Fatalf("got %+v", got)
	}
	if got[0].Values[0] != float32(0.75) {
		t.Errorf("Values[0] = %v, want 0.75", got[0].Values[0])
	}
	for i := 1; i < 8; i++ {
		if got[0].Values[i] != 0 {
			t.Errorf("Values[%d] = %v, want 0 (zero-extended)", i, got[0].Values[i])
		}
	}
}

func TestEncodeData_MissingField(t *testing.T) {
	if _, err := EncodeData(25); !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
}

func TestEncodeData_SentinelPassesThroughUnmodified(t *testing.T) {
	enc, err := EncodeData(8, DoNotChange, 0.1, DoNotChange)
	if err != nil {
		t.Fatalf("EncodeData: %v", err)
	}
	got, _ := Decode(enc, len(enc))
	if got[0].Values[0] != float32(DoNotChange) {
		t.Errorf("expected sentinel to pass through, got %v", got[0].Values[0])
	}
}

func TestEncodePREL_FieldOrderAndLength(t *testing.T) {
	buf := EncodePREL(ResetPosition{
		LatitudeDeg:  52.1,
		LongitudeDeg: 4.9,
		ElevationM:   100,
		HeadingDeg:   270,
		SpeedMPS:     30,
	})
	if len(buf) != 69 {
		t.Fatalf("expected 69 bytes, got %d", len(buf))
	}
	if string(buf[0:4]) != "PREL" {
		t.Errorf("expected PREL header, got %q", buf[0:4])
	}
	if buf[5] != prelStartTypeLatLonElev {
		t.Errorf("expected start-type %d, got %d", prelStartTypeLatLonElev, buf[5])
	}
}
