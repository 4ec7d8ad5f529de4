// Package xplane implements the binary UDP protocol spoken by the flight
// simulator: decoding inbound DATA frames and encoding outbound DATA/PREL
// command frames.
package xplane

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrMalformedFrame is returned when an inbound frame's body length is not a
// multiple of the record size, or a record's float slot is short.
var ErrMalformedFrame = errors.New("xplane: malformed frame")

// ErrMissingField is returned when an outbound DATA packet is requested
// without an index or without at least one value.
var ErrMissingField = errors.New("xplane: missing field")

const (
	headerLen  = 5
	recordLen  = 36
	floatLen   = 4
	valuesLen  = 8
	dataHeader = "DATA\x00"
	prelHeader = "PREL\x00"
)

// PREL start-type enum value for a latitude/longitude/elevation reset.
const prelStartTypeLatLonElev = 6

// DoNotChange is the sentinel the simulator treats as "leave this axis
// alone". The encoder passes it through unexamined.
const DoNotChange = -999.0

// Record is one decoded 36-byte body record: a packet index and its eight
// little-endian float32 values.
type Record struct {
	Index  uint8
	Values [8]float32
}

// Decode parses the first `n` bytes of buf as an inbound simulator frame.
// Only "DATA\x00" frames are processed; any other header yields no records
// and no error (the caller should simply ignore the datagram). A DATA frame
// whose body length is not a multiple of 36 bytes is ErrMalformedFrame.
func Decode(buf []byte, n int) ([]Record, error) {
	if n < headerLen || string(buf[:4]) != "DATA" || buf[4] != 0 {
		return nil, nil
	}

	body := buf[headerLen:n]
	if len(body)%recordLen != 0 {
		return nil, fmt.Errorf("%w: body length %d not a multiple of %d", ErrMalformedFrame, len(body), recordLen)
	}

	records := make([]Record, 0, len(body)/recordLen)
	for off := 0; off+recordLen <= len(body); off += recordLen {
		rec := body[off : off+recordLen]
		slot := rec[floatLen : floatLen+valuesLen*floatLen]
		if len(slot) != valuesLen*floatLen {
			return nil, fmt.Errorf("%w: float slot length %d", ErrMalformedFrame, len(slot))
		}

		var r Record
		r.Index = rec[0]
		for i := 0; i < valuesLen; i++ {
			bits := binary.LittleEndian.Uint32(slot[i*floatLen : i*floatLen+floatLen])
			r.Values[i] = math.Float32frombits(bits)
		}
		records = append(records, r)
	}
	return records, nil
}

// EncodeData builds a 41-byte outbound DATA command packet for the given
// packet index and up to eight values. Unset trailing slots are zero-filled.
// Fails with ErrMissingField if index is unset (handled by caller passing an
// explicit index) or no values are supplied.
func EncodeData(index uint8, values ...float64) ([]byte, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no values for DATA index %d", ErrMissingField, index)
	}
	if len(values) > valuesLen {
		return nil, fmt.Errorf("%w: %d values exceeds %d slots", ErrMissingField, len(values), valuesLen)
	}

	buf := make([]byte, 41)
	copy(buf[0:4], "DATA")
	buf[4] = 0
	buf[5] = index
	// bytes 6-8 are reserved/zero

	for i := 0; i < valuesLen; i++ {
		v := float32(0)
		if i < len(values) {
			v = float32(values[i])
		}
		binary.LittleEndian.PutUint32(buf[9+i*floatLen:9+i*floatLen+floatLen], math.Float32bits(v))
	}
	return buf, nil
}

// ResetPosition holds the five fields of an outbound PREL reset packet.
type ResetPosition struct {
	LatitudeDeg  float64
	LongitudeDeg float64
	ElevationM   float64
	HeadingDeg   float64
	SpeedMPS     float64
}

// EncodePREL builds a 69-byte position-reset packet.
func EncodePREL(p ResetPosition) []byte {
	buf := make([]byte, 69)
	copy(buf[0:4], "PREL")
	buf[4] = 0
	buf[5] = prelStartTypeLatLonElev
	// bytes 6-28 are reserved/zero

	values := [5]float64{p.LatitudeDeg, p.LongitudeDeg, p.ElevationM, p.HeadingDeg, p.SpeedMPS}
	for i, v := range values {
		off := 29 + i*8
		binary.LittleEndian.PutUint64(buf[off:off+8], math.Float64bits(v))
	}
	return buf
}
