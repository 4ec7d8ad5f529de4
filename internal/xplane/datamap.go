package xplane

// SlotKind identifies how a record's float32 slot should be interpreted
// once decoded.
type SlotKind int

const (
	// KindEmpty slots are skipped; the simulator pads unused slots with 0.
	KindEmpty SlotKind = iota
	KindFloat
	KindBoolean
	KindInteger
)

// Slot describes one value within a record: the state-field key it feeds,
// its kind, and an optional scale factor applied to Float slots (e.g. the
// rad/s -> deg/s conversion on the body-rate index).
type Slot struct {
	Name  string
	Kind  SlotKind
	Scale float64 // 0 means "no scaling" (treated as 1)
}

// Entry maps one packet index to its ordered slot descriptors.
type Entry struct {
	Index uint8
	Slots []Slot
}

const radToDeg = 57.2958

// DataMap is the compile-time table translating packet index + slot
// position to a named, typed, optionally-scaled state field. Indices and
// slot layouts follow the simulator's well-known UDP protocol.
var DataMap = []Entry{
	{
		Index: 3, // airspeeds
		Slots: []Slot{
			{Name: "Vind", Kind: KindFloat},
			{Name: "Vind2", Kind: KindFloat},
			{Name: "Vtrue", Kind: KindFloat},
		},
	},
	{
		Index: 4, // Mach / VVI / G-loads
		Slots: []Slot{
			{Name: "Mach", Kind: KindFloat},
			{Name: "VVI", Kind: KindFloat},
			{Name: "Gload_normal", Kind: KindFloat},
			{Name: "Gload_axial", Kind: KindFloat},
			{Name: "Gload_side", Kind: KindFloat},
		},
	},
	{
		Index: 8, // commanded surfaces
		Slots: []Slot{
			{Name: "elevator_cmd", Kind: KindFloat},
			{Name: "aileron_cmd", Kind: KindFloat},
			{Name: "rudder_cmd", Kind: KindFloat},
		},
	},
	{
		Index: 11, // actual surfaces
		Slots: []Slot{
			{Name: "elevator_actual", Kind: KindFloat},
			{Name: "aileron_actual", Kind: KindFloat},
			{Name: "rudder_actual", Kind: KindFloat},
		},
	},
	{
		Index: 16, // body rates P/Q/R, rad/s -> deg/s
		Slots: []Slot{
			{Name: "Q", Kind: KindFloat, Scale: radToDeg},
			{Name: "P", Kind: KindFloat, Scale: radToDeg},
			{Name: "R", Kind: KindFloat, Scale: radToDeg},
		},
	},
	{
		Index: 17, // pitch, roll, headings
		Slots: []Slot{
			{Name: "pitch", Kind: KindFloat},
			{Name: "roll", Kind: KindFloat},
			{Name: "heading_true", Kind: KindFloat},
			{Name: "heading_magnetic", Kind: KindFloat},
		},
	},
	{
		Index: 18, // alpha/beta/hpath/vpath
		Slots: []Slot{
			{Name: "alpha", Kind: KindFloat},
			{Name: "beta", Kind: KindFloat},
			{Name: "hpath", Kind: KindFloat},
			{Name: "vpath", Kind: KindFloat},
		},
	},
	{
		Index: 20, // lat/lon/alt_msl/alt_agl/on_runway
		Slots: []Slot{
			{Name: "latitude", Kind: KindFloat},
			{Name: "longitude", Kind: KindFloat},
			{Name: "altitude_msl", Kind: KindFloat},
			{Name: "altitude_agl", Kind: KindFloat},
			{Name: "on_runway", Kind: KindBoolean},
		},
	},
	{
		Index: 25, // throttle, engines 1-4
		Slots: []Slot{
			{Name: "throttle_1", Kind: KindFloat},
			{Name: "throttle_2", Kind: KindFloat},
			{Name: "throttle_3", Kind: KindFloat},
			{Name: "throttle_4", Kind: KindFloat},
		},
	},
	{
		Index: 26, // actual throttle, engines 1-4
		Slots: []Slot{
			{Name: "throttle_1_actual", Kind: KindFloat},
			{Name: "throttle_2_actual", Kind: KindFloat},
			{Name: "throttle_3_actual", Kind: KindFloat},
			{Name: "throttle_4_actual", Kind: KindFloat},
		},
	},
}

// entriesByIndex is built once for O(1) lookup from Translate.
var entriesByIndex = func() map[uint8]Entry {
	m := make(map[uint8]Entry, len(DataMap))
	for _, e := range DataMap {
		m[e.Index] = e
	}
	return m
}()

// Translate converts one decoded record into a set of named field values
// using DataMap. It returns ok=false for indices not present in the map
// (the caller should log at DEBUG and drop them, per the Flight Bridge's
// ingest contract).
func Translate(rec Record) (fields map[string]any, ok bool) {
	entry, found := entriesByIndex[rec.Index]
	if !found {
		return nil, false
	}

	fields = make(map[string]any, len(entry.Slots))
	for i, slot := range entry.Slots {
		if slot.Kind == KindEmpty || i >= len(rec.Values) {
			continue
		}
		raw := float64(rec.Values[i])

		switch slot.Kind {
		case KindBoolean:
			fields[slot.Name] = raw == 1.0
		case KindInteger:
			fields[slot.Name] = int64(raw)
		default: // KindFloat
			if slot.Scale != 0 {
				raw *= slot.Scale
			}
			fields[slot.Name] = raw
		}
	}
	return fields, true
}
