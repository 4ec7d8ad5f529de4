// Package autopilot implements the Autopilot Actor (C5), the Guidance Loop
// (C6), and the Control-Plane RPC (C7).
package autopilot

import "errors"

// ErrSnapshotUnavailable is returned when the typed plane-state snapshot is
// missing one of its required fields; the caller should skip the tick.
var ErrSnapshotUnavailable = errors.New("autopilot: snapshot unavailable")

// ErrMailboxClosed is returned once the actor has shut down.
var ErrMailboxClosed = errors.New("autopilot: mailbox closed")

// ErrConstantsLoadFailed is returned when the constants file could not be
// parsed; the caller keeps its previous constants.
var ErrConstantsLoadFailed = errors.New("autopilot: constants load failed")

// HorizontalMode is the horizontal guidance state machine.
type HorizontalMode int

const (
	HorizontalStandby HorizontalMode = iota
	HorizontalWingsLevel
	HorizontalHeading
)

func (m HorizontalMode) String() string {
	switch m {
	case HorizontalWingsLevel:
		return "wingslevel"
	case HorizontalHeading:
		return "heading"
	default:
		return "standby"
	}
}

// VerticalMode is the vertical guidance state machine.
type VerticalMode int

const (
	VerticalStandby VerticalMode = iota
	VerticalTECS
)

func (m VerticalMode) String() string {
	if m == VerticalTECS {
		return "tecs"
	}
	return "standby"
}

// HorizontalGuidance holds the horizontal mode, its setpoint/standby pair,
// and its integrator accumulators.
type HorizontalGuidance struct {
	Mode                 HorizontalMode `json:"horizontal_mode"`
	HeadingSetpoint       float64        `json:"heading_setpoint"`
	HeadingStandby        float64        `json:"heading_standby"`
	HeadingErrorIntegral  float64        `json:"heading_error_integral"`
	RollErrorIntegral     float64        `json:"roll_error_integral"`
}

// VerticalGuidance holds the vertical mode, its setpoint/standby pairs, and
// its integrator accumulators.
type VerticalGuidance struct {
	Mode                 VerticalMode `json:"vertical_mode"`
	VelocitySetpoint      float64      `json:"velocity_setpoint"`
	VelocityStandby       float64      `json:"velocity_standby"`
	AltitudeSetpoint      float64      `json:"altitude_setpoint"`
	AltitudeStandby       float64      `json:"altitude_standby"`
	EnergyErrorIntegral   float64      `json:"energy_error_integral"`
	PitchErrorIntegral    float64      `json:"pitch_error_integral"`
}

// Constants holds the gains and hard limits loadable from constants.json.
type Constants struct {
	HeadingErrorP        float64 `json:"heading_error_p"`
	HeadingRollErrorD    float64 `json:"heading_roll_error_d"`
	RollP                float64 `json:"roll_p"`
	RollD                float64 `json:"roll_d"`
	RollI                float64 `json:"roll_i"`
	TECSCruiseThrottleBase  float64 `json:"tecs_cruise_throttle_base"`
	TECSCruiseThrottleSlope float64 `json:"tecs_cruise_throttle_slope"`
	TECSEnergyP          float64 `json:"tecs_energy_p"`
	TECSEnergyI          float64 `json:"tecs_energy_i"`
	PitchErrorP          float64 `json:"pitch_error_p"`
	PitchRateErrorP      float64 `json:"pitch_rate_error_p"`
	ElevatorP            float64 `json:"elevator_p"`
	ElevatorD            float64 `json:"elevator_d"`
	ElevatorI            float64 `json:"elevator_i"`
	MaxAileron           float64 `json:"max_aileron"`
	MaxRoll              float64 `json:"max_roll"`
	MaxRollRate          float64 `json:"max_roll_rate"`
	MaxElevator          float64 `json:"max_elevator"`
	MaxPitch             float64 `json:"max_pitch"`
	MaxPitchRate         float64 `json:"max_pitch_rate"`
}

// DefaultConstants returns the gain set the guidance laws were tuned
// against, used until constants.json is first successfully loaded.
func DefaultConstants() Constants {
	return Constants{
		HeadingErrorP:           0.4,
		HeadingRollErrorD:       0.2,
		RollP:                   0.01,
		RollD:                   0.01,
		RollI:                   0.001,
		TECSCruiseThrottleBase:  0.48,
		TECSCruiseThrottleSlope: 0.0000001,
		TECSEnergyP:             0.001,
		TECSEnergyI:             0.001,
		PitchErrorP:             -1.5,
		PitchRateErrorP:         0.3,
		ElevatorP:               0.15,
		ElevatorD:               0.015,
		ElevatorI:               0.0015,
		MaxAileron:              0.3,
		MaxRoll:                 30.0,
		MaxRollRate:             3.0,
		MaxElevator:             0.3,
		MaxPitch:                15.0,
		MaxPitchRate:            15.0,
	}
}

// HorizontalMetrics snapshots the last-cycle horizontal guidance derivation.
type HorizontalMetrics struct {
	Heading              float64 `json:"heading"`
	HeadingTarget        float64 `json:"heading_target"`
	HeadingError         float64 `json:"heading_error"`
	RollAngle            float64 `json:"roll_angle"`
	RollAngleTarget      float64 `json:"roll_angle_target"`
	RollAngleError       float64 `json:"roll_angle_error"`
	RollRate             float64 `json:"roll_angle_rate"`
	RollRateTarget       float64 `json:"roll_angle_rate_target"`
	RollRateError        float64 `json:"roll_angle_rate_error"`
	AileronSetpoint      float64 `json:"aileron_setpoint"`
}

// VerticalMetrics snapshots the last-cycle vertical guidance derivation.
type VerticalMetrics struct {
	AltitudeMSL           float64 `json:"altitude_msl"`
	AltitudeTarget        float64 `json:"altitude_target"`
	Velocity              float64 `json:"velocity"`
	VelocityTarget        float64 `json:"velocity_target"`
	KineticEnergy         float64 `json:"kinetic_energy"`
	KineticEnergyTarget   float64 `json:"kinetic_energy_target"`
	PotentialEnergy       float64 `json:"potential_energy"`
	PotentialEnergyTarget float64 `json:"potential_energy_target"`
	Energy                float64 `json:"energy"`
	EnergyTarget          float64 `json:"energy_target"`
	EnergyError           float64 `json:"energy_error"`
	Pitch                 float64 `json:"pitch"`
	PitchTarget           float64 `json:"pitch_target"`
	PitchError            float64 `json:"pitch_error"`
	PitchRate             float64 `json:"pitch_rate"`
	PitchRateTarget       float64 `json:"pitch_rate_target"`
	PitchRateError        float64 `json:"pitch_rate_error"`
	ElevatorSetpoint      float64 `json:"elevator_setpoint"`
	ThrottleSetpoint      float64 `json:"throttle_setpoint"`
}

// State is the full autopilot snapshot returned by GET /autopilot_state.
type State struct {
	AreWeFlying        bool               `json:"are_we_flying"`
	Horizontal         HorizontalGuidance `json:"horizontal"`
	Vertical           VerticalGuidance   `json:"vertical"`
	Constants          Constants          `json:"constants"`
	HorizontalMetrics  HorizontalMetrics  `json:"horizontal_metrics"`
	VerticalMetrics    VerticalMetrics    `json:"vertical_metrics"`
}

// NewState returns the cold-start autopilot state: not flying, both
// guidance modes in Standby, default constants.
func NewState() State {
	return State{
		AreWeFlying: false,
		Horizontal: HorizontalGuidance{
			Mode: HorizontalStandby,
		},
		Vertical: VerticalGuidance{
			Mode: VerticalStandby,
		},
		Constants: DefaultConstants(),
	}
}

// TypedSnapshot is the derived, typed view of plane state the guidance loop
// operates on.
type TypedSnapshot struct {
	VInd        float64
	AltitudeMSL float64
	VPath       float64
	Roll        float64
	RollRate    float64
	Pitch       float64
	PitchRate   float64
	GloadAxial  float64
	Heading     float64
}

// requiredSnapshotFields names the raw plane-state keys a TypedSnapshot is
// derived from; any absence is ErrSnapshotUnavailable.
var requiredSnapshotFields = []string{
	"Vind", "altitude_msl", "vpath", "roll", "P", "pitch", "Q", "Gload_axial", "heading_true",
}

// DeriveTypedSnapshot builds a TypedSnapshot from a raw plane-state map, or
// ErrSnapshotUnavailable if any required field is missing.
func DeriveTypedSnapshot(raw map[string]any) (TypedSnapshot, error) {
	for _, key := range requiredSnapshotFields {
		if _, ok := raw[key]; !ok {
			return TypedSnapshot{}, ErrSnapshotUnavailable
		}
	}

	get := func(key string) float64 {
		v, _ := toFloat(raw[key])
		return v
	}

	return TypedSnapshot{
		VInd:        get("Vind"),
		AltitudeMSL: get("altitude_msl"),
		VPath:       get("vpath"),
		Roll:        get("roll"),
		RollRate:    get("P"),
		Pitch:       get("pitch"),
		PitchRate:   get("Q"),
		GloadAxial:  get("Gload_axial"),
		Heading:     get("heading_true"),
	}, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
