package bridge

import (
	"context"
	"net"
	"time"

	"github.com/flightstack/autopilotd/internal/command"
	"github.com/flightstack/autopilotd/internal/metrics"
	"github.com/flightstack/autopilotd/internal/xplane"
)

// emitPacing is the sleep after every send to avoid saturating the
// simulator's UDP surface, grounded on the teacher's MAVLink command
// pacing in internal/actuators/mavlink.go.
const emitPacing = 15 * time.Millisecond

// defaultReset is the fixed position PREL reset packets restore: above
// Amsterdam at 3000ft, heading north, 100kt groundspeed.
var defaultReset = xplane.ResetPosition{
	LatitudeDeg:  52.3676,
	LongitudeDeg: 4.9041,
	ElevationM:   914.4,
	HeadingDeg:   0.0,
	SpeedMPS:     51.444,
}

const (
	dataIndexElevatorAileron uint8 = 8
	dataIndexThrottle        uint8 = 25
)

// runEmit drains the command mailbox and writes the corresponding DATA or
// PREL packet to the simulator, pacing sends per spec §4.4 step 2.
func (b *Bridge) runEmit(ctx context.Context) error {
	conn, err := net.Dial("udp", b.simulatorAddr)
	if err != nil {
		return err
	}
	defer conn.Close()

	b.log.WithField("addr", b.simulatorAddr).Info("flight bridge emitting to simulator")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-b.commands:
			packet, err := encodeCommand(c)
			if err != nil {
				b.log.WithError(err).WithField("command", c.Type).Error("failed to encode command")
				continue
			}
			if _, err := conn.Write(packet); err != nil {
				metrics.CommandSendFailures.WithLabelValues(c.Type.String()).Inc()
				b.log.WithError(err).WithField("command", c.Type).Error("failed to send command")
			}
			time.Sleep(emitPacing)
		}
	}
}

func encodeCommand(c command.Command) ([]byte, error) {
	switch c.Type {
	case command.Throttle:
		return xplane.EncodeData(dataIndexThrottle, c.Value)
	case command.Elevator:
		return xplane.EncodeData(dataIndexElevatorAileron, c.Value, xplane.DoNotChange, xplane.DoNotChange)
	case command.Aileron:
		return xplane.EncodeData(dataIndexElevatorAileron, xplane.DoNotChange, c.Value, xplane.DoNotChange)
	case command.ResetPosition:
		return xplane.EncodePREL(defaultReset), nil
	default:
		return nil, xplane.ErrMissingField
	}
}
