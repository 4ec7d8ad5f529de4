package bridge

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/flightstack/autopilotd/internal/metrics"
	"github.com/flightstack/autopilotd/internal/planestate"
	"github.com/flightstack/autopilotd/internal/xplane"
)

// inboundBufferSize is the receive buffer for inbound DATA frames, per
// spec §4.4 step 1.
const inboundBufferSize = 1024

// readDeadline bounds each ReadFromUDP call so the ingest loop can observe
// context cancellation promptly even with no traffic.
const readDeadline = 250 * time.Millisecond

// runIngest owns the listening UDP socket and feeds inbound DATA frames
// through the codec, the data map, and into the Plane-State Actor.
func (b *Bridge) runIngest(ctx context.Context) error {
	addr, err := net.ResolveUDPAddr("udp", b.listenAddr)
	if err != nil {
		return err
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	b.log.WithField("addr", b.listenAddr).Info("flight bridge listening for simulator frames")

	buf := make([]byte, inboundBufferSize)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_ = conn.SetReadDeadline(time.Now().Add(readDeadline))
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			return err
		}

		b.handleInboundFrame(ctx, buf, n)
	}
}

func (b *Bridge) handleInboundFrame(ctx context.Context, buf []byte, n int) {
	records, err := xplane.Decode(buf, n)
	if err != nil {
		metrics.DecodeErrors.Inc()
		b.log.WithError(err).Error("failed to decode inbound frame")
		return
	}

	batch := make(planestate.Batch)
	for _, rec := range records {
		fields, ok := xplane.Translate(rec)
		if !ok {
			b.log.WithField("index", rec.Index).Debug("unknown packet index dropped")
			continue
		}
		for k, v := range fields {
			batch[k] = v
		}
	}
	if len(batch) == 0 {
		return
	}

	if err := b.State.UpdateBatch(ctx, batch); err != nil {
		b.log.WithError(err).Error("failed to apply inbound batch to plane-state actor")
	}
}
