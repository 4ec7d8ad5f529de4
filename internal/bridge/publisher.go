package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// publishInterval is the cadence at which the Flight Bridge pushes plane
// state to the Telemetry Store, per spec §4.4 step 3.
const publishInterval = 1 * time.Second

// runPublisher fetches the Plane-State Actor's raw snapshot at 1Hz and
// POSTs it to the Telemetry Store whenever it is non-empty.
func (b *Bridge) runPublisher(ctx context.Context) error {
	if b.telemetryURL == "" {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(publishInterval)
	defer ticker.Stop()

	client := &http.Client{Timeout: 2 * time.Second}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			b.publishOnce(ctx, client)
		}
	}
}

func (b *Bridge) publishOnce(ctx context.Context, client *http.Client) {
	snapshot, err := b.State.GetRaw(ctx)
	if err != nil {
		b.log.WithError(err).Error("publisher: failed to read plane-state snapshot")
		return
	}
	if len(snapshot) == 0 {
		return
	}

	body, err := json.Marshal(map[string]any{"sample": snapshot})
	if err != nil {
		b.log.WithError(err).Error("publisher: failed to marshal snapshot")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.telemetryURL+"/samples", bytes.NewReader(body))
	if err != nil {
		b.log.WithError(err).Error("publisher: failed to build request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		b.log.WithError(err).Error("publisher: failed to reach telemetry store")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b.log.WithField("status", resp.StatusCode).Error("publisher: telemetry store rejected sample")
	}
}
