package autopilot

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// publishInterval is the cadence at which the Autopilot Engine pushes its
// own state to the Telemetry Store, mirroring the Flight Bridge's publisher
// and grounded on the original source's share_state_with_data_server.
const publishInterval = 1 * time.Second

// Publisher periodically POSTs the Autopilot Actor's state snapshot to the
// Telemetry Store, gated on AreWeFlying just as the original source only
// shares state while the aircraft is flying.
type Publisher struct {
	actor        *Actor
	telemetryURL string
	http         *http.Client
	log          *logrus.Entry
}

// NewPublisher builds a Publisher against the Telemetry Store at
// telemetryURL (e.g. "http://127.0.0.1:3000"). An empty telemetryURL
// disables publishing.
func NewPublisher(actor *Actor, telemetryURL string, log *logrus.Entry) *Publisher {
	return &Publisher{
		actor:        actor,
		telemetryURL: telemetryURL,
		http:         &http.Client{Timeout: 2 * time.Second},
		log:          log,
	}
}

// Run ticks at publishInterval until ctx is cancelled.
func (p *Publisher) Run(ctx context.Context) error {
	if p.telemetryURL == "" {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(publishInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.publishOnce(ctx)
		}
	}
}

func (p *Publisher) publishOnce(ctx context.Context) {
	state, err := p.actor.GetState(ctx)
	if err != nil {
		p.log.WithError(err).Error("publisher: autopilot mailbox unavailable")
		return
	}
	if !state.AreWeFlying {
		return
	}

	body, err := json.Marshal(map[string]any{"sample": state})
	if err != nil {
		p.log.WithError(err).Error("publisher: failed to marshal state")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.telemetryURL+"/samples", bytes.NewReader(body))
	if err != nil {
		p.log.WithError(err).Error("publisher: failed to build request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		p.log.WithError(err).Error("publisher: failed to reach telemetry store")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		p.log.WithField("status", resp.StatusCode).Error("publisher: telemetry store rejected sample")
	}
}
