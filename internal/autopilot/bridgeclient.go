package autopilot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/flightstack/autopilotd/internal/command"
)

// ErrFeedStale is returned when the Flight Bridge's raw state is missing
// last_updated_timestamp, carries one older than feedStaleAfter, or is
// otherwise unusable for guidance.
var ErrFeedStale = errors.New("autopilot: feed stale")

// feedStaleAfter is the maximum age of last_updated_timestamp for the feed
// to count as alive.
const feedStaleAfter = 1 * time.Second

// ErrFeedUnreachable is returned when the Flight Bridge's /state endpoint
// could not be reached at all.
var ErrFeedUnreachable = errors.New("autopilot: feed unreachable")

// ErrCommandSendFailed is returned when a command could not be delivered
// to the Flight Bridge.
var ErrCommandSendFailed = errors.New("autopilot: command send failed")

// BridgeClient talks to the Flight Bridge's GET /state and POST /command
// endpoints, mirroring the original source's reqwest client.
type BridgeClient struct {
	baseURL string
	http    *http.Client
}

// NewBridgeClient builds a client against the Flight Bridge at baseURL
// (e.g. "http://127.0.0.1:3100").
func NewBridgeClient(baseURL string) *BridgeClient {
	return &BridgeClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 2 * time.Second},
	}
}

// FetchState retrieves the current raw plane-state map and validates that
// last_updated_timestamp is present and no older than feedStaleAfter.
func (c *BridgeClient) FetchState(ctx context.Context) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/state", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedUnreachable, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrFeedUnreachable, resp.StatusCode)
	}

	var state map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedStale, err)
	}
	ts, ok := state["last_updated_timestamp"].(float64)
	if !ok {
		return nil, ErrFeedStale
	}
	if time.Now().UnixMilli()-int64(ts) > feedStaleAfter.Milliseconds() {
		return nil, ErrFeedStale
	}
	return state, nil
}

// SendCommand posts a single actuator command to the Flight Bridge.
func (c *BridgeClient) SendCommand(ctx context.Context, typ command.Type, value float64) error {
	body, err := json.Marshal(struct {
		Command string  `json:"command"`
		Value   float64 `json:"value"`
	}{Command: typ.String(), Value: value})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCommandSendFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/command", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCommandSendFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCommandSendFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrCommandSendFailed, resp.StatusCode)
	}
	return nil
}
