package autopilot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestRouter_SetSwitchActivate_RoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	log := logrus.NewEntry(logrus.New())
	actor := New(ctx, log)

	router := NewRouter(actor, log)
	server := httptest.NewServer(router)
	defer server.Close()

	get := func(path string) *http.Response {
		resp, err := http.Get(server.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		return resp
	}

	if resp := get("/set/heading/120"); resp.StatusCode != http.StatusOK {
		t.Fatalf("set heading: expected 200, got %d", resp.StatusCode)
	}
	if resp := get("/switch/heading"); resp.StatusCode != http.StatusOK {
		t.Fatalf("switch heading: expected 200, got %d", resp.StatusCode)
	}
	if resp := get("/activate/horizontal/heading"); resp.StatusCode != http.StatusOK {
		t.Fatalf("activate heading: expected 200, got %d", resp.StatusCode)
	}

	resp := get("/autopilot_state")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("autopilot_state: expected 200, got %d", resp.StatusCode)
	}
	var state State
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.Horizontal.Mode != HorizontalHeading {
		t.Errorf("expected HorizontalHeading after activate, got %v", state.Horizontal.Mode)
	}
	if state.Horizontal.HeadingSetpoint != 120 {
		t.Errorf("expected heading setpoint 120 after switch, got %v", state.Horizontal.HeadingSetpoint)
	}
}

func TestRouter_UnknownKey_NotImplemented(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	log := logrus.NewEntry(logrus.New())
	actor := New(ctx, log)

	router := NewRouter(actor, log)
	server := httptest.NewServer(router)
	defer server.Close()

	resp, err := http.Get(server.URL + "/set/bogus/1")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusNotImplemented {
		t.Errorf("expected 501 for unknown key, got %d", resp.StatusCode)
	}
}

func TestRouter_BadValue_BadRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	log := logrus.NewEntry(logrus.New())
	actor := New(ctx, log)

	router := NewRouter(actor, log)
	server := httptest.NewServer(router)
	defer server.Close()

	resp, err := http.Get(server.URL + "/set/heading/not-a-number")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for bad value, got %d", resp.StatusCode)
	}
}
