package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
)

func newTestBridge(t *testing.T) (*Bridge, context.Context) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	log := logrus.NewEntry(logrus.New())
	b := New(ctx, Config{}, log)
	return b, ctx
}

func TestHandleGetState_ReturnsRawSnapshot(t *testing.T) {
	b, ctx := newTestBridge(t)
	if err := b.State.UpdateBatch(ctx, map[string]any{"pitch": 2.0}); err != nil {
		t.Fatalf("UpdateBatch: %v", err)
	}

	server := httptest.NewServer(b.NewRouter())
	defer server.Close()

	resp, err := http.Get(server.URL + "/state")
	if err != nil {
		t.Fatalf("GET /state: %v", err)
	}
	var state map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state["pitch"] != 2.0 {
		t.Errorf("expected pitch 2.0, got %v", state["pitch"])
	}
}

func TestHandlePostCommand_ClampsAndEnqueues(t *testing.T) {
	b, _ := newTestBridge(t)
	server := httptest.NewServer(b.NewRouter())
	defer server.Close()

	body := bytes.NewReader([]byte(`{"command":"aileron","value":5.0}`))
	resp, err := http.Post(server.URL+"/command", "application/json", body)
	if err != nil {
		t.Fatalf("POST /command: %v", err)
	}
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}

	select {
	case c := <-b.commands:
		if c.Value != 1.0 {
			t.Errorf("expected aileron clamped to 1.0, got %v", c.Value)
		}
	default:
		t.Fatalf("expected a command to be enqueued")
	}
}

func TestHandlePostCommand_UnknownCommandNotImplemented(t *testing.T) {
	b, _ := newTestBridge(t)
	server := httptest.NewServer(b.NewRouter())
	defer server.Close()

	body := bytes.NewReader([]byte(`{"command":"bogus","value":1.0}`))
	resp, err := http.Post(server.URL+"/command", "application/json", body)
	if err != nil {
		t.Fatalf("POST /command: %v", err)
	}
	if resp.StatusCode != http.StatusNotImplemented {
		t.Errorf("expected 501, got %d", resp.StatusCode)
	}
}
