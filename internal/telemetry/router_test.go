package telemetry

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestPostSample_RejectsEmptyPayload(t *testing.T) {
	router := NewRouter(nil, logrus.NewEntry(logrus.New()))
	server := httptest.NewServer(router)
	defer server.Close()

	resp, err := http.Post(server.URL+"/samples", "application/json", bytes.NewReader([]byte(`{"sample":{}}`)))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for empty sample, got %d", resp.StatusCode)
	}
}

func TestPostSample_RejectsMalformedBody(t *testing.T) {
	router := NewRouter(nil, logrus.NewEntry(logrus.New()))
	server := httptest.NewServer(router)
	defer server.Close()

	resp, err := http.Post(server.URL+"/samples", "application/json", bytes.NewReader([]byte(`not json`)))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", resp.StatusCode)
	}
}

func TestGetSamples_RejectsNonRFC3339Bounds(t *testing.T) {
	router := NewRouter(nil, logrus.NewEntry(logrus.New()))
	server := httptest.NewServer(router)
	defer server.Close()

	resp, err := http.Get(server.URL + "/samples?from=not-a-time&to=2026-01-01T00:00:00Z")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed from, got %d", resp.StatusCode)
	}
}
