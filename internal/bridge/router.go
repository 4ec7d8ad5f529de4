package bridge

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flightstack/autopilotd/internal/command"
)

// NewRouter builds the Flight Bridge's HTTP surface per spec §4.4/§6:
// GET /state returns the current raw plane-state mapping, POST /command
// enqueues a clamped actuator command, and /metrics exposes the ambient
// Prometheus stack.
func (b *Bridge) NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
	}))

	r.Get("/state", b.handleGetState)
	r.Post("/command", b.handlePostCommand)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (b *Bridge) handleGetState(w http.ResponseWriter, r *http.Request) {
	state, err := b.State.GetRaw(r.Context())
	if err != nil {
		b.log.WithError(err).Error("handleGetState: plane-state actor unavailable")
		http.Error(w, "plane state unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(state)
}

func (b *Bridge) handlePostCommand(w http.ResponseWriter, r *http.Request) {
	var wire struct {
		Command string  `json:"command"`
		Value   float64 `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
		http.Error(w, "malformed command body", http.StatusBadRequest)
		return
	}

	typ, err := command.ParseType(wire.Command)
	if err != nil {
		http.Error(w, "unknown command", http.StatusNotImplemented)
		return
	}

	if err := b.EnqueueCommand(command.Command{Type: typ, Value: wire.Value}); err != nil {
		b.log.WithError(err).Error("handlePostCommand: failed to enqueue command")
		http.Error(w, "command queue full", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
