package autopilot

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// NewRouter builds the autopilot's control-plane RPC surface per spec
// §4.7: GET /autopilot_state, GET /set/{key}/{value}, GET /switch/{key},
// GET /activate/{direction}/{mode}, plus a /metrics endpoint for the
// ambient Prometheus stack.
func NewRouter(actor *Actor, log *logrus.Entry) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
	}))

	h := &rpcHandler{actor: actor, log: log}

	r.Get("/autopilot_state", h.getState)
	r.Get("/set/{key}/{value}", h.setStandby)
	r.Get("/switch/{key}", h.switchKey)
	r.Get("/activate/{direction}/{mode}", h.activate)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

type rpcHandler struct {
	actor *Actor
	log   *logrus.Entry
}

func (h *rpcHandler) getState(w http.ResponseWriter, r *http.Request) {
	state, err := h.actor.GetState(r.Context())
	if err != nil {
		h.log.WithError(err).Error("getState: autopilot mailbox unavailable")
		http.Error(w, "autopilot unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *rpcHandler) setStandby(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	valueStr := chi.URLParam(r, "value")

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		http.Error(w, "value must be a number", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	switch key {
	case "heading":
		err = h.actor.SetStandbyHeading(ctx, value)
	case "altitude":
		err = h.actor.SetStandbyAltitude(ctx, value)
	case "velocity":
		err = h.actor.SetStandbyVelocity(ctx, value)
	default:
		http.Error(w, "unknown key", http.StatusNotImplemented)
		return
	}
	if err != nil {
		h.log.WithError(err).Error("setStandby failed")
		http.Error(w, "autopilot unavailable", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *rpcHandler) switchKey(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	ctx := r.Context()

	var err error
	switch key {
	case "heading":
		err = h.actor.SwapHeading(ctx)
	case "altitude":
		err = h.actor.SwapAltitude(ctx)
	case "velocity":
		err = h.actor.SwapVelocity(ctx)
	default:
		http.Error(w, "unknown key", http.StatusNotImplemented)
		return
	}
	if err != nil {
		h.log.WithError(err).Error("switchKey failed")
		http.Error(w, "autopilot unavailable", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *rpcHandler) activate(w http.ResponseWriter, r *http.Request) {
	direction := chi.URLParam(r, "direction")
	mode := chi.URLParam(r, "mode")
	ctx := r.Context()

	var err error
	switch direction {
	case "horizontal":
		switch mode {
		case "standby":
			err = h.actor.ActivateHorizontalStandby(ctx)
		case "wingslevel":
			err = h.actor.ActivateHorizontalWingsLevel(ctx)
		case "heading":
			err = h.actor.ActivateHorizontalHeading(ctx)
		default:
			http.Error(w, "unknown horizontal mode", http.StatusNotImplemented)
			return
		}
	case "vertical":
		switch mode {
		case "standby":
			err = h.actor.ActivateVerticalStandby(ctx)
		case "tecs":
			err = h.actor.ActivateVerticalTECS(ctx)
		default:
			http.Error(w, "unknown vertical mode", http.StatusNotImplemented)
			return
		}
	default:
		http.Error(w, "unknown direction", http.StatusNotImplemented)
		return
	}
	if err != nil {
		h.log.WithError(err).Error("activate failed")
		http.Error(w, "autopilot unavailable", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
