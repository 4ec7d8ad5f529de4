package telemetry

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

// NewRouter builds the Telemetry Store's HTTP surface per spec §6.7:
// POST /samples to append a snapshot, GET /samples?from=&to= to query a
// time range.
func NewRouter(store *Store, log *logrus.Entry) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
	}))

	h := &handler{store: store, log: log}
	r.Post("/samples", h.postSample)
	r.Get("/samples", h.getSamples)

	return r
}

type handler struct {
	store *Store
	log   *logrus.Entry
}

func (h *handler) postSample(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Sample map[string]any `json:"sample"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "malformed sample body", http.StatusBadRequest)
		return
	}
	if len(body.Sample) == 0 {
		http.Error(w, "empty sample", http.StatusBadRequest)
		return
	}

	if err := h.store.Insert(r.Context(), time.Now().UTC(), body.Sample); err != nil {
		h.log.WithError(err).Error("postSample: insert failed")
		http.Error(w, "failed to store sample", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *handler) getSamples(w http.ResponseWriter, r *http.Request) {
	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")

	from, err := time.Parse(time.RFC3339, fromStr)
	if err != nil {
		http.Error(w, "from must be RFC3339", http.StatusBadRequest)
		return
	}
	to, err := time.Parse(time.RFC3339, toStr)
	if err != nil {
		http.Error(w, "to must be RFC3339", http.StatusBadRequest)
		return
	}

	samples, err := h.store.Query(r.Context(), from, to)
	if err != nil {
		h.log.WithError(err).Error("getSamples: query failed")
		http.Error(w, "failed to query samples", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(samples)
}
