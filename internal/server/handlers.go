package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/julianstephens/tachoplan/internal/constants"
	"github.com/julianstephens/tachoplan/internal/logger"
	"github.com/julianstephens/tachoplan/internal/observability"
	"github.com/julianstephens/tachoplan/internal/planner"
	"github.com/julianstephens/tachoplan/internal/render"
)

// PlanResponse is the body returned by the plan endpoint
type PlanResponse struct {
	Input planner.Input `json:"input"`
	render.Document
}

type planHandler struct {
	planner *planner.Planner
	metrics *observability.PlanCollector
}

// Plan schedules the posted trip. Forced rests are honoured as given; the
// weekly reduced-rest ledger is not consulted.
func (h *planHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	start := time.Now()

	var in planner.Input
	r.Body = http.MaxBytesReader(w, r.Body, constants.ServerMaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&in); err != nil {
		h.metrics.ObservePlan(observability.ResultInvalid, time.Since(start), 0)
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		h.metrics.ObservePlan(observability.ResultInvalid, time.Since(start), 0)
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	result, err := h.planner.Plan(r.Context(), in)
	if err != nil {
		if errors.Is(err, planner.ErrInvalidInput) {
			h.metrics.ObservePlan(observability.ResultInvalid, time.Since(start), 0)
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		logger.Error("Plan failed", "err", err)
		h.metrics.ObservePlan(observability.ResultError, time.Since(start), 0)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	h.metrics.ObservePlan(observability.ResultOK, time.Since(start), len(result.Schedule.Segments))
	writeJSON(w, r, http.StatusOK, PlanResponse{
		Input:    result.Input,
		Document: render.NewDocument(result.Schedule, result.Request),
	})
}

// Health is the liveness check.
func Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Encode failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}
