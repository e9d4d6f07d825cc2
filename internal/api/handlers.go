// Package api exposes HTTP handlers for the trainer workload service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ArsenAbrahamyann/trainerService/internal/auth"
	"github.com/ArsenAbrahamyann/trainerService/internal/domain"
)

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *domain.Service
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/trainer-workload/update", h.updateWorkload)
	mux.HandleFunc("/trainer-workload/", h.workloadByUsername)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// UpdateWorkloadRequest is the payload for POST /trainer-workload/update.
type UpdateWorkloadRequest struct {
	TrainerUsername string    `json:"trainerUsername"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	IsActive        bool      `json:"isActive"`
	TrainingDate    time.Time `json:"trainingDate"`
	TrainingMinutes int       `json:"trainingDuration"`
	ActionType      string    `json:"actionType"`
}

// WorkloadView is the response body for a trainer's full workload.
type WorkloadView struct {
	TrainerUsername string              `json:"trainerUsername"`
	FirstName       string              `json:"firstName"`
	LastName        string              `json:"lastName"`
	IsActive        bool                `json:"isActive"`
	Workload        map[int]map[int]int `json:"workload"`
}

func (h *Handler) updateWorkload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeWorkloadWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope workload:write required")
		return
	}

	var req UpdateWorkloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	msg := domain.UpdateMessage{
		TrainerUsername: req.TrainerUsername,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		IsActive:        req.IsActive,
		TrainingDate:    req.TrainingDate,
		DurationMinutes: req.TrainingMinutes,
		ActionType:      req.ActionType,
	}

	if err := h.service.UpdateTrainingHours(r.Context(), msg); err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingRequiredFields), errors.Is(err, domain.ErrInvalidActionType):
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "workload updated"})
}

func (h *Handler) workloadByUsername(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	username := strings.TrimPrefix(r.URL.Path, "/trainer-workload/")
	if username == "" || strings.Contains(username, "/") {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing trainer username")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeWorkloadRead) && !claims.HasScope(auth.ScopeWorkloadWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope workload:read required")
		return
	}

	record, err := h.service.GetWorkload(r.Context(), username)
	if err != nil {
		if errors.Is(err, domain.ErrWorkloadNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "no workload data for trainer")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, WorkloadView{
		TrainerUsername: record.TrainerUsername,
		FirstName:       record.FirstName,
		LastName:        record.LastName,
		IsActive:        record.IsActive,
		Workload:        record.MonthlyTotals,
	})
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
