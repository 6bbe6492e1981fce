package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/madmed-app/madmed-server/internal/services"
	log "github.com/sirupsen/logrus"
)

// StatusHandler handles HTTP requests related to dose status.
type StatusHandler struct {
	Service *services.StatusService
}

// NewStatusHandler creates a new instance of StatusHandler.
func NewStatusHandler(service *services.StatusService) *StatusHandler {
	return &StatusHandler{
		Service: service,
	}
}

// GetStatusHandler returns the current dose status of a medication.
func (h *StatusHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("GetStatusHandler called")
	claims := requireHousehold(w, r)
	if claims == nil {
		return
	}

	status, err := h.Service.GetStatus(r.Context(), claims.HouseholdID, mux.Vars(r)["id"])
	if err != nil {
		log.WithError(err).Error("Failed to fetch status")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

// MarkDoseTakenHandler records that one slot's dose was given.
func (h *StatusHandler) MarkDoseTakenHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("MarkDoseTakenHandler called")
	claims := requireHousehold(w, r)
	if claims == nil {
		return
	}

	var req struct {
		Slot string `json:"slot"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.Service.MarkDoseTaken(r.Context(), claims.HouseholdID, mux.Vars(r)["id"], req.Slot); err != nil {
		log.WithError(err).Warn("Failed to mark dose taken")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ResetStatusHandler clears today's taken markers of one medication.
func (h *StatusHandler) ResetStatusHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("ResetStatusHandler called")
	claims := requireHousehold(w, r)
	if claims == nil {
		return
	}

	if err := h.Service.ResetTodayStatus(r.Context(), claims.HouseholdID, mux.Vars(r)["id"]); err != nil {
		log.WithError(err).Error("Failed to reset status")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
