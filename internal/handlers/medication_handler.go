package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/madmed-app/madmed-server/internal/models"
	"github.com/madmed-app/madmed-server/internal/services"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MedicationHandler handles HTTP requests related to medications and
// their dosing schedules.
type MedicationHandler struct {
	Service *services.MedicationService
}

// NewMedicationHandler creates a new instance of MedicationHandler.
func NewMedicationHandler(service *services.MedicationService) *MedicationHandler {
	return &MedicationHandler{
		Service: service,
	}
}

// AddMedicationHandler registers a new medication for a pet.
func (h *MedicationHandler) AddMedicationHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("AddMedicationHandler called")
	claims := requireHousehold(w, r)
	if claims == nil {
		return
	}

	var req struct {
		PetID string `json:"pet_id"`
		Name  string `json:"name"`
		Dose  string `json:"dose"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	petID, err := primitive.ObjectIDFromHex(req.PetID)
	if err != nil {
		http.Error(w, "Invalid pet id", http.StatusBadRequest)
		return
	}

	med, err := h.Service.AddMedication(r.Context(), claims.HouseholdID, petID, req.Name, req.Dose)
	if err != nil {
		log.WithError(err).Warn("Failed to add medication")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(med)
}

// GetMedicationHandler fetches one medication.
func (h *MedicationHandler) GetMedicationHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("GetMedicationHandler called")
	claims := requireHousehold(w, r)
	if claims == nil {
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid medication id", http.StatusBadRequest)
		return
	}

	med, err := h.Service.GetMedication(r.Context(), claims.HouseholdID, id)
	if err != nil {
		log.WithError(err).Error("Failed to fetch medication")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if med == nil {
		http.Error(w, "Medication not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(med)
}

// GetPetMedicationsHandler lists all medications of one pet.
func (h *MedicationHandler) GetPetMedicationsHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("GetPetMedicationsHandler called")
	claims := requireHousehold(w, r)
	if claims == nil {
		return
	}

	petID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid pet id", http.StatusBadRequest)
		return
	}

	meds, err := h.Service.GetMedicationsByPet(r.Context(), claims.HouseholdID, petID)
	if err != nil {
		log.WithError(err).Error("Failed to fetch medications")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(meds)
}

// SetScheduleHandler creates or updates a medication's dosing schedule.
func (h *MedicationHandler) SetScheduleHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("SetScheduleHandler called")
	claims := requireHousehold(w, r)
	if claims == nil {
		return
	}

	var req struct {
		MorningTime     string `json:"morning_time"`
		EveningTime     string `json:"evening_time"`
		ReminderMinutes int    `json:"reminder_minutes"`
		Timezone        string `json:"timezone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	schedule := &models.MedicationSchedule{
		MedID:           mux.Vars(r)["id"],
		HouseholdID:     claims.HouseholdID,
		MorningTime:     req.MorningTime,
		EveningTime:     req.EveningTime,
		ReminderMinutes: req.ReminderMinutes,
		Timezone:        req.Timezone,
	}
	if err := h.Service.SetSchedule(r.Context(), schedule); err != nil {
		log.WithError(err).Warn("Failed to set schedule")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(schedule)
}

// GetScheduleHandler fetches a medication's dosing schedule.
func (h *MedicationHandler) GetScheduleHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("GetScheduleHandler called")
	claims := requireHousehold(w, r)
	if claims == nil {
		return
	}

	schedule, err := h.Service.GetSchedule(r.Context(), claims.HouseholdID, mux.Vars(r)["id"])
	if err != nil {
		log.WithError(err).Error("Failed to fetch schedule")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if schedule == nil {
		http.Error(w, "Schedule not set", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(schedule)
}
