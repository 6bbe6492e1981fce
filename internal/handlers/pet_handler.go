package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/madmed-app/madmed-server/internal/services"
	jwtutil "github.com/madmed-app/madmed-server/pkg/jwt"
	"github.com/madmed-app/madmed-server/pkg/middleware"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PetHandler handles HTTP requests related to pets.
type PetHandler struct {
	Service *services.PetService
}

// NewPetHandler creates a new instance of PetHandler.
func NewPetHandler(service *services.PetService) *PetHandler {
	return &PetHandler{
		Service: service,
	}
}

// requireHousehold pulls the caller's claims and rejects requests from
// members who have not joined a household yet.
func requireHousehold(w http.ResponseWriter, r *http.Request) *jwtutil.Claims {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil
	}
	if claims.HouseholdID == "" {
		http.Error(w, "Forbidden: create or join a household first", http.StatusForbidden)
		return nil
	}
	return claims
}

// AddPetHandler registers a new pet.
func (h *PetHandler) AddPetHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("AddPetHandler called")
	claims := requireHousehold(w, r)
	if claims == nil {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	pet, err := h.Service.AddPet(r.Context(), claims.HouseholdID, req.Name)
	if err != nil {
		log.WithError(err).Warn("Failed to add pet")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pet)
}

// GetPetsHandler lists the household's pets.
func (h *PetHandler) GetPetsHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("GetPetsHandler called")
	claims := requireHousehold(w, r)
	if claims == nil {
		return
	}

	pets, err := h.Service.GetPets(r.Context(), claims.HouseholdID)
	if err != nil {
		log.WithError(err).Error("Failed to fetch pets")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pets)
}

// GetPetHandler fetches one pet.
func (h *PetHandler) GetPetHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("GetPetHandler called")
	claims := requireHousehold(w, r)
	if claims == nil {
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid pet id", http.StatusBadRequest)
		return
	}

	pet, err := h.Service.GetPet(r.Context(), claims.HouseholdID, id)
	if err != nil {
		log.WithError(err).Error("Failed to fetch pet")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if pet == nil {
		http.Error(w, "Pet not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pet)
}
