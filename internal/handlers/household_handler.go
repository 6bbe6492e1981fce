package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/madmed-app/madmed-server/internal/config"
	"github.com/madmed-app/madmed-server/internal/services"
	jwtutil "github.com/madmed-app/madmed-server/pkg/jwt"
	"github.com/madmed-app/madmed-server/pkg/middleware"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HouseholdHandler handles HTTP requests related to households.
type HouseholdHandler struct {
	Service *services.HouseholdService
	Config  *config.Config
}

// NewHouseholdHandler creates a new instance of HouseholdHandler.
func NewHouseholdHandler(service *services.HouseholdService, cfg *config.Config) *HouseholdHandler {
	return &HouseholdHandler{
		Service: service,
		Config:  cfg,
	}
}

// respondWithHousehold returns the household plus a refreshed token
// carrying the new household claim, so the client does not need to log
// in again after creating or joining.
func (h *HouseholdHandler) respondWithHousehold(w http.ResponseWriter, claims *jwtutil.Claims, householdID, role string, payload interface{}) {
	token, err := jwtutil.GenerateToken(claims.MemberID, claims.Email, role, householdID, h.Config.JWTSecret, h.Config.TokenExpiry)
	if err != nil {
		log.WithError(err).Error("Failed to refresh token after household change")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"token":     token,
		"household": payload,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// CreateHouseholdHandler creates a household with a caller-chosen code.
func (h *HouseholdHandler) CreateHouseholdHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("CreateHouseholdHandler called")
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	memberID, err := primitive.ObjectIDFromHex(claims.MemberID)
	if err != nil {
		http.Error(w, "Invalid member id", http.StatusBadRequest)
		return
	}

	household, err := h.Service.CreateHousehold(r.Context(), req.Code, memberID)
	if err != nil {
		log.WithError(err).Warn("Failed to create household")
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	h.respondWithHousehold(w, claims, household.ID, "owner", household)
}

// JoinHouseholdHandler joins the caller to an existing household.
func (h *HouseholdHandler) JoinHouseholdHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("JoinHouseholdHandler called")
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	code := mux.Vars(r)["id"]

	memberID, err := primitive.ObjectIDFromHex(claims.MemberID)
	if err != nil {
		http.Error(w, "Invalid member id", http.StatusBadRequest)
		return
	}

	household, err := h.Service.JoinHousehold(r.Context(), code, memberID)
	if err != nil {
		log.WithError(err).Warn("Failed to join household")
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	h.respondWithHousehold(w, claims, household.ID, "member", household)
}

// GetHouseholdHandler fetches a household and its member roster.
func (h *HouseholdHandler) GetHouseholdHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("GetHouseholdHandler called")
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	if claims.HouseholdID != id {
		http.Error(w, "Forbidden: not a member of this household", http.StatusForbidden)
		return
	}

	household, members, err := h.Service.GetHouseholdMembers(r.Context(), id)
	if err != nil {
		log.WithError(err).Warn("Failed to fetch household")
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	response := map[string]interface{}{
		"household": household,
		"members":   members,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
