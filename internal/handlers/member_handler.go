package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/madmed-app/madmed-server/internal/config"
	"github.com/madmed-app/madmed-server/internal/models"
	"github.com/madmed-app/madmed-server/internal/services"
	jwtutil "github.com/madmed-app/madmed-server/pkg/jwt"
	"github.com/madmed-app/madmed-server/pkg/middleware"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemberHandler handles HTTP requests related to member accounts.
type MemberHandler struct {
	Service *services.MemberService
	Config  *config.Config
}

// NewMemberHandler creates a new instance of MemberHandler.
func NewMemberHandler(service *services.MemberService, cfg *config.Config) *MemberHandler {
	return &MemberHandler{
		Service: service,
		Config:  cfg,
	}
}

// RegisterMemberHandler handles member registration.
func (h *MemberHandler) RegisterMemberHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("RegisterMemberHandler called")
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Failed to decode registration request")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	member := &models.Member{
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: req.Password,
	}
	created, err := h.Service.RegisterMember(r.Context(), member)
	if err != nil {
		log.WithError(err).Error("Failed to register member")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.WithField("memberID", created.ID.Hex()).Info("Member registered successfully")
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(created)
}

// LoginMemberHandler handles member login.
func (h *MemberHandler) LoginMemberHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("LoginMemberHandler called")
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		log.WithError(err).Warn("Failed to decode login request")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	member, err := h.Service.AuthenticateMember(r.Context(), credentials.Email, credentials.Password)
	if err != nil {
		log.WithField("email", credentials.Email).Warn("Authentication failed")
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	token, err := jwtutil.GenerateToken(member.ID.Hex(), member.Email, member.Role, member.HouseholdID, h.Config.JWTSecret, h.Config.TokenExpiry)
	if err != nil {
		log.WithError(err).Error("Failed to generate JWT token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	log.WithField("memberID", member.ID.Hex()).Info("Member logged in successfully")
	response := map[string]interface{}{
		"token":  token,
		"member": member,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// RegisterPushTokenHandler stores a device push token on the caller's
// member record.
func (h *MemberHandler) RegisterPushTokenHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("RegisterPushTokenHandler called")
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Token string `json:"token"`
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

	if err := h.Service.RegisterPushToken(r.Context(), memberID, req.Token); err != nil {
		log.WithError(err).Error("Failed to register push token")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
