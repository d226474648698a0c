package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cardfolio/backend/middleware"
	"github.com/cardfolio/backend/services/users"
	"github.com/cardfolio/backend/utils"
	"go.uber.org/zap"
)

// UserHandler handles user HTTP requests
type UserHandler struct {
	users  *users.Service
	logger *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *users.Service, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
	}
}

// RegisterRequest is the request body for POST /api/v1/users/add
type RegisterRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=120"`
	Email     string `json:"email" validate:"required,email"`
	Image     string `json:"image" validate:"omitempty,url"`
	Provider  string `json:"provider" validate:"omitempty,oneof=google github credentials"`
	CardCount int    `json:"card_count" validate:"gte=0"`
	IsActive  bool   `json:"is_active"`
}

// RegisterResponse reports the account and its live bearer token
type RegisterResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	AccessToken string `json:"accessToken"`
}

// HandleRegister handles POST /api/v1/users/add. Idempotent per email:
// a repeat call returns the existing account with its live token.
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	res, err := h.users.Register(r.Context(), users.RegisterInput{
		Name:      req.Name,
		Email:     req.Email,
		Image:     req.Image,
		Provider:  req.Provider,
		CardCount: req.CardCount,
		IsActive:  req.IsActive,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	response := RegisterResponse{
		ID:          res.User.ID.Hex(),
		Email:       res.User.Email,
		Name:        res.User.Name,
		AccessToken: res.Token,
	}

	if res.Created {
		_ = utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse{
			Data:    response,
			Message: "User saved",
		})
		return
	}
	_ = utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse{
		Data:    response,
		Message: "User already exists",
	})
}

// HandleLogout handles POST /api/v1/users/logout. The token being revoked is
// the one the auth middleware already verified for this request.
func (h *UserHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetAccessTokenFromContext(r.Context())
	if token == "" {
		_ = utils.WriteUnauthorized(w, "Unauthorized")
		return
	}

	if err := h.users.Logout(r.Context(), token); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse{Message: "Logged out"})
}
