package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cardfolio/backend/models"
	"github.com/cardfolio/backend/services/cards"
	"github.com/cardfolio/backend/utils"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CardHandler handles card HTTP requests
type CardHandler struct {
	cards  *cards.Service
	logger *zap.Logger
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(cards *cards.Service, logger *zap.Logger) *CardHandler {
	return &CardHandler{
		cards:  cards,
		logger: logger,
	}
}

// CreateCardRequest is the request body for POST /api/v1/cards/create
type CreateCardRequest struct {
	Name            string               `json:"name" validate:"required,min=1,max=50"`
	Title           string               `json:"title" validate:"required,max=100"`
	CardType        string               `json:"card_type" validate:"required,oneof=business developer role portfolio personal marketing sales engineering design product other"`
	Visibility      string               `json:"visibility" validate:"required,oneof=public private"`
	Variant         string               `json:"variant" validate:"omitempty,oneof=minimal modern engineer marketing ceo company"`
	Company         *models.Company      `json:"company"`
	Emails          []models.CardEmail   `json:"emails"`
	Phones          []models.CardPhone   `json:"phones"`
	Bio             string               `json:"bio" validate:"max=500"`
	ProfileImage    *models.ProfileImage `json:"profile_image"`
	SocialLinks     []models.SocialLink  `json:"social_links"`
	Address         string               `json:"address" validate:"max=200"`
	Theme           string               `json:"theme"`
	BackgroundImage *models.Image        `json:"background_image"`
	UserID          string               `json:"user_id" validate:"required"`
}

// UpdateVisibilityRequest is the request body for the visibility toggle
type UpdateVisibilityRequest struct {
	Visibility string `json:"visibility" validate:"required,oneof=public private"`
}

// updatableCardFields maps JSON field names to their stored keys. Fields not
// listed here are silently dropped from partial updates; visibility has its
// own endpoint and ownership fields are never client-writable.
var updatableCardFields = map[string]string{
	"name":             "name",
	"title":            "title",
	"card_type":        "cardType",
	"variant":          "variant",
	"company":          "company",
	"emails":           "emails",
	"phones":           "phones",
	"bio":              "bio",
	"profile_image":    "profileImage",
	"social_links":     "socialLinks",
	"address":          "address",
	"theme":            "theme",
	"background_image": "backgroundImage",
}

// HandleList handles GET /api/v1/cards
func (h *CardHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	in := cards.ListInput{
		UserID: r.URL.Query().Get("user_id"),
		Cursor: r.URL.Query().Get("cursor"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			_ = utils.WriteBadRequest(w, "limit must be an integer", nil)
			return
		}
		in.Limit = limit
	}

	page, err := h.cards.List(r.Context(), in)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, page)
}

// HandleGet handles GET /api/v1/cards/{id}
func (h *CardHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	card, err := h.cards.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, card)
}

// HandleCreate handles POST /api/v1/cards/create
func (h *CardHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	card := &models.Card{
		Name:            req.Name,
		Title:           req.Title,
		CardType:        models.CardType(req.CardType),
		Visibility:      models.CardVisibility(req.Visibility),
		Variant:         models.CardVariant(req.Variant),
		Company:         req.Company,
		Emails:          req.Emails,
		Phones:          req.Phones,
		Bio:             req.Bio,
		ProfileImage:    req.ProfileImage,
		SocialLinks:     req.SocialLinks,
		Address:         req.Address,
		Theme:           req.Theme,
		BackgroundImage: req.BackgroundImage,
	}

	created, err := h.cards.Create(r.Context(), req.UserID, card)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteCreated(w, created)
}

// HandleUpdate handles PUT /api/v1/cards/update/{id}
func (h *CardHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	fields := make(map[string]any, len(body))
	for name, value := range body {
		if key, ok := updatableCardFields[name]; ok {
			fields[key] = value
		}
	}

	card, err := h.cards.Update(r.Context(), chi.URLParam(r, "id"), fields)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, card)
}

// HandleUpdateVisibility handles PUT /api/v1/cards/update/visibility/{id}
func (h *CardHandler) HandleUpdateVisibility(w http.ResponseWriter, r *http.Request) {
	var req UpdateVisibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	visibility, err := h.cards.UpdateVisibility(r.Context(), chi.URLParam(r, "id"), req.Visibility)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, map[string]string{"visibility": string(visibility)})
}

// HandleDelete handles DELETE /api/v1/cards/delete/{id}
func (h *CardHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.cards.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse{Message: "Card deleted"})
}
