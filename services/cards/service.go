// Package cards implements the business card CRUD operations.
package cards

import (
	"context"
	"errors"

	"github.com/cardfolio/backend/models"
	"github.com/cardfolio/backend/repositories"
	"github.com/cardfolio/backend/services"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

// Service handles card operations on top of the card repository
type Service struct {
	repo   repositories.CardRepository
	logger *zap.Logger
}

// NewService creates a new card Service
func NewService(repo repositories.CardRepository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListInput controls a card listing
type ListInput struct {
	UserID string
	Limit  int
	Cursor string
}

// List returns a page of card summaries, newest first
func (s *Service) List(ctx context.Context, in ListInput) (*repositories.CardPage, error) {
	opts := repositories.CardListOptions{PageSize: in.Limit}

	if in.UserID != "" {
		uid, err := bson.ObjectIDFromHex(in.UserID)
		if err != nil {
			return nil, services.ErrInvalidObjectID
		}
		opts.UserID = &uid
	}
	if in.Cursor != "" {
		cur, err := bson.ObjectIDFromHex(in.Cursor)
		if err != nil {
			return nil, services.ErrInvalidCursor
		}
		opts.Cursor = &cur
	}

	page, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, services.NewDomainError(services.ErrorTypeInternal, "failed to list cards", err)
	}
	return page, nil
}

// GetByID returns a single card
func (s *Service) GetByID(ctx context.Context, id string) (*models.Card, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, services.ErrInvalidObjectID
	}

	card, err := s.repo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrCardNotFound
		}
		return nil, services.NewDomainError(services.ErrorTypeInternal, "failed to get card", err)
	}
	return card, nil
}

// Create persists a new card for the given owner
func (s *Service) Create(ctx context.Context, userID string, card *models.Card) (*models.Card, error) {
	uid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, services.ErrInvalidObjectID
	}
	card.UserID = uid

	if card.Visibility == "" {
		card.Visibility = models.VisibilityPrivate
	}
	if card.Variant == "" {
		card.Variant = models.VariantMinimal
	}

	if err := s.repo.Create(ctx, card); err != nil {
		return nil, services.NewDomainError(services.ErrorTypeInternal, "failed to create card", err)
	}

	s.logger.Info("card created",
		zap.String("card_id", card.ID.Hex()),
		zap.String("user_id", uid.Hex()))
	return card, nil
}

// Update applies a partial update to a card
func (s *Service) Update(ctx context.Context, id string, fields map[string]any) (*models.Card, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, services.ErrInvalidObjectID
	}
	if len(fields) == 0 {
		return nil, services.ErrInvalidInput
	}

	card, err := s.repo.Update(ctx, oid, fields)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrCardNotFound
		}
		return nil, services.NewDomainError(services.ErrorTypeInternal, "failed to update card", err)
	}
	return card, nil
}

// UpdateVisibility flips a card between public and private
func (s *Service) UpdateVisibility(ctx context.Context, id string, visibility string) (models.CardVisibility, error) {
	v := models.CardVisibility(visibility)
	if v != models.VisibilityPublic && v != models.VisibilityPrivate {
		return "", services.ErrInvalidVisibility
	}

	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return "", services.ErrInvalidObjectID
	}

	updated, err := s.repo.UpdateVisibility(ctx, oid, v)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", services.ErrCardNotFound
		}
		return "", services.NewDomainError(services.ErrorTypeInternal, "failed to update card visibility", err)
	}
	return updated, nil
}

// Delete removes a card
func (s *Service) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return services.ErrInvalidObjectID
	}

	if err := s.repo.Delete(ctx, oid); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return services.ErrCardNotFound
		}
		return services.NewDomainError(services.ErrorTypeInternal, "failed to delete card", err)
	}

	s.logger.Info("card deleted", zap.String("card_id", id))
	return nil
}
