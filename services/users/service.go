// Package users implements account registration and logout on top of the
// credential issuer.
package users

import (
	"context"

	"github.com/cardfolio/backend/models"
	"github.com/cardfolio/backend/services/tokens"
	"go.uber.org/zap"
)

// Service handles the user-facing flows that touch credentials
type Service struct {
	issuer *tokens.Issuer
	logger *zap.Logger
}

// NewService creates a new user Service
func NewService(issuer *tokens.Issuer, logger *zap.Logger) *Service {
	return &Service{
		issuer: issuer,
		logger: logger,
	}
}

// RegisterInput is the validated registration payload
type RegisterInput struct {
	Name      string
	Email     string
	Image     string
	Provider  string
	CardCount int
	IsActive  bool
}

// RegisterResult reports whether an account was created and its live token
type RegisterResult struct {
	User    *models.User
	Token   string
	Created bool
}

// Register ensures an account exists for the email and returns its live
// bearer token. Idempotent per email: repeated calls return the same token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	profile := models.NewUser(in.Email, in.Name, in.Image, models.AuthProvider(in.Provider))
	profile.CardCount = in.CardCount
	profile.IsActive = in.IsActive

	res, err := s.issuer.Issue(ctx, profile)
	if err != nil {
		return nil, err
	}

	return &RegisterResult{
		User:    res.User,
		Token:   res.Token,
		Created: res.Created,
	}, nil
}

// Logout revokes the presented bearer token on both cache and store
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.issuer.Revoke(ctx, token)
}
