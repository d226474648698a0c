package handlers

import (
	"context"
	"time"

	"github.com/cardfolio/backend/models"
	"github.com/cardfolio/backend/repositories"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// MockCardRepository is a mock implementation of repositories.CardRepository
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) List(ctx context.Context, opts repositories.CardListOptions) (*repositories.CardPage, error) {
	args := m.Called(ctx, opts)
	if page := args.Get(0); page != nil {
		return page.(*repositories.CardPage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCardRepository) GetByID(ctx context.Context, id bson.ObjectID) (*models.Card, error) {
	args := m.Called(ctx, id)
	if card := args.Get(0); card != nil {
		return card.(*models.Card), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCardRepository) Create(ctx context.Context, card *models.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) Update(ctx context.Context, id bson.ObjectID, fields map[string]any) (*models.Card, error) {
	args := m.Called(ctx, id, fields)
	if card := args.Get(0); card != nil {
		return card.(*models.Card), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCardRepository) UpdateVisibility(ctx context.Context, id bson.ObjectID, visibility models.CardVisibility) (models.CardVisibility, error) {
	args := m.Called(ctx, id, visibility)
	return args.Get(0).(models.CardVisibility), args.Error(1)
}

func (m *MockCardRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpsertToken(ctx context.Context, email, token string) (*models.User, error) {
	args := m.Called(ctx, email, token)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) ClearToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// MockTokenCache is a mock implementation of repositories.TokenCache
type MockTokenCache struct {
	mock.Mock
}

func (m *MockTokenCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockTokenCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockTokenCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
