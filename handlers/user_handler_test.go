package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cardfolio/backend/middleware"
	"github.com/cardfolio/backend/models"
	"github.com/cardfolio/backend/repositories"
	"github.com/cardfolio/backend/services/tokens"
	"github.com/cardfolio/backend/services/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newUserHandler(cache *MockTokenCache, repo *MockUserRepository) *UserHandler {
	logger := zap.NewNop()
	issuer := tokens.NewIssuer(cache, repo, time.Hour, logger)
	return NewUserHandler(users.NewService(issuer, logger), logger)
}

func TestHandleRegister(t *testing.T) {
	registerBody := func() []byte {
		body, _ := json.Marshal(RegisterRequest{
			Name:     "Ada Lovelace",
			Email:    "ada@example.com",
			Provider: "google",
		})
		return body
	}

	t.Run("first contact creates the account and returns 201", func(t *testing.T) {
		cache := new(MockTokenCache)
		repo := new(MockUserRepository)
		repo.On("UpsertToken", mock.Anything, "ada@example.com", mock.Anything).
			Return(nil, repositories.ErrNotFound)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		cache.On("Set", mock.Anything, mock.Anything, mock.Anything, time.Hour).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/users/add", bytes.NewReader(registerBody()))
		w := httptest.NewRecorder()
		newUserHandler(cache, repo).HandleRegister(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Data RegisterResponse `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ada@example.com", resp.Data.Email)
		assert.NotEmpty(t, resp.Data.AccessToken)
		repo.AssertExpectations(t)
	})

	t.Run("repeat registration returns the live token with 200", func(t *testing.T) {
		cache := new(MockTokenCache)
		repo := new(MockUserRepository)
		existing := models.NewUser("ada@example.com", "Ada Lovelace", "", models.ProviderGoogle)
		existing.AccessToken = "live-token"
		repo.On("UpsertToken", mock.Anything, "ada@example.com", mock.Anything).
			Return(existing, nil)
		cache.On("Get", mock.Anything, "token:live-token").Return("live-token", nil)

		req := httptest.NewRequest(http.MethodPost, "/users/add", bytes.NewReader(registerBody()))
		w := httptest.NewRecorder()
		newUserHandler(cache, repo).HandleRegister(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data RegisterResponse `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "live-token", resp.Data.AccessToken)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("bad email fails validation", func(t *testing.T) {
		cache := new(MockTokenCache)
		repo := new(MockUserRepository)

		body, _ := json.Marshal(RegisterRequest{Name: "Ada", Email: "not-an-email"})
		req := httptest.NewRequest(http.MethodPost, "/users/add", bytes.NewReader(body))
		w := httptest.NewRecorder()
		newUserHandler(cache, repo).HandleRegister(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Email must be a valid email")
		repo.AssertNotCalled(t, "UpsertToken")
	})

	t.Run("store failure is a 500", func(t *testing.T) {
		cache := new(MockTokenCache)
		repo := new(MockUserRepository)
		repo.On("UpsertToken", mock.Anything, "ada@example.com", mock.Anything).
			Return(nil, assert.AnError)

		req := httptest.NewRequest(http.MethodPost, "/users/add", bytes.NewReader(registerBody()))
		w := httptest.NewRecorder()
		newUserHandler(cache, repo).HandleRegister(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHandleLogout(t *testing.T) {
	t.Run("revokes the verified token", func(t *testing.T) {
		cache := new(MockTokenCache)
		repo := new(MockUserRepository)
		cache.On("Delete", mock.Anything, "token:tok-1").Return(nil)
		repo.On("ClearToken", mock.Anything, "tok-1").Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/users/logout", nil)
		req = req.WithContext(middleware.WithAccessToken(req.Context(), "tok-1"))
		w := httptest.NewRecorder()
		newUserHandler(cache, repo).HandleLogout(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Logged out"}`, w.Body.String())
		cache.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("missing token is a 401", func(t *testing.T) {
		cache := new(MockTokenCache)
		repo := new(MockUserRepository)

		req := httptest.NewRequest(http.MethodPost, "/users/logout", nil)
		w := httptest.NewRecorder()
		newUserHandler(cache, repo).HandleLogout(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		repo.AssertNotCalled(t, "ClearToken")
	})

	t.Run("partial revoke failure is a 500", func(t *testing.T) {
		cache := new(MockTokenCache)
		repo := new(MockUserRepository)
		cache.On("Delete", mock.Anything, "token:tok-1").Return(assert.AnError)
		repo.On("ClearToken", mock.Anything, "tok-1").Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/users/logout", nil)
		req = req.WithContext(middleware.WithAccessToken(req.Context(), "tok-1"))
		w := httptest.NewRecorder()
		newUserHandler(cache, repo).HandleLogout(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		repo.AssertExpectations(t)
	})
}
