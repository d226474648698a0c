package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cardfolio/backend/models"
	"github.com/cardfolio/backend/repositories"
	"github.com/cardfolio/backend/services/cards"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

func newCardRouter(repo repositories.CardRepository) http.Handler {
	logger := zap.NewNop()
	h := NewCardHandler(cards.NewService(repo, logger), logger)

	r := chi.NewRouter()
	r.Get("/cards", h.HandleList)
	r.Get("/cards/{id}", h.HandleGet)
	r.Post("/cards/create", h.HandleCreate)
	r.Put("/cards/update/{id}", h.HandleUpdate)
	r.Put("/cards/update/visibility/{id}", h.HandleUpdateVisibility)
	r.Delete("/cards/delete/{id}", h.HandleDelete)
	return r
}

func TestHandleList(t *testing.T) {
	t.Run("returns a page of summaries", func(t *testing.T) {
		repo := new(MockCardRepository)
		repo.On("List", mock.Anything, mock.Anything).Return(&repositories.CardPage{
			Data:    []*models.CardSummary{{Name: "Ada Lovelace", Title: "Engineer"}},
			HasMore: false,
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/cards?limit=10", nil)
		w := httptest.NewRecorder()
		newCardRouter(repo).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Ada Lovelace")
		repo.AssertExpectations(t)
	})

	t.Run("non numeric limit is a 400", func(t *testing.T) {
		repo := new(MockCardRepository)

		req := httptest.NewRequest(http.MethodGet, "/cards?limit=lots", nil)
		w := httptest.NewRecorder()
		newCardRouter(repo).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		repo.AssertNotCalled(t, "List")
	})

	t.Run("bad cursor is a 400", func(t *testing.T) {
		repo := new(MockCardRepository)

		req := httptest.NewRequest(http.MethodGet, "/cards?cursor=zzz", nil)
		w := httptest.NewRecorder()
		newCardRouter(repo).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleGet(t *testing.T) {
	t.Run("returns the card", func(t *testing.T) {
		id := bson.NewObjectID()
		repo := new(MockCardRepository)
		repo.On("GetByID", mock.Anything, id).Return(&models.Card{ID: id, Name: "Ada"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/cards/"+id.Hex(), nil)
		w := httptest.NewRecorder()
		newCardRouter(repo).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), id.Hex())
	})

	t.Run("malformed id is a 400", func(t *testing.T) {
		repo := new(MockCardRepository)

		req := httptest.NewRequest(http.MethodGet, "/cards/not-hex", nil)
		w := httptest.NewRecorder()
		newCardRouter(repo).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		repo.AssertNotCalled(t, "GetByID")
	})

	t.Run("unknown card is a 404", func(t *testing.T) {
		id := bson.NewObjectID()
		repo := new(MockCardRepository)
		repo.On("GetByID", mock.Anything, id).Return(nil, repositories.ErrNotFound)

		req := httptest.NewRequest(http.MethodGet, "/cards/"+id.Hex(), nil)
		w := httptest.NewRecorder()
		newCardRouter(repo).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandleCreate(t *testing.T) {
	userID := bson.NewObjectID()

	t.Run("creates a card with the variant defaulted", func(t *testing.T) {
		repo := new(MockCardRepository)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Card) bool {
			return c.Name == "Ada Lovelace" &&
				c.UserID == userID &&
				c.Visibility == models.VisibilityPrivate &&
				c.Variant == models.VariantMinimal
		})).Return(nil)

		body, _ := json.Marshal(CreateCardRequest{
			Name:       "Ada Lovelace",
			Title:      "Engineer",
			CardType:   "engineering",
			Visibility: "private",
			UserID:     userID.Hex(),
		})
		req := httptest.NewRequest(http.MethodPost, "/cards/create", bytes.NewReader(body))
		w := httptest.NewRecorder()
		newCardRouter(repo).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		repo.AssertExpectations(t)
	})

	t.Run("missing name fails validation", func(t *testing.T) {
		repo := new(MockCardRepository)

		body, _ := json.Marshal(CreateCardRequest{UserID: userID.Hex()})
		req := httptest.NewRequest(http.MethodPost, "/cards/create", bytes.NewReader(body))
		w := httptest.NewRecorder()
		newCardRouter(repo).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Name is required")
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("unknown card type fails validation", func(t *testing.T) {
		repo := new(MockCardRepository)

		body, _ := json.Marshal(CreateCardRequest{
			Name:       "Ada",
			Title:      "Engineer",
			CardType:   "wizard",
			Visibility: "private",
			UserID:     userID.Hex(),
		})
		req := httptest.NewRequest(http.MethodPost, "/cards/create", bytes.NewReader(body))
		w := httptest.NewRecorder()
		newCardRouter(repo).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("invalid json body is a 400", func(t *testing.T) {
		repo := new(MockCardRepository)

		req := httptest.NewRequest(http.MethodPost, "/cards/create", bytes.NewReader([]byte("{")))
		w := httptest.NewRecorder()
		newCardRouter(repo).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleUpdate(t *testing.T) {
	id := bson.NewObjectID()

	t.Run("passes only allowed fields through", func(t *testing.T) {
		repo := new(MockCardRepository)
		repo.On("Update", mock.Anything, id, map[string]any{
			"title": "Staff Engineer",
			"bio":   "still shipping",
		}).Return(&models.Card{ID: id, Title: "Staff Engineer"}, nil)

		body := []byte(`{"title":"Staff Engineer","bio":"still shipping","userId":"evil","visibility":"public"}`)
		req := httptest.NewRequest(http.MethodPut, "/cards/update/"+id.Hex(), bytes.NewReader(body))
		w := httptest.NewRecorder()
		newCardRouter(repo).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		repo.AssertExpectations(t)
	})

	t.Run("body with no updatable fields is a 400", func(t *testing.T) {
		repo := new(MockCardRepository)

		body := []byte(`{"userId":"evil"}`)
		req := httptest.NewRequest(http.MethodPut, "/cards/update/"+id.Hex(), bytes.NewReader(body))
		w := httptest.NewRecorder()
		newCardRouter(repo).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		repo.AssertNotCalled(t, "Update")
	})
}

func TestHandleUpdateVisibility(t *testing.T) {
	id := bson.NewObjectID()

	t.Run("flips visibility", func(t *testing.T) {
		repo := new(MockCardRepository)
		repo.On("UpdateVisibility", mock.Anything, id, models.VisibilityPublic).
			Return(models.VisibilityPublic, nil)

		body := []byte(`{"visibility":"public"}`)
		req := httptest.NewRequest(http.MethodPut, "/cards/update/visibility/"+id.Hex(), bytes.NewReader(body))
		w := httptest.NewRecorder()
		newCardRouter(repo).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":{"visibility":"public"}}`, w.Body.String())
	})

	t.Run("rejects values outside the enum", func(t *testing.T) {
		repo := new(MockCardRepository)

		body := []byte(`{"visibility":"unlisted"}`)
		req := httptest.NewRequest(http.MethodPut, "/cards/update/visibility/"+id.Hex(), bytes.NewReader(body))
		w := httptest.NewRecorder()
		newCardRouter(repo).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		repo.AssertNotCalled(t, "UpdateVisibility")
	})
}

func TestHandleDelete(t *testing.T) {
	id := bson.NewObjectID()

	t.Run("deletes and confirms", func(t *testing.T) {
		repo := new(MockCardRepository)
		repo.On("Delete", mock.Anything, id).Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/cards/delete/"+id.Hex(), nil)
		w := httptest.NewRecorder()
		newCardRouter(repo).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Card deleted"}`, w.Body.String())
	})

	t.Run("unknown card is a 404", func(t *testing.T) {
		repo := new(MockCardRepository)
		repo.On("Delete", mock.Anything, id).Return(repositories.ErrNotFound)

		req := httptest.NewRequest(http.MethodDelete, "/cards/delete/"+id.Hex(), nil)
		w := httptest.NewRecorder()
		newCardRouter(repo).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
