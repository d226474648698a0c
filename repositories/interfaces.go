package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/cardfolio/backend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Sentinel errors shared by all repository implementations
var (
	// ErrNotFound is returned when a document does not exist
	ErrNotFound = errors.New("document not found")

	// ErrDuplicate is returned when a unique constraint is violated
	ErrDuplicate = errors.New("duplicate document")

	// ErrCacheMiss is returned by TokenCache.Get when the key is absent or expired
	ErrCacheMiss = errors.New("cache miss")
)

// TokenCache is a key-value store with per-key TTL used as a non-authoritative
// lookaside for bearer tokens.
//
// Serialization contract: values are plain strings. The token cache stores the
// raw token under "token:<token>"; an entry's presence is the hint, so no
// structured record is kept. A missing or expired key yields ErrCacheMiss; any
// other error means the cache is unreachable and callers are expected to fall
// back to the authoritative store.
type TokenCache interface {
	// Get retrieves a value. Returns ErrCacheMiss when the key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value with a TTL
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// UserRepository handles user/credential document operations.
// It is the source of truth for token validity.
type UserRepository interface {
	// FindByToken retrieves the user holding the given bearer token.
	// Returns ErrNotFound when no user holds it.
	FindByToken(ctx context.Context, token string) (*models.User, error)

	// Create inserts a new user. Returns ErrDuplicate when the email is taken.
	Create(ctx context.Context, user *models.User) error

	// UpsertToken atomically assigns token to the user identified by email
	// unless a token is already set, and returns the resulting document.
	// Concurrent callers for the same email all observe the same winning
	// token. Returns ErrNotFound when the user does not exist.
	UpsertToken(ctx context.Context, email, token string) (*models.User, error)

	// ClearToken unsets the token field on whichever user holds token.
	// Clearing a token nobody holds is not an error.
	ClearToken(ctx context.Context, token string) error
}

// CardListOptions controls card listing queries
type CardListOptions struct {
	UserID   *bson.ObjectID
	PageSize int
	Cursor   *bson.ObjectID
}

// CardPage is one page of a card listing
type CardPage struct {
	Data       []*models.CardSummary `json:"data"`
	NextCursor string                `json:"next_cursor,omitempty"`
	HasMore    bool                  `json:"has_more"`
}

// CardRepository handles card document operations
type CardRepository interface {
	// List retrieves a page of card summaries, newest first
	List(ctx context.Context, opts CardListOptions) (*CardPage, error)

	// GetByID retrieves a card by ID. Returns ErrNotFound when absent.
	GetByID(ctx context.Context, id bson.ObjectID) (*models.Card, error)

	// Create inserts a new card and returns it with its assigned ID
	Create(ctx context.Context, card *models.Card) error

	// Update applies a partial update and returns the new document.
	// Returns ErrNotFound when absent.
	Update(ctx context.Context, id bson.ObjectID, fields map[string]any) (*models.Card, error)

	// UpdateVisibility sets the card's visibility and returns the new value.
	// Returns ErrNotFound when absent.
	UpdateVisibility(ctx context.Context, id bson.ObjectID, visibility models.CardVisibility) (models.CardVisibility, error)

	// Delete removes a card. Returns ErrNotFound when absent.
	Delete(ctx context.Context, id bson.ObjectID) error
}
