package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cardfolio/backend/models"
	"github.com/cardfolio/backend/repositories"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CardRepository implements the repositories.CardRepository interface
type CardRepository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewCardRepository creates a new card repository
func NewCardRepository(db *DB, logger *zap.Logger) repositories.CardRepository {
	return &CardRepository{
		coll:   db.Collection(models.Card{}.CollectionName()),
		logger: logger,
	}
}

// List retrieves a page of card summaries, newest first. Pagination is
// cursor-based on _id: the cursor is the last _id of the previous page and
// the query fetches pageSize+1 rows to detect whether more remain.
func (r *CardRepository) List(ctx context.Context, opts repositories.CardListOptions) (*repositories.CardPage, error) {
	pageSize := opts.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filter := bson.M{}
	if opts.UserID != nil {
		filter["userId"] = *opts.UserID
	}
	if opts.Cursor != nil {
		filter["_id"] = bson.M{"$lt": *opts.Cursor}
	}

	findOpts := options.Find().
		SetSort(bson.M{"_id": -1}).
		SetLimit(int64(pageSize + 1)).
		SetProjection(bson.M{
			"_id":          1,
			"name":         1,
			"title":        1,
			"company":      1,
			"profileImage": 1,
			"cardType":     1,
			"createdAt":    1,
		})

	cur, err := r.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer cur.Close(ctx)

	var items []*models.CardSummary
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cards: %w", err)
	}

	page := &repositories.CardPage{HasMore: len(items) > pageSize}
	if page.HasMore {
		items = items[:pageSize]
	}
	page.Data = items
	if page.HasMore && len(items) > 0 {
		page.NextCursor = items[len(items)-1].ID.Hex()
	}
	return page, nil
}

// GetByID retrieves a card by ID
func (r *CardRepository) GetByID(ctx context.Context, id bson.ObjectID) (*models.Card, error) {
	card := &models.Card{}
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(card)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return card, nil
}

// Create inserts a new card and backfills its assigned ID
func (r *CardRepository) Create(ctx context.Context, card *models.Card) error {
	now := time.Now()
	card.CreatedAt = now
	card.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, card)
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}

	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		card.ID = oid
	}

	r.logger.Debug("card created",
		zap.String("id", card.ID.Hex()),
		zap.String("user_id", card.UserID.Hex()))
	return nil
}

// Update applies a partial $set update and returns the new document
func (r *CardRepository) Update(ctx context.Context, id bson.ObjectID, fields map[string]any) (*models.Card, error) {
	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	card := &models.Card{}
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(card)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update card: %w", err)
	}
	return card, nil
}

// UpdateVisibility sets the card's visibility
func (r *CardRepository) UpdateVisibility(ctx context.Context, id bson.ObjectID, visibility models.CardVisibility) (models.CardVisibility, error) {
	card, err := r.Update(ctx, id, map[string]any{"visibility": visibility})
	if err != nil {
		return "", err
	}
	return card.Visibility, nil
}

// Delete removes a card
func (r *CardRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}

	r.logger.Debug("card deleted", zap.String("id", id.Hex()))
	return nil
}
