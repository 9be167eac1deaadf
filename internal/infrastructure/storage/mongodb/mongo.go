package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/giftregistry/backend/internal/domain"
	"github.com/giftregistry/backend/pkg/logger"
)

const (
	itemsCollection = "wishlist_items"
	giftsCollection = "gifts"
)

// Store is a MongoDB-backed registry store
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// New connects to MongoDB and pings the primary.
func New(ctx context.Context, uri, database string, log *zap.Logger) (*Store, error) {
	log = logger.OrNop(log).Named("mongodb")

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Info("Connected to MongoDB", zap.String("database", database))

	return &Store{
		client: client,
		db:     client.Database(database),
		logger: log,
	}, nil
}

// Disconnect closes the MongoDB connection
func (s *Store) Disconnect() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info("Closing MongoDB connection")
	return s.client.Disconnect(ctx)
}

func (s *Store) items() *mongo.Collection {
	return s.db.Collection(itemsCollection)
}

func (s *Store) gifts() *mongo.Collection {
	return s.db.Collection(giftsCollection)
}

// ListItems returns all wishlist items ordered by creation time
func (s *Store) ListItems(ctx context.Context) ([]domain.WishlistItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.items().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find items: %w", err)
	}
	defer cursor.Close(ctx)

	items := []domain.WishlistItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode items: %w", err)
	}
	return items, nil
}

// GetItem retrieves a wishlist item by id
func (s *Store) GetItem(ctx context.Context, id string) (*domain.WishlistItem, error) {
	var item domain.WishlistItem
	err := s.items().FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find item: %w", err)
	}
	return &item, nil
}

// CreateItem inserts a wishlist item
func (s *Store) CreateItem(ctx context.Context, item *domain.WishlistItem) error {
	if _, err := s.items().InsertOne(ctx, item); err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

// DeleteItem removes a wishlist item
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	res, err := s.items().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// illegalOperation is the server code for a transaction started on a
// standalone mongod.
const illegalOperation = 20

// RecordPurchase marks the item purchased and inserts the gift in one
// transaction. Standalone servers have no transactions; there the status
// update is undone when the gift insert fails.
func (s *Store) RecordPurchase(ctx context.Context, itemID, purchasedBy, purchaseDate string, gift *domain.Gift) error {
	err := s.client.UseSession(ctx, func(sc mongo.SessionContext) error {
		_, err := sc.WithTransaction(sc, func(tc mongo.SessionContext) (interface{}, error) {
			if err := s.markPurchased(tc, itemID, purchasedBy, purchaseDate); err != nil {
				return nil, err
			}
			return nil, s.CreateGift(tc, gift)
		})
		return err
	})
	if !transactionsUnsupported(err) {
		return err
	}

	s.logger.Debug("transactions unavailable, recording purchase with undo", zap.String("item_id", itemID))
	return s.recordPurchaseWithUndo(ctx, itemID, purchasedBy, purchaseDate, gift)
}

func (s *Store) recordPurchaseWithUndo(ctx context.Context, itemID, purchasedBy, purchaseDate string, gift *domain.Gift) error {
	if err := s.markPurchased(ctx, itemID, purchasedBy, purchaseDate); err != nil {
		return err
	}

	insertErr := s.CreateGift(ctx, gift)
	if insertErr == nil {
		return nil
	}

	if err := s.undoPurchase(context.WithoutCancel(ctx), itemID, purchasedBy); err != nil {
		s.logger.Error("purchase undo failed", zap.String("item_id", itemID), zap.Error(err))
	}
	return insertErr
}

// markPurchased flips the item to purchased with a filter on the available
// status. Only one concurrent buyer can match.
func (s *Store) markPurchased(ctx context.Context, itemID, purchasedBy, purchaseDate string) error {
	filter := bson.M{"_id": itemID, "status": domain.ItemAvailable}
	update := bson.M{"$set": bson.M{
		"status":        domain.ItemPurchased,
		"purchased_by":  purchasedBy,
		"purchase_date": purchaseDate,
		"updated_at":    time.Now().UTC(),
	}}

	res, err := s.items().UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	count, err := s.items().CountDocuments(ctx, bson.M{"_id": itemID})
	if err != nil {
		return fmt.Errorf("failed to check item: %w", err)
	}
	if count == 0 {
		return domain.ErrItemNotFound
	}
	return domain.ErrItemUnavailable
}

func (s *Store) undoPurchase(ctx context.Context, itemID, purchasedBy string) error {
	filter := bson.M{"_id": itemID, "status": domain.ItemPurchased, "purchased_by": purchasedBy}
	update := bson.M{
		"$set":   bson.M{"status": domain.ItemAvailable, "updated_at": time.Now().UTC()},
		"$unset": bson.M{"purchased_by": "", "purchase_date": ""},
	}
	if _, err := s.items().UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to restore item: %w", err)
	}
	return nil
}

func transactionsUnsupported(err error) bool {
	var cmdErr mongo.CommandError
	return errors.As(err, &cmdErr) && cmdErr.Code == illegalOperation
}

// ListGifts returns all gifts, newest first
func (s *Store) ListGifts(ctx context.Context) ([]domain.Gift, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.gifts().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find gifts: %w", err)
	}
	defer cursor.Close(ctx)

	gifts := []domain.Gift{}
	if err := cursor.All(ctx, &gifts); err != nil {
		return nil, fmt.Errorf("failed to decode gifts: %w", err)
	}
	return gifts, nil
}

// CreateGift inserts a gift
func (s *Store) CreateGift(ctx context.Context, gift *domain.Gift) error {
	if _, err := s.gifts().InsertOne(ctx, gift); err != nil {
		return fmt.Errorf("failed to insert gift: %w", err)
	}
	return nil
}
