package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/giftregistry/backend/internal/domain"
)

// Store is a thread-safe in-memory registry store.
// Data lives for the lifetime of the process.
type Store struct {
	items map[string]domain.WishlistItem
	gifts map[string]domain.Gift
	mutex sync.RWMutex
}

// NewStore creates a new in-memory registry store
func NewStore() *Store {
	return &Store{
		items: make(map[string]domain.WishlistItem),
		gifts: make(map[string]domain.Gift),
	}
}

// ListItems returns all wishlist items ordered by creation time
func (s *Store) ListItems(ctx context.Context) ([]domain.WishlistItem, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	items := make([]domain.WishlistItem, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})

	return items, nil
}

// GetItem retrieves a wishlist item by id
func (s *Store) GetItem(ctx context.Context, id string) (*domain.WishlistItem, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	item, exists := s.items[id]
	if !exists {
		return nil, domain.ErrItemNotFound
	}
	return &item, nil
}

// CreateItem stores a new wishlist item
func (s *Store) CreateItem(ctx context.Context, item *domain.WishlistItem) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.items[item.ID]; exists {
		return fmt.Errorf("wishlist item %s already exists", item.ID)
	}
	s.items[item.ID] = *item
	return nil
}

// DeleteItem removes a wishlist item
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.items[id]; !exists {
		return domain.ErrItemNotFound
	}
	delete(s.items, id)
	return nil
}

// RecordPurchase flips an available item to purchased and stores the gift
// under the same lock.
func (s *Store) RecordPurchase(ctx context.Context, itemID, purchasedBy, purchaseDate string, gift *domain.Gift) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	item, exists := s.items[itemID]
	if !exists {
		return domain.ErrItemNotFound
	}
	if item.Status != domain.ItemAvailable {
		return domain.ErrItemUnavailable
	}

	item.Status = domain.ItemPurchased
	item.PurchasedBy = purchasedBy
	item.PurchaseDate = purchaseDate
	item.UpdatedAt = time.Now().UTC()
	s.items[itemID] = item
	s.gifts[gift.ID] = *gift

	return nil
}

// ListGifts returns all gifts, newest first
func (s *Store) ListGifts(ctx context.Context) ([]domain.Gift, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	gifts := make([]domain.Gift, 0, len(s.gifts))
	for _, gift := range s.gifts {
		gifts = append(gifts, gift)
	}
	sort.SliceStable(gifts, func(i, j int) bool {
		if gifts[i].CreatedAt.Equal(gifts[j].CreatedAt) {
			return gifts[i].ID > gifts[j].ID
		}
		return gifts[i].CreatedAt.After(gifts[j].CreatedAt)
	})

	return gifts, nil
}

// CreateGift stores a gift
func (s *Store) CreateGift(ctx context.Context, gift *domain.Gift) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.gifts[gift.ID] = *gift
	return nil
}

// Size returns the number of stored items and gifts (for debugging/monitoring)
func (s *Store) Size() (items, gifts int) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.items), len(s.gifts)
}

// Clear removes all items and gifts
func (s *Store) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.items = make(map[string]domain.WishlistItem)
	s.gifts = make(map[string]domain.Gift)
}
