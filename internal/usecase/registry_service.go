package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/giftregistry/backend/internal/domain"
	"github.com/giftregistry/backend/internal/infrastructure/metrics"
	"github.com/giftregistry/backend/pkg/logger"
)

// RegistryService manages wishlist items and the gifts guests send
type RegistryService struct {
	repo    domain.RegistryRepository
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewRegistryService creates a new registry service with dependencies
func NewRegistryService(repo domain.RegistryRepository, log *zap.Logger, m *metrics.Metrics) *RegistryService {
	return &RegistryService{
		repo:    repo,
		logger:  logger.OrNop(log).Named("registry"),
		metrics: m,
		now:     time.Now,
	}
}

// ListWishlist returns every wishlist item, oldest first
func (s *RegistryService) ListWishlist(ctx context.Context) ([]domain.WishlistItem, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, storageError("list wishlist", err)
	}
	return items, nil
}

// AvailableItems returns the wishlist items guests can still buy
func (s *RegistryService) AvailableItems(ctx context.Context) ([]domain.WishlistItem, error) {
	items, err := s.ListWishlist(ctx)
	if err != nil {
		return nil, err
	}

	available := make([]domain.WishlistItem, 0, len(items))
	for _, item := range items {
		if item.Status == domain.ItemAvailable {
			available = append(available, item)
		}
	}
	return available, nil
}

// AddWishlistItem stores a new available item. The store is derived from the
// URL when the request leaves it blank.
func (s *RegistryService) AddWishlistItem(ctx context.Context, req *domain.NewWishlistItemRequest) (*domain.WishlistItem, error) {
	if req == nil || strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidRequest)
	}

	store := strings.TrimSpace(req.Store)
	if store == "" && req.URL != "" {
		store = ClassifyStore(req.URL)
	}

	now := s.now().UTC()
	item := &domain.WishlistItem{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		URL:         strings.TrimSpace(req.URL),
		Store:       store,
		Price:       strings.TrimSpace(req.Price),
		Image:       strings.TrimSpace(req.Image),
		Status:      domain.ItemAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.repo.CreateItem(ctx, item)
	s.metrics.IncWrite("create_item", err)
	if err != nil {
		return nil, storageError("create item", err)
	}

	s.logger.Info("wishlist item added", zap.String("id", item.ID), zap.String("store", item.Store))
	return item, nil
}

// RemoveWishlistItem deletes an item from the wishlist
func (s *RegistryService) RemoveWishlistItem(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", domain.ErrInvalidRequest)
	}

	err := s.repo.DeleteItem(ctx, id)
	s.metrics.IncWrite("delete_item", err)
	if err != nil {
		return storageError("delete item", err)
	}

	s.logger.Info("wishlist item removed", zap.String("id", id))
	return nil
}

// PurchaseItem marks an available item as bought by a guest and records the
// matching item gift. It fails with ErrItemUnavailable when someone else got
// there first.
func (s *RegistryService) PurchaseItem(ctx context.Context, itemID string, req *domain.PurchaseRequest) (*domain.Gift, error) {
	if req == nil || blank(itemID, req.GuestName, req.From, req.Message) {
		return nil, fmt.Errorf("%w: guest name, from and message are required", domain.ErrInvalidRequest)
	}

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, storageError("get item", err)
	}
	if item.Status != domain.ItemAvailable {
		return nil, domain.ErrItemUnavailable
	}

	now := s.now().UTC()
	today := now.Format(domain.DateLayout)
	gift := &domain.Gift{
		ID:        uuid.NewString(),
		Type:      domain.GiftItem,
		ItemID:    item.ID,
		ItemTitle: item.Title,
		GuestName: strings.TrimSpace(req.GuestName),
		Message:   strings.TrimSpace(req.Message),
		From:      strings.TrimSpace(req.From),
		Date:      today,
		CreatedAt: now,
	}

	err = s.repo.RecordPurchase(ctx, item.ID, gift.From, today, gift)
	s.metrics.IncWrite("purchase", err)
	if err != nil {
		return nil, storageError("record purchase", err)
	}

	s.logger.Info("wishlist item purchased", zap.String("item_id", item.ID), zap.String("gift_id", gift.ID))
	return gift, nil
}

// AddCashGift records a cash contribution announced by a guest
func (s *RegistryService) AddCashGift(ctx context.Context, req *domain.CashGiftRequest) (*domain.Gift, error) {
	if req == nil || blank(req.GuestName, req.From, req.Message) {
		return nil, fmt.Errorf("%w: guest name, from and message are required", domain.ErrInvalidRequest)
	}

	amount := strings.TrimSpace(req.Amount)
	if amount == "" {
		amount = domain.DefaultCashAmount
	}

	now := s.now().UTC()
	gift := &domain.Gift{
		ID:            uuid.NewString(),
		Type:          domain.GiftCash,
		Amount:        amount,
		GuestName:     strings.TrimSpace(req.GuestName),
		Message:       strings.TrimSpace(req.Message),
		From:          strings.TrimSpace(req.From),
		Date:          now.Format(domain.DateLayout),
		TransactionID: strings.TrimSpace(req.TransactionID),
		CreatedAt:     now,
	}

	err := s.repo.CreateGift(ctx, gift)
	s.metrics.IncWrite("cash_gift", err)
	if err != nil {
		return nil, storageError("create gift", err)
	}

	s.logger.Info("cash gift recorded", zap.String("gift_id", gift.ID))
	return gift, nil
}

// ListGifts returns all gifts, newest first
func (s *RegistryService) ListGifts(ctx context.Context) ([]domain.Gift, error) {
	gifts, err := s.repo.ListGifts(ctx)
	if err != nil {
		return nil, storageError("list gifts", err)
	}
	return gifts, nil
}

// storageError keeps domain sentinels intact and wraps anything else as a storage failure.
func storageError(op string, err error) error {
	if errors.Is(err, domain.ErrItemNotFound) || errors.Is(err, domain.ErrItemUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrStorageFailure, op, err)
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
