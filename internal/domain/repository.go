package domain

import "context"

// PageFetcher retrieves the raw HTML of a product page
type PageFetcher interface {
	FetchHTML(ctx context.Context, pageURL string) (string, error)
}

// WishlistRepository defines persistence for wishlist items
type WishlistRepository interface {
	ListItems(ctx context.Context) ([]WishlistItem, error)
	GetItem(ctx context.Context, id string) (*WishlistItem, error)
	CreateItem(ctx context.Context, item *WishlistItem) error
	DeleteItem(ctx context.Context, id string) error
	// RecordPurchase marks the item purchased and stores the gift as one unit.
	// It returns ErrItemUnavailable when the item is no longer available.
	RecordPurchase(ctx context.Context, itemID string, purchasedBy string, purchaseDate string, gift *Gift) error
}

// GiftRepository defines persistence for received gifts
type GiftRepository interface {
	ListGifts(ctx context.Context) ([]Gift, error)
	CreateGift(ctx context.Context, gift *Gift) error
}

// RegistryRepository is the complete registry store
type RegistryRepository interface {
	WishlistRepository
	GiftRepository
}
