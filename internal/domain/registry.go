package domain

import "time"

// ItemStatus is the lifecycle state of a wishlist item
type ItemStatus string

const (
	ItemAvailable ItemStatus = "available"
	ItemPurchased ItemStatus = "purchased"
	ItemReserved  ItemStatus = "reserved"
)

// GiftType distinguishes item gifts from cash gifts
type GiftType string

const (
	GiftItem GiftType = "item"
	GiftCash GiftType = "cash"
)

// DefaultCashAmount is stored when a guest does not state the amount sent
const DefaultCashAmount = "Amount not specified"

// DateLayout is the calendar date format used for purchase and gift dates
const DateLayout = "2006-01-02"

// WishlistItem represents a product the couple would like to receive
type WishlistItem struct {
	ID           string     `json:"id" bson:"_id"`
	Title        string     `json:"title" bson:"title"`
	Description  string     `json:"description" bson:"description"`
	URL          string     `json:"url" bson:"url"`
	Store        string     `json:"store" bson:"store"`
	Price        string     `json:"price" bson:"price"`
	Image        string     `json:"image,omitempty" bson:"image_url,omitempty"`
	Status       ItemStatus `json:"status" bson:"status"`
	PurchasedBy  string     `json:"purchasedBy,omitempty" bson:"purchased_by,omitempty"`
	PurchaseDate string     `json:"purchaseDate,omitempty" bson:"purchase_date,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" bson:"updated_at"`
}

// Gift represents a cash or item gift sent by a guest
type Gift struct {
	ID            string    `json:"id" bson:"_id"`
	Type          GiftType  `json:"type" bson:"type"`
	ItemID        string    `json:"itemId,omitempty" bson:"item_id,omitempty"`
	ItemTitle     string    `json:"itemTitle,omitempty" bson:"item_title,omitempty"`
	Amount        string    `json:"amount,omitempty" bson:"amount,omitempty"`
	GuestName     string    `json:"guestName" bson:"guest_name"`
	Message       string    `json:"message" bson:"message"`
	From          string    `json:"from" bson:"from_name"`
	Date          string    `json:"date" bson:"date"`
	TransactionID string    `json:"transactionId,omitempty" bson:"transaction_id,omitempty"`
	CreatedAt     time.Time `json:"createdAt" bson:"created_at"`
}

// NewWishlistItemRequest represents an admin request to add a wishlist item
type NewWishlistItemRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Store       string `json:"store"`
	Price       string `json:"price"`
	Image       string `json:"image"`
}

// PurchaseRequest represents a guest marking a wishlist item as bought
type PurchaseRequest struct {
	GuestName string `json:"guestName" binding:"required"`
	From      string `json:"from" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

// CashGiftRequest represents a guest announcing a cash contribution
type CashGiftRequest struct {
	GuestName     string `json:"guestName" binding:"required"`
	From          string `json:"from" binding:"required"`
	Message       string `json:"message" binding:"required"`
	Amount        string `json:"amount,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
}
