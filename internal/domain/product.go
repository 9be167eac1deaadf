package domain

// PriceNotAvailable is reported when a page was scraped but no price pattern matched.
const PriceNotAvailable = "Price not available"

// UnknownStore is reported when the store cannot be derived from the URL.
const UnknownStore = "Unknown Store"

// ProductInfo represents product details extracted from an e-commerce page
type ProductInfo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Image       string `json:"image,omitempty"`
	Store       string `json:"store"`
}

// ScrapingResult is the outcome of a product extraction.
// Success implies Data is set with a non-empty Title. A failed result may
// still carry partial Data for pre-filling a form.
type ScrapingResult struct {
	Success bool         `json:"success"`
	Data    *ProductInfo `json:"data,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// ExtractRequest represents a product extraction request
type ExtractRequest struct {
	URL string `json:"url" binding:"required"`
}
