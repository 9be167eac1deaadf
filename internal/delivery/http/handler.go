package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/giftregistry/backend/internal/domain"
	"github.com/giftregistry/backend/internal/usecase"
	"github.com/giftregistry/backend/pkg/logger"
)

// Version is reported by the health endpoint; overridden at build time.
var Version = "1.0.0"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	scraper  *usecase.ScrapingService
	registry *usecase.RegistryService
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler.
// A nil service makes its endpoints answer 501.
func NewHandler(scraper *usecase.ScrapingService, registry *usecase.RegistryService, log *zap.Logger) *Handler {
	return &Handler{
		scraper:  scraper,
		registry: registry,
		logger:   logger.OrNop(log).Named("http"),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "giftregistry-backend",
		"version": Version,
	})
}

// ExtractProduct handles product metadata extraction requests.
// The extraction outcome is always reported in the body with status 200.
func (h *Handler) ExtractProduct(c *gin.Context) {
	if h.scraper == nil {
		notConfigured(c, "product extraction")
		return
	}

	var req domain.ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: url is required"})
		return
	}

	result := h.scraper.ExtractProductInfo(c.Request.Context(), req.URL)
	c.JSON(http.StatusOK, result)
}

// ListWishlist returns every wishlist item
func (h *Handler) ListWishlist(c *gin.Context) {
	if h.registry == nil {
		notConfigured(c, "registry")
		return
	}

	items, err := h.registry.ListWishlist(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ListAvailable returns the items guests can still buy
func (h *Handler) ListAvailable(c *gin.Context) {
	if h.registry == nil {
		notConfigured(c, "registry")
		return
	}

	items, err := h.registry.AvailableItems(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// AddWishlistItem adds an item to the wishlist
func (h *Handler) AddWishlistItem(c *gin.Context) {
	if h.registry == nil {
		notConfigured(c, "registry")
		return
	}

	var req domain.NewWishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: title is required"})
		return
	}

	item, err := h.registry.AddWishlistItem(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// RemoveWishlistItem deletes a wishlist item
func (h *Handler) RemoveWishlistItem(c *gin.Context) {
	if h.registry == nil {
		notConfigured(c, "registry")
		return
	}

	if err := h.registry.RemoveWishlistItem(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PurchaseItem lets a guest mark an item as bought
func (h *Handler) PurchaseItem(c *gin.Context) {
	if h.registry == nil {
		notConfigured(c, "registry")
		return
	}

	var req domain.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: guestName, from and message are required"})
		return
	}

	gift, err := h.registry.PurchaseItem(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gift)
}

// AddCashGift records a cash gift from a guest
func (h *Handler) AddCashGift(c *gin.Context) {
	if h.registry == nil {
		notConfigured(c, "registry")
		return
	}

	var req domain.CashGiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: guestName, from and message are required"})
		return
	}

	gift, err := h.registry.AddCashGift(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gift)
}

// ListGifts returns all received gifts, newest first
func (h *Handler) ListGifts(c *gin.Context) {
	if h.registry == nil {
		notConfigured(c, "registry")
		return
	}

	gifts, err := h.registry.ListGifts(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gifts": gifts})
}

// writeError maps domain errors to HTTP status codes
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrItemUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func notConfigured(c *gin.Context, what string) {
	c.JSON(http.StatusNotImplemented, gin.H{"error": what + " is not configured"})
}
