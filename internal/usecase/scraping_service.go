package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/giftregistry/backend/internal/domain"
	"github.com/giftregistry/backend/internal/infrastructure/metrics"
	"github.com/giftregistry/backend/pkg/logger"
)

// Extraction outcome labels
const (
	outcomeScraped    = "scraped"
	outcomeBasic      = "basic"
	outcomeFailed     = "failed"
	outcomeInvalidURL = "invalid_url"
)

// ScrapingService turns a product URL into a ProductInfo record.
// It keeps no state between calls and is safe for concurrent use.
type ScrapingService struct {
	fetcher domain.PageFetcher
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewScrapingService creates a new scraping service with dependencies
func NewScrapingService(fetcher domain.PageFetcher, log *zap.Logger, m *metrics.Metrics) *ScrapingService {
	return &ScrapingService{
		fetcher: fetcher,
		logger:  logger.OrNop(log).Named("scraper"),
		metrics: m,
	}
}

// ExtractProductInfo runs the full pipeline and falls back to URL-only
// details whenever scraping does not succeed. It always returns a result.
// Flow: validate -> fetch -> extract -> classify store, else basic fallback
func (s *ScrapingService) ExtractProductInfo(ctx context.Context, rawURL string) domain.ScrapingResult {
	if !isHTTPURL(rawURL) {
		s.metrics.IncExtraction(outcomeInvalidURL)
		return invalidURLResult()
	}

	result, err := s.safeScrape(ctx, rawURL)
	if err != nil {
		s.logger.Error("scrape aborted", zap.String("url", rawURL), zap.Error(err))
	}
	if err == nil && result.Success {
		s.metrics.IncExtraction(outcomeScraped)
		return result
	}

	result = basicFallback(rawURL)
	if result.Success {
		s.metrics.IncExtraction(outcomeBasic)
	} else {
		s.metrics.IncExtraction(outcomeFailed)
	}
	return result
}

// safeScrape converts a panic raised anywhere in the pipeline into an error.
func (s *ScrapingService) safeScrape(ctx context.Context, rawURL string) (result domain.ScrapingResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during scrape: %v", r)
		}
	}()
	return s.ScrapeProductInfo(ctx, rawURL), nil
}

// ScrapeProductInfo runs the main pipeline only. When no page can be fetched
// it returns the URL-derived partial result; when the page has no title it
// returns a failure without data.
func (s *ScrapingService) ScrapeProductInfo(ctx context.Context, rawURL string) domain.ScrapingResult {
	if !isHTTPURL(rawURL) {
		return invalidURLResult()
	}

	html, err := s.fetcher.FetchHTML(ctx, rawURL)
	if err != nil || html == "" {
		if err != nil && !errors.Is(err, domain.ErrNoHTML) {
			s.logger.Warn("unexpected fetch error", zap.String("url", rawURL), zap.Error(err))
		}
		s.logger.Info("no page content, using URL fallback", zap.String("url", rawURL))
		return urlFallback(rawURL)
	}

	fields := extractFields(html)
	store := ClassifyStore(rawURL)

	title := cleanText(fields.Title)
	if title == "" {
		s.logger.Info("page has no usable title", zap.String("url", rawURL), zap.String("store", store))
		return domain.ScrapingResult{Success: false, Error: msgNoTitle}
	}

	description := cleanText(fields.Description)
	if description == "" {
		description = fmt.Sprintf("Product from %s", store)
	}

	price := fields.Price
	if price == "" {
		price = domain.PriceNotAvailable
	}

	return domain.ScrapingResult{
		Success: true,
		Data: &domain.ProductInfo{
			Title:       title,
			Description: description,
			Price:       price,
			Image:       fields.Image,
			Store:       store,
		},
	}
}

// BasicProductInfo derives a result from the URL alone without any network access.
func (s *ScrapingService) BasicProductInfo(rawURL string) domain.ScrapingResult {
	return basicFallback(rawURL)
}

func isHTTPURL(rawURL string) bool {
	return strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://")
}

func invalidURLResult() domain.ScrapingResult {
	return domain.ScrapingResult{Success: false, Error: msgInvalidURL}
}
