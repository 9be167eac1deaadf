package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftregistry/backend/internal/domain"
	"github.com/giftregistry/backend/internal/infrastructure/metrics"
)

// MockPageFetcher is a mock implementation of domain.PageFetcher
type MockPageFetcher struct {
	mu      sync.Mutex
	html    string
	err     error
	panics  bool
	calls   int
	lastURL string
}

func (m *MockPageFetcher) FetchHTML(ctx context.Context, pageURL string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.lastURL = pageURL
	m.mu.Unlock()

	if m.panics {
		panic("fetcher exploded")
	}
	if m.err != nil {
		return "", m.err
	}
	return m.html, nil
}

func (m *MockPageFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

const fullProductPage = `<html><head>
<title>Ignored Title</title>
<meta property="og:title" content="Prestige  Pressure
 Cooker 5L">
<meta property="og:description" content="Stainless steel &amp; induction ready">
<meta property="og:image" content="https://m.media-amazon.com/images/I/cooker.jpg">
</head><body><span class="price">₹2,499</span></body></html>`

func TestExtractProductInfo_InvalidURL(t *testing.T) {
	inputs := []string{"", "ftp://shop.example/x", "www.amazon.in/dp/B000", "HTTP://shop.example", "javascript:alert(1)"}

	for _, input := range inputs {
		t.Run(fmt.Sprintf("%q", input), func(t *testing.T) {
			fetcher := &MockPageFetcher{html: fullProductPage}
			m := metrics.New()
			svc := NewScrapingService(fetcher, nil, m)

			result := svc.ExtractProductInfo(context.Background(), input)

			assert.False(t, result.Success)
			assert.Nil(t, result.Data)
			assert.Equal(t, msgInvalidURL, result.Error)
			assert.Equal(t, 0, fetcher.Calls())
			assert.Equal(t, 1.0, testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues(outcomeInvalidURL)))
		})
	}
}

func TestExtractProductInfo_Success(t *testing.T) {
	fetcher := &MockPageFetcher{html: fullProductPage}
	m := metrics.New()
	svc := NewScrapingService(fetcher, nil, m)

	result := svc.ExtractProductInfo(context.Background(), "https://www.amazon.in/Prestige-Cooker/dp/B00ABC")

	require.True(t, result.Success)
	require.NotNil(t, result.Data)
	assert.Empty(t, result.Error)
	assert.Equal(t, "Prestige Pressure Cooker 5L", result.Data.Title)
	assert.Equal(t, "Stainless steel & induction ready", result.Data.Description)
	assert.Equal(t, "₹2,499", result.Data.Price)
	assert.Equal(t, "https://m.media-amazon.com/images/I/cooker.jpg", result.Data.Image)
	assert.Equal(t, "Amazon", result.Data.Store)
	assert.Equal(t, 1, fetcher.Calls())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues(outcomeScraped)))
}

func TestScrapeProductInfo_Defaults(t *testing.T) {
	fetcher := &MockPageFetcher{html: `<html><head><title>Brass Diya Set</title></head></html>`}
	svc := NewScrapingService(fetcher, nil, nil)

	result := svc.ScrapeProductInfo(context.Background(), "https://www.fabindia.com/brass-diya")

	require.True(t, result.Success)
	assert.Equal(t, "Brass Diya Set", result.Data.Title)
	assert.Equal(t, "Product from Fabindia", result.Data.Description)
	assert.Equal(t, domain.PriceNotAvailable, result.Data.Price)
	assert.Empty(t, result.Data.Image)
}

func TestScrapeProductInfo_NoHTMLUsesURLFallback(t *testing.T) {
	fetcher := &MockPageFetcher{err: fmt.Errorf("%w: all proxies down", domain.ErrNoHTML)}
	svc := NewScrapingService(fetcher, nil, nil)

	result := svc.ScrapeProductInfo(context.Background(), "https://www.amazon.in/Instant-Pot-Duo/dp/B00FLYWNYQ")

	assert.False(t, result.Success)
	assert.Equal(t, msgBlocked, result.Error)
	require.NotNil(t, result.Data)
	assert.Equal(t, "Instant Pot Duo", result.Data.Title)
	assert.Equal(t, "Amazon", result.Data.Store)
}

func TestScrapeProductInfo_NoTitle(t *testing.T) {
	fetcher := &MockPageFetcher{html: `<html><body>₹500</body></html>`}
	svc := NewScrapingService(fetcher, nil, nil)

	result := svc.ScrapeProductInfo(context.Background(), "https://shop.example/lamp")

	assert.False(t, result.Success)
	assert.Nil(t, result.Data)
	assert.Equal(t, msgNoTitle, result.Error)
}

func TestExtractProductInfo_FallsBackToBasicInfo(t *testing.T) {
	t.Run("transport exhausted", func(t *testing.T) {
		fetcher := &MockPageFetcher{err: domain.ErrNoHTML}
		m := metrics.New()
		svc := NewScrapingService(fetcher, nil, m)

		result := svc.ExtractProductInfo(context.Background(), "https://example.com/products/deluxe-coffee-maker?ref=x")

		assert.True(t, result.Success)
		require.NotNil(t, result.Data)
		assert.Equal(t, "Deluxe Coffee Maker", result.Data.Title)
		assert.Equal(t, "Example", result.Data.Store)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues(outcomeBasic)))
	})

	t.Run("page without title", func(t *testing.T) {
		fetcher := &MockPageFetcher{html: `<html><body></body></html>`}
		svc := NewScrapingService(fetcher, nil, nil)

		result := svc.ExtractProductInfo(context.Background(), "https://www.nykaa.com/p/1234")

		assert.False(t, result.Success)
		require.NotNil(t, result.Data)
		assert.Equal(t, "Nykaa", result.Data.Store)
		assert.Contains(t, result.Error, `"Nykaa"`)
	})

	t.Run("fetcher panic is recovered", func(t *testing.T) {
		fetcher := &MockPageFetcher{panics: true}
		m := metrics.New()
		svc := NewScrapingService(fetcher, nil, m)

		var result domain.ScrapingResult
		assert.NotPanics(t, func() {
			result = svc.ExtractProductInfo(context.Background(), "https://shop.example/silver-tray")
		})
		assert.True(t, result.Success)
		assert.Equal(t, "Silver Tray", result.Data.Title)
	})

	t.Run("unexpected fetch error", func(t *testing.T) {
		fetcher := &MockPageFetcher{err: errors.New("boom")}
		svc := NewScrapingService(fetcher, nil, nil)

		result := svc.ExtractProductInfo(context.Background(), "https://shop.example/1234")

		assert.False(t, result.Success)
		require.NotNil(t, result.Data)
		assert.Equal(t, "Shop", result.Data.Store)
	})
}

func TestExtractProductInfo_PathologicalInputs(t *testing.T) {
	inputs := []string{
		"https://",
		"http://例え.jp/商品/素敵なカップ",
		"https://shop.example/" + strings.Repeat("very-long-segment/", 5000),
		"https://shop.example/%zz%",
		"https://shop.example/?title=%",
	}

	for i, input := range inputs {
		t.Run(fmt.Sprintf("input_%d", i), func(t *testing.T) {
			svc := NewScrapingService(&MockPageFetcher{err: domain.ErrNoHTML}, nil, nil)

			var result domain.ScrapingResult
			assert.NotPanics(t, func() {
				result = svc.ExtractProductInfo(context.Background(), input)
			})
			require.NotNil(t, result.Data)
			assert.NotEmpty(t, result.Data.Store)
			if result.Success {
				assert.NotEmpty(t, result.Data.Title)
			}
		})
	}
}

func TestExtractProductInfo_Idempotent(t *testing.T) {
	svc := NewScrapingService(&MockPageFetcher{html: fullProductPage}, nil, nil)
	url := "https://www.amazon.in/Prestige-Cooker/dp/B00ABC"

	first := svc.ExtractProductInfo(context.Background(), url)
	second := svc.ExtractProductInfo(context.Background(), url)

	assert.Equal(t, first, second)
}

func TestBasicProductInfo_NoNetwork(t *testing.T) {
	fetcher := &MockPageFetcher{html: fullProductPage}
	svc := NewScrapingService(fetcher, nil, nil)

	result := svc.BasicProductInfo("https://www.pepperfry.com/teak-wood-chair")

	assert.True(t, result.Success)
	assert.Equal(t, "Teak Wood Chair", result.Data.Title)
	assert.Equal(t, "Pepperfry", result.Data.Store)
	assert.Equal(t, 0, fetcher.Calls())
}
