package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/giftregistry/backend/internal/domain"
	"github.com/giftregistry/backend/internal/infrastructure/metrics"
	"github.com/giftregistry/backend/pkg/logger"
)

// Strategy is one way of obtaining a page's HTML.
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// Options configures the default strategy chain.
type Options struct {
	Timeout           time.Duration
	UserAgent         string
	EnableDirect      bool
	Proxies           []string
	MaxBodyBytes      int64
	RequestsPerSecond float64
	Burst             int

	// Transport overrides the HTTP transport, mainly for tests.
	Transport http.RoundTripper
}

// Resolver tries its strategies in order and returns the first page obtained.
// Attempts run sequentially and share one outbound rate limiter.
type Resolver struct {
	strategies []Strategy
	limiter    *rate.Limiter
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewResolver creates a resolver over an explicit strategy list.
// A nil limiter disables outbound rate limiting.
func NewResolver(strategies []Strategy, limiter *rate.Limiter, log *zap.Logger, m *metrics.Metrics) *Resolver {
	return &Resolver{
		strategies: strategies,
		limiter:    limiter,
		logger:     logger.OrNop(log).Named("fetcher"),
		metrics:    m,
	}
}

// New builds the default chain: direct fetch (when enabled), then each proxy in order.
func New(opts Options, log *zap.Logger, m *metrics.Metrics) *Resolver {
	client := newHTTPClient(opts)

	strategies := make([]Strategy, 0, len(opts.Proxies)+1)
	if opts.EnableDirect {
		strategies = append(strategies, NewDirectStrategy(client, opts.UserAgent, opts.MaxBodyBytes))
	}
	for _, template := range opts.Proxies {
		strategies = append(strategies, NewProxyStrategy(template, client, opts.UserAgent, opts.MaxBodyBytes))
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	return NewResolver(strategies, limiter, log, m)
}

// Strategies returns the names of the configured strategies in order.
func (r *Resolver) Strategies() []string {
	names := make([]string, len(r.strategies))
	for i, s := range r.strategies {
		names[i] = s.Name()
	}
	return names
}

// FetchHTML implements domain.PageFetcher.
// It returns an error wrapping domain.ErrNoHTML when every strategy failed.
func (r *Resolver) FetchHTML(ctx context.Context, pageURL string) (string, error) {
	var lastErr error

	for _, s := range r.strategies {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				r.logger.Warn("rate limiter wait aborted", zap.String("url", pageURL), zap.Error(err))
				lastErr = err
				break
			}
		}

		start := time.Now()
		html, err := s.Fetch(ctx, pageURL)
		r.metrics.ObserveFetch(s.Name(), kindOf(err), time.Since(start))

		if err != nil {
			r.logger.Info("transport attempt failed",
				zap.String("strategy", s.Name()),
				zap.String("url", pageURL),
				zap.String("kind", kindOf(err)),
				zap.Error(err),
			)
			lastErr = err
			continue
		}

		r.logger.Debug("page fetched",
			zap.String("strategy", s.Name()),
			zap.String("url", pageURL),
			zap.Int("size", len(html)),
		)
		return html, nil
	}

	if lastErr == nil {
		return "", domain.ErrNoHTML
	}
	return "", fmt.Errorf("%w: %v", domain.ErrNoHTML, lastErr)
}
