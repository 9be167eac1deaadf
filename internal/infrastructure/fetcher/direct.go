package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// DirectStrategy fetches the product page itself.
type DirectStrategy struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
}

// NewDirectStrategy creates a strategy that requests the page URL as-is
func NewDirectStrategy(client *http.Client, userAgent string, maxBytes int64) *DirectStrategy {
	return &DirectStrategy{
		client:    client,
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
}

// Name implements Strategy.
func (s *DirectStrategy) Name() string {
	return "direct"
}

// Fetch implements Strategy.
func (s *DirectStrategy) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", newFetchError(s.Name(), pageURL, 0, fmt.Errorf("failed to create request: %w", err))
	}
	setBrowserHeaders(req, s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", newFetchError(s.Name(), pageURL, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", newFetchError(s.Name(), pageURL, resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status))
	}

	body, err := readBody(resp, s.maxBytes, true)
	if err != nil {
		return "", newFetchError(s.Name(), pageURL, 0, err)
	}

	html := string(body)
	if strings.TrimSpace(html) == "" {
		return "", newFetchError(s.Name(), pageURL, 0, errEmptyBody)
	}
	return html, nil
}
