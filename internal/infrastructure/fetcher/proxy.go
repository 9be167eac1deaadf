package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// envelope is the JSON wrapper returned by CORS proxies
type envelope struct {
	Contents     string `json:"contents"`
	ResponseText string `json:"responseText"`
}

// ProxyStrategy fetches the page through a CORS proxy that wraps the
// remote document in a JSON envelope.
type ProxyStrategy struct {
	template  string
	name      string
	client    *http.Client
	userAgent string
	maxBytes  int64
}

// NewProxyStrategy creates a strategy for one proxy endpoint template.
// The target URL is appended to template in encoded form.
func NewProxyStrategy(template string, client *http.Client, userAgent string, maxBytes int64) *ProxyStrategy {
	name := "proxy"
	if u, err := url.Parse(template); err == nil && u.Host != "" {
		name = "proxy:" + u.Host
	}

	return &ProxyStrategy{
		template:  template,
		name:      name,
		client:    client,
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
}

// Name implements Strategy.
func (s *ProxyStrategy) Name() string {
	return s.name
}

// Fetch implements Strategy.
func (s *ProxyStrategy) Fetch(ctx context.Context, pageURL string) (string, error) {
	proxyURL := s.template + encodeURIComponent(pageURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, proxyURL, nil)
	if err != nil {
		return "", newFetchError(s.name, pageURL, 0, fmt.Errorf("failed to create request: %w", err))
	}
	setBrowserHeaders(req, s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", newFetchError(s.name, pageURL, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", newFetchError(s.name, pageURL, resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status))
	}

	body, err := readBody(resp, s.maxBytes, false)
	if err != nil {
		return "", newFetchError(s.name, pageURL, 0, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", newFetchError(s.name, pageURL, 0, fmt.Errorf("%w: %v", errDecode, err))
	}

	html := env.Contents
	if strings.TrimSpace(html) == "" {
		html = env.ResponseText
	}
	if strings.TrimSpace(html) == "" {
		return "", newFetchError(s.name, pageURL, 0, errEmptyBody)
	}
	return html, nil
}

// encodeURIComponent escapes s the way browsers encode a URI component:
// spaces become %20 rather than +.
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
