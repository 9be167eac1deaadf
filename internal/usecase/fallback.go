package usecase

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/giftregistry/backend/internal/domain"
)

const (
	msgInvalidURL = "Invalid URL format. Please provide a valid product URL."
	msgNoTitle    = "Could not extract product title from the URL. Please check if the URL is a valid product page."
	msgBlocked    = "Unable to automatically extract product details. The website may have blocked automated access or the URL might not be a direct product page. You can still manually fill in the details below."
	msgBasicFmt   = `Could not extract product details automatically. The store has been detected as "%s". Please fill in the product details manually.`
)

// Path segments that never describe the product.
var (
	urlFallbackSkip   = []string{"dp", "product"}
	basicFallbackSkip = []string{"dp", "product", "item", "p", "products", "catalog"}
	titleQueryParams  = []string{"title", "name", "product", "item"}
)

var (
	dashUnderscore     = strings.NewReplacer("-", " ", "_", " ")
	dashUnderscorePlus = strings.NewReplacer("-", " ", "_", " ", "+", " ")
)

// urlFallback builds the partial result returned when no HTML could be
// fetched. The title, possibly empty, comes from the URL path alone.
func urlFallback(rawURL string) domain.ScrapingResult {
	store := ClassifyStore(rawURL)

	var title string
	if u, err := parseURL(rawURL); err == nil {
		for _, part := range pathSegments(u) {
			if !describesProduct(part, urlFallbackSkip, false) {
				continue
			}
			title = strings.TrimSpace(titleCase(dashUnderscore.Replace(part)))
			break
		}
	}

	description := fmt.Sprintf("Product from %s", store)
	if title != "" {
		description = fmt.Sprintf("%s from %s", title, store)
	}

	return domain.ScrapingResult{
		Success: false,
		Error:   msgBlocked,
		Data: &domain.ProductInfo{
			Title:       title,
			Description: description,
			Store:       store,
		},
	}
}

// basicFallback derives whatever it can from the URL without any network
// access. It succeeds only when a title was found; Data.Store is always set.
func basicFallback(rawURL string) domain.ScrapingResult {
	store := ClassifyStore(rawURL)

	u, err := parseURL(rawURL)
	if err != nil {
		return domain.ScrapingResult{
			Success: false,
			Error:   fmt.Sprintf(msgBasicFmt, store),
			Data: &domain.ProductInfo{
				Description: fmt.Sprintf("Product from %s", store),
				Store:       store,
			},
		}
	}

	title := basicTitle(u)
	if title == "" {
		return domain.ScrapingResult{
			Success: false,
			Error:   fmt.Sprintf(msgBasicFmt, store),
			Data: &domain.ProductInfo{
				Description: fmt.Sprintf("Product available at %s. Please add details manually.", store),
				Store:       store,
			},
		}
	}

	return domain.ScrapingResult{
		Success: true,
		Data: &domain.ProductInfo{
			Title:       title,
			Description: fmt.Sprintf("%s available at %s. Please verify details on the product page.", title, store),
			Store:       store,
		},
	}
}

func basicTitle(u *url.URL) string {
	for _, part := range pathSegments(u) {
		if decoded, err := url.PathUnescape(part); err == nil {
			part = decoded
		}
		if !describesProduct(part, basicFallbackSkip, true) {
			continue
		}
		if title := strings.TrimSpace(titleCase(dashUnderscorePlus.Replace(part))); title != "" {
			return title
		}
	}

	query := u.Query()
	for _, param := range titleQueryParams {
		value := query.Get(param)
		if utf8.RuneCountInString(value) <= 3 {
			continue
		}
		if decoded, err := url.PathUnescape(value); err == nil {
			value = decoded
		}
		if title := strings.TrimSpace(titleCase(dashUnderscorePlus.Replace(value))); title != "" {
			return title
		}
	}

	return ""
}

// pathSegments returns the non-empty segments of the escaped path.
func pathSegments(u *url.URL) []string {
	var parts []string
	for _, part := range strings.Split(u.EscapedPath(), "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// describesProduct reports whether a path segment can serve as a title:
// longer than three characters, not purely numeric, and not a skipped token.
func describesProduct(part string, skip []string, foldCase bool) bool {
	if utf8.RuneCountInString(part) <= 3 || isNumeric(part) {
		return false
	}
	for _, token := range skip {
		if part == token || (foldCase && strings.EqualFold(part, token)) {
			return false
		}
	}
	return true
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// titleCase upper-cases the first character of every word.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inWord := false
	for _, r := range s {
		isWord := r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
		if isWord && !inWord {
			r = unicode.ToUpper(r)
		}
		inWord = isWord
		b.WriteRune(r)
	}
	return b.String()
}
