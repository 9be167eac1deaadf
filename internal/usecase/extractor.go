package usecase

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// productFields holds the raw fields found on a product page.
type productFields struct {
	Title       string
	Description string
	Price       string
	Image       string
}

// fieldStrategy pulls one candidate value out of a parsed page.
type fieldStrategy func(doc *goquery.Document) string

var (
	titleStrategies = []fieldStrategy{
		metaContent("og:title"),
		metaContent("twitter:title"),
		titleElement,
	}

	descriptionStrategies = []fieldStrategy{
		metaContent("og:description"),
		metaContent("twitter:description"),
		metaContent("description"),
	}

	imageStrategies = []fieldStrategy{
		validImage(metaContent("og:image")),
		validImage(metaContent("twitter:image")),
	}
)

var (
	entityPattern = regexp.MustCompile(`&[^;\s]+;`)

	htmlEntities = map[string]string{
		"&amp;":   "&",
		"&lt;":    "<",
		"&gt;":    ">",
		"&quot;":  `"`,
		"&#39;":   "'",
		"&nbsp;":  " ",
		"&copy;":  "©",
		"&reg;":   "®",
		"&trade;": "™",
	}

	imageMarkers = []string{".jpg", ".jpeg", ".png", ".webp", ".gif", "image", "photo"}
)

// extractFields parses html and runs the strategy list of every field.
// It never fails: a document that cannot be parsed yields only the price.
func extractFields(html string) productFields {
	fields := productFields{Price: extractPrice(html)}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fields
	}

	fields.Title = firstNonEmpty(doc, titleStrategies)
	fields.Description = firstNonEmpty(doc, descriptionStrategies)
	fields.Image = firstNonEmpty(doc, imageStrategies)
	return fields
}

func firstNonEmpty(doc *goquery.Document, strategies []fieldStrategy) string {
	for _, strategy := range strategies {
		if v := strategy(doc); v != "" {
			return v
		}
	}
	return ""
}

// metaContent looks up a <meta> tag by its property attribute, then by its
// name attribute. Keys compare case-insensitively and blank content is skipped.
func metaContent(key string) fieldStrategy {
	return func(doc *goquery.Document) string {
		for _, attr := range []string{"property", "name"} {
			var found string
			doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
				v, ok := s.Attr(attr)
				if !ok || !strings.EqualFold(strings.TrimSpace(v), key) {
					return true
				}
				content := strings.TrimSpace(s.AttrOr("content", ""))
				if content == "" {
					return true
				}
				found = decodeHTMLEntities(content)
				return false
			})
			if found != "" {
				return found
			}
		}
		return ""
	}
}

func titleElement(doc *goquery.Document) string {
	return decodeHTMLEntities(strings.TrimSpace(doc.Find("title").First().Text()))
}

func validImage(strategy fieldStrategy) fieldStrategy {
	return func(doc *goquery.Document) string {
		candidate := strategy(doc)
		if !isValidImageURL(candidate) {
			return ""
		}
		return candidate
	}
}

func isValidImageURL(u string) bool {
	if u == "" {
		return false
	}
	lower := strings.ToLower(u)
	for _, marker := range imageMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// decodeHTMLEntities replaces the fixed set of named entities. The HTML
// parser has already decoded every entity in the document, so this only
// sees text that was encoded twice ("&amp;amp;"). Unknown entities are
// kept as is.
func decodeHTMLEntities(text string) string {
	return entityPattern.ReplaceAllStringFunc(text, func(entity string) string {
		if decoded, ok := htmlEntities[entity]; ok {
			return decoded
		}
		return entity
	})
}

// cleanText collapses every run of whitespace, including non-breaking spaces,
// into a single space and trims the result.
func cleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
