package usecase

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/giftregistry/backend/internal/domain"
)

// StorePattern maps a lowercase URL substring to a merchant display name.
type StorePattern struct {
	Pattern string
	Name    string
}

// storePatterns is checked in order; the first match wins.
var storePatterns = []StorePattern{
	{"amazon.", "Amazon"},
	{"flipkart.", "Flipkart"},
	{"myntra.", "Myntra"},
	{"nykaa.", "Nykaa"},
	{"ajio.", "Ajio"},
	{"snapdeal.", "Snapdeal"},
	{"tatacliq.", "Tata CLiQ"},
	{"bigbasket.", "BigBasket"},
	{"paytmmall.", "Paytm Mall"},
	{"shopclues.", "ShopClues"},
	{"limeroad.", "LimeRoad"},
	{"jabong.", "Jabong"},
	{"firstcry.", "FirstCry"},
	{"pepperfry.", "Pepperfry"},
	{"urbanladder.", "Urban Ladder"},
	{"fabindia.", "Fabindia"},
	{"zara.", "Zara"},
	{"hm.", "H&M"},
	{"uniqlo.", "Uniqlo"},
}

// StorePatterns returns a copy of the known store table in match order.
func StorePatterns() []StorePattern {
	out := make([]StorePattern, len(storePatterns))
	copy(out, storePatterns)
	return out
}

// ClassifyStore derives a merchant display name from a product URL.
// Known stores are matched by substring; otherwise the first label of the
// hostname is capitalised ("https://www.croma.com/x" gives "Croma").
func ClassifyStore(rawURL string) string {
	lower := strings.ToLower(rawURL)
	for _, p := range storePatterns {
		if strings.Contains(lower, p.Pattern) {
			return p.Name
		}
	}

	u, err := parseURL(rawURL)
	if err != nil {
		return domain.UnknownStore
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	label, _, _ := strings.Cut(host, ".")
	if label == "" {
		return domain.UnknownStore
	}

	first, size := utf8.DecodeRuneInString(label)
	return string(unicode.ToUpper(first)) + label[size:]
}

// parseURL is url.Parse that tolerates a literal '%' not starting an escape
// sequence ("100%-cotton"), which browsers accept as is.
func parseURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err == nil {
		return u, nil
	}
	escaped := escapeStrayPercent(rawURL)
	if escaped == rawURL {
		return nil, err
	}
	return url.Parse(escaped)
}

func escapeStrayPercent(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && !(i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2])) {
			b.WriteString("%25")
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
