package usecase

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Price patterns common on Indian storefronts, applied to the raw document.
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`₹\s*([0-9,]+(?:\.[0-9]{2})?)`),
	regexp.MustCompile(`INR\s*([0-9,]+(?:\.[0-9]{2})?)`),
	regexp.MustCompile(`Rs\.?\s*([0-9,]+(?:\.[0-9]{2})?)`),
	regexp.MustCompile(`(?i)"price"[^0-9]*([0-9,]+(?:\.[0-9]{2})?)`),
	regexp.MustCompile(`(?i)"amount"[^0-9]*([0-9,]+(?:\.[0-9]{2})?)`),
	regexp.MustCompile(`(?i)price[^0-9]*₹\s*([0-9,]+(?:\.[0-9]{2})?)`),
}

// extractPrice collects every positive price candidate in html and returns
// their median in rupee notation, or "" when nothing matched.
func extractPrice(html string) string {
	var prices []float64

	for _, re := range pricePatterns {
		for _, m := range re.FindAllStringSubmatch(html, -1) {
			value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
			if err != nil || value <= 0 {
				continue
			}
			prices = append(prices, value)
		}
	}

	if len(prices) == 0 {
		return ""
	}
	return formatRupees(median(prices))
}

// median sorts values in place and returns the middle value, or the mean of
// the two middle values for an even count.
func median(values []float64) float64 {
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 0 {
		return (values[mid-1] + values[mid]) / 2
	}
	return values[mid]
}

// formatRupees renders v with Indian digit grouping (1,50,000) and at most
// three fraction digits, prefixed with the rupee sign.
func formatRupees(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")

	out := "₹" + groupIndian(intPart)
	if frac != "" {
		out += "." + frac
	}
	return out
}

// groupIndian inserts separators after the last three digits and then after
// every two.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)

	return strings.Join(groups, ",") + "," + tail
}
