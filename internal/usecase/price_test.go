package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"median of two values", `<span>₹1,000</span><span>₹3,000</span>`, "₹2,000"},
		{"odd count takes middle", `₹100 ₹200 ₹900`, "₹200"},
		{"no price", `<p>Contact us</p>`, ""},
		{"zero is dropped", `₹0`, ""},
		{"INR prefix", `INR 1,299`, "₹1,299"},
		{"Rs. prefix", `Rs.450.50`, "₹450.5"},
		{"json price field", `{"PRICE": 12,999}`, "₹12,999"},
		{"lakh grouping", `₹1,50,000`, "₹1,50,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractPrice(tt.html))
		})
	}
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 2000.0, median([]float64{3000, 1000}))
	assert.Equal(t, 5.0, median([]float64{9, 1, 5}))
	assert.Equal(t, 7.0, median([]float64{7}))
}

func TestFormatRupees(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{5, "₹5"},
		{999, "₹999"},
		{1000, "₹1,000"},
		{99999, "₹99,999"},
		{150000, "₹1,50,000"},
		{12345678, "₹1,23,45,678"},
		{1234.5, "₹1,234.5"},
		{10.125, "₹10.125"},
		{2.0004, "₹2"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatRupees(tt.in))
		})
	}
}
