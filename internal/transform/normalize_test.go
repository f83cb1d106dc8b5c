package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		raw   string
		rate  float64
		want  float64
		found bool
	}{
		{"$1,234.56", 16000, 19752960.0, true},
		{"$1,000.00", DefaultExchangeRate, 16000000.0, true},
		{"$100.00", 16000, 1600000.0, true},
		{" $ 12.5 ", 2, 25, true},
		{"Price Unavailable", 16000, 0, false},
		{"100.00", 16000, 0, false},
		{"$", 16000, 0, false},
		{"$abc", 16000, 0, false},
		{"$NaN", 16000, 0, false},
		{"$Inf", 16000, 0, false},
		{"", 16000, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := NormalizePrice(tt.raw, tt.rate).Get()
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.InDelta(t, tt.want, got, 1e-6)
			}
		})
	}
}

func TestNormalizeRating(t *testing.T) {
	tests := []struct {
		raw   string
		want  float64
		found bool
	}{
		{"Rating: ⭐ 4.5 / 5", 4.5, true},
		{"Rating: ⭐ 3.9 / 5", 3.9, true},
		{"Rating: ⭐ 5 / 5", 5, true},
		{"Rating: ⭐ 0.0 / 5", 0, true},
		{"Rating: ⭐ 6.0 / 5", 0, false},
		{"Rating: Not Rated", 0, false},
		{"Invalid Rating", 0, false},
		{"Rating: ⭐ Invalid Rating / 5", 0, false},
		{"4.5", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := NormalizeRating(tt.raw).Get()
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeColors(t *testing.T) {
	got, ok := NormalizeColors("3 Colors").Get()
	assert.True(t, ok)
	assert.Equal(t, 3, got)

	got, ok = NormalizeColors("0 Colors").Get()
	assert.True(t, ok)
	assert.Equal(t, 0, got)

	assert.True(t, NormalizeColors("No colors").IsAbsent())
	assert.True(t, NormalizeColors("").IsAbsent())
}

func TestNormalizeSize(t *testing.T) {
	tests := []struct {
		raw   string
		want  string
		found bool
	}{
		{"Size: XL", "XL", true},
		{"Size: M", "M", true},
		{"  Size:   xs  ", "xs", true},
		{"L", "L", true},
		{"Size: Unknown", "", false},
		{"Size: XXXXL", "", false},
		{"Size:", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := NormalizeSize(tt.raw).Get()
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeGender(t *testing.T) {
	tests := []struct {
		raw   string
		want  string
		found bool
	}{
		{"Gender: Men", "Men", true},
		{"Gender: Women", "Women", true},
		{"Gender:Unisex", "Unisex", true},
		{"Gender: men", "", false},
		{"Gender: Unknown", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := NormalizeGender(tt.raw).Get()
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
