package transform

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"sjsage522/fashionetl/internal/record"
)

// DefaultExchangeRate converts catalog dollars to rupiah
const DefaultExchangeRate = 16000.0

var (
	// ratingPattern captures the number right before the "/ 5" scale
	ratingPattern = regexp.MustCompile(`(\d+\.?\d*)\s*/`)
	// colorsPattern captures the first integer
	colorsPattern = regexp.MustCompile(`(\d+)`)

	validSizes   = []string{"XS", "S", "M", "L", "XL", "XXL", "XXXL"}
	validGenders = []string{"Men", "Women", "Unisex"}
)

// NormalizePrice parses a dollar amount such as "$1,234.56" and converts it
// with rate. Values without a "$" marker are absent.
func NormalizePrice(raw string, rate float64) record.Opt[float64] {
	if !strings.Contains(raw, "$") {
		return record.Absent[float64]()
	}
	cleaned := strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(raw))
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return record.Absent[float64]()
	}
	return record.Found(price * rate)
}

// NormalizeRating extracts the score from "Rating: ⭐ 3.9 / 5". Scores
// outside [0, 5] are absent.
func NormalizeRating(raw string) record.Opt[float64] {
	match := ratingPattern.FindStringSubmatch(raw)
	if len(match) < 2 {
		return record.Absent[float64]()
	}
	rating, err := strconv.ParseFloat(match[1], 64)
	if err != nil || rating < 0 || rating > 5 {
		return record.Absent[float64]()
	}
	return record.Found(rating)
}

// NormalizeColors extracts the color count from "3 Colors".
func NormalizeColors(raw string) record.Opt[int] {
	match := colorsPattern.FindString(raw)
	if match == "" {
		return record.Absent[int]()
	}
	colors, err := strconv.Atoi(match)
	if err != nil {
		return record.Absent[int]()
	}
	return record.Found(colors)
}

// NormalizeSize strips the "Size:" prefix and keeps known sizes in their
// original casing.
func NormalizeSize(raw string) record.Opt[string] {
	size := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Size:"))
	for _, valid := range validSizes {
		if strings.ToUpper(size) == valid {
			return record.Found(size)
		}
	}
	return record.Absent[string]()
}

// NormalizeGender strips the "Gender:" prefix and accepts exact matches only.
func NormalizeGender(raw string) record.Opt[string] {
	gender := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Gender:"))
	for _, valid := range validGenders {
		if gender == valid {
			return record.Found(gender)
		}
	}
	return record.Absent[string]()
}
