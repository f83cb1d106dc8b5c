package crawler

import (
	"context"

	"sjsage522/fashionetl/internal/record"
)

// Sentinel raw values substituted for fields the sibling scan did not find.
const (
	DefaultPrice  = "Price Unavailable"
	DefaultRating = "Invalid Rating"
	DefaultColors = "0 Colors"
	DefaultSize   = "Size: Unknown"
	DefaultGender = "Gender: Unknown"
)

// Fetcher retrieves the raw markup of one catalog page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FieldExtractor recovers one raw record from a listing anchor.
type FieldExtractor interface {
	Extract(anchor Node) (record.RawRecord, error)
}

// PageParser turns the markup of one page into raw records.
type PageParser interface {
	Parse(markup []byte) ([]record.RawRecord, error)
}

// Selectors names the markup elements of a catalog page.
type Selectors struct {
	AnchorTag           string
	AnchorClass         string
	PriceContainerTag   string
	PriceContainerClass string
	PriceTag            string
	PriceClass          string
	FieldTag            string
}

// DefaultSelectors matches the fashion studio catalog layout.
func DefaultSelectors() Selectors {
	return Selectors{
		AnchorTag:           "h3",
		AnchorClass:         "product-title",
		PriceContainerTag:   "div",
		PriceContainerClass: "price-container",
		PriceTag:            "span",
		PriceClass:          "price",
		FieldTag:            "p",
	}
}

// AnchorSelector returns the CSS selector of listing anchors.
func (s Selectors) AnchorSelector() string {
	return cssSelector(s.AnchorTag, s.AnchorClass)
}

func cssSelector(tag, class string) string {
	if class == "" {
		return tag
	}
	return tag + "." + class
}

var (
	_ FieldExtractor = (*Extractor)(nil)
	_ PageParser     = (*Parser)(nil)
	_ Fetcher        = (*HTTPFetcher)(nil)
	_ Fetcher        = (*ChromeFetcher)(nil)
)
