package crawler

import (
	"strings"
	"time"

	"sjsage522/fashionetl/internal/record"
	"sjsage522/fashionetl/pkg/errors"
)

type field int

const (
	fieldPrice field = iota
	fieldRating
	fieldColors
	fieldSize
	fieldGender
	fieldCount
)

var defaults = [fieldCount]string{
	fieldPrice:  DefaultPrice,
	fieldRating: DefaultRating,
	fieldColors: DefaultColors,
	fieldSize:   DefaultSize,
	fieldGender: DefaultGender,
}

// paragraphRules is checked in order; the first unclaimed match wins.
var paragraphRules = []struct {
	field   field
	markers []string
}{
	{fieldRating, []string{"Rating:", "Not Rated"}},
	{fieldColors, []string{"Colors"}},
	{fieldSize, []string{"Size:"}},
	{fieldGender, []string{"Gender:"}},
}

var priceMarkers = []string{"$", DefaultPrice}

// scanState tracks which fields the sibling scan has claimed.
type scanState struct {
	claimed [fieldCount]bool
	values  [fieldCount]string
	n       int
}

func (s *scanState) claim(f field, value string) {
	if s.claimed[f] {
		return
	}
	s.claimed[f] = true
	s.values[f] = value
	s.n++
}

func (s *scanState) complete() bool {
	return s.n == int(fieldCount)
}

func (s *scanState) value(f field) string {
	if s.claimed[f] {
		return s.values[f]
	}
	return defaults[f]
}

// Extractor recovers the raw fields of a listing by scanning the siblings
// that follow its title anchor.
type Extractor struct {
	selectors Selectors
	now       func() time.Time
}

// NewExtractor creates an extractor for the given selectors
func NewExtractor(selectors Selectors) *Extractor {
	return &Extractor{selectors: selectors, now: time.Now}
}

// Extract reads the anchor text as the title and walks forward sibling by
// sibling until all five fields are claimed or the next anchor starts.
// Unclaimed fields receive their sentinel raw value.
func (e *Extractor) Extract(anchor Node) (record.RawRecord, error) {
	if anchor == nil || anchor.Tag() == "" {
		return record.RawRecord{}, errors.NewExtraction("extractor", "cannot read listing", errors.ErrAnchorMissing)
	}

	var state scanState
	current, ok := anchor.NextSibling()
	for ok && !state.complete() {
		if e.isAnchor(current) {
			break
		}
		e.classify(current, &state)
		current, ok = current.NextSibling()
	}

	return record.RawRecord{
		Title:     anchor.Text(),
		Price:     state.value(fieldPrice),
		Rating:    state.value(fieldRating),
		Colors:    state.value(fieldColors),
		Size:      state.value(fieldSize),
		Gender:    state.value(fieldGender),
		Timestamp: e.now().Format(record.TimestampLayout),
	}, nil
}

func (e *Extractor) isAnchor(n Node) bool {
	return n.Tag() == e.selectors.AnchorTag
}

func (e *Extractor) classify(n Node, state *scanState) {
	switch {
	case n.Tag() == e.selectors.PriceContainerTag && n.HasClass(e.selectors.PriceContainerClass):
		if price, ok := n.Find(e.selectors.PriceTag, e.selectors.PriceClass); ok {
			state.claim(fieldPrice, price.Text())
			return
		}
		if text := n.Text(); containsAny(text, priceMarkers) {
			state.claim(fieldPrice, text)
		}

	case n.Tag() == e.selectors.FieldTag:
		text := n.Text()
		for _, rule := range paragraphRules {
			if !state.claimed[rule.field] && containsAny(text, rule.markers) {
				state.claim(rule.field, text)
				return
			}
		}
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
