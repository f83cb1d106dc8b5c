package crawler

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"

	"sjsage522/fashionetl/internal/record"
	"sjsage522/fashionetl/logger"
	"sjsage522/fashionetl/pkg/errors"
)

// Parser finds every listing anchor on a page and extracts a raw record
// for each.
type Parser struct {
	selectors Selectors
	extractor FieldExtractor
	log       *logger.Logger
}

// NewParser creates a page parser
func NewParser(selectors Selectors, extractor FieldExtractor, log *logger.Logger) *Parser {
	return &Parser{
		selectors: selectors,
		extractor: extractor,
		log:       logger.OrNop(log),
	}
}

// Parse returns the records of one page in document order. A listing that
// fails extraction is skipped; a page without anchors yields an empty slice.
func (p *Parser) Parse(markup []byte) ([]record.RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, errors.NewParsing("parser", "invalid page markup", err)
	}

	anchors := doc.Find(p.selectors.AnchorSelector())
	records := make([]record.RawRecord, 0, anchors.Length())

	anchors.Each(func(i int, s *goquery.Selection) {
		rec, err := p.extractor.Extract(NewNode(s))
		if err != nil {
			p.log.Warn().Err(err).Int("listing", i).Msg("Skipping listing")
			return
		}
		records = append(records, rec)
	})

	return records, nil
}
