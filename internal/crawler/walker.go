package crawler

import (
	"context"
	"fmt"
	"time"

	"sjsage522/fashionetl/helpers"
	"sjsage522/fashionetl/internal/record"
	"sjsage522/fashionetl/logger"
	"sjsage522/fashionetl/pkg/errors"
)

// WalkStats summarizes one catalog walk
type WalkStats struct {
	Pages       int
	FailedPages []int
	Records     int
}

// Walker fetches catalog pages one after another and accumulates their
// records.
type Walker struct {
	fetcher Fetcher
	parser  PageParser
	log     *logger.Logger
	sleep   func(time.Duration)
}

// NewWalker creates a catalog walker
func NewWalker(fetcher Fetcher, parser PageParser, log *logger.Logger) *Walker {
	return &Walker{
		fetcher: fetcher,
		parser:  parser,
		log:     logger.OrNop(log),
		sleep:   time.Sleep,
	}
}

// Walk visits pages 1..pageCount starting at baseURL, pausing delay between
// fetches. Failed or empty pages are recorded and skipped. It fails with
// ErrNoRecords when no page produced a record.
func (w *Walker) Walk(ctx context.Context, baseURL string, pageCount int, delay time.Duration) (record.RawDataset, WalkStats, error) {
	stats := WalkStats{Pages: pageCount}
	var records []record.RawRecord

	w.log.Info().
		Str("base_url", baseURL).
		Int("pages", pageCount).
		Msg("Starting catalog walk")

	for page := 1; page <= pageCount; page++ {
		url := helpers.PageURL(baseURL, page)
		pageLog := w.log.WithFields(logger.Fields{"page": page, "url": url})

		pageRecords, err := w.scrapePage(ctx, url)
		switch {
		case err != nil:
			pageLog.Warn().Err(err).Msg("Page failed")
			stats.FailedPages = append(stats.FailedPages, page)
		case len(pageRecords) == 0:
			pageLog.Warn().Msg("No products found")
			stats.FailedPages = append(stats.FailedPages, page)
		default:
			records = append(records, pageRecords...)
			pageLog.Info().Int("products", len(pageRecords)).Msg("Page scraped")
		}

		if page < pageCount && delay > 0 {
			w.sleep(delay)
		}
	}

	stats.Records = len(records)
	if len(records) == 0 {
		return record.RawDataset{}, stats, errors.NewExtraction("walker",
			fmt.Sprintf("%d pages attempted", pageCount), errors.ErrNoRecords)
	}

	event := w.log.Info()
	if len(stats.FailedPages) > 0 {
		event = w.log.Warn().Ints("failed_pages", stats.FailedPages)
	}
	event.
		Int("records", stats.Records).
		Int("successful_pages", pageCount-len(stats.FailedPages)).
		Int("total_pages", pageCount).
		Msg("Catalog walk completed")

	return record.NewRawDataset(records), stats, nil
}

func (w *Walker) scrapePage(ctx context.Context, url string) ([]record.RawRecord, error) {
	markup, err := w.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return w.parser.Parse(markup)
}
