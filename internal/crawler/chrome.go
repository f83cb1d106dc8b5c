package crawler

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"

	"sjsage522/fashionetl/logger"
	"sjsage522/fashionetl/pkg/errors"
)

// ChromeFetcher renders pages in a headless browser before returning their
// markup.
type ChromeFetcher struct {
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	timeout     time.Duration
	log         *logger.Logger
}

// NewChromeFetcher starts a browser allocator. chromeBin may be empty to use
// the default lookup.
func NewChromeFetcher(chromeBin string, timeout time.Duration, log *logger.Logger) *ChromeFetcher {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &ChromeFetcher{
		allocCtx:    allocCtx,
		cancelAlloc: cancel,
		timeout:     timeout,
		log:         logger.OrNop(log),
	}
}

// Fetch navigates to url and returns the rendered document
func (f *ChromeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	tabCtx, cancelTab := chromedp.NewContext(f.allocCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, f.timeout)
	defer cancelTimeout()

	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, errors.NewNetwork("chrome", "render "+url, err)
	}

	f.log.Debug().Str("url", url).Int("bytes", len(html)).Msg("Rendered page")
	return []byte(html), nil
}

// Close shuts the browser down
func (f *ChromeFetcher) Close() error {
	f.cancelAlloc()
	return nil
}
