package crawler

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"sjsage522/fashionetl/helpers"
	"sjsage522/fashionetl/logger"
	"sjsage522/fashionetl/pkg/errors"
	"sjsage522/fashionetl/services/cache"
)

// HTTPFetcherConfig configures an HTTPFetcher
type HTTPFetcherConfig struct {
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	// CacheKey marks the catalog as rate limited for BlockTime
	CacheKey  string
	BlockTime time.Duration
}

// HTTPFetcher fetches pages over plain HTTP with a bounded retry policy.
// It is not safe for concurrent use.
type HTTPFetcher struct {
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
	cacheSvc   cache.CacheService
	cacheKey   string
	blockTime  time.Duration
	robots     *RobotsPolicy
	log        *logger.Logger
	sleep      func(time.Duration)
}

// NewHTTPFetcher creates a fetcher. cacheSvc may be nil, which disables the
// rate-limit block.
func NewHTTPFetcher(cfg HTTPFetcherConfig, cacheSvc cache.CacheService, log *logger.Logger) *HTTPFetcher {
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	return &HTTPFetcher{
		client:     helpers.NewClient(cfg.Timeout),
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		cacheSvc:   cacheSvc,
		cacheKey:   cfg.CacheKey,
		blockTime:  cfg.BlockTime,
		log:        logger.OrNop(log),
		sleep:      time.Sleep,
	}
}

// WithRobots makes the fetcher refuse URLs the site's robots.txt disallows
// for agent.
func (f *HTTPFetcher) WithRobots(agent string) *HTTPFetcher {
	f.robots = NewRobotsPolicy(f.client, agent, f.log)
	return f
}

// Fetch returns the UTF-8 markup at url
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if f.isBlocked() {
		return nil, errors.NewRateLimit("fetcher", f.blockTime)
	}

	if f.robots != nil && !f.robots.Allowed(ctx, url) {
		return nil, fmt.Errorf("%w: %s", errors.ErrDisallowed, url)
	}

	var lastErr error
	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		body, err := helpers.FetchWithRandomHeaders(ctx, f.client, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var statusErr *helpers.StatusError
		if stderrors.As(err, &statusErr) && statusErr.RateLimited() {
			f.block()
			return nil, errors.NewRateLimit("fetcher", f.blockTime)
		}
		if ctx.Err() != nil {
			break
		}

		if attempt < f.maxRetries {
			f.log.Warn().
				Err(err).
				Str("url", url).
				Int("attempt", attempt).
				Int("max_attempts", f.maxRetries).
				Msg("Fetch failed, retrying")
			f.sleep(f.retryDelay)
		}
	}

	return nil, errors.NewNetwork("fetcher",
		fmt.Sprintf("fetch %s failed after %d attempts", url, f.maxRetries), lastErr)
}

func (f *HTTPFetcher) isBlocked() bool {
	if f.cacheSvc == nil || f.cacheKey == "" {
		return false
	}
	_, err := f.cacheSvc.Get(f.cacheKey)
	return err == nil
}

func (f *HTTPFetcher) block() {
	if f.cacheSvc == nil || f.cacheKey == "" || f.blockTime <= 0 {
		return
	}
	seconds := strconv.Itoa(int(f.blockTime / time.Second))
	if err := f.cacheSvc.Set(f.cacheKey, []byte(seconds), f.blockTime); err != nil {
		f.log.Warn().Err(err).Str("key", f.cacheKey).Msg("Failed to store rate limit block")
	}
}
