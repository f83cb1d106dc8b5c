package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sjsage522/fashionetl/config"
	"sjsage522/fashionetl/internal/crawler"
	"sjsage522/fashionetl/internal/transform"
	"sjsage522/fashionetl/logger"
	"sjsage522/fashionetl/services/cache"
	"sjsage522/fashionetl/services/sink"
	"sjsage522/fashionetl/services/worker"

	"github.com/joho/godotenv"
)

const userAgent = "fashionetl"

func main() {
	os.Exit(run())
}

func run() int {
	// Load environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 1
	}

	logOpts := logger.Options{Environment: cfg.Environment}
	if cfg.LogFileEnabled {
		logOpts.LogFile = logger.RunLogFileName(time.Now())
	}
	if err := logger.Init(logOpts); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Close()
	log := logger.ForComponent("main")

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		return 1
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("base_url", cfg.Catalog.BaseURL).
		Int("pages", cfg.Catalog.PageCount).
		Str("fetch_mode", cfg.Fetch.Mode).
		Dur("run_interval", cfg.RunInterval()).
		Msg("Starting application")

	// Cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	services := initializeServices(cfg, logger.Default)
	defer services.Cleanup()

	runner := newRunner(cfg, services, logger.Default)
	err = runner.Start(ctx, func(summary worker.Summary, err error) {
		fmt.Print(summary.Table())
		if err != nil {
			log.Error().Err(err).Str("run_id", summary.RunID).Msg("ETL pipeline failed")
		}
	})
	if err != nil {
		if ctx.Err() != nil {
			log.Info().Msg("Received shutdown signal")
		}
		return 1
	}

	log.Info().Msg("ETL pipeline completed successfully")
	return 0
}

// Services holds all the initialized services
type Services struct {
	Cache   cache.CacheService
	Fetcher crawler.Fetcher
	Sinks   []sink.Sink

	closers []io.Closer
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	for _, c := range s.closers {
		_ = c.Close()
	}
}

// initializeServices builds the fetcher and sinks described by cfg
func initializeServices(cfg *config.Config, log *logger.Logger) *Services {
	log = logger.OrNop(log)
	services := &Services{Cache: newCache(cfg, log)}

	switch cfg.Fetch.Mode {
	case config.FetchModeChrome:
		chrome := crawler.NewChromeFetcher(cfg.Fetch.ChromeBin, cfg.FetchTimeout(), log.WithComponent("chrome"))
		services.Fetcher = chrome
		services.closers = append(services.closers, chrome)
	default:
		fetcher := crawler.NewHTTPFetcher(crawler.HTTPFetcherConfig{
			Timeout:    cfg.FetchTimeout(),
			MaxRetries: cfg.Fetch.MaxRetries,
			RetryDelay: cfg.RetryDelay(),
			CacheKey:   "catalog_rate_limited",
			BlockTime:  cfg.RateLimitBlock(),
		}, services.Cache, log.WithComponent("fetcher"))
		if cfg.Fetch.RespectRobots {
			fetcher.WithRobots(userAgent)
		}
		services.Fetcher = fetcher
	}

	redisSink := sink.NewRedisSink(sink.RedisConfig{
		Addr:            cfg.Redis.Addr,
		DB:              cfg.Redis.DB,
		Stream:          cfg.Redis.Stream,
		StreamMaxLength: cfg.Redis.StreamMaxLength,
	}, log.WithComponent("redis"))
	services.closers = append(services.closers, redisSink)

	services.Sinks = []sink.Sink{
		sink.NewCSVSink(cfg.Output.CSVPath, log.WithComponent("csv")),
		sink.NewSheetsSink(sink.SheetsConfig{
			SpreadsheetID:   cfg.Sheets.SpreadsheetID,
			CredentialsFile: cfg.Sheets.CredentialsFile,
			SheetName:       cfg.Sheets.SheetName,
		}, log.WithComponent("sheets")),
		sink.NewSQLSink(sink.SQLConfig{
			Driver: cfg.Database.Driver,
			DSN:    cfg.Database.DSN,
			Table:  cfg.Database.Table,
		}, log.WithComponent("sql")),
		redisSink,
	}

	return services
}

// newCache prefers memcache and falls back to an in-process cache when it
// is not configured or unreachable
func newCache(cfg *config.Config, log *logger.Logger) cache.CacheService {
	if cfg.MemcacheAddr == "" {
		return cache.NewMemoryCache()
	}
	mc := cache.NewMemcacheService(cfg.MemcacheAddr)
	if err := mc.Ping(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.MemcacheAddr).Msg("Memcache unavailable, using in-memory cache")
		return cache.NewMemoryCache()
	}
	log.Info().Str("addr", cfg.MemcacheAddr).Msg("Connected to Memcache")
	return mc
}

// newRunner wires the walker, pipeline and sinks into a runner
func newRunner(cfg *config.Config, services *Services, log *logger.Logger) *worker.Runner {
	log = logger.OrNop(log)
	selectors := crawler.DefaultSelectors()

	parser := crawler.NewParser(selectors, crawler.NewExtractor(selectors), log.WithComponent("parser"))
	walker := crawler.NewWalker(services.Fetcher, parser, log.WithComponent("walker"))
	pipeline := transform.NewPipeline(cfg.Transform.ExchangeRate, log.WithComponent("pipeline"))

	return worker.NewRunner(walker, pipeline, services.Sinks, worker.Options{
		BaseURL:      cfg.Catalog.BaseURL,
		PageCount:    cfg.Catalog.PageCount,
		PageDelay:    cfg.PageDelay(),
		RawCSVPath:   cfg.Output.RawCSVPath,
		CleanCSVPath: cfg.Output.CleanCSVPath,
		Interval:     cfg.RunInterval(),
	}, log.WithComponent("runner"))
}
