package worker

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sjsage522/fashionetl/internal/crawler"
	"sjsage522/fashionetl/internal/record"
	"sjsage522/fashionetl/internal/transform"
	"sjsage522/fashionetl/logger"
	"sjsage522/fashionetl/services/sink"
)

// Walker produces the raw dataset of one run
type Walker interface {
	Walk(ctx context.Context, baseURL string, pageCount int, delay time.Duration) (record.RawDataset, crawler.WalkStats, error)
}

// Transformer turns the raw dataset into the clean one
type Transformer interface {
	Run(raw record.RawDataset) (record.CleanDataset, transform.Report, error)
}

// Options controls what one run walks and where it keeps its backups
type Options struct {
	BaseURL   string
	PageCount int
	PageDelay time.Duration
	// RawCSVPath and CleanCSVPath are backups; empty disables them
	RawCSVPath   string
	CleanCSVPath string
	// Interval between runs for Start; zero runs once
	Interval time.Duration
}

// Runner drives extract, transform and load
type Runner struct {
	walker   Walker
	pipeline Transformer
	sinks    []sink.Sink
	opts     Options
	log      *logger.Logger
	now      func() time.Time
	newRunID func() string
}

// NewRunner creates a runner
func NewRunner(walker Walker, pipeline Transformer, sinks []sink.Sink, opts Options, log *logger.Logger) *Runner {
	return &Runner{
		walker:   walker,
		pipeline: pipeline,
		sinks:    sinks,
		opts:     opts,
		log:      logger.OrNop(log),
		now:      time.Now,
		newRunID: uuid.NewString,
	}
}

// Run executes one full ETL run. Walk and pipeline errors fail the run;
// backup and sink failures only show up in the summary.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	summary := Summary{RunID: r.newRunID(), Start: r.now()}
	log := r.log.WithField("run_id", summary.RunID)
	finish := func() {
		summary.End = r.now()
		summary.Duration = summary.End.Sub(summary.Start)
	}

	log.Info().Str("base_url", r.opts.BaseURL).Int("pages", r.opts.PageCount).Msg("ETL run started")

	raw, stats, err := r.walker.Walk(ctx, r.opts.BaseURL, r.opts.PageCount, r.opts.PageDelay)
	summary.FailedPages = stats.FailedPages
	if err != nil {
		finish()
		log.Error().Err(err).Msg("Extract failed")
		return summary, err
	}
	summary.RawCount = raw.Len()
	log.Info().Int("records", raw.Len()).Msg("Extract completed")

	if r.opts.RawCSVPath != "" {
		if err := record.SaveRawCSV(r.opts.RawCSVPath, raw); err != nil {
			log.Warn().Err(err).Str("path", r.opts.RawCSVPath).Msg("Raw backup failed")
		} else {
			log.Info().Str("path", r.opts.RawCSVPath).Msg("Raw data saved")
		}
	}

	clean, report, err := r.pipeline.Run(raw)
	summary.Stages = report.Stages
	if err != nil {
		finish()
		log.Error().Err(err).Msg("Transform failed")
		return summary, err
	}
	summary.CleanCount = len(clean)
	summary.Removed = summary.RawCount - summary.CleanCount
	log.Info().
		Int("records", summary.CleanCount).
		Int("removed", summary.Removed).
		Msg("Transform completed")

	if r.opts.CleanCSVPath != "" {
		if err := record.SaveCleanCSV(r.opts.CleanCSVPath, clean); err != nil {
			log.Warn().Err(err).Str("path", r.opts.CleanCSVPath).Msg("Clean backup failed")
		} else {
			log.Info().Str("path", r.opts.CleanCSVPath).Msg("Clean data saved")
		}
	}

	summary.Sinks = sink.LoadAll(sink.WithRunID(ctx, summary.RunID), r.sinks, clean, log)

	finish()
	log.Info().
		Dur("duration", summary.Duration).
		Int("raw", summary.RawCount).
		Int("clean", summary.CleanCount).
		Msg("ETL run completed")

	return summary, nil
}

// Start runs once, or every Interval until ctx is done. onRun receives the
// summary and error of each run and may be nil. With an interval, run
// errors are logged and the loop continues; Start then returns ctx.Err().
func (r *Runner) Start(ctx context.Context, onRun func(Summary, error)) error {
	for {
		summary, err := r.Run(ctx)
		if onRun != nil {
			onRun(summary, err)
		}

		if r.opts.Interval <= 0 {
			return err
		}
		if err != nil {
			r.log.Error().Err(err).Dur("retry_in", r.opts.Interval).Msg("Run failed")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.opts.Interval):
		}
	}
}
