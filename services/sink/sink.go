// Package sink persists clean datasets to their destinations.
package sink

import (
	"context"
	"fmt"

	"sjsage522/fashionetl/internal/record"
	"sjsage522/fashionetl/logger"
)

// Status is the outcome of one sink load
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Result reports what a sink did. Info carries the destination on success
// and the reason otherwise.
type Result struct {
	Sink   string `json:"sink"`
	Status Status `json:"status"`
	Info   string `json:"info"`
}

// Success returns a success result
func Success(info string) Result {
	return Result{Status: StatusSuccess, Info: info}
}

// Failed returns a failure result for err
func Failed(err error) Result {
	return Result{Status: StatusFailed, Info: err.Error()}
}

// Skipped returns a skipped result
func Skipped(reason string) Result {
	return Result{Status: StatusSkipped, Info: reason}
}

// Sink represents a destination for clean datasets
type Sink interface {
	// Name identifies the sink in results and logs
	Name() string

	// Load writes the dataset. Failures are reported in the result.
	Load(ctx context.Context, ds record.CleanDataset) Result
}

type runIDKey struct{}

// WithRunID attaches the run id to ctx for sinks that record it
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFrom returns the run id attached by WithRunID
func RunIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// LoadAll loads ds into every sink in order. A failing sink never stops
// the others.
func LoadAll(ctx context.Context, sinks []Sink, ds record.CleanDataset, log *logger.Logger) []Result {
	log = logger.OrNop(log)
	results := make([]Result, 0, len(sinks))

	for _, s := range sinks {
		res := load(ctx, s, ds)
		res.Sink = s.Name()
		results = append(results, res)

		sinkLog := log.WithFields(logger.Fields{"sink": res.Sink, "status": string(res.Status)})
		switch res.Status {
		case StatusSuccess:
			sinkLog.Info().Str("info", res.Info).Int("records", len(ds)).Msg("Sink loaded")
		case StatusSkipped:
			sinkLog.Warn().Str("reason", res.Info).Msg("Sink skipped")
		default:
			sinkLog.Error().Str("error", res.Info).Msg("Sink failed")
		}
	}

	return results
}

func load(ctx context.Context, s Sink, ds record.CleanDataset) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Failed(fmt.Errorf("panic: %v", r))
		}
	}()
	if err := ctx.Err(); err != nil {
		return Failed(err)
	}
	return s.Load(ctx, ds)
}
