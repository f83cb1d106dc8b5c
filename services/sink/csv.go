package sink

import (
	"context"
	"os"

	"sjsage522/fashionetl/internal/record"
	"sjsage522/fashionetl/logger"
	"sjsage522/fashionetl/pkg/errors"
)

// CSVSink writes the clean dataset to a local file
type CSVSink struct {
	path string
	log  *logger.Logger
}

// NewCSVSink creates a CSV sink writing to path
func NewCSVSink(path string, log *logger.Logger) *CSVSink {
	return &CSVSink{path: path, log: logger.OrNop(log)}
}

func (s *CSVSink) Name() string { return "csv" }

func (s *CSVSink) Load(_ context.Context, ds record.CleanDataset) Result {
	if err := record.SaveCleanCSV(s.path, ds); err != nil {
		return Failed(errors.NewSink(s.Name(), "write failed", err))
	}

	info, err := os.Stat(s.path)
	if err != nil {
		return Failed(errors.NewSink(s.Name(), "file missing after write", err))
	}
	s.log.Debug().Str("path", s.path).Int64("bytes", info.Size()).Msg("CSV written")

	return Success(s.path)
}
