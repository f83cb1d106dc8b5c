// Package transform cleans raw catalog records into the typed clean schema.
package transform

import (
	"fmt"

	"sjsage522/fashionetl/internal/record"
	"sjsage522/fashionetl/logger"
	"sjsage522/fashionetl/pkg/errors"
)

// StageReport counts the rows one stage saw.
type StageReport struct {
	Stage   string `json:"stage"`
	In      int    `json:"in"`
	Out     int    `json:"out"`
	Dropped int    `json:"dropped"`
	// Valid is the number of resolved cells after a normalizer stage
	Valid int `json:"valid,omitempty"`
}

// Report collects the per-stage counters of one pipeline run.
type Report struct {
	Input  int           `json:"input"`
	Output int           `json:"output"`
	Stages []StageReport `json:"stages"`
}

// Removed returns how many input rows did not survive.
func (r Report) Removed() int {
	return r.Input - r.Output
}

// Pipeline runs its stages in order and coerces the result to the clean
// schema.
type Pipeline struct {
	stages []Stage
	log    *logger.Logger
}

// NewPipeline creates the default pipeline for the given exchange rate.
func NewPipeline(exchangeRate float64, log *logger.Logger) *Pipeline {
	return NewPipelineWithStages(DefaultStages(exchangeRate), log)
}

// NewPipelineWithStages creates a pipeline running exactly stages.
func NewPipelineWithStages(stages []Stage, log *logger.Logger) *Pipeline {
	return &Pipeline{stages: stages, log: logger.OrNop(log)}
}

// Run transforms raw into a clean dataset. Any stage error aborts the run
// and no partial dataset is returned.
func (p *Pipeline) Run(raw record.RawDataset) (record.CleanDataset, Report, error) {
	report := Report{Input: raw.Len()}
	ds := FromRaw(raw)

	p.log.Info().Int("records", raw.Len()).Msg("Starting transformation")

	for _, stage := range p.stages {
		if err := requireColumns(stage.Name, ds, stage.Requires); err != nil {
			p.log.Error().Err(err).Str("stage", stage.Name).Msg("Transformation aborted")
			return nil, report, err
		}

		out := stage.Apply(ds)
		sr := StageReport{Stage: stage.Name, In: ds.Len(), Out: out.Len(), Dropped: ds.Len() - out.Len()}
		if stage.Column != "" {
			sr.Valid = countFound(out, stage.Column)
		}
		report.Stages = append(report.Stages, sr)
		p.logStage(sr)
		ds = out
	}

	if err := requireColumns(StageCoerce, ds, record.Columns); err != nil {
		p.log.Error().Err(err).Str("stage", StageCoerce).Msg("Transformation aborted")
		return nil, report, err
	}
	clean, err := Coerce(ds)
	if err != nil {
		p.log.Error().Err(err).Str("stage", StageCoerce).Msg("Transformation aborted")
		return nil, report, err
	}
	report.Stages = append(report.Stages, StageReport{Stage: StageCoerce, In: ds.Len(), Out: len(clean)})
	report.Output = len(clean)

	p.log.Info().
		Int("input", report.Input).
		Int("output", report.Output).
		Int("removed", report.Removed()).
		Msg("Transformation completed")

	return clean, report, nil
}

func (p *Pipeline) logStage(sr StageReport) {
	event := p.log.Info().
		Str("stage", sr.Stage).
		Int("in", sr.In).
		Int("out", sr.Out).
		Int("dropped", sr.Dropped)
	if sr.Valid > 0 {
		event = event.Int("valid", sr.Valid)
	}
	event.Msg("Stage completed")
}

func countFound(ds Dataset, column string) int {
	n := 0
	for _, row := range ds.Rows {
		if row[column].Found() {
			n++
		}
	}
	return n
}

// Coerce converts every row to a CleanRecord. Text columns accept raw
// cells; numeric and enumerated columns must have been resolved by their
// normalizer.
func Coerce(ds Dataset) (record.CleanDataset, error) {
	clean := make(record.CleanDataset, 0, ds.Len())
	for i, row := range ds.Rows {
		var (
			rec  record.CleanRecord
			errs []error
		)
		rec.Title, errs = text(row, record.ColumnTitle, errs)
		rec.Timestamp, errs = text(row, record.ColumnTimestamp, errs)
		rec.Price, errs = typed[float64](row, record.ColumnPrice, errs)
		rec.Rating, errs = typed[float64](row, record.ColumnRating, errs)
		rec.Colors, errs = typed[int](row, record.ColumnColors, errs)
		rec.Size, errs = typed[string](row, record.ColumnSize, errs)
		rec.Gender, errs = typed[string](row, record.ColumnGender, errs)
		if len(errs) > 0 {
			return nil, errors.NewPipeline(StageCoerce, fmt.Sprintf("row %d", i), errs[0])
		}
		clean = append(clean, rec)
	}
	return clean, nil
}

func text(row Row, column string, errs []error) (string, []error) {
	cell := row[column]
	switch {
	case cell.Absent():
		return "", append(errs, fmt.Errorf("%s is absent", column))
	case cell.Found():
		if s, ok := cell.Value.(string); ok {
			return s, errs
		}
		return fmt.Sprint(cell.Value), errs
	default:
		return cell.Raw, errs
	}
}

func typed[T any](row Row, column string, errs []error) (T, []error) {
	var zero T
	cell := row[column]
	if !cell.Found() {
		return zero, append(errs, fmt.Errorf("%s is not normalized: %q", column, cell.Raw))
	}
	v, ok := cell.Value.(T)
	if !ok {
		return zero, append(errs, fmt.Errorf("%s holds %T, want %T", column, cell.Value, zero))
	}
	return v, errs
}
