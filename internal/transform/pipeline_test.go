package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/fashionetl/internal/record"
	"sjsage522/fashionetl/logger"
	"sjsage522/fashionetl/pkg/errors"
)

func rawRecord(title, price, rating, ts string) record.RawRecord {
	return record.RawRecord{
		Title:     title,
		Price:     price,
		Rating:    rating,
		Colors:    "3 Colors",
		Size:      "Size: M",
		Gender:    "Gender: Men",
		Timestamp: ts,
	}
}

func TestPipelineEndToEnd(t *testing.T) {
	raw := record.NewRawDataset([]record.RawRecord{
		rawRecord("Product A", "$100.00", "Rating: ⭐ 4.5 / 5", "2024-01-01 10:00:00"),
		rawRecord("Unknown Product", "$50.00", "Rating: ⭐ 4.0 / 5", "2024-01-01 10:00:01"),
		rawRecord("Product B", "$200.00", "Invalid Rating", "2024-01-01 10:00:02"),
		rawRecord("Product A", "$100.00", "Rating: ⭐ 4.5 / 5", "2024-01-01 10:00:03"),
	})

	clean, report, err := NewPipeline(16000, logger.Nop()).Run(raw)
	require.NoError(t, err)

	require.Len(t, clean, 1)
	assert.Less(t, len(clean), raw.Len())
	assert.Equal(t, record.CleanRecord{
		Title:     "Product A",
		Price:     1600000,
		Rating:    4.5,
		Colors:    3,
		Size:      "M",
		Gender:    "Men",
		Timestamp: "2024-01-01 10:00:00",
	}, clean[0])

	for _, rec := range clean {
		assert.NotEqual(t, InvalidTitle, rec.Title)
	}

	assert.Equal(t, 4, report.Input)
	assert.Equal(t, 1, report.Output)
	assert.Equal(t, 3, report.Removed())
}

func TestPipelineReportCountsEveryStage(t *testing.T) {
	raw := record.NewRawDataset([]record.RawRecord{
		rawRecord("Product A", "$100.00", "Rating: ⭐ 4.5 / 5", "t1"),
		rawRecord("Unknown Product", "$50.00", "Rating: ⭐ 4.0 / 5", "t2"),
		rawRecord("Product B", "Price Unavailable", "Rating: ⭐ 4.0 / 5", "t3"),
	})

	_, report, err := NewPipeline(16000, nil).Run(raw)
	require.NoError(t, err)

	names := make([]string, 0, len(report.Stages))
	for _, sr := range report.Stages {
		names = append(names, sr.Stage)
	}
	assert.Equal(t, []string{
		StageInvalidTitles, StagePrice, StageRating, StageColors,
		StageSize, StageGender, StageNulls, StageDuplicates, StageCoerce,
	}, names)

	assert.Equal(t, StageReport{Stage: StageInvalidTitles, In: 3, Out: 2, Dropped: 1}, report.Stages[0])
	assert.Equal(t, StageReport{Stage: StagePrice, In: 2, Out: 2, Valid: 1}, report.Stages[1])
	assert.Equal(t, StageReport{Stage: StageNulls, In: 2, Out: 1, Dropped: 1}, report.Stages[6])
}

func TestPipelineMissingColumnAborts(t *testing.T) {
	raw := record.RawDataset{
		Columns: []string{"Title", "Price", "Colors", "Size", "Gender", "Timestamp"},
		Records: []record.RawRecord{rawRecord("Product A", "$1.00", "", "t1")},
	}

	clean, _, err := NewPipeline(16000, nil).Run(raw)
	require.Error(t, err)
	assert.Nil(t, clean)
	assert.ErrorIs(t, err, errors.ErrMissingColumn)
	assert.True(t, errors.IsType(err, errors.ErrorTypePipeline))
	assert.Contains(t, err.Error(), "Rating")
}

func TestPipelineWithoutNormalizerFailsCoercion(t *testing.T) {
	raw := record.NewRawDataset([]record.RawRecord{
		rawRecord("Product A", "$1.00", "Rating: ⭐ 4.5 / 5", "t1"),
	})
	stages := []Stage{InvalidTitleStage(), PriceStage(1), NullStage()}

	_, _, err := NewPipelineWithStages(stages, nil).Run(raw)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypePipeline))
	assert.Contains(t, err.Error(), "Rating is not normalized")
}

func TestPipelineDoesNotModifyInput(t *testing.T) {
	raw := record.NewRawDataset([]record.RawRecord{
		rawRecord("Product A", "$1.00", "Rating: ⭐ 4.5 / 5", "t1"),
	})
	before := raw.Records[0]

	_, _, err := NewPipeline(16000, nil).Run(raw)
	require.NoError(t, err)
	assert.Equal(t, before, raw.Records[0])
}

func TestPipelineEmptyInput(t *testing.T) {
	clean, report, err := NewPipeline(16000, nil).Run(record.NewRawDataset(nil))
	require.NoError(t, err)
	assert.Empty(t, clean)
	assert.Equal(t, 0, report.Removed())
}

// Prices "$1,000.00" and "$1000.00" differ as text but not as numbers, so
// duplicate elimination only catches them after normalization.
func TestDuplicateEliminationMustFollowNormalization(t *testing.T) {
	raw := record.NewRawDataset([]record.RawRecord{
		rawRecord("Jacket", "$1,000.00", "Rating: ⭐ 4.5 / 5", "t1"),
		rawRecord("Jacket", "$1000.00", "Rating: ⭐ 4.5 / 5", "t2"),
	})

	clean, _, err := NewPipeline(16000, nil).Run(raw)
	require.NoError(t, err)
	require.Len(t, clean, 1)
	assert.Equal(t, "t1", clean[0].Timestamp)

	early := []Stage{
		InvalidTitleStage(),
		DuplicateStage(),
		PriceStage(16000),
		RatingStage(),
		ColorsStage(),
		SizeStage(),
		GenderStage(),
		NullStage(),
	}
	reordered, _, err := NewPipelineWithStages(early, nil).Run(raw)
	require.NoError(t, err)
	assert.Len(t, reordered, 2)
}

func TestFromRawKeepsOnlyProvidedColumns(t *testing.T) {
	ds := FromRaw(record.RawDataset{
		Columns: []string{record.ColumnTitle},
		Records: []record.RawRecord{{Title: "A", Price: "$1.00"}},
	})
	require.Equal(t, 1, ds.Len())
	_, hasPrice := ds.Rows[0][record.ColumnPrice]
	assert.False(t, hasPrice)
	assert.Equal(t, "A", ds.Rows[0][record.ColumnTitle].Raw)
}
