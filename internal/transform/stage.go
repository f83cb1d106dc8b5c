package transform

import (
	"fmt"
	"strings"

	"sjsage522/fashionetl/internal/record"
	"sjsage522/fashionetl/pkg/errors"
)

// Stage is one wholesale dataset-to-dataset step of the pipeline.
type Stage struct {
	Name string
	// Requires lists the columns the stage reads
	Requires []string
	// Column is the field a normalizer stage resolves, empty for filters
	Column string
	Apply  func(Dataset) Dataset
}

// Stage names
const (
	StageInvalidTitles = "remove_invalid_titles"
	StagePrice         = "normalize_price"
	StageRating        = "normalize_rating"
	StageColors        = "normalize_colors"
	StageSize          = "normalize_size"
	StageGender        = "normalize_gender"
	StageNulls         = "remove_nulls"
	StageDuplicates    = "remove_duplicates"
	StageCoerce        = "coerce"
)

// InvalidTitleStage removes "Unknown Product" rows.
func InvalidTitleStage() Stage {
	return Stage{
		Name:     StageInvalidTitles,
		Requires: []string{record.ColumnTitle},
		Apply:    RemoveInvalidTitles,
	}
}

// PriceStage converts prices with the given exchange rate.
func PriceStage(rate float64) Stage {
	return normalizerStage(StagePrice, record.ColumnPrice, func(raw string) record.Opt[float64] {
		return NormalizePrice(raw, rate)
	})
}

// RatingStage normalizes ratings.
func RatingStage() Stage {
	return normalizerStage(StageRating, record.ColumnRating, NormalizeRating)
}

// ColorsStage normalizes color counts.
func ColorsStage() Stage {
	return normalizerStage(StageColors, record.ColumnColors, NormalizeColors)
}

// SizeStage normalizes sizes.
func SizeStage() Stage {
	return normalizerStage(StageSize, record.ColumnSize, NormalizeSize)
}

// GenderStage normalizes genders.
func GenderStage() Stage {
	return normalizerStage(StageGender, record.ColumnGender, NormalizeGender)
}

// NullStage removes rows with absent cells.
func NullStage() Stage {
	return Stage{Name: StageNulls, Apply: RemoveNulls}
}

// DuplicateStage removes duplicate rows.
func DuplicateStage() Stage {
	return Stage{
		Name:     StageDuplicates,
		Requires: nonTimestampColumns(),
		Apply:    RemoveDuplicates,
	}
}

// DefaultStages returns the cleaning order used by every run.
func DefaultStages(rate float64) []Stage {
	return []Stage{
		InvalidTitleStage(),
		PriceStage(rate),
		RatingStage(),
		ColorsStage(),
		SizeStage(),
		GenderStage(),
		NullStage(),
		DuplicateStage(),
	}
}

// normalizerStage resolves every raw cell of column with fn. Cells already
// resolved are left alone.
func normalizerStage[T any](name, column string, fn func(string) record.Opt[T]) Stage {
	return Stage{
		Name:     name,
		Requires: []string{column},
		Column:   column,
		Apply: func(ds Dataset) Dataset {
			return ds.mapColumn(column, func(c Cell) Cell {
				if c.state != stateRaw {
					return c
				}
				return resolve(c, fn(c.Raw))
			})
		},
	}
}

func nonTimestampColumns() []string {
	cols := make([]string, 0, len(record.Columns)-1)
	for _, c := range record.Columns {
		if c != record.ColumnTimestamp {
			cols = append(cols, c)
		}
	}
	return cols
}

func requireColumns(stage string, ds Dataset, columns []string) error {
	var missing []string
	for _, col := range columns {
		if !ds.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return errors.NewPipeline(stage,
		fmt.Sprintf("missing column(s) %s", strings.Join(missing, ", ")),
		errors.ErrMissingColumn)
}
