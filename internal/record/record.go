// Package record defines the raw and clean product records that flow from
// the catalog walker through the transformation pipeline to the sinks.
package record

// Column names shared by raw and clean datasets.
const (
	ColumnTitle     = "Title"
	ColumnPrice     = "Price"
	ColumnRating    = "Rating"
	ColumnColors    = "Colors"
	ColumnSize      = "Size"
	ColumnGender    = "Gender"
	ColumnTimestamp = "Timestamp"
)

// Columns is the fixed column order of every dataset.
var Columns = []string{
	ColumnTitle,
	ColumnPrice,
	ColumnRating,
	ColumnColors,
	ColumnSize,
	ColumnGender,
	ColumnTimestamp,
}

// TimestampLayout is the capture-time format stored in Timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// RawRecord is one listing exactly as extracted from the page markup.
type RawRecord struct {
	Title     string `json:"title"`
	Price     string `json:"price"`
	Rating    string `json:"rating"`
	Colors    string `json:"colors"`
	Size      string `json:"size"`
	Gender    string `json:"gender"`
	Timestamp string `json:"timestamp"`
}

// Values returns the record fields in Columns order.
func (r RawRecord) Values() []string {
	return []string{r.Title, r.Price, r.Rating, r.Colors, r.Size, r.Gender, r.Timestamp}
}

// RawDataset is an ordered set of raw records together with the columns
// its source provided.
type RawDataset struct {
	Columns []string
	Records []RawRecord
}

// NewRawDataset wraps records extracted by the crawler, which always carry
// every column.
func NewRawDataset(records []RawRecord) RawDataset {
	cols := make([]string, len(Columns))
	copy(cols, Columns)
	return RawDataset{Columns: cols, Records: records}
}

// Len returns the number of records.
func (d RawDataset) Len() int {
	return len(d.Records)
}

// HasColumn reports whether the dataset carries the named column.
func (d RawDataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// CleanRecord is a fully normalized listing.
type CleanRecord struct {
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Rating    float64 `json:"rating"`
	Colors    int     `json:"colors"`
	Size      string  `json:"size"`
	Gender    string  `json:"gender"`
	Timestamp string  `json:"timestamp"`
}

// CleanDataset is the output of the transformation pipeline.
type CleanDataset []CleanRecord

// Opt is the result of normalizing one raw value: either a found value or
// absent.
type Opt[T any] struct {
	value T
	ok    bool
}

// Found wraps a valid value.
func Found[T any](v T) Opt[T] {
	return Opt[T]{value: v, ok: true}
}

// Absent returns the empty result.
func Absent[T any]() Opt[T] {
	return Opt[T]{}
}

// Get returns the value and whether it is present.
func (o Opt[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsAbsent reports whether no value is present.
func (o Opt[T]) IsAbsent() bool {
	return !o.ok
}
