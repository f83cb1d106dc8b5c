package record

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// WriteRawCSV writes a raw dataset with a header row.
func WriteRawCSV(w io.Writer, ds RawDataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, r := range ds.Records {
		if err := cw.Write(r.Values()); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadRawCSV reads a raw dataset. The dataset columns are taken from the
// header; columns absent from the file read as empty strings.
func ReadRawCSV(r io.Reader) (RawDataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return RawDataset{}, fmt.Errorf("csv: read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	field := func(row []string, name string) string {
		if i, ok := index[name]; ok && i < len(row) {
			return row[i]
		}
		return ""
	}

	ds := RawDataset{Columns: header}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return RawDataset{}, fmt.Errorf("csv: read row: %w", err)
		}
		ds.Records = append(ds.Records, RawRecord{
			Title:     field(row, ColumnTitle),
			Price:     field(row, ColumnPrice),
			Rating:    field(row, ColumnRating),
			Colors:    field(row, ColumnColors),
			Size:      field(row, ColumnSize),
			Gender:    field(row, ColumnGender),
			Timestamp: field(row, ColumnTimestamp),
		})
	}
	return ds, nil
}

// CleanRow formats a clean record in Columns order.
func CleanRow(r CleanRecord) []string {
	return []string{
		r.Title,
		strconv.FormatFloat(r.Price, 'f', -1, 64),
		strconv.FormatFloat(r.Rating, 'f', -1, 64),
		strconv.Itoa(r.Colors),
		r.Size,
		r.Gender,
		r.Timestamp,
	}
}

// WriteCleanCSV writes a clean dataset with a header row.
func WriteCleanCSV(w io.Writer, ds CleanDataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, r := range ds {
		if err := cw.Write(CleanRow(r)); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveRawCSV writes a raw dataset to path, creating parent directories.
func SaveRawCSV(path string, ds RawDataset) error {
	return saveFile(path, func(w io.Writer) error { return WriteRawCSV(w, ds) })
}

// SaveCleanCSV writes a clean dataset to path, creating parent directories.
func SaveCleanCSV(path string, ds CleanDataset) error {
	return saveFile(path, func(w io.Writer) error { return WriteCleanCSV(w, ds) })
}

// LoadRawCSV reads a raw dataset from path.
func LoadRawCSV(path string) (RawDataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return RawDataset{}, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()
	return ReadRawCSV(f)
}

func saveFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("csv: create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
