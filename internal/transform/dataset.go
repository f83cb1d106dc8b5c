package transform

import (
	"maps"

	"sjsage522/fashionetl/internal/record"
)

type cellState int

const (
	stateRaw cellState = iota
	stateFound
	stateAbsent
)

// Cell is one field of a working row. It holds the raw text until a
// normalizer resolves it to a typed value or marks it absent.
type Cell struct {
	Raw   string
	Value any
	state cellState
}

// RawCell wraps unprocessed text.
func RawCell(raw string) Cell {
	return Cell{Raw: raw}
}

// Found reports whether a normalizer produced a value for the cell.
func (c Cell) Found() bool { return c.state == stateFound }

// Absent reports whether a normalizer rejected the cell.
func (c Cell) Absent() bool { return c.state == stateAbsent }

func resolve[T any](c Cell, opt record.Opt[T]) Cell {
	if v, ok := opt.Get(); ok {
		return Cell{Raw: c.Raw, Value: v, state: stateFound}
	}
	return Cell{Raw: c.Raw, state: stateAbsent}
}

// Row maps column names to cells.
type Row map[string]Cell

// Dataset is the working table the stages pass along. Stages never modify
// the dataset they receive.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// FromRaw builds a working dataset holding only the columns raw provides.
func FromRaw(raw record.RawDataset) Dataset {
	ds := Dataset{
		Columns: append([]string(nil), raw.Columns...),
		Rows:    make([]Row, 0, len(raw.Records)),
	}
	for _, rec := range raw.Records {
		values := rec.Values()
		row := make(Row, len(ds.Columns))
		for i, col := range record.Columns {
			if raw.HasColumn(col) {
				row[col] = RawCell(values[i])
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds
}

// Len returns the number of rows.
func (d Dataset) Len() int { return len(d.Rows) }

// HasColumn reports whether the dataset carries the named column.
func (d Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

func (d Dataset) withRows(rows []Row) Dataset {
	return Dataset{Columns: d.Columns, Rows: rows}
}

// filter keeps the rows for which keep returns true.
func (d Dataset) filter(keep func(Row) bool) Dataset {
	rows := make([]Row, 0, len(d.Rows))
	for _, row := range d.Rows {
		if keep(row) {
			rows = append(rows, row)
		}
	}
	return d.withRows(rows)
}

// mapColumn returns a copy of the dataset with fn applied to one column.
func (d Dataset) mapColumn(column string, fn func(Cell) Cell) Dataset {
	rows := make([]Row, len(d.Rows))
	for i, row := range d.Rows {
		next := maps.Clone(row)
		next[column] = fn(row[column])
		rows[i] = next
	}
	return d.withRows(rows)
}
