package transform

import (
	"fmt"
	"strings"

	"sjsage522/fashionetl/internal/record"
)

// InvalidTitle marks listings the catalog could not name.
const InvalidTitle = "Unknown Product"

// RemoveInvalidTitles drops rows whose Title is exactly InvalidTitle.
func RemoveInvalidTitles(ds Dataset) Dataset {
	return ds.filter(func(row Row) bool {
		return row[record.ColumnTitle].Raw != InvalidTitle
	})
}

// RemoveNulls drops rows holding an absent cell in any column.
func RemoveNulls(ds Dataset) Dataset {
	return ds.filter(func(row Row) bool {
		for _, cell := range row {
			if cell.Absent() {
				return false
			}
		}
		return true
	})
}

// RemoveDuplicates keeps the first of every group of rows that agree on all
// columns except Timestamp. Normalized cells compare by value, raw cells by
// text.
func RemoveDuplicates(ds Dataset) Dataset {
	seen := make(map[string]struct{}, ds.Len())
	return ds.filter(func(row Row) bool {
		key := duplicateKey(ds.Columns, row)
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
		return true
	})
}

func duplicateKey(columns []string, row Row) string {
	var b strings.Builder
	for _, col := range columns {
		if col == record.ColumnTimestamp {
			continue
		}
		cell := row[col]
		switch cell.state {
		case stateFound:
			fmt.Fprintf(&b, "v:%T:%v", cell.Value, cell.Value)
		case stateAbsent:
			b.WriteString("absent")
		default:
			b.WriteString("r:" + cell.Raw)
		}
		b.WriteByte(0x1f)
	}
	return b.String()
}
