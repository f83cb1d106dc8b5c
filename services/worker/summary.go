package worker

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"sjsage522/fashionetl/internal/record"
	"sjsage522/fashionetl/internal/transform"
	"sjsage522/fashionetl/services/sink"
)

// Summary describes one ETL run
type Summary struct {
	RunID       string                  `json:"run_id"`
	Start       time.Time               `json:"start"`
	End         time.Time               `json:"end"`
	Duration    time.Duration           `json:"duration"`
	RawCount    int                     `json:"raw_count"`
	CleanCount  int                     `json:"clean_count"`
	Removed     int                     `json:"removed"`
	FailedPages []int                   `json:"failed_pages"`
	Stages      []transform.StageReport `json:"stages"`
	Sinks       []sink.Result           `json:"sinks"`
}

var statusSymbols = map[sink.Status]string{
	sink.StatusSuccess: "✓",
	sink.StatusSkipped: "○",
	sink.StatusFailed:  "✗",
}

// Table renders the summary as aligned text tables
func (s Summary) Table() string {
	var b strings.Builder

	b.WriteString(renderTable([]string{"Run", "Value"}, [][]string{
		{"Run ID", s.RunID},
		{"Start", s.Start.Format(record.TimestampLayout)},
		{"End", s.End.Format(record.TimestampLayout)},
		{"Duration", fmt.Sprintf("%.2fs", s.Duration.Seconds())},
		{"Raw records", fmt.Sprint(s.RawCount)},
		{"Clean records", fmt.Sprint(s.CleanCount)},
		{"Removed", fmt.Sprint(s.Removed)},
		{"Failed pages", formatPages(s.FailedPages)},
	}))

	if len(s.Stages) > 0 {
		rows := make([][]string, 0, len(s.Stages))
		for _, st := range s.Stages {
			rows = append(rows, []string{st.Stage, fmt.Sprint(st.In), fmt.Sprint(st.Out), fmt.Sprint(st.Dropped)})
		}
		b.WriteString("\n")
		b.WriteString(renderTable([]string{"Stage", "In", "Out", "Dropped"}, rows))
	}

	if len(s.Sinks) > 0 {
		rows := make([][]string, 0, len(s.Sinks))
		for _, res := range s.Sinks {
			rows = append(rows, []string{statusSymbols[res.Status] + " " + res.Sink, string(res.Status), res.Info})
		}
		b.WriteString("\n")
		b.WriteString(renderTable([]string{"Sink", "Status", "Info"}, rows))
	}

	return b.String()
}

func formatPages(pages []int) string {
	if len(pages) == 0 {
		return "none"
	}
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = fmt.Sprint(p)
	}
	return strings.Join(parts, ", ")
}

// renderTable pads cells by display width so wide symbols line up
func renderTable(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for i, w := range widths {
			content := ""
			if i < len(cells) {
				content = cells[i]
			}
			b.WriteString(" ")
			b.WriteString(content)
			if pad := w - runewidth.StringWidth(content); pad > 0 {
				b.WriteString(strings.Repeat(" ", pad))
			}
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	writeRow(header)
	b.WriteString("|")
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteString("|")
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(row)
	}
	return b.String()
}
