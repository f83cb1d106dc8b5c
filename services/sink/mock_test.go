package sink

import (
	"context"

	"sjsage522/fashionetl/internal/record"
)

// MockSink records the datasets it receives and returns a canned result
type MockSink struct {
	name   string
	result Result
	panics bool
	loaded []record.CleanDataset
}

func (m *MockSink) Name() string { return m.name }

func (m *MockSink) Load(_ context.Context, ds record.CleanDataset) Result {
	if m.panics {
		panic("sink exploded")
	}
	m.loaded = append(m.loaded, ds)
	return m.result
}

// fakeSheets is an in-memory sheetsAPI
type fakeSheets struct {
	titles    []string
	addErr    error
	clearErr  error
	added     []string
	cleared   []string
	updated   string
	values    [][]interface{}
	updateErr error
}

func (f *fakeSheets) SheetTitles(context.Context, string) ([]string, error) {
	return f.titles, nil
}

func (f *fakeSheets) AddSheet(_ context.Context, _ string, title string) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, title)
	f.titles = append(f.titles, title)
	return nil
}

func (f *fakeSheets) Clear(_ context.Context, _ string, rng string) error {
	f.cleared = append(f.cleared, rng)
	return f.clearErr
}

func (f *fakeSheets) Update(_ context.Context, _ string, rng string, values [][]interface{}) (int64, error) {
	if f.updateErr != nil {
		return 0, f.updateErr
	}
	f.updated = rng
	f.values = values
	var cells int64
	for _, row := range values {
		cells += int64(len(row))
	}
	return cells, nil
}

func sampleDataset() record.CleanDataset {
	return record.CleanDataset{
		{Title: "T-shirt 2", Price: 1634400, Rating: 3.9, Colors: 3, Size: "M", Gender: "Women", Timestamp: "2024-05-01 09:30:15"},
		{Title: "Hoodie 3", Price: 7996800, Rating: 4.8, Colors: 3, Size: "L", Gender: "Unisex", Timestamp: "2024-05-01 09:30:16"},
	}
}
