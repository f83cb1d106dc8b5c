package crawler

import (
	"context"
	"errors"
	"sync"
	"time"

	"sjsage522/fashionetl/internal/record"
)

// MockCacheService implements a simple in-memory cache for testing
type MockCacheService struct {
	mu    sync.Mutex
	cache map[string][]byte
}

func NewMockCacheService() *MockCacheService {
	return &MockCacheService{
		cache: make(map[string][]byte),
	}
}

func (m *MockCacheService) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if val, ok := m.cache[key]; ok {
		return val, nil
	}
	return nil, errors.New("cache miss")
}

func (m *MockCacheService) Set(key string, value []byte, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[key] = value
	return nil
}

func (m *MockCacheService) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cache, key)
	return nil
}

// fakeFetcher serves canned markup or errors per URL
type fakeFetcher struct {
	pages     map[string]string
	failures  map[string]error
	requested []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.requested = append(f.requested, url)
	if err, ok := f.failures[url]; ok {
		return nil, err
	}
	if markup, ok := f.pages[url]; ok {
		return []byte(markup), nil
	}
	return nil, errors.New("no such page: " + url)
}

// failingExtractor fails for one title and delegates otherwise
type failingExtractor struct {
	inner   FieldExtractor
	failFor string
}

func (f failingExtractor) Extract(anchor Node) (record.RawRecord, error) {
	if anchor != nil && anchor.Text() == f.failFor {
		return record.RawRecord{}, errors.New("unreadable listing")
	}
	return f.inner.Extract(anchor)
}
