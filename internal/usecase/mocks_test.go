package usecase

import (
	"context"
	"sync"

	"github.com/grocerycompare/backend/internal/domain"
)

// MockStoreClient is a mock implementation of domain.StoreClient
type MockStoreClient struct {
	mu      sync.Mutex
	results map[domain.Store]map[string][]domain.CatalogEntry
	errors  map[domain.Store]error
	calls   []string
}

func NewMockStoreClient() *MockStoreClient {
	return &MockStoreClient{
		results: make(map[domain.Store]map[string][]domain.CatalogEntry),
		errors:  make(map[domain.Store]error),
	}
}

func (m *MockStoreClient) On(store domain.Store, query string, entries ...domain.CatalogEntry) *MockStoreClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.results[store] == nil {
		m.results[store] = make(map[string][]domain.CatalogEntry)
	}
	m.results[store][query] = entries
	return m
}

func (m *MockStoreClient) Fail(store domain.Store, err error) *MockStoreClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[store] = err
	return m
}

func (m *MockStoreClient) Search(ctx context.Context, store domain.Store, query string) ([]domain.CatalogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, string(store)+"|"+query)
	if err := m.errors[store]; err != nil {
		return nil, err
	}
	return m.results[store][query], nil
}

func (m *MockStoreClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// MockCatalogCache is a mock implementation of domain.CatalogCache
type MockCatalogCache struct {
	mu       sync.Mutex
	data     map[string][]domain.CatalogEntry
	getError error
	setError error
	sets     int
}

func NewMockCatalogCache() *MockCatalogCache {
	return &MockCatalogCache{data: make(map[string][]domain.CatalogEntry)}
}

func (m *MockCatalogCache) Get(ctx context.Context, key string) ([]domain.CatalogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return nil, m.getError
	}
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCatalogCache) Set(ctx context.Context, key string, entries []domain.CatalogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = entries
	return nil
}
