package storage

import (
	"context"
	"slices"
	"sync"
)

// MockStorage is a mock implementation of Storage for testing
type MockStorage struct {
	mu        sync.RWMutex
	builds    map[string]*Build
	runs      map[string][]string
	pingError error
	saveError error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		builds: make(map[string]*Build),
		runs:   make(map[string][]string),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError configures the mock to fail on SaveBuild
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveBuild(ctx context.Context, b *Build) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	cp := *b
	m.builds[b.ModKey+":"+b.RunID] = &cp
	m.runs[b.ModKey] = append([]string{b.RunID}, m.runs[b.ModKey]...)
	return nil
}

func (m *MockStorage) LatestBuild(ctx context.Context, modKey string) (*Build, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	runs := m.runs[modKey]
	if len(runs) == 0 {
		return nil, nil
	}
	cp := *m.builds[modKey+":"+runs[0]]
	return &cp, nil
}

func (m *MockStorage) GetBuild(ctx context.Context, modKey, runID string) (*Build, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.builds[modKey+":"+runID]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (m *MockStorage) ListBuilds(ctx context.Context, modKey string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.runs[modKey]), nil
}
