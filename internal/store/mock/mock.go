// Package mock provides an in-memory implementation of the store
// interfaces for testing.
package mock

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/CORREAK18/Biometrico-App/internal/store"
)

// MockEnrollmentStore is an in-memory implementation of store.EnrollmentWriter
type MockEnrollmentStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*store.EnrollmentRecord

	// Error injection
	GetError            error
	FindByExternalError error
	AllError            error
	CountError          error
	SearchError         error
	InsertError         error
	DeleteError         error
}

// NewMockEnrollmentStore creates a new empty mock store
func NewMockEnrollmentStore() *MockEnrollmentStore {
	return &MockEnrollmentStore{
		records: make(map[uuid.UUID]*store.EnrollmentRecord),
	}
}

// AddRecord seeds the mock store with a record
func (m *MockEnrollmentStore) AddRecord(rec store.EnrollmentRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = &rec
}

// Get retrieves a record by ID
func (m *MockEnrollmentStore) Get(ctx context.Context, id uuid.UUID) (*store.EnrollmentRecord, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

// FindByExternalID retrieves a record by its external identifier
func (m *MockEnrollmentStore) FindByExternalID(ctx context.Context, externalID string) (*store.EnrollmentRecord, error) {
	if m.FindByExternalError != nil {
		return nil, m.FindByExternalError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, rec := range m.records {
		if rec.ExternalID == externalID {
			copied := *rec
			return &copied, nil
		}
	}
	return nil, nil
}

// All returns every record sorted by creation time then ID for
// deterministic iteration in tests
func (m *MockEnrollmentStore) All(ctx context.Context) ([]store.EnrollmentRecord, error) {
	if m.AllError != nil {
		return nil, m.AllError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]store.EnrollmentRecord, 0, len(m.records))
	for _, rec := range m.records {
		records = append(records, *rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		}
		return records[i].ID.String() < records[j].ID.String()
	})
	return records, nil
}

// Count returns the number of stored records
func (m *MockEnrollmentStore) Count(ctx context.Context) (int, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records), nil
}

// SearchByDisplayName returns records matching the normalized name
func (m *MockEnrollmentStore) SearchByDisplayName(ctx context.Context, name string) ([]store.EnrollmentRecord, error) {
	if m.SearchError != nil {
		return nil, m.SearchError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	normalized := store.NormalizeDisplayName(name)
	var results []store.EnrollmentRecord
	for _, rec := range m.records {
		if store.NormalizeDisplayName(rec.DisplayName) == normalized {
			results = append(results, *rec)
		}
	}
	return results, nil
}

// Insert stores a new record
func (m *MockEnrollmentStore) Insert(ctx context.Context, record *store.EnrollmentRecord) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *record
	m.records[record.ID] = &copied
	return nil
}

// DeleteByID removes a record
func (m *MockEnrollmentStore) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.DeleteError != nil {
		return false, m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return false, nil
	}
	delete(m.records, id)
	return true, nil
}

// Verify interface compliance
var (
	_ store.EnrollmentReader = (*MockEnrollmentStore)(nil)
	_ store.EnrollmentWriter = (*MockEnrollmentStore)(nil)
)
