package store

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ArsenAbrahamyann/trainerService/internal/domain"
)

// InMemoryStore keeps workload records in memory for tests and local dev.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]*domain.WorkloadRecord
}

// NewInMemoryStore constructs an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]*domain.WorkloadRecord)}
}

// FindByUsername implements domain.WorkloadRepository. The returned record is a deep
// copy so callers can mutate it freely.
func (s *InMemoryStore) FindByUsername(ctx context.Context, username string) (*domain.WorkloadRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[username]
	if !ok {
		return nil, nil
	}
	return record.Clone(), nil
}

// Save implements domain.WorkloadRepository, upserting by trainer username.
func (s *InMemoryStore) Save(ctx context.Context, record *domain.WorkloadRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := record.Clone()
	if strings.TrimSpace(stored.ID) == "" {
		stored.ID = uuid.NewString()
	}
	s.records[stored.TrainerUsername] = stored
	return nil
}

// Len reports the number of stored records.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
