package domain

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// WorkloadRepository captures persistence operations for workload records.
// FindByUsername returns (nil, nil) for an unknown trainer; Save upserts
// by trainer username. Implementations need not serialize find-then-save
// sequences; the Service holds a per-username lock around them.
type WorkloadRepository interface {
	FindByUsername(ctx context.Context, username string) (*WorkloadRecord, error)
	Save(ctx context.Context, record *WorkloadRecord) error
}

// Service orchestrates workload updates and lookups. Updates for the
// same trainer are serialized through a keyed mutex so that concurrent
// handlers never lose deltas; different trainers proceed in parallel.
type Service struct {
	repo       WorkloadRepository
	aggregator Aggregator
	locks      *keyedMutex
	logger     *log.Logger
}

// NewService constructs a Service.
func NewService(repo WorkloadRepository) *Service {
	return &Service{
		repo:       repo,
		aggregator: NewAggregator(),
		locks:      newKeyedMutex(),
		logger:     log.New(log.Writer(), "[workload] ", log.LstdFlags),
	}
}

// WithLogger overrides the service logger.
func (s *Service) WithLogger(logger *log.Logger) *Service {
	s.logger = logger
	return s
}

// UpdateTrainingHours folds one update message into the trainer's record.
// A DELETE for an unseen trainer is a no-op and persists nothing.
func (s *Service) UpdateTrainingHours(ctx context.Context, msg UpdateMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	unlock := s.locks.Lock(msg.TrainerUsername)
	defer unlock()

	existing, err := s.repo.FindByUsername(ctx, msg.TrainerUsername)
	if err != nil {
		return fmt.Errorf("find workload for %s: %w", msg.TrainerUsername, err)
	}

	record, err := s.aggregator.Apply(existing, msg)
	if err != nil {
		return err
	}
	if record == nil {
		s.logger.Printf("no workload to delete for trainer %s, skipping", msg.TrainerUsername)
		return nil
	}

	if err := s.repo.Save(ctx, record); err != nil {
		return fmt.Errorf("save workload for %s: %w", msg.TrainerUsername, err)
	}
	return nil
}

// GetWorkload returns the full multi-year record for a trainer, or
// ErrWorkloadNotFound when the trainer is unknown.
func (s *Service) GetWorkload(ctx context.Context, username string) (*WorkloadRecord, error) {
	record, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find workload for %s: %w", username, err)
	}
	if record == nil {
		return nil, fmt.Errorf("%w: no workload data for trainer %s", ErrWorkloadNotFound, username)
	}
	return record, nil
}

// keyedMutex serializes work per key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedLock)}
}

// Lock acquires the lock for key and returns its unlock function.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &keyedLock{}
		k.locks[key] = lock
	}
	lock.refs++
	k.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		k.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
