package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"guestpass/internal/invite/models"
	"guestpass/pkg/platform/sentinel"
)

// MemoryStore is an in-memory guest store for tests.
type MemoryStore struct {
	mu     sync.RWMutex
	guests map[string]models.GuestRecord
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		guests: make(map[string]models.GuestRecord),
		now:    time.Now,
	}
}

// SetClock overrides the store clock for deterministic timestamps in tests.
func (s *MemoryStore) SetClock(now func() time.Time) { s.now = now }

func (s *MemoryStore) NewID() string {
	return uuid.NewString()
}

func (s *MemoryStore) Create(_ context.Context, record models.GuestRecord) (models.GuestRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if existing, ok := s.guests[record.ID]; ok {
		record.CreatedAt = existing.CreatedAt
	} else {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	s.guests[record.ID] = record
	return record, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (models.GuestRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.guests[id]
	if !ok {
		return models.GuestRecord{}, sentinel.ErrNotFound
	}
	return record, nil
}

func (s *MemoryStore) List(_ context.Context) ([]models.GuestRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]models.GuestRecord, 0, len(s.guests))
	for _, r := range s.guests {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}
