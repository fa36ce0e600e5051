package store

import (
	"context"
	"sync"

	"guestpass/internal/profile/models"
	"guestpass/pkg/platform/sentinel"
)

// MemoryStore is an in-memory profile store for tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]models.Profile
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]models.Profile)}
}

func (s *MemoryStore) Get(_ context.Context, subject string) (models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[subject]
	if !ok {
		return models.Profile{}, sentinel.ErrNotFound
	}
	return profile, nil
}

func (s *MemoryStore) Put(_ context.Context, profile models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[profile.Subject] = profile
	return nil
}
