package object

import (
	"context"
	"strings"
	"sync"
	"time"

	"guestpass/pkg/platform/sentinel"
)

// MemoryObject is one stored object in the in-memory store, exposed so
// tests can assert on written content and headers.
type MemoryObject struct {
	Data         []byte
	ContentType  string
	CacheControl string
	LastModified time.Time
}

// MemoryStore is an in-memory Store for tests. Signed URLs are deterministic
// fake URLs carrying the expiry instant.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]MemoryObject
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string]MemoryObject),
		now:     time.Now,
	}
}

// SetClock overrides the store clock; tests use it to pin signing time.
func (s *MemoryStore) SetClock(now func() time.Time) { s.now = now }

func (s *MemoryStore) Put(_ context.Context, path string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = MemoryObject{
		Data:         append([]byte(nil), data...),
		ContentType:  contentType,
		CacheControl: CacheControl,
		LastModified: s.now(),
	}
	return nil
}

func (s *MemoryStore) SignedURL(_ context.Context, path string, ttl time.Duration) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.objects[path]; !ok {
		return "", sentinel.ErrNotFound
	}
	expires := s.now().Add(ttl).UTC().Format(time.RFC3339)
	return "https://storage.invalid/" + path + "?expires=" + expires, nil
}

func (s *MemoryStore) List(_ context.Context, prefix string) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var infos []Info
	for path, obj := range s.objects {
		if strings.HasPrefix(path, prefix) {
			infos = append(infos, Info{Path: path, LastModified: obj.LastModified})
		}
	}
	return infos, nil
}

func (s *MemoryStore) Remove(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, path)
	return nil
}

// Get returns a stored object for test assertions.
func (s *MemoryStore) Get(path string) (MemoryObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[path]
	return obj, ok
}

// Len reports how many objects are stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
