package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guestpass/internal/audit"
	"guestpass/internal/profile/models"
	"guestpass/internal/profile/store"
	derrors "guestpass/pkg/domain-errors"
	"guestpass/pkg/testutil"
)

// memoryCache is a map-backed Cache so tests can observe hit behavior
// without redis.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
	dels    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[key], nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	c.sets++
	return nil
}

func (c *memoryCache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	c.dels++
	return nil
}

type fixture struct {
	svc      *Service
	profiles *store.MemoryStore
	cache    *memoryCache
	audit    *audit.MemoryPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	profiles := store.NewMemoryStore()
	cache := newMemoryCache()
	auditPub := audit.NewMemoryPublisher()
	svc := New(profiles, cache, 5*time.Minute, auditPub, nil, testutil.DiscardLogger)
	return &fixture{svc: svc, profiles: profiles, cache: cache, audit: auditPub}
}

func signupEvent() models.SignupEvent {
	return models.SignupEvent{
		Subject: "sub-1",
		Email:   "jane.smith@example.com",
	}
}

func TestBootstrap_NewProfile(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	f.svc.SetClock(func() time.Time { return now })

	profile, err := f.svc.Bootstrap(context.Background(), signupEvent())
	require.NoError(t, err)

	assert.Equal(t, "sub-1", profile.Subject)
	assert.Equal(t, "jane.smith@example.com", profile.Email)
	assert.Equal(t, "Jane Smith", profile.DisplayName, "display name derived from email")
	assert.Equal(t, now, profile.CreatedAt)
	assert.Equal(t, now, profile.LastLoginAt)

	events := f.audit.Events()
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionProfileBootstrap, events[0].Action)
	assert.Equal(t, "sub-1", events[0].Subject)
}

func TestBootstrap_ProviderFieldsWin(t *testing.T) {
	f := newFixture(t)
	created := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)

	evt := signupEvent()
	evt.DisplayName = "J. Smith"
	evt.PhotoURL = "https://example.com/jane.png"
	evt.CreatedAt = &created

	profile, err := f.svc.Bootstrap(context.Background(), evt)
	require.NoError(t, err)
	assert.Equal(t, "J. Smith", profile.DisplayName)
	require.NotNil(t, profile.PhotoURL)
	assert.Equal(t, "https://example.com/jane.png", *profile.PhotoURL)
	assert.Equal(t, created, profile.CreatedAt)
}

func TestBootstrap_MergePreservesExisting(t *testing.T) {
	f := newFixture(t)
	first := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	f.svc.SetClock(func() time.Time { return first })

	evt := signupEvent()
	evt.DisplayName = "Jane Original"
	_, err := f.svc.Bootstrap(context.Background(), evt)
	require.NoError(t, err)

	// A later login event without optional fields must not erase them, but
	// must advance the login timestamp.
	second := first.Add(48 * time.Hour)
	f.svc.SetClock(func() time.Time { return second })

	profile, err := f.svc.Bootstrap(context.Background(), signupEvent())
	require.NoError(t, err)
	assert.Equal(t, "Jane Original", profile.DisplayName)
	assert.Equal(t, first, profile.CreatedAt)
	assert.Equal(t, second, profile.LastLoginAt)
}

func TestBootstrap_MissingSubject(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Bootstrap(context.Background(), models.SignupEvent{Email: "x@y.z"})
	require.Error(t, err)
	assert.Equal(t, derrors.CodeInvalidArgument, derrors.CodeOf(err))
}

func TestGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Bootstrap(ctx, signupEvent())
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		profile, err := f.svc.Get(ctx, "sub-1")
		require.NoError(t, err)
		assert.Equal(t, "jane.smith@example.com", profile.Email)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		_, err := f.svc.Get(ctx, "")
		require.Error(t, err)
		assert.Equal(t, derrors.CodeUnauthenticated, derrors.CodeOf(err))
	})

	t.Run("missing", func(t *testing.T) {
		_, err := f.svc.Get(ctx, "no-such-subject")
		require.Error(t, err)
		assert.Equal(t, derrors.CodeNotFound, derrors.CodeOf(err))
	})
}

func TestGet_ReadThroughCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Bootstrap(ctx, signupEvent())
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.dels, "bootstrap invalidates the cache")

	_, err = f.svc.Get(ctx, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.sets, "first read populates the cache")

	profile, err := f.svc.Get(ctx, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, "jane.smith@example.com", profile.Email)
	assert.Equal(t, 1, f.cache.sets, "cache hit must not re-populate")
}

func TestGet_NoCacheConfigured(t *testing.T) {
	profiles := store.NewMemoryStore()
	svc := New(profiles, nil, 0, nil, nil, testutil.DiscardLogger)

	_, err := svc.Bootstrap(context.Background(), signupEvent())
	require.NoError(t, err)

	profile, err := svc.Get(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.Equal(t, "jane.smith@example.com", profile.Email)
}
