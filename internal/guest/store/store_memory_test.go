package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guestpass/internal/invite/models"
	"guestpass/pkg/platform/sentinel"
)

func newRecord(id string) models.GuestRecord {
	return models.GuestRecord{
		ID:        id,
		Name:      "Jane Smith",
		Email:     "jane@example.com",
		Status:    models.GuestStatusPending,
		PlusOnes:  2,
		InvitedBy: "admin@example.com",
		Event: models.EventDescriptor{
			ID:   models.DefaultEventID,
			Name: "Launch Party",
		},
		Invite: models.InviteRecord{
			Code:       "0d4caf01-57b9-4d49-a6c0-3d9af6781a9a",
			AccessCode: "123456",
			StoragePaths: models.StoragePaths{
				QR:  "invites/" + id + "/invite-qr.png",
				PDF: "invites/" + id + "/invite.pdf",
			},
		},
	}
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id := s.NewID()
	created, err := s.Create(ctx, newRecord(id))
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.IsZero())

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, models.GuestStatusPending, got.Status)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get(context.Background(), "no-such-guest")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestMemoryStore_CreateMergesExisting(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return base })

	id := s.NewID()
	first, err := s.Create(ctx, newRecord(id))
	require.NoError(t, err)

	s.SetClock(func() time.Time { return base.Add(time.Hour) })
	update := newRecord(id)
	update.PlusOnes = 5
	second, err := s.Create(ctx, update)
	require.NoError(t, err)

	assert.Equal(t, first.CreatedAt, second.CreatedAt, "merge must preserve created_at")
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	assert.Equal(t, 5, second.PlusOnes)
}

func TestMemoryStore_ListNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := range 3 {
		tick := base.Add(time.Duration(i) * time.Minute)
		s.SetClock(func() time.Time { return tick })
		_, err := s.Create(ctx, newRecord(s.NewID()))
		require.NoError(t, err)
	}

	records, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.True(t, records[0].CreatedAt.After(records[1].CreatedAt))
	assert.True(t, records[1].CreatedAt.After(records[2].CreatedAt))
}

func TestMemoryStore_NewIDUnique(t *testing.T) {
	s := NewMemoryStore()
	seen := make(map[string]bool)
	for range 100 {
		id := s.NewID()
		assert.False(t, seen[id])
		seen[id] = true
	}
}
