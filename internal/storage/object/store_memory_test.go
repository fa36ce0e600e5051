package object

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guestpass/pkg/platform/sentinel"
)

func TestMemoryStore_PutAndGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "invites/g1/invite-qr.png", []byte("png-bytes"), "image/png"))

	obj, ok := s.Get("invites/g1/invite-qr.png")
	require.True(t, ok)
	assert.Equal(t, []byte("png-bytes"), obj.Data)
	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, "public, max-age=300", obj.CacheControl)
}

func TestMemoryStore_SignedURLCarriesExpiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	fixed := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return fixed })

	require.NoError(t, s.Put(ctx, "invites/g1/invite.pdf", []byte("pdf"), "application/pdf"))

	url, err := s.SignedURL(ctx, "invites/g1/invite.pdf", SignedURLTTL)
	require.NoError(t, err)
	assert.Contains(t, url, "invites/g1/invite.pdf")
	assert.Contains(t, url, "expires=2025-05-08T12:00:00Z", "expiry must be issuance time plus 7 days")
}

func TestMemoryStore_SignedURLMissingObject(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.SignedURL(context.Background(), "invites/none/invite.pdf", SignedURLTTL)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestMemoryStore_ListAndRemove(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "invites/g1/invite-qr.png", []byte("a"), "image/png"))
	require.NoError(t, s.Put(ctx, "invites/g2/invite.pdf", []byte("b"), "application/pdf"))
	require.NoError(t, s.Put(ctx, "other/file", []byte("c"), "text/plain"))

	infos, err := s.List(ctx, "invites/")
	require.NoError(t, err)
	assert.Len(t, infos, 2)

	require.NoError(t, s.Remove(ctx, "invites/g1/invite-qr.png"))
	infos, err = s.List(ctx, "invites/")
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}
