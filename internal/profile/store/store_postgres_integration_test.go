//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"guestpass/internal/profile/models"
	"guestpass/internal/profile/store"
	"guestpass/pkg/platform/sentinel"
	"guestpass/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	_, err := s.postgres.DB.Exec(store.Schema)
	s.Require().NoError(err)
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "profiles"))
}

func testProfile(subject string) models.Profile {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	return models.Profile{
		Subject:     subject,
		Email:       "jane@example.com",
		DisplayName: "Jane Smith",
		CreatedAt:   now,
		LastLoginAt: now,
	}
}

func (s *PostgresStoreSuite) TestPutAndGet() {
	ctx := context.Background()

	s.Require().NoError(s.store.Put(ctx, testProfile("sub-1")))

	got, err := s.store.Get(ctx, "sub-1")
	s.Require().NoError(err)
	s.Equal("jane@example.com", got.Email)
	s.Equal("Jane Smith", got.DisplayName)
	s.Nil(got.PhotoURL)
}

func (s *PostgresStoreSuite) TestGetMissing() {
	_, err := s.store.Get(context.Background(), "no-such-subject")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestPutPreservesCreatedAtOnConflict() {
	ctx := context.Background()

	first := testProfile("sub-1")
	s.Require().NoError(s.store.Put(ctx, first))

	update := testProfile("sub-1")
	update.DisplayName = "Jane S."
	update.CreatedAt = first.CreatedAt.Add(24 * time.Hour)
	update.LastLoginAt = first.LastLoginAt.Add(24 * time.Hour)
	s.Require().NoError(s.store.Put(ctx, update))

	got, err := s.store.Get(ctx, "sub-1")
	s.Require().NoError(err)
	s.Equal("Jane S.", got.DisplayName)
	s.True(got.CreatedAt.Equal(first.CreatedAt), "conflict update must not touch created_at")
	s.True(got.LastLoginAt.Equal(update.LastLoginAt))
}
