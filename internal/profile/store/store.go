// Package store persists user profiles keyed by identity subject.
package store

import (
	"context"

	"guestpass/internal/profile/models"
)

// Store is the profile persistence contract. Implementations return
// sentinel.ErrNotFound from Get when no profile exists for the subject.
// Put replaces the whole document; merge decisions belong to the service.
type Store interface {
	Get(ctx context.Context, subject string) (models.Profile, error)
	Put(ctx context.Context, profile models.Profile) error
}
