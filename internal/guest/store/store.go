// Package store persists guest records. Implementations pair a Postgres
// store with an in-memory fake behind one interface so services stay
// testable without a database.
package store

import (
	"context"

	"guestpass/internal/invite/models"
)

// Store allocates guest IDs and persists guest records.
//
// NewID is separate from Create on purpose: asset paths are deterministic
// functions of the guest ID and must be computable before the record is
// persisted.
type Store interface {
	// NewID allocates a fresh unique guest identifier.
	NewID() string
	// Create persists the record, merging into any existing document with
	// the same ID rather than overwriting it. Timestamps are store-assigned.
	Create(ctx context.Context, record models.GuestRecord) (models.GuestRecord, error)
	// Get returns one guest record, or sentinel.ErrNotFound.
	Get(ctx context.Context, id string) (models.GuestRecord, error)
	// List returns all guest records, newest first.
	List(ctx context.Context) ([]models.GuestRecord, error)
}
