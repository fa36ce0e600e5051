// Package sweep reconciles orphaned invite assets. Issuance has no rollback:
// a failure partway through can leave a QR image or document in object
// storage with no guest record behind it. The sweeper removes those assets
// once they are old enough that an in-flight issuance cannot still claim
// them.
package sweep

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	gueststore "guestpass/internal/guest/store"
	"guestpass/internal/storage/object"
	"guestpass/pkg/platform/sentinel"
)

const assetPrefix = "invites/"

// Sweeper periodically scans invite assets and deletes orphans.
type Sweeper struct {
	objects  object.Store
	guests   gueststore.Store
	interval time.Duration
	grace    time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a Sweeper. grace is how long an asset may exist without a
// guest record before it is considered orphaned.
func New(objects object.Store, guests gueststore.Store, interval, grace time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		objects:  objects,
		guests:   guests,
		interval: interval,
		grace:    grace,
		logger:   logger,
		now:      time.Now,
	}
}

// SetClock overrides the time source for tests.
func (s *Sweeper) SetClock(now func() time.Time) {
	s.now = now
}

// Run sweeps on the configured interval until the context is canceled.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if removed, err := s.SweepOnce(ctx); err != nil {
				s.logger.Error("sweep failed", "error", err)
			} else if removed > 0 {
				s.logger.Info("sweep removed orphaned assets", "count", removed)
			}
		}
	}
}

// SweepOnce performs a single reconciliation pass and returns how many
// objects were removed.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	infos, err := s.objects.List(ctx, assetPrefix)
	if err != nil {
		return 0, err
	}

	cutoff := s.now().Add(-s.grace)
	removed := 0
	checked := make(map[string]bool)

	for _, info := range infos {
		guestID := guestIDFromPath(info.Path)
		if guestID == "" || info.LastModified.After(cutoff) {
			continue
		}

		orphan, ok := checked[guestID]
		if !ok {
			orphan, err = s.isOrphan(ctx, guestID)
			if err != nil {
				s.logger.Warn("sweep lookup failed", "guest_id", guestID, "error", err)
				continue
			}
			checked[guestID] = orphan
		}
		if !orphan {
			continue
		}

		if err := s.objects.Remove(ctx, info.Path); err != nil {
			s.logger.Warn("sweep remove failed", "path", info.Path, "error", err)
			continue
		}
		s.logger.Info("removed orphaned asset", "path", info.Path, "guest_id", guestID)
		removed++
	}
	return removed, nil
}

func (s *Sweeper) isOrphan(ctx context.Context, guestID string) (bool, error) {
	_, err := s.guests.Get(ctx, guestID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return true, nil
	}
	return false, err
}

// guestIDFromPath extracts the guest ID from invites/<guestID>/<file>.
func guestIDFromPath(path string) string {
	rest, ok := strings.CutPrefix(path, assetPrefix)
	if !ok {
		return ""
	}
	guestID, _, ok := strings.Cut(rest, "/")
	if !ok {
		return ""
	}
	return guestID
}
