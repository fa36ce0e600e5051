// Package service implements profile reads and the signup bootstrap flow.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"guestpass/internal/audit"
	"guestpass/internal/platform/metrics"
	"guestpass/internal/profile/models"
	"guestpass/internal/profile/store"
	derrors "guestpass/pkg/domain-errors"
	"guestpass/pkg/email"
	"guestpass/pkg/platform/sentinel"
)

const cacheKeyPrefix = "profile:"

// Cache is the read-through cache in front of the profile store. Get returns
// (nil, nil) on a miss; errors are treated as misses by the service.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Service reads and bootstraps user profiles.
type Service struct {
	profiles store.Store
	cache    Cache
	cacheTTL time.Duration
	audit    audit.Publisher
	metrics  *metrics.Metrics
	logger   *slog.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// New creates a profile Service. cache and auditPub may be nil when the
// corresponding backends are not configured.
func New(profiles store.Store, cache Cache, cacheTTL time.Duration, auditPub audit.Publisher, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		profiles: profiles,
		cache:    cache,
		cacheTTL: cacheTTL,
		audit:    auditPub,
		metrics:  m,
		logger:   logger,
		tracer:   otel.Tracer("guestpass/profile"),
		now:      time.Now,
	}
}

// SetClock overrides the time source for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Get returns the caller's own profile.
func (s *Service) Get(ctx context.Context, subject string) (models.Profile, error) {
	ctx, span := s.tracer.Start(ctx, "profile.get")
	defer span.End()

	if subject == "" {
		return models.Profile{}, derrors.New(derrors.CodeUnauthenticated, "Authentication required.")
	}

	if profile, ok := s.cached(ctx, subject); ok {
		return profile, nil
	}

	profile, err := s.profiles.Get(ctx, subject)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.Profile{}, derrors.New(derrors.CodeNotFound, "Profile not found.")
	}
	if err != nil {
		return models.Profile{}, derrors.Wrap(derrors.CodePersistence, "read profile", err)
	}

	s.storeInCache(ctx, profile)
	return profile, nil
}

// Bootstrap creates or refreshes the profile document for a signup event.
// Existing fields win over derived ones; last login always moves forward.
func (s *Service) Bootstrap(ctx context.Context, evt models.SignupEvent) (models.Profile, error) {
	ctx, span := s.tracer.Start(ctx, "profile.bootstrap")
	defer span.End()

	if evt.Subject == "" {
		return models.Profile{}, derrors.New(derrors.CodeInvalidArgument, "Signup event is missing a subject.")
	}

	existing, err := s.profiles.Get(ctx, evt.Subject)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return models.Profile{}, derrors.Wrap(derrors.CodePersistence, "read profile", err)
	}

	now := s.now().UTC()
	profile := s.merge(existing, evt, now)

	if err := s.profiles.Put(ctx, profile); err != nil {
		return models.Profile{}, derrors.Wrap(derrors.CodePersistence, "save profile", err)
	}

	s.dropFromCache(ctx, profile.Subject)
	if s.metrics != nil {
		s.metrics.ProfileBootstraps.Inc()
	}
	s.emitAudit(ctx, profile)

	s.logger.Info("profile bootstrapped",
		"subject", profile.Subject,
		"email", profile.Email,
	)
	return profile, nil
}

func (s *Service) merge(existing models.Profile, evt models.SignupEvent, now time.Time) models.Profile {
	profile := models.Profile{
		Subject:     evt.Subject,
		Email:       evt.Email,
		DisplayName: evt.DisplayName,
		PhotoURL:    existing.PhotoURL,
		CreatedAt:   existing.CreatedAt,
		LastLoginAt: now,
	}
	if profile.Email == "" {
		profile.Email = existing.Email
	}
	if profile.DisplayName == "" {
		profile.DisplayName = existing.DisplayName
	}
	if profile.DisplayName == "" {
		profile.DisplayName = email.DisplayNameFromEmail(profile.Email)
	}
	if evt.PhotoURL != "" {
		url := evt.PhotoURL
		profile.PhotoURL = &url
	}
	if profile.CreatedAt.IsZero() {
		if evt.CreatedAt != nil {
			profile.CreatedAt = evt.CreatedAt.UTC()
		} else {
			profile.CreatedAt = now
		}
	}
	return profile
}

func (s *Service) cached(ctx context.Context, subject string) (models.Profile, bool) {
	if s.cache == nil {
		return models.Profile{}, false
	}
	data, err := s.cache.Get(ctx, cacheKeyPrefix+subject)
	if err != nil {
		s.logger.Debug("profile cache read failed", "subject", subject, "error", err)
		return models.Profile{}, false
	}
	if data == nil {
		return models.Profile{}, false
	}
	var profile models.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		s.logger.Debug("profile cache entry corrupt", "subject", subject, "error", err)
		return models.Profile{}, false
	}
	return profile, true
}

func (s *Service) storeInCache(ctx context.Context, profile models.Profile) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKeyPrefix+profile.Subject, data, s.cacheTTL); err != nil {
		s.logger.Debug("profile cache write failed", "subject", profile.Subject, "error", err)
	}
}

func (s *Service) dropFromCache(ctx context.Context, subject string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKeyPrefix+subject); err != nil {
		s.logger.Debug("profile cache invalidation failed", "subject", subject, "error", err)
	}
}

func (s *Service) emitAudit(ctx context.Context, profile models.Profile) {
	if s.audit == nil {
		return
	}
	event := audit.Event{
		Action:    audit.ActionProfileBootstrap,
		Subject:   profile.Subject,
		Email:     profile.Email,
		Timestamp: s.now().UTC(),
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.Warn("audit emit failed", "action", event.Action, "error", err)
	}
}
