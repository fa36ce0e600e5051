// Package handler exposes the profile endpoint.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"guestpass/internal/platform/metrics"
	"guestpass/internal/platform/middleware"
	"guestpass/internal/profile/models"
	"guestpass/pkg/platform/httputil"
)

// Service defines the profile operations the handler needs.
type Service interface {
	Get(ctx context.Context, subject string) (models.Profile, error)
}

// Handler handles profile endpoints.
type Handler struct {
	logger    *slog.Logger
	profiles  Service
	metrics   *metrics.Metrics
	validator middleware.TokenValidator
}

// New creates a profile Handler.
func New(profiles Service, logger *slog.Logger, m *metrics.Metrics, validator middleware.TokenValidator) *Handler {
	return &Handler{
		logger:    logger,
		profiles:  profiles,
		metrics:   m,
		validator: validator,
	}
}

// Register mounts the profile routes with their middleware stack.
func (h *Handler) Register(r chi.Router) {
	profileRouter := chi.NewRouter()
	profileRouter.Use(middleware.Recovery(h.logger))
	profileRouter.Use(middleware.RequestID)
	profileRouter.Use(middleware.Logger(h.logger))
	profileRouter.Use(middleware.Timeout(10 * time.Second))
	profileRouter.Use(middleware.Latency(h.metrics, "profile"))
	profileRouter.Use(middleware.RequireAuth(h.validator, h.logger))
	profileRouter.Get("/", h.handleGetProfile)
	r.Mount("/profile", profileRouter)
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.Get(r.Context(), middleware.GetSubject(r.Context()))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, profile)
}
