// Package handler is the thin HTTP layer for invite issuance. It delegates
// to the service without embedding business logic so transport concerns
// remain isolated.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"guestpass/internal/invite/models"
	"guestpass/internal/invite/service"
	"guestpass/internal/platform/metrics"
	"guestpass/internal/platform/middleware"
	derrors "guestpass/pkg/domain-errors"
	"guestpass/pkg/platform/httputil"
)

// Service defines the invite operations the handler needs.
type Service interface {
	Issue(ctx context.Context, caller service.Caller, req models.CreateInviteRequest) (*models.CreateInviteResponse, error)
	Get(ctx context.Context, caller service.Caller, guestID string) (models.GuestRecord, error)
	List(ctx context.Context, caller service.Caller) ([]models.GuestRecord, error)
}

// Handler handles invite endpoints.
type Handler struct {
	logger    *slog.Logger
	invites   Service
	metrics   *metrics.Metrics
	validator middleware.TokenValidator
}

// New creates an invite Handler.
func New(invites Service, logger *slog.Logger, m *metrics.Metrics, validator middleware.TokenValidator) *Handler {
	return &Handler{
		logger:    logger,
		invites:   invites,
		metrics:   m,
		validator: validator,
	}
}

// Register mounts the invite routes with their middleware stack.
func (h *Handler) Register(r chi.Router) {
	inviteRouter := chi.NewRouter()
	inviteRouter.Use(middleware.Recovery(h.logger))
	inviteRouter.Use(middleware.RequestID)
	inviteRouter.Use(middleware.Logger(h.logger))
	inviteRouter.Use(middleware.Timeout(30 * time.Second))
	inviteRouter.Use(middleware.ContentTypeJSON)
	inviteRouter.Use(middleware.Latency(h.metrics, "invites"))
	inviteRouter.Use(middleware.RequireAuth(h.validator, h.logger))
	inviteRouter.Post("/", h.handleCreateInvite)
	inviteRouter.Get("/", h.handleListInvites)
	inviteRouter.Get("/{guestID}", h.handleGetInvite)
	r.Mount("/invites", inviteRouter)
}

func callerFrom(ctx context.Context) service.Caller {
	return service.Caller{
		Subject: middleware.GetSubject(ctx),
		Email:   middleware.GetEmail(ctx),
	}
}

func (h *Handler) handleCreateInvite(w http.ResponseWriter, r *http.Request) {
	var req models.CreateInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, derrors.New(derrors.CodeInvalidArgument, "invalid request body"))
		return
	}

	resp, err := h.invites.Issue(r.Context(), callerFrom(r.Context()), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListInvites(w http.ResponseWriter, r *http.Request) {
	records, err := h.invites.List(r.Context(), callerFrom(r.Context()))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if records == nil {
		records = []models.GuestRecord{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"guests": records})
}

func (h *Handler) handleGetInvite(w http.ResponseWriter, r *http.Request) {
	guestID := chi.URLParam(r, "guestID")
	record, err := h.invites.Get(r.Context(), callerFrom(r.Context()), guestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}
