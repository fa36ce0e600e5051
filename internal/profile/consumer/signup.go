// Package consumer wires identity-provider signup messages into the profile
// bootstrap flow.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"guestpass/internal/platform/kafka/consumer"
	"guestpass/internal/profile/models"
)

// Bootstrapper is the subset of the profile service the handler needs.
type Bootstrapper interface {
	Bootstrap(ctx context.Context, evt models.SignupEvent) (models.Profile, error)
}

// SignupHandler decodes signup events and bootstraps profiles for them.
type SignupHandler struct {
	profiles Bootstrapper
	logger   *slog.Logger
}

func NewSignupHandler(profiles Bootstrapper, logger *slog.Logger) *SignupHandler {
	return &SignupHandler{profiles: profiles, logger: logger}
}

func (h *SignupHandler) Handle(ctx context.Context, msg *consumer.Message) error {
	var evt models.SignupEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		return fmt.Errorf("decode signup event: %w", err)
	}

	profile, err := h.profiles.Bootstrap(ctx, evt)
	if err != nil {
		return fmt.Errorf("bootstrap profile for %s: %w", evt.Subject, err)
	}

	h.logger.Debug("signup event processed",
		"subject", profile.Subject,
		"topic", msg.Topic,
	)
	return nil
}
