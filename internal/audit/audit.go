// Package audit records issuance activity as structured events. Publishing
// is best-effort from the caller's perspective: a failed audit write is
// logged, never surfaced to the guest-facing call.
package audit

import (
	"context"
	"time"
)

// Actions recorded by the issuance pipeline.
const (
	ActionInviteIssued     = "invite.issued"
	ActionProfileBootstrap = "profile.bootstrapped"
)

// Event is one audit record.
type Event struct {
	Action    string    `json:"action"`
	Actor     string    `json:"actor,omitempty"`
	GuestID   string    `json:"guestId,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Email     string    `json:"email,omitempty"`
	EventID   string    `json:"eventId,omitempty"`
	RequestID string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher emits audit events to a sink.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}
