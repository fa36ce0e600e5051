// Package models defines the invite issuance request/response contract and
// the persisted guest record.
package models

import "time"

// GuestStatus tracks where a guest is in the event lifecycle. No operation
// transitions a record to checked-in yet; the scanning flow is a future
// extension point.
type GuestStatus string

const (
	GuestStatusPending   GuestStatus = "pending"
	GuestStatusCheckedIn GuestStatus = "checked_in"
)

// DefaultEventID and DefaultEventName are applied when the caller omits
// event metadata.
const (
	DefaultEventID   = "default"
	DefaultEventName = "GuestPass Event"
)

// CreateInviteRequest is the raw issuance payload. Guest and event fields
// arrive untrusted and pass through normalization before use.
type CreateInviteRequest struct {
	Guest GuestInput  `json:"guest"`
	Event *EventInput `json:"event,omitempty"`
	// PlusOnes is deliberately loose: callers have sent numbers and numeric
	// strings; coercion happens in normalization.
	PlusOnes any `json:"plusOnes,omitempty"`
}

// GuestInput is the untrusted guest sub-object.
type GuestInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// EventInput is the untrusted event sub-object.
type EventInput struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Date     string `json:"date,omitempty"`
	Location string `json:"location,omitempty"`
}

// Invite captures the normalized, validated issuance input.
type Invite struct {
	GuestName  string
	GuestEmail string
	GuestPhone string
	GuestNotes string
	Event      EventDescriptor
	PlusOnes   int
}

// EventDescriptor is the embedded event metadata on a guest record. Date and
// Location are nil when the caller left them blank, mirroring the explicit
// absent marker in the stored record.
type EventDescriptor struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Date     *string `json:"date"`
	Location *string `json:"location"`
}

// InviteCredentials is the pair of generated credentials for one invite.
type InviteCredentials struct {
	InviteCode string
	AccessCode string
}

// QRPayload is the exact payload encoded into the matrix code: these four
// fields and nothing else.
type QRPayload struct {
	GuestID    string `json:"guestId"`
	InviteCode string `json:"inviteCode"`
	AccessCode string `json:"accessCode"`
	EventID    string `json:"eventId"`
}

// StoragePaths locates the two rendered assets for one invite.
type StoragePaths struct {
	QR  string `json:"qr"`
	PDF string `json:"pdf"`
}

// InviteRecord is the invite sub-document on a guest record.
type InviteRecord struct {
	Code         string       `json:"code"`
	AccessCode   string       `json:"accessCode"`
	StoragePaths StoragePaths `json:"storagePaths"`
}

// GuestRecord is the persisted guest document, one per issued invite.
type GuestRecord struct {
	ID        string          `json:"guestId"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Phone     *string         `json:"phone"`
	Notes     *string         `json:"notes"`
	Status    GuestStatus     `json:"status"`
	PlusOnes  int             `json:"plusOnes"`
	InvitedBy string          `json:"invitedBy"`
	Event     EventDescriptor `json:"event"`
	Invite    InviteRecord    `json:"invite"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// CreateInviteResponse is returned on successful issuance.
type CreateInviteResponse struct {
	GuestID    string          `json:"guestId"`
	InviteCode string          `json:"inviteCode"`
	AccessCode string          `json:"accessCode"`
	QRURL      string          `json:"qrUrl"`
	PDFURL     string          `json:"pdfUrl"`
	Guest      GuestSummary    `json:"guest"`
	Event      EventDescriptor `json:"event"`
}

// GuestSummary is the guest echo on the issuance response. Name keeps the
// caller's casing; email is stored lower-cased.
type GuestSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
