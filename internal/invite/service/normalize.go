package service

import (
	"math"
	"strconv"
	"strings"

	"guestpass/internal/invite/models"
	derrors "guestpass/pkg/domain-errors"
)

// Normalize trims, coerces, and validates the raw issuance payload. The
// stored email is lower-cased; the guest name keeps its original casing.
func Normalize(req models.CreateInviteRequest) (models.Invite, error) {
	var rawEvent models.EventInput
	if req.Event != nil {
		rawEvent = *req.Event
	}

	inv := models.Invite{
		GuestName:  strings.TrimSpace(req.Guest.Name),
		GuestEmail: strings.ToLower(strings.TrimSpace(req.Guest.Email)),
		GuestPhone: strings.TrimSpace(req.Guest.Phone),
		GuestNotes: strings.TrimSpace(req.Guest.Notes),
		Event: models.EventDescriptor{
			ID:       defaultIfEmpty(strings.TrimSpace(rawEvent.ID), models.DefaultEventID),
			Name:     defaultIfEmpty(strings.TrimSpace(rawEvent.Name), models.DefaultEventName),
			Date:     optional(strings.TrimSpace(rawEvent.Date)),
			Location: optional(strings.TrimSpace(rawEvent.Location)),
		},
		PlusOnes: coerceNonNegativeInt(req.PlusOnes),
	}

	if inv.GuestName == "" {
		return models.Invite{}, derrors.New(derrors.CodeInvalidArgument, "Guest name is required.")
	}
	if inv.GuestEmail == "" || !strings.Contains(inv.GuestEmail, "@") {
		return models.Invite{}, derrors.New(derrors.CodeInvalidArgument, "A valid guest email is required.")
	}

	return inv, nil
}

func defaultIfEmpty(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// optional maps a blank string to the absent marker.
func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// coerceNonNegativeInt applies numeric coercion to the plus-ones count:
// negative or non-finite values fall back to zero, fractional values
// truncate toward zero.
func coerceNonNegativeInt(v any) int {
	var numeric float64
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		numeric = n
	case int:
		numeric = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		numeric = parsed
	default:
		return 0
	}
	if math.IsNaN(numeric) || math.IsInf(numeric, 0) || numeric < 0 {
		return 0
	}
	return int(math.Floor(numeric))
}
