// Package service orchestrates invite issuance: authorization, credential
// generation, asset rendering, persistence, and signed-link issuance run as
// one guarded, strictly sequential operation per request.
package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"guestpass/internal/audit"
	"guestpass/internal/guest/store"
	"guestpass/internal/invite/codes"
	"guestpass/internal/invite/models"
	"guestpass/internal/invite/pdf"
	"guestpass/internal/invite/qr"
	"guestpass/internal/platform/metrics"
	"guestpass/internal/storage/object"
	derrors "guestpass/pkg/domain-errors"
)

// Asset path layout. Paths are deterministic functions of the guest ID.
const (
	storageFolder = "invites"
	qrFileName    = "invite-qr.png"
	pdfFileName   = "invite.pdf"
)

// Caller is the authenticated identity driving a request. Subject is empty
// when no identity was presented; Email is empty when the provider has not
// verified one.
type Caller struct {
	Subject string
	Email   string
}

// Service runs the issuance pipeline. All collaborators are injected so the
// whole pipeline runs against fakes in tests.
type Service struct {
	admins  map[string]struct{}
	codes   *codes.Generator
	guests  store.Store
	objects object.Store
	audit   audit.Publisher
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

// New creates the issuance service. adminEmails is the allow-list of callers
// permitted to issue invites; an empty list denies everyone.
func New(
	adminEmails []string,
	gen *codes.Generator,
	guests store.Store,
	objects object.Store,
	auditPub audit.Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		admins[email] = struct{}{}
	}
	return &Service{
		admins:  admins,
		codes:   gen,
		guests:  guests,
		objects: objects,
		audit:   auditPub,
		metrics: m,
		logger:  logger,
		tracer:  otel.Tracer("guestpass/invite"),
	}
}

// QRPath returns the storage path of the invite's QR image.
func QRPath(guestID string) string {
	return storageFolder + "/" + guestID + "/" + qrFileName
}

// PDFPath returns the storage path of the invite's document.
func PDFPath(guestID string) string {
	return storageFolder + "/" + guestID + "/" + pdfFileName
}

// authorize returns the caller's email iff the caller is authenticated and
// on the admin allow-list.
func (s *Service) authorize(caller Caller) (string, error) {
	if caller.Subject == "" {
		return "", derrors.New(derrors.CodeUnauthenticated, "Authentication required.")
	}
	if caller.Email == "" {
		return "", derrors.New(derrors.CodePermissionDenied, "Admin privileges required to create invites.")
	}
	if _, ok := s.admins[caller.Email]; !ok {
		return "", derrors.New(derrors.CodePermissionDenied, "Admin privileges required to create invites.")
	}
	return caller.Email, nil
}

// Issue executes the full issuance pipeline. Steps are strictly sequential;
// the first failing step's error is surfaced verbatim and nothing already
// written is rolled back (the sweep reconciles orphaned assets later).
func (s *Service) Issue(ctx context.Context, caller Caller, req models.CreateInviteRequest) (*models.CreateInviteResponse, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "invite.issue")
	defer span.End()

	adminEmail, err := s.authorize(caller)
	if err != nil {
		return nil, err
	}

	inv, err := Normalize(req)
	if err != nil {
		return nil, err
	}

	// The guest ID is allocated before anything is rendered or written so
	// asset paths are known up front.
	guestID := s.guests.NewID()
	span.SetAttributes(attribute.String("guest.id", guestID))

	creds := models.InviteCredentials{
		InviteCode: s.codes.InviteCode(),
		AccessCode: s.codes.AccessCode(),
	}

	qrImage, err := s.encodeQR(ctx, models.QRPayload{
		GuestID:    guestID,
		InviteCode: creds.InviteCode,
		AccessCode: creds.AccessCode,
		EventID:    inv.Event.ID,
	})
	if err != nil {
		return nil, err
	}

	document, err := s.composeDocument(ctx, inv, creds, qrImage)
	if err != nil {
		return nil, err
	}

	qrPath, pdfPath := QRPath(guestID), PDFPath(guestID)

	qrURL, pdfURL, err := s.persistAssets(ctx, qrPath, pdfPath, qrImage, document)
	if err != nil {
		return nil, err
	}

	record, err := s.persistRecord(ctx, guestID, adminEmail, inv, creds, qrPath, pdfPath)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.InvitesIssued.Inc()
		s.metrics.ObserveIssue(start)
	}
	s.emitAudit(ctx, audit.Event{
		Action:  audit.ActionInviteIssued,
		Actor:   adminEmail,
		GuestID: guestID,
		Email:   inv.GuestEmail,
		EventID: inv.Event.ID,
	})
	s.logger.InfoContext(ctx, "invite issued",
		"guest_id", guestID,
		"event_id", inv.Event.ID,
		"invited_by", adminEmail,
	)

	return &models.CreateInviteResponse{
		GuestID:    guestID,
		InviteCode: creds.InviteCode,
		AccessCode: creds.AccessCode,
		QRURL:      qrURL,
		PDFURL:     pdfURL,
		Guest: models.GuestSummary{
			Name:  inv.GuestName,
			Email: inv.GuestEmail,
		},
		Event: record.Event,
	}, nil
}

func (s *Service) encodeQR(ctx context.Context, payload models.QRPayload) ([]byte, error) {
	_, span := s.tracer.Start(ctx, "invite.encode_qr")
	defer span.End()
	start := time.Now()
	img, err := qr.Encode(payload)
	if s.metrics != nil {
		s.metrics.ObserveQRRender(start)
	}
	return img, err
}

func (s *Service) composeDocument(ctx context.Context, inv models.Invite, creds models.InviteCredentials, qrImage []byte) ([]byte, error) {
	_, span := s.tracer.Start(ctx, "invite.compose_document")
	defer span.End()
	start := time.Now()
	document, err := pdf.Compose(pdf.Input{
		GuestName:     inv.GuestName,
		EventName:     inv.Event.Name,
		EventDate:     inv.Event.Date,
		EventLocation: inv.Event.Location,
		InviteCode:    creds.InviteCode,
		AccessCode:    creds.AccessCode,
		QRImage:       qrImage,
	})
	if s.metrics != nil {
		s.metrics.ObservePDFRender(start)
	}
	return document, err
}

// persistAssets writes the image then the document, then issues both signed
// links, in that order. Any failure surfaces as a persistence error.
func (s *Service) persistAssets(ctx context.Context, qrPath, pdfPath string, qrImage, document []byte) (qrURL, pdfURL string, err error) {
	ctx, span := s.tracer.Start(ctx, "invite.persist_assets")
	defer span.End()

	if err := s.objects.Put(ctx, qrPath, qrImage, "image/png"); err != nil {
		return "", "", derrors.Wrap(derrors.CodePersistence, "store invite QR image", err)
	}
	if err := s.objects.Put(ctx, pdfPath, document, "application/pdf"); err != nil {
		return "", "", derrors.Wrap(derrors.CodePersistence, "store invite document", err)
	}
	qrURL, err = s.objects.SignedURL(ctx, qrPath, object.SignedURLTTL)
	if err != nil {
		return "", "", derrors.Wrap(derrors.CodePersistence, "sign invite QR link", err)
	}
	pdfURL, err = s.objects.SignedURL(ctx, pdfPath, object.SignedURLTTL)
	if err != nil {
		return "", "", derrors.Wrap(derrors.CodePersistence, "sign invite document link", err)
	}
	return qrURL, pdfURL, nil
}

func (s *Service) persistRecord(ctx context.Context, guestID, adminEmail string, inv models.Invite, creds models.InviteCredentials, qrPath, pdfPath string) (models.GuestRecord, error) {
	ctx, span := s.tracer.Start(ctx, "invite.persist_record")
	defer span.End()

	record := models.GuestRecord{
		ID:        guestID,
		Name:      inv.GuestName,
		Email:     inv.GuestEmail,
		Phone:     optional(inv.GuestPhone),
		Notes:     optional(inv.GuestNotes),
		Status:    models.GuestStatusPending,
		PlusOnes:  inv.PlusOnes,
		InvitedBy: adminEmail,
		Event:     inv.Event,
		Invite: models.InviteRecord{
			Code:       creds.InviteCode,
			AccessCode: creds.AccessCode,
			StoragePaths: models.StoragePaths{
				QR:  qrPath,
				PDF: pdfPath,
			},
		},
	}
	created, err := s.guests.Create(ctx, record)
	if err != nil {
		return models.GuestRecord{}, derrors.Wrap(derrors.CodePersistence, "save guest record", err)
	}
	return created, nil
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"action", event.Action,
			"guest_id", event.GuestID,
			"error", err,
		)
	}
}

// Get returns one guest record for an admin caller.
func (s *Service) Get(ctx context.Context, caller Caller, guestID string) (models.GuestRecord, error) {
	if _, err := s.authorize(caller); err != nil {
		return models.GuestRecord{}, err
	}
	record, err := s.guests.Get(ctx, guestID)
	if err != nil {
		return models.GuestRecord{}, storeError(err, "Guest not found.")
	}
	return record, nil
}

// List returns all guest records for an admin caller, newest first.
func (s *Service) List(ctx context.Context, caller Caller) ([]models.GuestRecord, error) {
	if _, err := s.authorize(caller); err != nil {
		return nil, err
	}
	records, err := s.guests.List(ctx)
	if err != nil {
		return nil, derrors.Wrap(derrors.CodePersistence, "list guest records", err)
	}
	return records, nil
}
