package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guestpass/internal/audit"
	gueststore "guestpass/internal/guest/store"
	"guestpass/internal/invite/codes"
	"guestpass/internal/invite/models"
	"guestpass/internal/invite/qr"
	"guestpass/internal/storage/object"
	derrors "guestpass/pkg/domain-errors"
)

const adminEmail = "admin@example.com"

var discardLogger = slog.New(slog.DiscardHandler)

type fixture struct {
	svc     *Service
	guests  *gueststore.MemoryStore
	objects *object.MemoryStore
	audit   *audit.MemoryPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	guests := gueststore.NewMemoryStore()
	objects := object.NewMemoryStore()
	auditPub := audit.NewMemoryPublisher()
	svc := New([]string{adminEmail}, codes.New(), guests, objects, auditPub, nil, discardLogger)
	return &fixture{svc: svc, guests: guests, objects: objects, audit: auditPub}
}

func adminCaller() Caller {
	return Caller{Subject: "admin-sub", Email: adminEmail}
}

func launchPartyRequest() models.CreateInviteRequest {
	return models.CreateInviteRequest{
		Guest:    models.GuestInput{Name: "Jane Smith", Email: "JANE@Example.com"},
		Event:    &models.EventInput{Name: "Launch Party", Date: "2025-05-01"},
		PlusOnes: float64(2),
	}
}

func TestIssue_EndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Issue(ctx, adminCaller(), launchPartyRequest())
	require.NoError(t, err)

	// Response contract.
	assert.Equal(t, "Jane Smith", resp.Guest.Name)
	assert.Equal(t, "jane@example.com", resp.Guest.Email)
	assert.Equal(t, "default", resp.Event.ID)
	assert.Equal(t, "Launch Party", resp.Event.Name)
	require.NotNil(t, resp.Event.Date)
	assert.Equal(t, "2025-05-01", *resp.Event.Date)
	assert.Nil(t, resp.Event.Location)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`), resp.InviteCode)
	assert.Regexp(t, regexp.MustCompile(`^[1-9][0-9]{5}$`), resp.AccessCode)
	assert.Contains(t, resp.QRURL, "invites/"+resp.GuestID+"/invite-qr.png")
	assert.Contains(t, resp.PDFURL, "invites/"+resp.GuestID+"/invite.pdf")

	// Persisted record.
	record, err := f.guests.Get(ctx, resp.GuestID)
	require.NoError(t, err)
	assert.Equal(t, models.GuestStatusPending, record.Status)
	assert.Equal(t, 2, record.PlusOnes)
	assert.Equal(t, adminEmail, record.InvitedBy)
	assert.Equal(t, resp.InviteCode, record.Invite.Code)
	assert.Equal(t, resp.AccessCode, record.Invite.AccessCode)
	assert.Equal(t, "invites/"+resp.GuestID+"/invite-qr.png", record.Invite.StoragePaths.QR)
	assert.Equal(t, "invites/"+resp.GuestID+"/invite.pdf", record.Invite.StoragePaths.PDF)

	// Persisted assets. The stored image must be exactly the encoding of the
	// four-field payload, which the deterministic encoder lets us verify by
	// re-encoding.
	qrObj, ok := f.objects.Get(record.Invite.StoragePaths.QR)
	require.True(t, ok)
	assert.Equal(t, "image/png", qrObj.ContentType)
	assert.Equal(t, "public, max-age=300", qrObj.CacheControl)
	expected, err := qr.Encode(models.QRPayload{
		GuestID:    resp.GuestID,
		InviteCode: resp.InviteCode,
		AccessCode: resp.AccessCode,
		EventID:    "default",
	})
	require.NoError(t, err)
	assert.Equal(t, expected, qrObj.Data)

	pdfObj, ok := f.objects.Get(record.Invite.StoragePaths.PDF)
	require.True(t, ok)
	assert.Equal(t, "application/pdf", pdfObj.ContentType)
	assert.True(t, len(pdfObj.Data) > 0)

	// Audit trail.
	events := f.audit.Events()
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionInviteIssued, events[0].Action)
	assert.Equal(t, resp.GuestID, events[0].GuestID)
	assert.Equal(t, adminEmail, events[0].Actor)
}

func TestIssue_SignedLinkExpiry(t *testing.T) {
	f := newFixture(t)
	issued := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	f.objects.SetClock(func() time.Time { return issued })

	resp, err := f.svc.Issue(context.Background(), adminCaller(), launchPartyRequest())
	require.NoError(t, err)

	assert.Contains(t, resp.QRURL, "expires=2025-05-08T12:00:00Z")
	assert.Contains(t, resp.PDFURL, "expires=2025-05-08T12:00:00Z")
}

func TestIssue_Unauthenticated(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Issue(context.Background(), Caller{}, launchPartyRequest())
	require.Error(t, err)
	assert.Equal(t, derrors.CodeUnauthenticated, derrors.CodeOf(err))
}

func TestIssue_NonAdminDenied(t *testing.T) {
	f := newFixture(t)
	caller := Caller{Subject: "user-sub", Email: "guest@example.com"}
	_, err := f.svc.Issue(context.Background(), caller, launchPartyRequest())
	require.Error(t, err)
	assert.Equal(t, derrors.CodePermissionDenied, derrors.CodeOf(err))
}

func TestIssue_AuthenticatedWithoutEmailDenied(t *testing.T) {
	f := newFixture(t)
	caller := Caller{Subject: "user-sub"}
	_, err := f.svc.Issue(context.Background(), caller, launchPartyRequest())
	require.Error(t, err)
	assert.Equal(t, derrors.CodePermissionDenied, derrors.CodeOf(err))
}

func TestIssue_ValidationFailureLeavesNoState(t *testing.T) {
	f := newFixture(t)
	req := launchPartyRequest()
	req.Guest.Email = "not-an-email"

	_, err := f.svc.Issue(context.Background(), adminCaller(), req)
	require.Error(t, err)
	assert.Equal(t, derrors.CodeInvalidArgument, derrors.CodeOf(err))
	assert.Equal(t, 0, f.objects.Len())

	records, err := f.guests.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

// failingObjectStore fails document writes while letting the image through.
type failingObjectStore struct {
	*object.MemoryStore
}

func (s *failingObjectStore) Put(ctx context.Context, path string, data []byte, contentType string) error {
	if contentType == "application/pdf" {
		return errors.New("upstream unavailable")
	}
	return s.MemoryStore.Put(ctx, path, data, contentType)
}

func TestIssue_DocumentPersistFailureLeavesOrphanedImage(t *testing.T) {
	guests := gueststore.NewMemoryStore()
	objects := &failingObjectStore{MemoryStore: object.NewMemoryStore()}
	svc := New([]string{adminEmail}, codes.New(), guests, objects, nil, nil, discardLogger)

	_, err := svc.Issue(context.Background(), adminCaller(), launchPartyRequest())
	require.Error(t, err)
	assert.Equal(t, derrors.CodePersistence, derrors.CodeOf(err))

	// The already-written image is not rolled back; reconciliation is the
	// sweep's job.
	assert.Equal(t, 1, objects.MemoryStore.Len())

	records, listErr := guests.List(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, records, "no record may exist when asset persistence failed")
}

// failingGuestStore fails record creation while allowing ID allocation.
type failingGuestStore struct {
	*gueststore.MemoryStore
}

func (s *failingGuestStore) Create(context.Context, models.GuestRecord) (models.GuestRecord, error) {
	return models.GuestRecord{}, errors.New("record store down")
}

func TestIssue_RecordPersistFailureLeavesOrphanedAssets(t *testing.T) {
	objects := object.NewMemoryStore()
	guests := &failingGuestStore{MemoryStore: gueststore.NewMemoryStore()}
	svc := New([]string{adminEmail}, codes.New(), guests, objects, nil, nil, discardLogger)

	_, err := svc.Issue(context.Background(), adminCaller(), launchPartyRequest())
	require.Error(t, err)
	assert.Equal(t, derrors.CodePersistence, derrors.CodeOf(err))
	assert.Equal(t, 2, objects.Len(), "both assets remain despite the failed record write")
}

func TestGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Issue(ctx, adminCaller(), launchPartyRequest())
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		record, err := f.svc.Get(ctx, adminCaller(), resp.GuestID)
		require.NoError(t, err)
		assert.Equal(t, resp.GuestID, record.ID)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := f.svc.Get(ctx, adminCaller(), "no-such-guest")
		require.Error(t, err)
		assert.Equal(t, derrors.CodeNotFound, derrors.CodeOf(err))
	})

	t.Run("non-admin denied", func(t *testing.T) {
		_, err := f.svc.Get(ctx, Caller{Subject: "x", Email: "x@y.z"}, resp.GuestID)
		require.Error(t, err)
		assert.Equal(t, derrors.CodePermissionDenied, derrors.CodeOf(err))
	})
}

func TestList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for range 2 {
		_, err := f.svc.Issue(ctx, adminCaller(), launchPartyRequest())
		require.NoError(t, err)
	}

	records, err := f.svc.List(ctx, adminCaller())
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
