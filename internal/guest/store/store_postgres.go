package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"guestpass/internal/invite/models"
	"guestpass/pkg/platform/sentinel"
)

// PostgresStore persists guest records in the guests table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema is applied by migrations; kept here as the reference DDL for the
// integration suite.
const Schema = `
CREATE TABLE IF NOT EXISTS guests (
	id             UUID PRIMARY KEY,
	name           TEXT NOT NULL,
	email          TEXT NOT NULL,
	phone          TEXT,
	notes          TEXT,
	status         TEXT NOT NULL DEFAULT 'pending',
	plus_ones      INT  NOT NULL DEFAULT 0,
	invited_by     TEXT NOT NULL,
	event_id       TEXT NOT NULL,
	event_name     TEXT NOT NULL,
	event_date     TEXT,
	event_location TEXT,
	invite_code    TEXT NOT NULL,
	access_code    TEXT NOT NULL,
	qr_path        TEXT NOT NULL,
	pdf_path       TEXT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

func (s *PostgresStore) NewID() string {
	return uuid.NewString()
}

// Create upserts the guest record. On conflict the existing created_at is
// preserved and every other column is merged from the new record.
func (s *PostgresStore) Create(ctx context.Context, record models.GuestRecord) (models.GuestRecord, error) {
	query := `
		INSERT INTO guests (
			id, name, email, phone, notes, status, plus_ones, invited_by,
			event_id, event_name, event_date, event_location,
			invite_code, access_code, qr_path, pdf_path, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,NOW(),NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			notes = EXCLUDED.notes,
			status = EXCLUDED.status,
			plus_ones = EXCLUDED.plus_ones,
			invited_by = EXCLUDED.invited_by,
			event_id = EXCLUDED.event_id,
			event_name = EXCLUDED.event_name,
			event_date = EXCLUDED.event_date,
			event_location = EXCLUDED.event_location,
			invite_code = EXCLUDED.invite_code,
			access_code = EXCLUDED.access_code,
			qr_path = EXCLUDED.qr_path,
			pdf_path = EXCLUDED.pdf_path,
			updated_at = NOW()
		RETURNING created_at, updated_at`

	err := s.db.QueryRowContext(ctx, query,
		record.ID, record.Name, record.Email,
		nullable(record.Phone), nullable(record.Notes),
		string(record.Status), record.PlusOnes, record.InvitedBy,
		record.Event.ID, record.Event.Name,
		nullable(record.Event.Date), nullable(record.Event.Location),
		record.Invite.Code, record.Invite.AccessCode,
		record.Invite.StoragePaths.QR, record.Invite.StoragePaths.PDF,
	).Scan(&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return models.GuestRecord{}, fmt.Errorf("create guest %s: %w", record.ID, err)
	}
	return record, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (models.GuestRecord, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` FROM guests WHERE id = $1`, id)
	record, err := scanGuest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.GuestRecord{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.GuestRecord{}, fmt.Errorf("get guest %s: %w", id, err)
	}
	return record, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]models.GuestRecord, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` FROM guests ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}
	defer rows.Close()

	var records []models.GuestRecord
	for rows.Next() {
		record, err := scanGuest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan guest: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

const selectColumns = `
	SELECT id, name, email, phone, notes, status, plus_ones, invited_by,
		event_id, event_name, event_date, event_location,
		invite_code, access_code, qr_path, pdf_path, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGuest(row rowScanner) (models.GuestRecord, error) {
	var (
		record              models.GuestRecord
		phone, notes        sql.NullString
		eventDate, eventLoc sql.NullString
		status              string
	)
	err := row.Scan(
		&record.ID, &record.Name, &record.Email, &phone, &notes,
		&status, &record.PlusOnes, &record.InvitedBy,
		&record.Event.ID, &record.Event.Name, &eventDate, &eventLoc,
		&record.Invite.Code, &record.Invite.AccessCode,
		&record.Invite.StoragePaths.QR, &record.Invite.StoragePaths.PDF,
		&record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return models.GuestRecord{}, err
	}
	record.Status = models.GuestStatus(status)
	record.Phone = fromNull(phone)
	record.Notes = fromNull(notes)
	record.Event.Date = fromNull(eventDate)
	record.Event.Location = fromNull(eventLoc)
	return record, nil
}

func nullable(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func fromNull(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
