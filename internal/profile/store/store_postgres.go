package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"guestpass/internal/profile/models"
	"guestpass/pkg/platform/sentinel"
)

// PostgresStore persists profiles in the profiles table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema is applied by migrations; kept here as the reference DDL for the
// integration suite.
const Schema = `
CREATE TABLE IF NOT EXISTS profiles (
	subject       TEXT PRIMARY KEY,
	email         TEXT NOT NULL,
	display_name  TEXT NOT NULL,
	photo_url     TEXT,
	created_at    TIMESTAMPTZ NOT NULL,
	last_login_at TIMESTAMPTZ NOT NULL
)`

func (s *PostgresStore) Get(ctx context.Context, subject string) (models.Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT subject, email, display_name, photo_url, created_at, last_login_at
		FROM profiles WHERE subject = $1`, subject)

	var (
		profile  models.Profile
		photoURL sql.NullString
	)
	err := row.Scan(
		&profile.Subject, &profile.Email, &profile.DisplayName,
		&photoURL, &profile.CreatedAt, &profile.LastLoginAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("get profile %s: %w", subject, err)
	}
	if photoURL.Valid {
		profile.PhotoURL = &photoURL.String
	}
	return profile, nil
}

func (s *PostgresStore) Put(ctx context.Context, profile models.Profile) error {
	var photoURL sql.NullString
	if profile.PhotoURL != nil {
		photoURL = sql.NullString{String: *profile.PhotoURL, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (subject, email, display_name, photo_url, created_at, last_login_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (subject) DO UPDATE SET
			email = EXCLUDED.email,
			display_name = EXCLUDED.display_name,
			photo_url = EXCLUDED.photo_url,
			last_login_at = EXCLUDED.last_login_at`,
		profile.Subject, profile.Email, profile.DisplayName,
		photoURL, profile.CreatedAt, profile.LastLoginAt,
	)
	if err != nil {
		return fmt.Errorf("put profile %s: %w", profile.Subject, err)
	}
	return nil
}
