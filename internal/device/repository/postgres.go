package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Snehil208001/Gr-nZimmer/internal/db"
	"github.com/Snehil208001/Gr-nZimmer/internal/device/domain"
)

const deviceColumns = `id, user_id, fingerprint, trusted, trusted_until, revoked_at, trust_token_hash, last_seen_at, created_at`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a device repository that uses the given db for persistence.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

// GetByID returns the device for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Device, error) {
	return scanDevice(r.db.QueryRowContext(ctx, `SELECT `+deviceColumns+` FROM devices WHERE id = $1`, id))
}

// GetByUserAndFingerprint returns the user's device with the fingerprint, or nil if not registered.
func (r *PostgresRepository) GetByUserAndFingerprint(ctx context.Context, userID, fingerprint string) (*domain.Device, error) {
	return scanDevice(r.db.QueryRowContext(ctx,
		`SELECT `+deviceColumns+` FROM devices WHERE user_id = $1 AND fingerprint = $2`, userID, fingerprint))
}

// Create persists the device. The device must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, d *domain.Device) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO devices (`+deviceColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		d.ID, d.UserID, d.Fingerprint, d.Trusted, db.NullTime(d.TrustedUntil), db.NullTime(d.RevokedAt), d.TrustTokenHash, db.NullTime(d.LastSeenAt), d.CreatedAt)
	return err
}

func (r *PostgresRepository) UpdateTrusted(ctx context.Context, id string, trusted bool, until *time.Time, tokenHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE devices SET trusted = $2, trusted_until = $3, trust_token_hash = $4, revoked_at = NULL WHERE id = $1`,
		id, trusted, db.NullTime(until), tokenHash)
	return err
}

func (r *PostgresRepository) UpdateLastSeen(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE devices SET last_seen_at = $2 WHERE id = $1`, id, at)
	return err
}

func scanDevice(row *sql.Row) (*domain.Device, error) {
	var (
		d                           domain.Device
		trustedUntil, revoked, seen sql.NullTime
	)
	err := row.Scan(&d.ID, &d.UserID, &d.Fingerprint, &d.Trusted, &trustedUntil, &revoked, &d.TrustTokenHash, &seen, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	d.TrustedUntil = db.TimePtr(trustedUntil)
	d.RevokedAt = db.TimePtr(revoked)
	d.LastSeenAt = db.TimePtr(seen)
	return &d, nil
}
