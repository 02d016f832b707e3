package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Snehil208001/Gr-nZimmer/internal/phoneauth/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a phone challenge repository that uses the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the challenge. The challenge must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, c *domain.Challenge) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO phone_challenges (`+challengeColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.Phone, c.DeviceFingerprint, c.CodeHash, c.Attempts, c.ExpiresAt, c.CreatedAt)
	return err
}

const challengeColumns = `id, phone, device_fingerprint, code_hash, attempts, expires_at, created_at`

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Challenge, error) {
	return scanChallenge(r.db.QueryRowContext(ctx,
		`SELECT `+challengeColumns+` FROM phone_challenges WHERE id = $1`, id))
}

// ReserveAttempt counts one verification attempt in the same statement that
// checks the limit, so concurrent callers cannot exceed limit between them.
func (r *PostgresRepository) ReserveAttempt(ctx context.Context, id string, limit int) (*domain.Challenge, error) {
	return scanChallenge(r.db.QueryRowContext(ctx,
		`UPDATE phone_challenges SET attempts = attempts + 1
		 WHERE id = $1 AND attempts < $2
		 RETURNING `+challengeColumns, id, limit))
}

// Consume deletes the challenge and reports whether this call removed it.
func (r *PostgresRepository) Consume(ctx context.Context, id string) (bool, error) {
	var got string
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM phone_challenges WHERE id = $1 RETURNING id`, id).Scan(&got)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM phone_challenges WHERE id = $1`, id)
	return err
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM phone_challenges WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanChallenge(row *sql.Row) (*domain.Challenge, error) {
	var c domain.Challenge
	err := row.Scan(&c.ID, &c.Phone, &c.DeviceFingerprint, &c.CodeHash, &c.Attempts, &c.ExpiresAt, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
