package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Snehil208001/Gr-nZimmer/internal/user/domain"
)

const userColumns = `id, phone, phone_verified, email, name, status, created_at, updated_at`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByPhone returns the user owning the E.164 phone, or nil if not found.
func (r *PostgresRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE phone = $1`, phone))
}

// Create persists the user. The user must have ID set; it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, nullString(u.Phone), u.PhoneVerified, nullString(u.Email), u.Name, string(u.Status), u.CreatedAt, u.UpdatedAt)
	return err
}

// Update writes the mutable profile fields and bumps updated_at.
func (r *PostgresRepository) Update(ctx context.Context, u *domain.User) error {
	u.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET phone = $2, phone_verified = $3, email = $4, name = $5, status = $6, updated_at = $7 WHERE id = $1`,
		u.ID, nullString(u.Phone), u.PhoneVerified, nullString(u.Email), u.Name, string(u.Status), u.UpdatedAt)
	return err
}

func (r *PostgresRepository) SetPhoneVerified(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET phone_verified = TRUE, updated_at = $2 WHERE id = $1 AND phone IS NOT NULL AND NOT phone_verified`,
		userID, time.Now().UTC())
	return err
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*domain.User, error) {
	var (
		u            domain.User
		phone, email sql.NullString
		status       string
	)
	err := row.Scan(&u.ID, &phone, &u.PhoneVerified, &email, &u.Name, &status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.Phone = phone.String
	u.Email = email.String
	u.Status = domain.UserStatus(status)
	return &u, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
