package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Snehil208001/Gr-nZimmer/internal/identity/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an identity repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByProviderID returns the identity for (provider, providerID), or nil if not linked.
func (r *PostgresRepository) GetByProviderID(ctx context.Context, provider domain.IdentityProvider, providerID string) (*domain.Identity, error) {
	var (
		i domain.Identity
		p string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, provider, provider_id, created_at FROM identities WHERE provider = $1 AND provider_id = $2`,
		string(provider), providerID).
		Scan(&i.ID, &i.UserID, &p, &i.ProviderID, &i.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	i.Provider = domain.IdentityProvider(p)
	return &i, nil
}

// ListByUser returns every identity linked to userID, oldest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Identity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, provider, provider_id, created_at FROM identities WHERE user_id = $1 ORDER BY created_at`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Identity
	for rows.Next() {
		var (
			i domain.Identity
			p string
		)
		if err := rows.Scan(&i.ID, &i.UserID, &p, &i.ProviderID, &i.CreatedAt); err != nil {
			return nil, err
		}
		i.Provider = domain.IdentityProvider(p)
		out = append(out, &i)
	}
	return out, rows.Err()
}

// Create persists the identity. The identity must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, i *domain.Identity) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO identities (id, user_id, provider, provider_id, created_at) VALUES ($1, $2, $3, $4, $5)`,
		i.ID, i.UserID, string(i.Provider), i.ProviderID, i.CreatedAt)
	return err
}
