package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bluewave-swim/backoffice/backend/internal/domain"
)

func (r *Repository) CreateAccount(ctx context.Context, a *domain.Account) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		INSERT INTO accounts (email, full_name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`

	args := []any{a.Email, a.FullName, a.PasswordHash}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.CreatedAt, &a.Version); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *Repository) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT id, full_name, password_hash, created_at, version
		FROM accounts WHERE email = $1
	`

	a := &domain.Account{Email: email}
	dst := []any{&a.ID, &a.FullName, &a.PasswordHash, &a.CreatedAt, &a.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(dst...); err != nil {
		return nil, translateError(err)
	}

	return a, nil
}

func (r *Repository) UpdateAccountPassword(ctx context.Context, a *domain.Account) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		UPDATE accounts
		SET password_hash = $1, version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	if err := r.dbpool.QueryRowContext(ctx, query, a.PasswordHash, a.ID, a.Version).Scan(&a.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrConflict
		}
		return translateError(err)
	}

	return nil
}
