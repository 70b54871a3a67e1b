package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/polkiloo/chatpack/internal/domain/errors"
	"github.com/polkiloo/chatpack/internal/domain/model"
)

type adminRepository struct {
	storage *Storage
}

func (r *adminRepository) Create(ctx context.Context, login, passwordHash string) (*model.Admin, error) {
	const query = `INSERT INTO admins (uid, login, password_hash) VALUES ($1, $2, $3) RETURNING created_at`
	a := model.Admin{UID: newID(), Login: login, PasswordHash: passwordHash}
	err := r.storage.pool.QueryRow(ctx, query, a.UID, login, passwordHash).Scan(&a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, storeError(err)
	}
	return &a, nil
}

func (r *adminRepository) GetByLogin(ctx context.Context, login string) (*model.Admin, error) {
	const query = `SELECT uid, login, password_hash, created_at FROM admins WHERE login=$1`
	var a model.Admin
	err := r.storage.pool.QueryRow(ctx, query, login).Scan(&a.UID, &a.Login, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return nil, storeError(err)
	}
	return &a, nil
}

func (r *adminRepository) Exists(ctx context.Context, uid string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM admins WHERE uid=$1)`
	var exists bool
	if err := r.storage.pool.QueryRow(ctx, query, uid).Scan(&exists); err != nil {
		return false, storeError(err)
	}
	return exists, nil
}
