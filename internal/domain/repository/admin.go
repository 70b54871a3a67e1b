package repository

import (
	"context"

	"github.com/polkiloo/chatpack/internal/domain/model"
)

// AdminRepository describes persistence operations for admin identities.
type AdminRepository interface {
	Create(ctx context.Context, login, passwordHash string) (*model.Admin, error)
	GetByLogin(ctx context.Context, login string) (*model.Admin, error)
	Exists(ctx context.Context, uid string) (bool, error)
}
