package repository

import (
	"context"

	"github.com/polkiloo/chatpack/internal/domain/model"
)

// ReviewRepository describes persistence operations with reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) (*model.Review, error)
	List(ctx context.Context, sort model.Sort) ([]model.Review, error)
	Filter(ctx context.Context, filters map[string]any, sort model.Sort) ([]model.Review, error)
}
