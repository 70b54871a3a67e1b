package postgres

import (
	"context"

	"github.com/polkiloo/chatpack/internal/domain/model"
)

type reviewRepository struct {
	docs collection[model.Review]
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) (*model.Review, error) {
	return r.docs.insert(ctx, review)
}

func (r *reviewRepository) List(ctx context.Context, sort model.Sort) ([]model.Review, error) {
	return r.docs.list(ctx, nil, sort)
}

func (r *reviewRepository) Filter(ctx context.Context, filters map[string]any, sort model.Sort) ([]model.Review, error) {
	return r.docs.list(ctx, filters, sort)
}
