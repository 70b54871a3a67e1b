package repository

import (
	"context"

	"github.com/polkiloo/chatpack/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	Get(ctx context.Context, id string) (*model.Order, error)
	Update(ctx context.Context, id string, update model.OrderUpdate) (*model.Order, error)
	Mutate(ctx context.Context, id string, fn func(current model.Order) (model.OrderUpdate, error)) (*model.Order, error)
	List(ctx context.Context, sort model.Sort) ([]model.Order, error)
	Filter(ctx context.Context, filters map[string]any, sort model.Sort) ([]model.Order, error)
}
