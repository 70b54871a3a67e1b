package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/polkiloo/chatpack/internal/domain/model"
)

type orderRepository struct {
	docs collection[model.Order]
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	return r.docs.insert(ctx, order)
}

func (r *orderRepository) Get(ctx context.Context, id string) (*model.Order, error) {
	return r.docs.get(ctx, r.docs.storage.pool, id, false)
}

func (r *orderRepository) Update(ctx context.Context, id string, update model.OrderUpdate) (*model.Order, error) {
	return r.docs.merge(ctx, r.docs.storage.pool, id, update.Fields())
}

// Mutate locks the order, lets fn derive an update from its current state and
// applies it in the same transaction. An empty update leaves the order untouched.
func (r *orderRepository) Mutate(ctx context.Context, id string, fn func(current model.Order) (model.OrderUpdate, error)) (*model.Order, error) {
	var result *model.Order
	err := r.docs.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		current, err := r.docs.get(ctx, tx, id, true)
		if err != nil {
			return err
		}
		update, err := fn(*current)
		if err != nil {
			return err
		}
		fields := update.Fields()
		if len(fields) == 0 {
			result = current
			return nil
		}
		result, err = r.docs.merge(ctx, tx, id, fields)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) List(ctx context.Context, sort model.Sort) ([]model.Order, error) {
	return r.docs.list(ctx, nil, sort)
}

func (r *orderRepository) Filter(ctx context.Context, filters map[string]any, sort model.Sort) ([]model.Order, error) {
	return r.docs.list(ctx, filters, sort)
}
