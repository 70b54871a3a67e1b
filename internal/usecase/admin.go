package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/polkiloo/chatpack/internal/adapter/events"
	domainErrors "github.com/polkiloo/chatpack/internal/domain/errors"
	"github.com/polkiloo/chatpack/internal/domain/model"
	"github.com/polkiloo/chatpack/internal/domain/repository"
	pkgAuth "github.com/polkiloo/chatpack/internal/pkg/auth"
)

// StatusFilterAll disables status filtering of the order list.
const StatusFilterAll = "all"

// AdminUseCase backs the admin console: order review, status changes and
// admin authentication.
type AdminUseCase struct {
	orders    repository.OrderRepository
	admins    repository.AdminRepository
	hasher    pkgAuth.PasswordHasher
	tokens    pkgAuth.Strategy
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewAdminUseCase constructs AdminUseCase.
func NewAdminUseCase(
	orders repository.OrderRepository,
	admins repository.AdminRepository,
	hasher pkgAuth.PasswordHasher,
	strategy pkgAuth.Strategy,
	publisher events.Publisher,
	logger *slog.Logger,
) *AdminUseCase {
	return &AdminUseCase{
		orders:    orders,
		admins:    admins,
		hasher:    hasher,
		tokens:    strategy,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Orders lists orders in sort order ("-field" descending, newest first when
// empty), optionally narrowed to one status. Stats always cover every order.
func (u *AdminUseCase) Orders(ctx context.Context, statusFilter, sort string) ([]model.Order, model.OrderStats, error) {
	statusFilter = strings.TrimSpace(statusFilter)
	var want model.OrderStatus
	if statusFilter != "" && statusFilter != StatusFilterAll {
		status, err := model.ParseOrderStatus(statusFilter)
		if err != nil {
			return nil, model.OrderStats{}, err
		}
		want = status
	}

	all, err := u.orders.List(ctx, model.ParseSort(sort))
	if err != nil {
		return nil, model.OrderStats{}, err
	}
	stats := model.ComputeStats(all)

	if want == "" {
		return all, stats, nil
	}
	filtered := make([]model.Order, 0, len(all))
	for _, o := range all {
		if o.Status == want {
			filtered = append(filtered, o)
		}
	}
	return filtered, stats, nil
}

// Order returns a single order.
func (u *AdminUseCase) Order(ctx context.Context, id string) (*model.Order, error) {
	return u.orders.Get(ctx, id)
}

// SetStatus moves an order to status if the lifecycle allows it.
func (u *AdminUseCase) SetStatus(ctx context.Context, id, status string) (*model.Order, error) {
	next, err := model.ParseOrderStatus(strings.TrimSpace(status))
	if err != nil {
		return nil, err
	}

	var previous model.OrderStatus
	order, err := u.orders.Mutate(ctx, id, func(current model.Order) (model.OrderUpdate, error) {
		previous = current.Status
		if err := model.ValidateTransition(current.Status, next); err != nil {
			return model.OrderUpdate{}, err
		}
		if current.Status == next {
			return model.OrderUpdate{}, nil
		}
		return model.OrderUpdate{Status: &next}, nil
	})
	if err != nil {
		return nil, err
	}

	if previous != next {
		u.logger.Info("order status changed",
			slog.String("order_id", id),
			slog.String("from", string(previous)),
			slog.String("to", string(next)),
		)
		publishEvent(ctx, u.publisher, u.logger, model.OrderEvent{Type: model.OrderEventStatusChanged, OrderID: id, Status: next}, u.now)
	}
	return order, nil
}

// IsAuthorized reports whether uid belongs to a registered admin.
func (u *AdminUseCase) IsAuthorized(ctx context.Context, uid string) (bool, error) {
	if uid == "" {
		return false, nil
	}
	return u.admins.Exists(ctx, uid)
}

// Login validates admin credentials and returns auth token.
func (u *AdminUseCase) Login(ctx context.Context, login, password string) (string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return "", domainErrors.ErrInvalidCredentials
	}

	admin, err := u.admins.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return "", domainErrors.ErrInvalidCredentials
		}
		return "", err
	}

	if err := u.hasher.Compare(admin.PasswordHash, password); err != nil {
		return "", domainErrors.ErrInvalidCredentials
	}

	return u.tokens.IssueToken(admin.UID)
}

// ParseToken extracts admin uid from provided token.
func (u *AdminUseCase) ParseToken(token string) (string, error) {
	if token == "" {
		return "", pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// EnsureAdmin registers the configured admin if it does not exist yet.
// Empty credentials skip seeding.
func (u *AdminUseCase) EnsureAdmin(ctx context.Context, login, password string) error {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil
	}

	if _, err := u.admins.GetByLogin(ctx, login); err == nil {
		return nil
	} else if !errors.Is(err, domainErrors.ErrNotFound) {
		return err
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return err
	}
	if _, err := u.admins.Create(ctx, login, hash); err != nil && !errors.Is(err, domainErrors.ErrAlreadyExists) {
		return err
	}
	u.logger.Info("admin seeded", slog.String("login", login))
	return nil
}
