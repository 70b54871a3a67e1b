package test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/chatpack/internal/domain/errors"
	"github.com/polkiloo/chatpack/internal/domain/model"
)

var baseTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func stamp(seq int) string {
	return baseTime.Add(time.Duration(seq) * time.Second).Format("2006-01-02T15:04:05.000Z07:00")
}

// OrderRepositoryStub keeps orders in memory and lets tests override calls.
type OrderRepositoryStub struct {
	CreateFn func(context.Context, *model.Order) (*model.Order, error)
	GetFn    func(context.Context, string) (*model.Order, error)
	UpdateFn func(context.Context, string, model.OrderUpdate) (*model.Order, error)
	ListFn   func(context.Context, model.Sort) ([]model.Order, error)
	FilterFn func(context.Context, map[string]any, model.Sort) ([]model.Order, error)
	Err      error

	mu      sync.Mutex
	seq     int
	orders  map[string]*model.Order
	Created []model.Order
	Updates []OrderUpdateCall
}

// OrderUpdateCall captures a single update request.
type OrderUpdateCall struct {
	ID     string
	Update model.OrderUpdate
}

// NewOrderRepositoryStub builds an empty in-memory repository.
func NewOrderRepositoryStub(seed ...model.Order) *OrderRepositoryStub {
	s := &OrderRepositoryStub{orders: make(map[string]*model.Order)}
	for _, o := range seed {
		order := o
		s.seq++
		if order.CreatedDate == "" {
			order.CreatedDate = stamp(s.seq)
		}
		s.orders[order.ID] = &order
	}
	return s
}

// Create stores order assigning id and creation time.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	s.mu.Lock()
	s.Created = append(s.Created, *order)
	s.mu.Unlock()
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	if s.Err != nil {
		return nil, s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.orders == nil {
		s.orders = make(map[string]*model.Order)
	}
	s.seq++
	stored := *order
	stored.ID = fmt.Sprintf("order-%d", s.seq)
	stored.CreatedDate = stamp(s.seq)
	s.orders[stored.ID] = &stored
	out := stored
	return &out, nil
}

// Get returns stored order or not found.
func (s *OrderRepositoryStub) Get(ctx context.Context, id string) (*model.Order, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	out := *o
	return &out, nil
}

// Update merges update into the stored order.
func (s *OrderRepositoryStub) Update(ctx context.Context, id string, update model.OrderUpdate) (*model.Order, error) {
	s.mu.Lock()
	s.Updates = append(s.Updates, OrderUpdateCall{ID: id, Update: update})
	s.mu.Unlock()
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, id, update)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(id, update)
}

// Mutate applies fn to the current order atomically.
func (s *OrderRepositoryStub) Mutate(ctx context.Context, id string, fn func(model.Order) (model.OrderUpdate, error)) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	update, err := fn(*o)
	if err != nil {
		return nil, err
	}
	if len(update.Fields()) == 0 {
		out := *o
		return &out, nil
	}
	s.Updates = append(s.Updates, OrderUpdateCall{ID: id, Update: update})
	return s.applyLocked(id, update)
}

func (s *OrderRepositoryStub) applyLocked(id string, update model.OrderUpdate) (*model.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if update.Status != nil {
		o.Status = *update.Status
	}
	if update.StripeSessionID != nil {
		o.StripeSessionID = *update.StripeSessionID
	}
	if update.StripePaymentIntent != nil {
		o.StripePaymentIntent = *update.StripePaymentIntent
	}
	if update.PaidAt != nil {
		o.PaidAt = *update.PaidAt
	}
	out := *o
	return &out, nil
}

// List returns all orders newest first.
func (s *OrderRepositoryStub) List(ctx context.Context, sort model.Sort) ([]model.Order, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, sort)
	}
	return s.Filter(ctx, nil, sort)
}

// Filter supports equality on status and payment_method.
func (s *OrderRepositoryStub) Filter(ctx context.Context, filters map[string]any, order model.Sort) ([]model.Order, error) {
	if s.FilterFn != nil {
		return s.FilterFn(ctx, filters, order)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Order
	for _, o := range s.orders {
		if v, ok := filters["status"]; ok && fmt.Sprint(v) != string(o.Status) {
			continue
		}
		if v, ok := filters["payment_method"]; ok && fmt.Sprint(v) != string(o.PaymentMethod) {
			continue
		}
		out = append(out, *o)
	}
	sortByCreated(out, func(o model.Order) string { return o.CreatedDate }, order.Desc || order.Field == "")
	return out, nil
}

func sortByCreated[T any](items []T, key func(T) string, desc bool) {
	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return key(items[i]) > key(items[j])
		}
		return key(items[i]) < key(items[j])
	})
}

// ReviewRepositoryStub keeps reviews in memory.
type ReviewRepositoryStub struct {
	Err     error
	mu      sync.Mutex
	seq     int
	reviews []model.Review
}

// Create stores review with generated id.
func (s *ReviewRepositoryStub) Create(_ context.Context, review *model.Review) (*model.Review, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	stored := *review
	stored.ID = fmt.Sprintf("review-%d", s.seq)
	stored.CreatedDate = stamp(s.seq)
	s.reviews = append(s.reviews, stored)
	return &stored, nil
}

// List returns all reviews newest first.
func (s *ReviewRepositoryStub) List(ctx context.Context, sort model.Sort) ([]model.Review, error) {
	return s.Filter(ctx, nil, sort)
}

// Filter supports equality on is_approved.
func (s *ReviewRepositoryStub) Filter(_ context.Context, filters map[string]any, order model.Sort) ([]model.Review, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Review
	for _, r := range s.reviews {
		if v, ok := filters["is_approved"]; ok && v != r.IsApproved {
			continue
		}
		out = append(out, r)
	}
	sortByCreated(out, func(r model.Review) string { return r.CreatedDate }, order.Desc || order.Field == "")
	return out, nil
}

// AdminRepositoryStub stores admins in memory keyed by login.
type AdminRepositoryStub struct {
	Err    error
	mu     sync.Mutex
	seq    int
	admins map[string]*model.Admin
}

// Create registers admin unless login is taken.
func (s *AdminRepositoryStub) Create(_ context.Context, login, passwordHash string) (*model.Admin, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.admins == nil {
		s.admins = make(map[string]*model.Admin)
	}
	if _, ok := s.admins[login]; ok {
		return nil, domainErrors.ErrAlreadyExists
	}
	s.seq++
	admin := &model.Admin{UID: fmt.Sprintf("admin-%d", s.seq), Login: login, PasswordHash: passwordHash, CreatedAt: baseTime}
	s.admins[login] = admin
	out := *admin
	return &out, nil
}

// GetByLogin fetches admin by login or returns not found.
func (s *AdminRepositoryStub) GetByLogin(_ context.Context, login string) (*model.Admin, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if admin, ok := s.admins[login]; ok {
		out := *admin
		return &out, nil
	}
	return nil, domainErrors.ErrNotFound
}

// Exists reports whether an admin with uid is registered.
func (s *AdminRepositoryStub) Exists(_ context.Context, uid string) (bool, error) {
	if s.Err != nil {
		return false, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, admin := range s.admins {
		if admin.UID == uid {
			return true, nil
		}
	}
	return false, nil
}
