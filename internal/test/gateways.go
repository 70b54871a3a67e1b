package test

import (
	"context"
	"sync"

	"github.com/polkiloo/chatpack/internal/domain/model"
)

// GatewayStub simulates the hosted checkout provider.
type GatewayStub struct {
	CreateFn func(context.Context, model.CheckoutSessionParams) (*model.CheckoutSession, error)
	GetFn    func(context.Context, string) (*model.CheckoutSession, error)

	mu      sync.Mutex
	Created []model.CheckoutSessionParams
	Fetched []string
}

// CreateCheckoutSession records params and returns a fixed session by default.
func (g *GatewayStub) CreateCheckoutSession(ctx context.Context, params model.CheckoutSessionParams) (*model.CheckoutSession, error) {
	g.mu.Lock()
	g.Created = append(g.Created, params)
	g.mu.Unlock()
	if g.CreateFn != nil {
		return g.CreateFn(ctx, params)
	}
	return &model.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.test/cs_test_1", OrderID: params.OrderID}, nil
}

// GetCheckoutSession records id and returns an unpaid session by default.
func (g *GatewayStub) GetCheckoutSession(ctx context.Context, id string) (*model.CheckoutSession, error) {
	g.mu.Lock()
	g.Fetched = append(g.Fetched, id)
	g.mu.Unlock()
	if g.GetFn != nil {
		return g.GetFn(ctx, id)
	}
	return &model.CheckoutSession{ID: id}, nil
}

// CreateCalls returns how many sessions were requested.
func (g *GatewayStub) CreateCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Created)
}

// PublisherStub records published events.
type PublisherStub struct {
	Err    error
	mu     sync.Mutex
	Events []model.OrderEvent
	Closed bool
}

// Publish stores the event unless Err is set.
func (p *PublisherStub) Publish(_ context.Context, event model.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Events = append(p.Events, event)
	return nil
}

// Close marks the publisher closed.
func (p *PublisherStub) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Closed = true
	return nil
}

// Published returns a copy of recorded events.
func (p *PublisherStub) Published() []model.OrderEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.OrderEvent(nil), p.Events...)
}
