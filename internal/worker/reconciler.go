package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/chatpack/internal/adapter/stripe"
	"github.com/polkiloo/chatpack/internal/domain/model"
)

// PaymentFacade exposes the subset of application functionality required by the worker.
type PaymentFacade interface {
	PendingPayments(ctx context.Context, limit int) ([]model.Order, error)
	ConfirmPayment(ctx context.Context, sessionID string) (*model.Confirmation, error)
}

// PaymentReconciler periodically confirms card orders whose shoppers paid
// but never came back to the success page.
type PaymentReconciler struct {
	facade       PaymentFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewPaymentReconciler constructs reconciler worker pool. A non-positive
// interval disables it.
func NewPaymentReconciler(facade PaymentFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *PaymentReconciler {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &PaymentReconciler{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
	}
}

// Enabled reports whether Start launches any goroutines.
func (p *PaymentReconciler) Enabled() bool {
	return p.pollInterval > 0
}

// Start launches background processing. A stopped reconciler can be started
// again.
func (p *PaymentReconciler) Start(ctx context.Context) {
	if !p.Enabled() {
		p.logger.Info("payment reconciler disabled")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	jobs := make(chan model.Order, p.batchSize*p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx, jobs)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx, jobs)

	p.logger.Info("payment reconciler started",
		slog.Duration("interval", p.pollInterval),
		slog.Int("workers", p.workers),
	)
}

// Stop waits for all workers to finish.
func (p *PaymentReconciler) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *PaymentReconciler) dispatch(ctx context.Context, jobs chan<- model.Order) {
	defer p.wg.Done()
	defer close(jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx, jobs)
		}
	}
}

func (p *PaymentReconciler) fetchAndDispatch(ctx context.Context, jobs chan<- model.Order) {
	orders, err := p.facade.PendingPayments(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("fetch pending payments failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case jobs <- order:
		}
	}
}

func (p *PaymentReconciler) worker(ctx context.Context, jobs <-chan model.Order) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-jobs:
			if !ok {
				return
			}
			p.handleOrder(ctx, order)
		}
	}
}

func (p *PaymentReconciler) handleOrder(ctx context.Context, order model.Order) {
	res, err := p.facade.ConfirmPayment(ctx, order.StripeSessionID)
	if err != nil {
		var tm stripe.TooManyRequestsError
		if errors.As(err, &tm) {
			p.logger.Warn("payment provider rate limited", slog.Duration("retry_after", tm.RetryAfter))
			select {
			case <-ctx.Done():
			case <-time.After(tm.RetryAfter):
			}
			return
		}
		p.logger.Error("confirm payment failed",
			slog.String("order_id", order.ID),
			slog.String("session_id", order.StripeSessionID),
			slog.String("error", err.Error()),
		)
		return
	}

	if res.Updated {
		p.logger.Info("payment reconciled", slog.String("order_id", order.ID), slog.String("session_id", order.StripeSessionID))
	}
}
