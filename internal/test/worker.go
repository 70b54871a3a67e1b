package test

import (
	"context"
	"sync"

	"github.com/polkiloo/chatpack/internal/domain/model"
)

// WorkerFacadeStub feeds the payment reconciler with canned batches.
type WorkerFacadeStub struct {
	sync.Mutex

	Batches   [][]model.Order
	ConfirmFn func(context.Context, string) (*model.Confirmation, error)
	Confirmed []string
	Calls     int
}

// PendingPayments pops the next batch, returning nothing once exhausted.
func (s *WorkerFacadeStub) PendingPayments(context.Context, int) ([]model.Order, error) {
	s.Lock()
	defer s.Unlock()
	s.Calls++
	if len(s.Batches) == 0 {
		return nil, nil
	}
	batch := s.Batches[0]
	s.Batches = s.Batches[1:]
	return batch, nil
}

// ConfirmPayment records the session and delegates to ConfirmFn when set.
func (s *WorkerFacadeStub) ConfirmPayment(ctx context.Context, sessionID string) (*model.Confirmation, error) {
	if s.ConfirmFn != nil {
		res, err := s.ConfirmFn(ctx, sessionID)
		if err == nil {
			s.Lock()
			s.Confirmed = append(s.Confirmed, sessionID)
			s.Unlock()
		}
		return res, err
	}
	s.Lock()
	defer s.Unlock()
	s.Confirmed = append(s.Confirmed, sessionID)
	return &model.Confirmation{Paid: true, Updated: true}, nil
}

// ConfirmedSessions returns a copy of the confirmed session ids.
func (s *WorkerFacadeStub) ConfirmedSessions() []string {
	s.Lock()
	defer s.Unlock()
	return append([]string(nil), s.Confirmed...)
}
