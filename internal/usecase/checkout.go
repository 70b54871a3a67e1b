package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/polkiloo/chatpack/internal/adapter/events"
	domainErrors "github.com/polkiloo/chatpack/internal/domain/errors"
	"github.com/polkiloo/chatpack/internal/domain/model"
	"github.com/polkiloo/chatpack/internal/domain/repository"
	"github.com/polkiloo/chatpack/internal/pricing"
)

const (
	msgMissingFields     = "Please fill in all required fields."
	msgMissingParcelShop = "Please select a GLS parcel shop!"
	msgUnknownShipping   = "Unknown shipping method."
	msgUnknownPayment    = "Unknown payment method."
	msgCODPlaced         = "Order recorded! Pay cash on delivery."
	msgRedirecting       = "Redirecting to payment."
	msgBlocked           = "Your browser is blocking the connection to the order store (adblock/privacy). Disable it for this site and try again."
	msgGeneric           = "Could not place the order. Please try again."
)

// checkout tracks a single submit through its states.
type checkout struct {
	state model.CheckoutState
}

func (c *checkout) transition(next model.CheckoutState) error {
	if !c.state.CanTransition(next) {
		return fmt.Errorf("checkout: illegal transition %s -> %s", c.state, next)
	}
	c.state = next
	return nil
}

// inflight guards against concurrent submits of the same checkout.
type inflight struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func (f *inflight) acquire(key string) bool {
	if key == "" {
		return true
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.keys == nil {
		f.keys = make(map[string]struct{})
	}
	if _, busy := f.keys[key]; busy {
		return false
	}
	f.keys[key] = struct{}{}
	return true
}

func (f *inflight) release(key string) {
	if key == "" {
		return
	}
	f.mu.Lock()
	delete(f.keys, key)
	f.mu.Unlock()
}

// CheckoutUseCase turns a submitted form into a pending order and, for card
// payments, a hosted checkout redirect.
type CheckoutUseCase struct {
	orders    repository.OrderRepository
	payments  *PaymentUseCase
	pricing   *pricing.Engine
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
	inflight  inflight
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(orders repository.OrderRepository, payments *PaymentUseCase, engine *pricing.Engine, publisher events.Publisher, logger *slog.Logger) *CheckoutUseCase {
	return &CheckoutUseCase{
		orders:    orders,
		payments:  payments,
		pricing:   engine,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Submit validates the form, records a pending order and finishes the flow
// for cash on delivery or opens a payment session for card. On failure the
// returned result is back in the editing state with a shopper-facing message.
func (u *CheckoutUseCase) Submit(ctx context.Context, form model.CheckoutForm, origin string) (*model.CheckoutResult, error) {
	c := &checkout{state: model.CheckoutEditing}

	if err := validateForm(&form); err != nil {
		return &model.CheckoutResult{State: c.state, Message: err.Error()}, err
	}

	if !u.inflight.acquire(form.CheckoutID) {
		return &model.CheckoutResult{State: model.CheckoutSubmitting}, domainErrors.ErrSubmitInProgress
	}
	defer u.inflight.release(form.CheckoutID)

	if err := c.transition(model.CheckoutSubmitting); err != nil {
		return nil, err
	}

	result := &model.CheckoutResult{}
	fail := func(err error) (*model.CheckoutResult, error) {
		_ = c.transition(model.CheckoutFailed)
		u.logger.Error("checkout failed",
			slog.String("order_id", result.OrderID),
			slog.String("error", err.Error()),
		)
		switch {
		case errors.Is(err, domainErrors.ErrValidation), errors.Is(err, domainErrors.ErrConfiguration):
			result.Message = err.Error()
		case domainErrors.IsNetworkBlocked(err):
			result.Message = msgBlocked
		default:
			result.Message = msgGeneric
		}
		_ = c.transition(model.CheckoutEditing)
		result.State = c.state
		return result, err
	}

	quote, err := u.pricing.Quote(form.Quantity)
	if err != nil {
		return fail(err)
	}

	order, err := u.orders.Create(ctx, newPendingOrder(form, quote))
	if err != nil {
		return fail(err)
	}
	result.OrderID = order.ID
	u.publish(ctx, model.OrderEvent{Type: model.OrderEventCreated, OrderID: order.ID, Status: order.Status})

	if form.PaymentMethod == model.PaymentCashOnDelivery {
		if err := c.transition(model.CheckoutCompletedCOD); err != nil {
			return fail(err)
		}
		result.State = c.state
		result.Message = msgCODPlaced
		return result, nil
	}

	link, err := u.payments.CreateSession(ctx, model.SessionRequest{
		OrderID:       order.ID,
		Quantity:      quote.Quantity,
		CustomerEmail: form.CustomerEmail,
		Origin:        origin,
	})
	if err != nil {
		return fail(err)
	}

	sessionID := link.SessionID
	if _, err := u.orders.Update(ctx, order.ID, model.OrderUpdate{StripeSessionID: &sessionID}); err != nil {
		u.logger.Warn("store session id failed",
			slog.String("order_id", order.ID),
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	if err := c.transition(model.CheckoutRedirecting); err != nil {
		return fail(err)
	}
	result.State = c.state
	result.RedirectURL = link.URL
	result.SessionID = link.SessionID
	result.Message = msgRedirecting
	return result, nil
}

// Confirm marks the session's order paid when the provider reports payment
// and the order is still pending. Repeated calls leave the order unchanged.
func (u *CheckoutUseCase) Confirm(ctx context.Context, sessionID string) (*model.Confirmation, error) {
	verification, err := u.payments.VerifySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	out := &model.Confirmation{Paid: verification.Paid, OrderID: verification.OrderID}
	if !verification.Paid || verification.OrderID == nil {
		return out, nil
	}

	sessionID = strings.TrimSpace(sessionID)
	_, err = u.orders.Mutate(ctx, *verification.OrderID, func(current model.Order) (model.OrderUpdate, error) {
		if current.Status != model.OrderStatusPending {
			return model.OrderUpdate{}, nil
		}
		status := model.OrderStatusPaid
		paidAt := u.now().UTC().Format(time.RFC3339Nano)
		update := model.OrderUpdate{Status: &status, StripeSessionID: &sessionID, PaidAt: &paidAt}
		if verification.PaymentIntent != nil {
			update.StripePaymentIntent = verification.PaymentIntent
		}
		out.Updated = true
		return update, nil
	})
	if err != nil {
		out.Updated = false
		return nil, err
	}

	if out.Updated {
		u.publish(ctx, model.OrderEvent{Type: model.OrderEventPaid, OrderID: *verification.OrderID, Status: model.OrderStatusPaid})
	}
	return out, nil
}

// PendingPayments returns card orders still awaiting payment that already
// have a checkout session, oldest first.
func (u *CheckoutUseCase) PendingPayments(ctx context.Context, limit int) ([]model.Order, error) {
	orders, err := u.orders.Filter(ctx, map[string]any{
		"status":         string(model.OrderStatusPending),
		"payment_method": string(model.PaymentCard),
	}, model.Sort{Field: "created_date"})
	if err != nil {
		return nil, err
	}

	out := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if o.StripeSessionID == "" {
			continue
		}
		out = append(out, o)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (u *CheckoutUseCase) publish(ctx context.Context, event model.OrderEvent) {
	publishEvent(ctx, u.publisher, u.logger, event, u.now)
}

func publishEvent(ctx context.Context, publisher events.Publisher, logger *slog.Logger, event model.OrderEvent, now func() time.Time) {
	if event.At.IsZero() {
		event.At = now().UTC()
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("publish order event failed",
			slog.String("type", string(event.Type)),
			slog.String("order_id", event.OrderID),
			slog.String("error", err.Error()),
		)
	}
}

func validateForm(form *model.CheckoutForm) error {
	form.CustomerName = strings.TrimSpace(form.CustomerName)
	form.CustomerEmail = strings.TrimSpace(form.CustomerEmail)
	form.CustomerPhone = strings.TrimSpace(form.CustomerPhone)
	form.ShippingAddress = strings.TrimSpace(form.ShippingAddress)
	form.ShippingCity = strings.TrimSpace(form.ShippingCity)
	form.ShippingZip = strings.TrimSpace(form.ShippingZip)
	form.ParcelShopID = strings.TrimSpace(form.ParcelShopID)

	if !form.ShippingMethod.Valid() {
		return domainErrors.Validation(msgUnknownShipping)
	}
	if form.ShippingMethod == model.ShippingParcelShop && form.ParcelShopID == "" {
		return domainErrors.Validation(msgMissingParcelShop)
	}
	if form.CustomerName == "" || form.CustomerEmail == "" || form.CustomerPhone == "" {
		return domainErrors.Validation(msgMissingFields)
	}
	if form.ShippingMethod == model.ShippingHomeDelivery &&
		(form.ShippingAddress == "" || form.ShippingCity == "" || form.ShippingZip == "") {
		return domainErrors.Validation(msgMissingFields)
	}
	if !form.PaymentMethod.Valid() {
		return domainErrors.Validation(msgUnknownPayment)
	}
	return nil
}

func newPendingOrder(form model.CheckoutForm, quote pricing.Quote) *model.Order {
	order := &model.Order{
		CustomerName:   form.CustomerName,
		CustomerEmail:  form.CustomerEmail,
		CustomerPhone:  form.CustomerPhone,
		ShippingMethod: form.ShippingMethod,
		PaymentMethod:  form.PaymentMethod,
		Quantity:       quote.Quantity,
		UnitPrice:      quote.UnitMinor,
		ShippingPrice:  quote.ShippingMinor,
		TotalPrice:     quote.Total,
		Status:         model.OrderStatusPending,
		Notes:          strings.TrimSpace(form.Notes),
	}
	switch form.ShippingMethod {
	case model.ShippingParcelShop:
		order.ParcelShopID = form.ParcelShopID
		order.ParcelShopName = strings.TrimSpace(form.ParcelShopName)
		order.ParcelShopAddress = strings.TrimSpace(form.ParcelShopAddress)
	default:
		order.ShippingAddress = form.ShippingAddress
		order.ShippingCity = form.ShippingCity
		order.ShippingZip = form.ShippingZip
	}
	return order
}
