package usecase

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/polkiloo/chatpack/internal/config"
	domainErrors "github.com/polkiloo/chatpack/internal/domain/errors"
	"github.com/polkiloo/chatpack/internal/domain/model"
	"github.com/polkiloo/chatpack/internal/pricing"
	testhelpers "github.com/polkiloo/chatpack/internal/test"
)

type checkoutFixture struct {
	orders    *testhelpers.OrderRepositoryStub
	gateway   *testhelpers.GatewayStub
	publisher *testhelpers.PublisherStub
	uc        *CheckoutUseCase
}

func newCheckoutFixture(seed ...model.Order) *checkoutFixture {
	return newCheckoutFixtureWithEngine(defaultEngine(), seed...)
}

func newCheckoutFixtureWithEngine(engine *pricing.Engine, seed ...model.Order) *checkoutFixture {
	f := &checkoutFixture{
		orders:    testhelpers.NewOrderRepositoryStub(seed...),
		gateway:   &testhelpers.GatewayStub{},
		publisher: &testhelpers.PublisherStub{},
	}
	payments := NewPaymentUseCase(f.gateway, engine, testLogger())
	f.uc = NewCheckoutUseCase(f.orders, payments, engine, f.publisher, testLogger())
	f.uc.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	return f
}

func homeDeliveryForm(method model.PaymentMethod) model.CheckoutForm {
	return model.CheckoutForm{
		CheckoutID:      "chk-1",
		CustomerName:    "Kiss Anna",
		CustomerEmail:   "anna@example.com",
		CustomerPhone:   "+36301234567",
		ShippingMethod:  model.ShippingHomeDelivery,
		ShippingAddress: "Fő utca 1",
		ShippingCity:    "Budapest",
		ShippingZip:     "1011",
		PaymentMethod:   method,
		Quantity:        2,
	}
}

func TestSubmitRejectsParcelShopWithoutSelection(t *testing.T) {
	f := newCheckoutFixture()
	form := homeDeliveryForm(model.PaymentCard)
	form.ShippingMethod = model.ShippingParcelShop

	result, err := f.uc.Submit(context.Background(), form, "")
	if !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if result.State != model.CheckoutEditing || result.Message != msgMissingParcelShop {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(f.orders.Created) != 0 {
		t.Fatalf("expected zero store writes, got %d", len(f.orders.Created))
	}
	if f.gateway.CreateCalls() != 0 {
		t.Fatalf("expected zero provider calls")
	}
}

func TestSubmitRejectsMissingFields(t *testing.T) {
	f := newCheckoutFixture()
	cases := map[string]func(*model.CheckoutForm){
		"name":    func(c *model.CheckoutForm) { c.CustomerName = " " },
		"email":   func(c *model.CheckoutForm) { c.CustomerEmail = "" },
		"phone":   func(c *model.CheckoutForm) { c.CustomerPhone = "" },
		"address": func(c *model.CheckoutForm) { c.ShippingAddress = "" },
		"zip":     func(c *model.CheckoutForm) { c.ShippingZip = "" },
		"payment": func(c *model.CheckoutForm) { c.PaymentMethod = "bitcoin" },
		"method":  func(c *model.CheckoutForm) { c.ShippingMethod = "drone" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			form := homeDeliveryForm(model.PaymentCard)
			mutate(&form)
			if _, err := f.uc.Submit(context.Background(), form, ""); !errors.Is(err, domainErrors.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	if len(f.orders.Created) != 0 {
		t.Fatalf("expected zero store writes, got %d", len(f.orders.Created))
	}
}

func TestSubmitCashOnDelivery(t *testing.T) {
	f := newCheckoutFixture()

	result, err := f.uc.Submit(context.Background(), homeDeliveryForm(model.PaymentCashOnDelivery), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.State != model.CheckoutCompletedCOD || result.OrderID == "" || result.RedirectURL != "" {
		t.Fatalf("unexpected result %+v", result)
	}
	if f.gateway.CreateCalls() != 0 {
		t.Fatalf("cash on delivery must not open a payment session")
	}

	order, err := f.orders.Get(context.Background(), result.OrderID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if order.Status != model.OrderStatusPending {
		t.Fatalf("expected pending order, got %s", order.Status)
	}
	if order.Quantity != 2 || order.UnitPrice != 399000 || order.ShippingPrice != 99000 || order.TotalPrice != 897000 {
		t.Fatalf("unexpected pricing %+v", order)
	}
	if order.ParcelShopID != "" {
		t.Fatalf("home delivery must not carry a parcel shop")
	}

	events := f.publisher.Published()
	if len(events) != 1 || events[0].Type != model.OrderEventCreated || events[0].OrderID != result.OrderID {
		t.Fatalf("unexpected events %+v", events)
	}
}

func TestSubmitCardRedirectsAndStoresSession(t *testing.T) {
	f := newCheckoutFixture()
	form := homeDeliveryForm(model.PaymentCard)
	form.ShippingMethod = model.ShippingParcelShop
	form.ParcelShopID = "HU-1234"
	form.ParcelShopName = "GLS Pont"
	form.Quantity = 3

	result, err := f.uc.Submit(context.Background(), form, "https://shop.example")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.State != model.CheckoutRedirecting {
		t.Fatalf("unexpected state %s", result.State)
	}
	if result.RedirectURL != "https://checkout.stripe.test/cs_test_1" || result.SessionID != "cs_test_1" {
		t.Fatalf("unexpected redirect %+v", result)
	}

	params := f.gateway.Created[0]
	if params.OrderID != result.OrderID || params.CustomerEmail != "anna@example.com" {
		t.Fatalf("unexpected session params %+v", params)
	}
	if params.LineItems[0].Quantity != 3 {
		t.Fatalf("unexpected quantity %d", params.LineItems[0].Quantity)
	}

	order, _ := f.orders.Get(context.Background(), result.OrderID)
	if order.StripeSessionID != "cs_test_1" {
		t.Fatalf("expected session id stored, got %q", order.StripeSessionID)
	}
	if order.TotalPrice != 1296000 {
		t.Fatalf("unexpected total %d", order.TotalPrice)
	}
	if order.ShippingAddress != "" || order.ParcelShopID != "HU-1234" {
		t.Fatalf("unexpected shipping fields %+v", order)
	}
}

func TestSubmitCardContinuesWhenSessionIDNotStored(t *testing.T) {
	f := newCheckoutFixture()
	f.orders.UpdateFn = func(context.Context, string, model.OrderUpdate) (*model.Order, error) {
		return nil, domainErrors.ErrStoreUnavailable
	}

	result, err := f.uc.Submit(context.Background(), homeDeliveryForm(model.PaymentCard), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.State != model.CheckoutRedirecting || result.RedirectURL == "" {
		t.Fatalf("expected redirect despite update failure, got %+v", result)
	}
}

func TestSubmitFailureMessages(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{name: "blocked", err: errors.New("net::ERR_BLOCKED_BY_CLIENT"), message: msgBlocked},
		{name: "generic", err: domainErrors.ErrStoreUnavailable, message: msgGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCheckoutFixture()
			f.orders.CreateFn = func(context.Context, *model.Order) (*model.Order, error) {
				return nil, tt.err
			}

			result, err := f.uc.Submit(context.Background(), homeDeliveryForm(model.PaymentCard), "")
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
			if result.State != model.CheckoutEditing || result.Message != tt.message {
				t.Fatalf("unexpected result %+v", result)
			}
			if f.gateway.CreateCalls() != 0 {
				t.Fatalf("provider must not be called when the order was not stored")
			}
		})
	}
}

func TestSubmitProviderErrorMentioningBlockedGetsGenericMessage(t *testing.T) {
	f := newCheckoutFixture()
	f.gateway.CreateFn = func(context.Context, model.CheckoutSessionParams) (*model.CheckoutSession, error) {
		return nil, domainErrors.Provider(errors.New("Your card has been blocked by the issuer"))
	}

	result, err := f.uc.Submit(context.Background(), homeDeliveryForm(model.PaymentCard), "")
	if !errors.Is(err, domainErrors.ErrPaymentProvider) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if result.Message != msgGeneric {
		t.Fatalf("expected generic message, got %q", result.Message)
	}
}

func TestSubmitBelowMinimumShowsAmountDetails(t *testing.T) {
	engine := pricing.NewEngine(config.Pricing{ProductName: "Chat Pack", Currency: "huf", UnitPrice: 0, ShippingPrice: 0})
	f := newCheckoutFixtureWithEngine(engine)

	result, err := f.uc.Submit(context.Background(), homeDeliveryForm(model.PaymentCard), "")
	if !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if result.State != model.CheckoutEditing || result.Message != err.Error() {
		t.Fatalf("expected the amount error as message, got %+v", result)
	}
	if !strings.Contains(result.Message, "Amount too low") || !strings.Contains(result.Message, "qty=2") {
		t.Fatalf("expected breakdown in message, got %q", result.Message)
	}
	if f.gateway.CreateCalls() != 0 {
		t.Fatalf("provider must not be called below the minimum")
	}
}

func TestSubmitInvalidTotalShowsBreakdown(t *testing.T) {
	engine := pricing.NewEngine(config.Pricing{Currency: "eur", UnitPrice: math.MaxInt64 / 200, ShippingPrice: 1})
	f := newCheckoutFixtureWithEngine(engine)
	form := homeDeliveryForm(model.PaymentCard)
	form.Quantity = 10

	result, err := f.uc.Submit(context.Background(), form, "")
	if !errors.Is(err, domainErrors.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !strings.Contains(result.Message, "Invalid total.") || !strings.Contains(result.Message, "qty=10") {
		t.Fatalf("expected breakdown in message, got %q", result.Message)
	}
}

func TestSubmitProviderFailureKeepsPendingOrder(t *testing.T) {
	f := newCheckoutFixture()
	f.gateway.CreateFn = func(context.Context, model.CheckoutSessionParams) (*model.CheckoutSession, error) {
		return nil, domainErrors.Provider(errors.New("stripe down"))
	}

	result, err := f.uc.Submit(context.Background(), homeDeliveryForm(model.PaymentCard), "")
	if !errors.Is(err, domainErrors.ErrPaymentProvider) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if result.OrderID == "" || result.State != model.CheckoutEditing || result.Message != msgGeneric {
		t.Fatalf("unexpected result %+v", result)
	}
	order, err := f.orders.Get(context.Background(), result.OrderID)
	if err != nil || order.Status != model.OrderStatusPending {
		t.Fatalf("expected pending order to remain, got %+v %v", order, err)
	}
}

func TestSubmitRejectsConcurrentDuplicate(t *testing.T) {
	f := newCheckoutFixture()
	entered := make(chan struct{})
	release := make(chan struct{})
	f.gateway.CreateFn = func(_ context.Context, p model.CheckoutSessionParams) (*model.CheckoutSession, error) {
		close(entered)
		<-release
		return &model.CheckoutSession{ID: "cs_1", URL: "https://pay"}, nil
	}

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = f.uc.Submit(context.Background(), homeDeliveryForm(model.PaymentCard), "")
	}()

	<-entered
	if _, err := f.uc.Submit(context.Background(), homeDeliveryForm(model.PaymentCard), ""); !errors.Is(err, domainErrors.ErrSubmitInProgress) {
		t.Fatalf("expected in-progress error, got %v", err)
	}
	close(release)
	wg.Wait()
	if firstErr != nil {
		t.Fatalf("first submit failed: %v", firstErr)
	}

	f.gateway.CreateFn = nil
	if _, err := f.uc.Submit(context.Background(), homeDeliveryForm(model.PaymentCard), ""); err != nil {
		t.Fatalf("expected submit after release to succeed, got %v", err)
	}
}

func TestConfirmMarksPendingOrderPaid(t *testing.T) {
	f := newCheckoutFixture(model.Order{ID: "abc123", Status: model.OrderStatusPending, PaymentMethod: model.PaymentCard})
	f.gateway.GetFn = func(_ context.Context, id string) (*model.CheckoutSession, error) {
		return &model.CheckoutSession{ID: id, Paid: true, OrderID: "abc123", PaymentIntentID: "pi_9"}, nil
	}

	res, err := f.uc.Confirm(context.Background(), "cs_paid")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Paid || !res.Updated || res.OrderID == nil || *res.OrderID != "abc123" {
		t.Fatalf("unexpected confirmation %+v", res)
	}

	order, _ := f.orders.Get(context.Background(), "abc123")
	if order.Status != model.OrderStatusPaid || order.StripeSessionID != "cs_paid" || order.StripePaymentIntent != "pi_9" {
		t.Fatalf("unexpected order %+v", order)
	}
	if order.PaidAt != "2026-03-01T10:00:00Z" {
		t.Fatalf("unexpected paid_at %q", order.PaidAt)
	}

	again, err := f.uc.Confirm(context.Background(), "cs_paid")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Updated {
		t.Fatalf("second confirm must not update the order")
	}

	events := f.publisher.Published()
	if len(events) != 1 || events[0].Type != model.OrderEventPaid {
		t.Fatalf("expected a single paid event, got %+v", events)
	}
}

func TestConfirmLeavesUnpaidOrderUntouched(t *testing.T) {
	f := newCheckoutFixture(model.Order{ID: "abc123", Status: model.OrderStatusPending})
	f.gateway.GetFn = func(_ context.Context, id string) (*model.CheckoutSession, error) {
		return &model.CheckoutSession{ID: id, Paid: false, OrderID: "abc123"}, nil
	}

	res, err := f.uc.Confirm(context.Background(), "cs_open")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Paid || res.Updated {
		t.Fatalf("unexpected confirmation %+v", res)
	}
	if len(f.orders.Updates) != 0 {
		t.Fatalf("order must not be modified")
	}
}

func TestConfirmDoesNotRegressAdvancedOrder(t *testing.T) {
	f := newCheckoutFixture(model.Order{ID: "abc123", Status: model.OrderStatusShipped})
	f.gateway.GetFn = func(_ context.Context, id string) (*model.CheckoutSession, error) {
		return &model.CheckoutSession{ID: id, Paid: true, OrderID: "abc123"}, nil
	}

	res, err := f.uc.Confirm(context.Background(), "cs_paid")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Updated {
		t.Fatalf("shipped order must not be touched")
	}
	order, _ := f.orders.Get(context.Background(), "abc123")
	if order.Status != model.OrderStatusShipped {
		t.Fatalf("unexpected status %s", order.Status)
	}
}

func TestConfirmUnknownOrder(t *testing.T) {
	f := newCheckoutFixture()
	f.gateway.GetFn = func(_ context.Context, id string) (*model.CheckoutSession, error) {
		return &model.CheckoutSession{ID: id, Paid: true, OrderID: "ghost"}, nil
	}

	if _, err := f.uc.Confirm(context.Background(), "cs_paid"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPendingPayments(t *testing.T) {
	f := newCheckoutFixture(
		model.Order{ID: "a", Status: model.OrderStatusPending, PaymentMethod: model.PaymentCard, StripeSessionID: "cs_a"},
		model.Order{ID: "b", Status: model.OrderStatusPending, PaymentMethod: model.PaymentCard},
		model.Order{ID: "c", Status: model.OrderStatusPending, PaymentMethod: model.PaymentCashOnDelivery},
		model.Order{ID: "d", Status: model.OrderStatusPaid, PaymentMethod: model.PaymentCard, StripeSessionID: "cs_d"},
		model.Order{ID: "e", Status: model.OrderStatusPending, PaymentMethod: model.PaymentCard, StripeSessionID: "cs_e"},
	)

	orders, err := f.uc.PendingPayments(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 2 || orders[0].ID != "a" || orders[1].ID != "e" {
		t.Fatalf("unexpected pending payments %+v", orders)
	}

	limited, _ := f.uc.PendingPayments(context.Background(), 1)
	if len(limited) != 1 || limited[0].ID != "a" {
		t.Fatalf("unexpected limited result %+v", limited)
	}
}

func TestPublishFailureIsNotSurfaced(t *testing.T) {
	f := newCheckoutFixture()
	f.publisher.Err = errors.New("broker down")

	if _, err := f.uc.Submit(context.Background(), homeDeliveryForm(model.PaymentCashOnDelivery), ""); err != nil {
		t.Fatalf("publish failures must not fail checkout, got %v", err)
	}
}

func TestCheckoutTransitions(t *testing.T) {
	c := &checkout{state: model.CheckoutEditing}
	if err := c.transition(model.CheckoutRedirecting); err == nil {
		t.Fatalf("editing must not jump to redirecting")
	}
	for _, next := range []model.CheckoutState{model.CheckoutSubmitting, model.CheckoutFailed, model.CheckoutEditing} {
		if err := c.transition(next); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}
}
