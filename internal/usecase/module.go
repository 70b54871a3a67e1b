package usecase

import (
	"go.uber.org/fx"

	"github.com/polkiloo/chatpack/internal/config"
	"github.com/polkiloo/chatpack/internal/pricing"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newPricingEngine,
	NewPaymentUseCase,
	NewCheckoutUseCase,
	NewAdminUseCase,
	NewReviewUseCase,
)

func newPricingEngine(cfg config.Pricing) *pricing.Engine {
	return pricing.NewEngine(cfg)
}
