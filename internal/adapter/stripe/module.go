package stripe

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/chatpack/internal/config"
)

// Module exposes the payment provider client to fx graph.
var Module = fx.Provide(newGateway)

type gatewayParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newGateway(p gatewayParams) Gateway {
	if p.Config.StripeSecretKey == "" {
		p.Logger.Warn("STRIPE_SECRET_KEY is not set, card payments are disabled")
	}
	return NewClient(p.Config.StripeSecretKey, p.Config.StripeAPIURL, p.Logger)
}
