package usecase

import (
	"io"
	"log/slog"

	"github.com/polkiloo/chatpack/internal/config"
	"github.com/polkiloo/chatpack/internal/pricing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func defaultEngine() *pricing.Engine {
	return pricing.NewEngine(config.Pricing{ProductName: "Chat Pack", Currency: "huf", UnitPrice: 3990, ShippingPrice: 990})
}
