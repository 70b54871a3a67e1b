// Package pricing turns configured major-unit prices and untrusted quantities
// into integer minor-unit totals.
package pricing

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/chatpack/internal/config"
	domainErrors "github.com/polkiloo/chatpack/internal/domain/errors"
)

const (
	MinQuantity = 1
	MaxQuantity = 10
)

var (
	hundred  = decimal.NewFromInt(100)
	maxMinor = decimal.NewFromInt(math.MaxInt64)
)

// NormalizeQuantity coerces raw input to an integer in [MinQuantity, MaxQuantity].
// Fractions are truncated; missing or non-numeric input yields MinQuantity.
func NormalizeQuantity(raw any) int {
	v, ok := toFloat(raw)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return MinQuantity
	}
	v = math.Trunc(v)
	if v < MinQuantity {
		return MinQuantity
	}
	if v > MaxQuantity {
		return MaxQuantity
	}
	return int(v)
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// ToMinorUnits scales a major-unit amount by 100, rounding half away from zero.
// Negative amounts clamp to 0 and amounts beyond int64 saturate.
func ToMinorUnits(major decimal.Decimal) int64 {
	minor := major.Mul(hundred).Round(0)
	if minor.Sign() < 0 {
		return 0
	}
	if minor.GreaterThan(maxMinor) {
		return math.MaxInt64
	}
	return minor.IntPart()
}

// ComputeTotal returns unit*quantity + shipping in minor units.
func ComputeTotal(unitMinor, shippingMinor int64, quantity int) int64 {
	return unitMinor*int64(quantity) + shippingMinor
}

// MinimumChargeable is the smallest total the payment provider accepts for a currency.
func MinimumChargeable(currency string) int64 {
	if strings.EqualFold(currency, "huf") {
		return 175
	}
	return 0
}

// Quote is a priced order line.
type Quote struct {
	ProductName   string
	Currency      string
	UnitMinor     int64
	ShippingMinor int64
	Quantity      int
	Total         int64
}

func (q Quote) breakdown() string {
	return fmt.Sprintf("unit=%d, ship=%d, qty=%d", q.UnitMinor, q.ShippingMinor, q.Quantity)
}

// Engine prices the single product from explicit configuration.
type Engine struct {
	productName string
	currency    string
	unit        decimal.Decimal
	shipping    decimal.Decimal
}

// NewEngine builds an Engine from pricing configuration.
func NewEngine(cfg config.Pricing) *Engine {
	return &Engine{
		productName: cfg.ProductName,
		currency:    strings.ToLower(strings.TrimSpace(cfg.Currency)),
		unit:        decimal.NewFromInt(cfg.UnitPrice),
		shipping:    decimal.NewFromInt(cfg.ShippingPrice),
	}
}

// Currency returns the lower-cased ISO currency code.
func (e *Engine) Currency() string {
	return e.currency
}

// ProductName returns the configured product display name.
func (e *Engine) ProductName() string {
	return e.productName
}

// Quote prices rawQuantity units plus shipping. A total that cannot be
// represented is reported as a configuration fault.
func (e *Engine) Quote(rawQuantity any) (Quote, error) {
	q := Quote{
		ProductName:   e.productName,
		Currency:      e.currency,
		UnitMinor:     ToMinorUnits(e.unit),
		ShippingMinor: ToMinorUnits(e.shipping),
		Quantity:      NormalizeQuantity(rawQuantity),
	}

	total := decimal.NewFromInt(q.UnitMinor).
		Mul(decimal.NewFromInt(int64(q.Quantity))).
		Add(decimal.NewFromInt(q.ShippingMinor))
	if total.GreaterThanOrEqual(maxMinor) {
		return q, domainErrors.Configuration("Invalid total. " + q.breakdown())
	}
	q.Total = ComputeTotal(q.UnitMinor, q.ShippingMinor, q.Quantity)
	return q, nil
}

// CheckChargeable rejects totals under the currency floor.
func (e *Engine) CheckChargeable(q Quote) error {
	floor := MinimumChargeable(q.Currency)
	if q.Total < floor {
		return domainErrors.Validation(fmt.Sprintf(
			"Amount too low (%d %s). Minimum: %d %s. (%s)",
			q.Total, q.Currency, floor, q.Currency, q.breakdown(),
		))
	}
	return nil
}
