package orders

import (
	"errors"
	"math"

	"github.com/gamezilla/storefront/internal/domain"
)

var (
	ErrEmptyCart   = errors.New("cart is empty")
	ErrInvalidCart = errors.New("invalid cart items or prices")
)

// PricingConfig holds the storefront's flat charge policy: a single tax rate
// and a fixed shipping fee regardless of region or order size.
type PricingConfig struct {
	TaxRate     float64
	ShippingFee float64
}

func DefaultPricing() PricingConfig {
	return PricingConfig{
		TaxRate:     0.08,
		ShippingFee: 5.00,
	}
}

type Totals struct {
	Subtotal     float64
	TaxAmount    float64
	ShippingCost float64
	TotalAmount  float64
	ItemCount    int
}

// Totals computes the money amounts for a set of cart lines. Lines with a
// missing price or quantity arrive here already coerced to zero and simply
// contribute nothing; a cart whose rounded subtotal is not a finite positive
// number is rejected as a whole.
func (c PricingConfig) Totals(items []domain.CartItem) (Totals, error) {
	var subtotal float64
	for _, item := range items {
		subtotal += float64(item.Quantity) * item.UnitPrice
	}

	subtotal = round2(subtotal)
	if math.IsNaN(subtotal) || math.IsInf(subtotal, 0) || subtotal <= 0 {
		return Totals{}, ErrInvalidCart
	}

	tax := round2(subtotal * c.TaxRate)

	return Totals{
		Subtotal:     subtotal,
		TaxAmount:    tax,
		ShippingCost: c.ShippingFee,
		TotalAmount:  round2(subtotal + tax + c.ShippingFee),
		ItemCount:    len(items),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
