package orders

import (
	"errors"
	"testing"

	"github.com/gamezilla/storefront/internal/domain"
)

func TestPricingTotals(t *testing.T) {
	pricing := DefaultPricing()

	t.Run("computes subtotal, tax, shipping and total", func(t *testing.T) {
		items := []domain.CartItem{
			{GameID: 1, Quantity: 2, UnitPrice: 19.99},
			{GameID: 2, Quantity: 1, UnitPrice: 5.00},
		}

		totals, err := pricing.Totals(items)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if totals.Subtotal != 44.98 {
			t.Errorf("expected subtotal 44.98, got %v", totals.Subtotal)
		}
		if totals.TaxAmount != 3.60 {
			t.Errorf("expected tax 3.60, got %v", totals.TaxAmount)
		}
		if totals.ShippingCost != 5.00 {
			t.Errorf("expected shipping 5.00, got %v", totals.ShippingCost)
		}
		if totals.TotalAmount != 53.58 {
			t.Errorf("expected total 53.58, got %v", totals.TotalAmount)
		}
	})

	t.Run("zero-priced line contributes nothing", func(t *testing.T) {
		items := []domain.CartItem{
			{GameID: 1, Quantity: 3, UnitPrice: 0},
			{GameID: 2, Quantity: 1, UnitPrice: 10.00},
		}

		totals, err := pricing.Totals(items)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if totals.Subtotal != 10.00 {
			t.Errorf("expected subtotal 10.00, got %v", totals.Subtotal)
		}
	})

	t.Run("rejects cart whose subtotal is zero", func(t *testing.T) {
		items := []domain.CartItem{
			{GameID: 1, Quantity: 2, UnitPrice: 0},
		}

		_, err := pricing.Totals(items)
		if !errors.Is(err, ErrInvalidCart) {
			t.Fatalf("expected ErrInvalidCart, got %v", err)
		}
	})

	t.Run("rejects negative subtotal", func(t *testing.T) {
		items := []domain.CartItem{
			{GameID: 1, Quantity: 1, UnitPrice: -9.99},
		}

		_, err := pricing.Totals(items)
		if !errors.Is(err, ErrInvalidCart) {
			t.Fatalf("expected ErrInvalidCart, got %v", err)
		}
	})

	t.Run("rounds accumulated floating point error", func(t *testing.T) {
		items := []domain.CartItem{
			{GameID: 1, Quantity: 3, UnitPrice: 0.10},
		}

		totals, err := pricing.Totals(items)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if totals.Subtotal != 0.30 {
			t.Errorf("expected subtotal 0.30, got %v", totals.Subtotal)
		}
	})

	t.Run("injected rates are honored", func(t *testing.T) {
		custom := PricingConfig{TaxRate: 0.2, ShippingFee: 0}
		items := []domain.CartItem{
			{GameID: 1, Quantity: 1, UnitPrice: 100.00},
		}

		totals, err := custom.Totals(items)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if totals.TaxAmount != 20.00 {
			t.Errorf("expected tax 20.00, got %v", totals.TaxAmount)
		}
		if totals.TotalAmount != 120.00 {
			t.Errorf("expected total 120.00, got %v", totals.TotalAmount)
		}
	})
}
