package usecase

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/grocerycompare/backend/internal/domain"
)

// DefaultDeliveryFees are the flat delivery fees of the recognised storefronts
var DefaultDeliveryFees = map[domain.Store]float64{
	domain.StoreTesco:      3.00,
	domain.StoreSainsburys: 3.50,
	domain.StoreAsda:       2.95,
}

// PricingConfig holds configuration for the pricing service
type PricingConfig struct {
	// DeliveryFees maps a store to its flat delivery fee. Stores missing from
	// the table are charged nothing.
	DeliveryFees map[domain.Store]float64
}

// PricingService turns matched lines into ranked store quotes
type PricingService struct {
	deliveryFees map[domain.Store]float64
}

// NewPricingService creates a pricing service. A nil fee table falls back to DefaultDeliveryFees.
func NewPricingService(config PricingConfig) *PricingService {
	fees := config.DeliveryFees
	if fees == nil {
		fees = DefaultDeliveryFees
	}

	return &PricingService{
		deliveryFees: maps.Clone(fees),
	}
}

// DeliveryFee returns the delivery fee of a store, 0 when the store is not in the table
func (s *PricingService) DeliveryFee(store domain.Store) float64 {
	return s.deliveryFees[store]
}

// Aggregate prices every store's matched lines and ranks the quotes by total, cheapest first.
//
// subtotal = round2(sum of unit price * quantity) and total = round2(subtotal + fee),
// rounding half away from zero. Stores with no lines still get a quote.
// Equal totals keep their input order.
func (s *PricingService) Aggregate(matched []domain.StoreMatches) []domain.StoreQuote {
	quotes := make([]domain.StoreQuote, 0, len(matched))

	for _, m := range matched {
		subtotal := decimal.Zero
		for _, line := range m.Lines {
			lineTotal := decimal.NewFromFloat(line.UnitPrice).Mul(decimal.NewFromFloat(line.Quantity))
			subtotal = subtotal.Add(lineTotal)
		}
		subtotal = subtotal.Round(2)

		fee := decimal.NewFromFloat(s.DeliveryFee(m.Store))
		total := subtotal.Add(fee).Round(2)

		lines := m.Lines
		if lines == nil {
			lines = []domain.MatchedLine{}
		}

		quotes = append(quotes, domain.StoreQuote{
			Store:       m.Store,
			Subtotal:    subtotal.InexactFloat64(),
			DeliveryFee: fee.InexactFloat64(),
			TotalPrice:  total.InexactFloat64(),
			Lines:       lines,
		})
	}

	slices.SortStableFunc(quotes, func(a, b domain.StoreQuote) int {
		switch {
		case a.TotalPrice < b.TotalPrice:
			return -1
		case a.TotalPrice > b.TotalPrice:
			return 1
		}
		return 0
	})

	return quotes
}
