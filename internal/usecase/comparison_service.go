package usecase

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/grocerycompare/backend/internal/domain"
)

// ComparisonServiceConfig holds configuration for the comparison service
type ComparisonServiceConfig struct {
	DeliveryFees       map[domain.Store]float64
	EnableDebugLogging bool
}

// ComparisonService runs the full pipeline: fetch catalogs -> match items -> price and rank stores
type ComparisonService struct {
	catalogs *CatalogService
	matcher  *MatchingService
	pricing  *PricingService
}

// NewComparisonService creates a new comparison service with dependencies
func NewComparisonService(catalogs *CatalogService, config ComparisonServiceConfig) *ComparisonService {
	return &ComparisonService{
		catalogs: catalogs,
		matcher:  NewMatchingService(MatchConfig{EnableDebugLogging: config.EnableDebugLogging}),
		pricing:  NewPricingService(PricingConfig{DeliveryFees: config.DeliveryFees}),
	}
}

// Compare prices a shopping list across every configured store.
// Flow: validate items -> fetch filtered catalogs -> match -> aggregate
func (s *ComparisonService) Compare(ctx context.Context, request domain.CompareRequest) ([]domain.StoreQuote, error) {
	log := slog.With("op", "ComparisonService.Compare")

	for _, item := range request.Items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
	}

	if s.catalogs == nil {
		return nil, domain.ErrCatalogUnavailable
	}

	start := time.Now()

	names := make([]string, 0, len(request.Items))
	for _, item := range request.Items {
		names = append(names, item.Name)
	}
	catalogs := s.catalogs.Catalogs(ctx, names, request.IncludeTags, request.ExcludeBrands)

	quotes, err := s.Price(request.Items, catalogs, request.AllowSubstitutions)
	if err != nil {
		return nil, err
	}

	log.Info("comparison complete",
		"items", len(request.Items),
		"stores", len(quotes),
		"substitutions", request.AllowSubstitutions,
		"elapsed", time.Since(start))

	return quotes, nil
}

// Price matches items against caller-supplied catalogs and ranks the resulting quotes
func (s *ComparisonService) Price(
	items []domain.RequestedItem,
	catalogs []domain.StoreCatalog,
	allowSubstitutions bool,
) ([]domain.StoreQuote, error) {
	matched, err := s.matcher.Match(items, catalogs, allowSubstitutions)
	if err != nil {
		return nil, err
	}
	return s.pricing.Aggregate(matched), nil
}

// DeliveryFee returns the configured delivery fee for a store
func (s *ComparisonService) DeliveryFee(store domain.Store) float64 {
	return s.pricing.DeliveryFee(store)
}

// Stores returns the stores a comparison covers, in ranking tie-break order
func (s *ComparisonService) Stores() []domain.Store {
	if s.catalogs == nil {
		return slices.Clone(domain.KnownStores)
	}
	return s.catalogs.Stores()
}
