package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grocerycompare/backend/internal/domain"
)

func newTestComparisonService(client *MockStoreClient) *ComparisonService {
	catalogs := NewCatalogService(client, nil, CatalogServiceConfig{})
	return NewComparisonService(catalogs, ComparisonServiceConfig{})
}

func TestCompare(t *testing.T) {
	client := NewMockStoreClient().
		On(domain.StoreTesco, "milk", domain.CatalogEntry{Name: "Milk 1L", UnitPrice: 1.20}).
		On(domain.StoreAsda, "milk", domain.CatalogEntry{Name: "Milk 1L", UnitPrice: 1.05}).
		Fail(domain.StoreSainsburys, domain.ErrStoreFetchFailure)
	svc := newTestComparisonService(client)

	quotes, err := svc.Compare(context.Background(), domain.CompareRequest{
		Items:              []domain.RequestedItem{{Name: "milk", Quantity: 2}},
		AllowSubstitutions: true,
	})
	require.NoError(t, err)
	require.Len(t, quotes, 3)

	assert.Equal(t, domain.StoreSainsburys, quotes[0].Store)
	assert.Equal(t, 3.50, quotes[0].TotalPrice)
	assert.Empty(t, quotes[0].Lines)

	assert.Equal(t, domain.StoreAsda, quotes[1].Store)
	assert.Equal(t, 2.10, quotes[1].Subtotal)
	assert.Equal(t, 5.05, quotes[1].TotalPrice)

	assert.Equal(t, domain.StoreTesco, quotes[2].Store)
	assert.Equal(t, 5.40, quotes[2].TotalPrice)
	require.Len(t, quotes[2].Lines, 1)
	assert.Equal(t, domain.MatchedLine{Requested: "milk", Matched: "Milk 1L", UnitPrice: 1.20, Quantity: 2}, quotes[2].Lines[0])
}

func TestCompare_ExactMode(t *testing.T) {
	client := NewMockStoreClient().
		On(domain.StoreTesco, "milk 1l", domain.CatalogEntry{Name: "Milk 1L", UnitPrice: 1.20}, domain.CatalogEntry{Name: "milk 1l", UnitPrice: 0.10})
	svc := NewComparisonService(
		NewCatalogService(client, nil, CatalogServiceConfig{Stores: []domain.Store{domain.StoreTesco}}),
		ComparisonServiceConfig{},
	)

	quotes, err := svc.Compare(context.Background(), domain.CompareRequest{
		Items: []domain.RequestedItem{{Name: "Milk 1L", Quantity: 1}},
	})
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	require.Len(t, quotes[0].Lines, 1)
	assert.Equal(t, 1.20, quotes[0].Lines[0].UnitPrice)
	assert.Equal(t, 4.20, quotes[0].TotalPrice)
}

func TestCompare_AppliesFilters(t *testing.T) {
	client := NewMockStoreClient().
		On(domain.StoreTesco, "organic milk",
			domain.CatalogEntry{Name: "Cravendale Organic Milk", UnitPrice: 0.50},
			domain.CatalogEntry{Name: "Organic Milk", UnitPrice: 1.40},
		)
	svc := NewComparisonService(
		NewCatalogService(client, nil, CatalogServiceConfig{Stores: []domain.Store{domain.StoreTesco}}),
		ComparisonServiceConfig{DeliveryFees: map[domain.Store]float64{domain.StoreTesco: 1.00}},
	)

	quotes, err := svc.Compare(context.Background(), domain.CompareRequest{
		Items:              []domain.RequestedItem{{Name: "Organic Milk", Quantity: 1}},
		AllowSubstitutions: true,
		IncludeTags:        []string{"organic"},
		ExcludeBrands:      []string{"cravendale"},
	})
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	require.Len(t, quotes[0].Lines, 1)
	assert.Equal(t, "Organic Milk", quotes[0].Lines[0].Matched)
	assert.Equal(t, 2.40, quotes[0].TotalPrice)
}

func TestCompare_InvalidItem(t *testing.T) {
	client := NewMockStoreClient()
	svc := newTestComparisonService(client)

	_, err := svc.Compare(context.Background(), domain.CompareRequest{
		Items: []domain.RequestedItem{{Name: "milk", Quantity: 1}, {Name: "bread", Quantity: 0}},
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, client.Calls())
}

func TestCompare_EmptyList(t *testing.T) {
	svc := newTestComparisonService(NewMockStoreClient())

	quotes, err := svc.Compare(context.Background(), domain.CompareRequest{AllowSubstitutions: true})
	require.NoError(t, err)
	require.Len(t, quotes, 3)
	assert.Equal(t, domain.StoreAsda, quotes[0].Store)
	assert.Equal(t, 2.95, quotes[0].TotalPrice)
}

func TestPrice(t *testing.T) {
	svc := NewComparisonService(nil, ComparisonServiceConfig{})

	quotes, err := svc.Price(
		[]domain.RequestedItem{{Name: "milk", Quantity: 2}},
		[]domain.StoreCatalog{{Store: domain.StoreTesco, Entries: []domain.CatalogEntry{{Name: "Milk 1L", UnitPrice: 1.20}}}},
		true,
	)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, 5.40, quotes[0].TotalPrice)

	_, err = svc.Price([]domain.RequestedItem{{Name: "", Quantity: 1}}, nil, true)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCompare_WithoutCatalogService(t *testing.T) {
	svc := NewComparisonService(nil, ComparisonServiceConfig{})

	quotes, err := svc.Compare(context.Background(), domain.CompareRequest{
		Items:              []domain.RequestedItem{{Name: "milk", Quantity: 1}},
		AllowSubstitutions: true,
	})

	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
	assert.Nil(t, quotes)

	_, err = svc.Compare(context.Background(), domain.CompareRequest{
		Items: []domain.RequestedItem{{Name: "", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestComparisonService_Stores(t *testing.T) {
	t.Run("without catalog service", func(t *testing.T) {
		svc := NewComparisonService(nil, ComparisonServiceConfig{})
		assert.Equal(t, domain.KnownStores, svc.Stores())
	})

	t.Run("configured stores", func(t *testing.T) {
		catalogs := NewCatalogService(NewMockStoreClient(), nil, CatalogServiceConfig{Stores: []domain.Store{domain.StoreAsda}})
		svc := NewComparisonService(catalogs, ComparisonServiceConfig{})
		assert.Equal(t, []domain.Store{domain.StoreAsda}, svc.Stores())
		assert.Equal(t, 2.95, svc.DeliveryFee(domain.StoreAsda))
	})
}
