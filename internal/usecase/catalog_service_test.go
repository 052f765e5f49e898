package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grocerycompare/backend/internal/domain"
)

func TestNewCatalogService_Defaults(t *testing.T) {
	svc := NewCatalogService(NewMockStoreClient(), nil, CatalogServiceConfig{})

	assert.Equal(t, domain.KnownStores, svc.Stores())
	assert.Equal(t, defaultMaxConcurrentFetches, svc.maxFetches)

	stores := svc.Stores()
	stores[0] = "mutated"
	assert.Equal(t, domain.StoreTesco, svc.Stores()[0])
}

func TestCatalog_FiltersProducts(t *testing.T) {
	client := NewMockStoreClient().On(domain.StoreTesco, "milk",
		domain.CatalogEntry{Name: "Organic Whole Milk", UnitPrice: 1.50},
		domain.CatalogEntry{Name: "Cravendale Organic Milk", UnitPrice: 1.80},
		domain.CatalogEntry{Name: "Whole Milk", UnitPrice: 1.10},
	)
	svc := NewCatalogService(client, nil, CatalogServiceConfig{})

	got := svc.Catalog(context.Background(), domain.StoreTesco, "Milk", []string{"organic"}, []string{"cravendale"})

	assert.Equal(t, []domain.CatalogEntry{{Name: "Organic Whole Milk", UnitPrice: 1.50}}, got)
	assert.Equal(t, []string{"tesco|milk"}, client.Calls())
}

func TestCatalog_SendsPreprocessedQuery(t *testing.T) {
	client := NewMockStoreClient().On(domain.StoreAsda, "zucchini",
		domain.CatalogEntry{Name: "Courgettes 3 Pack", UnitPrice: 0.95},
	)
	svc := NewCatalogService(client, nil, CatalogServiceConfig{})

	got := svc.Catalog(context.Background(), domain.StoreAsda, "  Courgette ", nil, nil)

	assert.Len(t, got, 1)
	assert.Equal(t, []string{"asda|zucchini"}, client.Calls())
}

func TestCatalog_DegradesOnFailure(t *testing.T) {
	client := NewMockStoreClient().Fail(domain.StoreSainsburys, domain.ErrStoreFetchFailure)
	cache := NewMockCatalogCache()
	svc := NewCatalogService(client, cache, CatalogServiceConfig{})

	got := svc.Catalog(context.Background(), domain.StoreSainsburys, "milk", nil, nil)

	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, cache.sets, "failed fetches must not be cached")
}

func TestCatalog_BlankItemSkipsSearch(t *testing.T) {
	client := NewMockStoreClient()
	svc := NewCatalogService(client, nil, CatalogServiceConfig{})

	got := svc.Catalog(context.Background(), domain.StoreTesco, "   ", nil, nil)

	assert.Empty(t, got)
	assert.Empty(t, client.Calls())
}

func TestCatalog_Cache(t *testing.T) {
	ctx := context.Background()

	t.Run("hit skips the store", func(t *testing.T) {
		client := NewMockStoreClient()
		cache := NewMockCatalogCache()
		cached := []domain.CatalogEntry{{Name: "Milk 1L", UnitPrice: 0.99}}
		cache.data[generateCacheKey(domain.StoreTesco, "milk", nil, nil)] = cached

		svc := NewCatalogService(client, cache, CatalogServiceConfig{})
		got := svc.Catalog(ctx, domain.StoreTesco, "Milk", nil, nil)

		assert.Equal(t, cached, got)
		assert.Empty(t, client.Calls())
	})

	t.Run("miss stores the filtered result", func(t *testing.T) {
		client := NewMockStoreClient().On(domain.StoreTesco, "bread",
			domain.CatalogEntry{Name: "Hovis Bread", UnitPrice: 1.40},
			domain.CatalogEntry{Name: "Warburtons Bread", UnitPrice: 1.35},
		)
		cache := NewMockCatalogCache()
		svc := NewCatalogService(client, cache, CatalogServiceConfig{})

		first := svc.Catalog(ctx, domain.StoreTesco, "bread", nil, []string{"hovis"})
		second := svc.Catalog(ctx, domain.StoreTesco, "Bread", nil, []string{"Hovis "})

		assert.Equal(t, []domain.CatalogEntry{{Name: "Warburtons Bread", UnitPrice: 1.35}}, first)
		assert.Equal(t, first, second)
		assert.Equal(t, 1, cache.sets)
		assert.Len(t, client.Calls(), 1)
	})

	t.Run("lookup error falls through to the store", func(t *testing.T) {
		client := NewMockStoreClient().On(domain.StoreAsda, "eggs", domain.CatalogEntry{Name: "Eggs", UnitPrice: 0.20})
		cache := NewMockCatalogCache()
		cache.getError = errors.New("cache unavailable")
		svc := NewCatalogService(client, cache, CatalogServiceConfig{})

		got := svc.Catalog(ctx, domain.StoreAsda, "eggs", nil, nil)

		assert.Len(t, got, 1)
		assert.Len(t, client.Calls(), 1)
	})

	t.Run("write error is ignored", func(t *testing.T) {
		client := NewMockStoreClient().On(domain.StoreAsda, "eggs", domain.CatalogEntry{Name: "Eggs", UnitPrice: 0.20})
		cache := NewMockCatalogCache()
		cache.setError = errors.New("cache full")
		svc := NewCatalogService(client, cache, CatalogServiceConfig{})

		got := svc.Catalog(ctx, domain.StoreAsda, "eggs", nil, nil)

		assert.Equal(t, []domain.CatalogEntry{{Name: "Eggs", UnitPrice: 0.20}}, got)
	})
}

func TestCatalogs(t *testing.T) {
	client := NewMockStoreClient().
		On(domain.StoreTesco, "milk", domain.CatalogEntry{Name: "Milk 1L", UnitPrice: 1.20}).
		On(domain.StoreTesco, "bread", domain.CatalogEntry{Name: "White Bread", UnitPrice: 0.75}, domain.CatalogEntry{Name: "Brown Bread", UnitPrice: 0.85}).
		On(domain.StoreSainsburys, "bread", domain.CatalogEntry{Name: "Bloomer", UnitPrice: 1.10}).
		Fail(domain.StoreAsda, domain.ErrStoreFetchFailure)

	svc := NewCatalogService(client, nil, CatalogServiceConfig{
		Stores:               []domain.Store{domain.StoreAsda, domain.StoreTesco, domain.StoreSainsburys},
		MaxConcurrentFetches: 2,
	})

	got := svc.Catalogs(context.Background(), []string{"milk", "bread"}, nil, nil)

	want := []domain.StoreCatalog{
		{Store: domain.StoreAsda, Entries: []domain.CatalogEntry{}},
		{Store: domain.StoreTesco, Entries: []domain.CatalogEntry{
			{Name: "Milk 1L", UnitPrice: 1.20},
			{Name: "White Bread", UnitPrice: 0.75},
			{Name: "Brown Bread", UnitPrice: 0.85},
		}},
		{Store: domain.StoreSainsburys, Entries: []domain.CatalogEntry{{Name: "Bloomer", UnitPrice: 1.10}}},
	}
	assert.Equal(t, want, got)
	assert.Len(t, client.Calls(), 6)
}

func TestCatalogs_NoItems(t *testing.T) {
	client := NewMockStoreClient()
	svc := NewCatalogService(client, nil, CatalogServiceConfig{})

	got := svc.Catalogs(context.Background(), nil, nil, nil)

	require.Len(t, got, len(domain.KnownStores))
	for i, catalog := range got {
		assert.Equal(t, domain.KnownStores[i], catalog.Store)
		assert.Empty(t, catalog.Entries)
	}
	assert.Empty(t, client.Calls())
}

func TestGenerateCacheKey(t *testing.T) {
	t.Run("normalizes item, tags and brands", func(t *testing.T) {
		a := generateCacheKey(domain.StoreTesco, "  Whole   Milk ", []string{"Organic", "semi"}, []string{"Arla"})
		b := generateCacheKey(domain.StoreTesco, "whole milk", []string{"semi", " organic", ""}, []string{"arla"})
		assert.Equal(t, a, b)
	})

	t.Run("separates stores", func(t *testing.T) {
		assert.NotEqual(t,
			generateCacheKey(domain.StoreTesco, "milk", nil, nil),
			generateCacheKey(domain.StoreAsda, "milk", nil, nil))
	})

	t.Run("separates filters", func(t *testing.T) {
		assert.NotEqual(t,
			generateCacheKey(domain.StoreTesco, "milk", []string{"organic"}, nil),
			generateCacheKey(domain.StoreTesco, "milk", nil, []string{"organic"}))
		assert.NotEqual(t,
			generateCacheKey(domain.StoreTesco, "milk", []string{"a,b"}, nil),
			generateCacheKey(domain.StoreTesco, "milk", []string{"a", "b"}, nil))
	})

	t.Run("format", func(t *testing.T) {
		assert.Equal(t, `catalog:tesco:"milk":[]:[]`, generateCacheKey(domain.StoreTesco, "Milk", nil, nil))
	})
}
