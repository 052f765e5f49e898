package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/grocerycompare/backend/internal/domain"
)

// defaultMaxConcurrentFetches bounds the storefront requests in flight for one comparison
const defaultMaxConcurrentFetches = 6

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	// Stores are fetched, and later reported, in this order. Defaults to domain.KnownStores.
	Stores               []domain.Store
	MaxConcurrentFetches int
	EnableDebugLogging   bool
}

// CatalogService supplies filtered per-store catalogs to the matching pipeline.
// Storefront failures never escape it: a failed fetch contributes no products.
type CatalogService struct {
	client       domain.StoreClient
	cache        domain.CatalogCache
	preprocessor *QueryPreprocessor
	stores       []domain.Store
	maxFetches   int
}

// NewCatalogService creates a catalog service. cache may be nil to disable caching.
func NewCatalogService(
	client domain.StoreClient,
	cache domain.CatalogCache,
	config CatalogServiceConfig,
) *CatalogService {
	stores := config.Stores
	if len(stores) == 0 {
		stores = domain.KnownStores
	}

	maxFetches := config.MaxConcurrentFetches
	if maxFetches <= 0 {
		maxFetches = defaultMaxConcurrentFetches
	}

	return &CatalogService{
		client:       client,
		cache:        cache,
		preprocessor: NewQueryPreprocessor(config.EnableDebugLogging),
		stores:       slices.Clone(stores),
		maxFetches:   maxFetches,
	}
}

// Stores returns the stores this service fetches, in order
func (s *CatalogService) Stores() []domain.Store {
	return slices.Clone(s.stores)
}

// Catalog returns the products of one store for one item name that pass the
// include-tag and exclude-brand filters. Errors degrade to an empty catalog.
func (s *CatalogService) Catalog(
	ctx context.Context,
	store domain.Store,
	itemName string,
	includeTags []string,
	excludeBrands []string,
) []domain.CatalogEntry {
	log := slog.With("op", "CatalogService.Catalog", "store", store, "item", itemName)

	cacheKey := generateCacheKey(store, itemName, includeTags, excludeBrands)

	// Try cache first
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey)
		if err == nil {
			log.Debug("cache hit", "entries", len(cached))
			return cached
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			log.Warn("cache lookup failed", "err", err)
		}
	}

	query := s.preprocessor.PreprocessQuery(itemName)
	if query == "" {
		return []domain.CatalogEntry{}
	}

	products, err := s.client.Search(ctx, store, query)
	if err != nil {
		log.Warn("store search failed, using empty catalog", "query", query, "err", err)
		return []domain.CatalogEntry{}
	}

	filtered := make([]domain.CatalogEntry, 0, len(products))
	for _, p := range products {
		if MatchesFilters(p.Name, includeTags, excludeBrands) {
			filtered = append(filtered, p)
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, filtered); err != nil {
			// caching is best effort
			log.Warn("failed to cache catalog", "err", err)
		}
	}

	log.Debug("catalog fetched", "query", query, "scraped", len(products), "kept", len(filtered))
	return filtered
}

// Catalogs fetches every (store, item) catalog concurrently and concatenates
// each store's results in item order. One StoreCatalog is returned per store,
// in the configured store order.
func (s *CatalogService) Catalogs(
	ctx context.Context,
	itemNames []string,
	includeTags []string,
	excludeBrands []string,
) []domain.StoreCatalog {
	parts := make([][][]domain.CatalogEntry, len(s.stores))
	for i := range parts {
		parts[i] = make([][]domain.CatalogEntry, len(itemNames))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxFetches)

	for si, store := range s.stores {
		for ii, name := range itemNames {
			g.Go(func() error {
				parts[si][ii] = s.Catalog(gctx, store, name, includeTags, excludeBrands)
				return nil
			})
		}
	}
	_ = g.Wait() // Catalog never fails

	catalogs := make([]domain.StoreCatalog, 0, len(s.stores))
	for si, store := range s.stores {
		entries := []domain.CatalogEntry{}
		for _, part := range parts[si] {
			entries = append(entries, part...)
		}
		catalogs = append(catalogs, domain.StoreCatalog{Store: store, Entries: entries})
	}

	return catalogs
}

// generateCacheKey creates a normalized cache key for one store search.
// Format: `catalog:{store}:"{item}":["{tag}" ...]:["{brand}" ...]` with tags and brands sorted.
func generateCacheKey(store domain.Store, itemName string, includeTags, excludeBrands []string) string {
	return fmt.Sprintf("catalog:%s:%q:%q:%q",
		store,
		normalizeForCacheKey(itemName),
		normalizeListForCacheKey(includeTags),
		normalizeListForCacheKey(excludeBrands),
	)
}

// normalizeForCacheKey normalizes an item name for use as cache key component.
// Converts to lowercase and collapses whitespace, as PreprocessQuery does.
func normalizeForCacheKey(s string) string {
	if s == "" {
		return ""
	}
	result := strings.ToLower(s)
	result = multiSpacePattern.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// normalizeListForCacheKey applies the same folding MatchesFilters does to tags and brands
func normalizeListForCacheKey(values []string) []string {
	normalized := make([]string, 0, len(values))
	for _, v := range values {
		if n := strings.ToLower(strings.TrimSpace(v)); n != "" {
			normalized = append(normalized, n)
		}
	}
	slices.Sort(normalized)
	return normalized
}
