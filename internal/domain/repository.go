package domain

import "context"

// CatalogCache defines the interface for caching store catalogs
type CatalogCache interface {
	Get(ctx context.Context, key string) ([]CatalogEntry, error)
	Set(ctx context.Context, key string, entries []CatalogEntry) error
}

// StoreClient defines the interface for searching a storefront's product listing
type StoreClient interface {
	Search(ctx context.Context, store Store, query string) ([]CatalogEntry, error)
}
