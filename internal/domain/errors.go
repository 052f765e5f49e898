package domain

import "errors"

var (
	// ErrInvalidInput is returned when a requested item has an empty name or a non-positive quantity
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrStoreUnknown is returned when no scraper is registered for a store
	ErrStoreUnknown = errors.New("unknown store")

	// ErrStoreFetchFailure is returned when a storefront request fails
	ErrStoreFetchFailure = errors.New("store request failed")

	// ErrCatalogUnavailable is returned when a live comparison is requested without a catalog supplier
	ErrCatalogUnavailable = errors.New("catalog supplier not configured")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
