package domain

import (
	"fmt"
	"strings"
)

// Store identifies a grocery retailer
type Store string

// Recognised storefronts
const (
	StoreTesco      Store = "tesco"
	StoreSainsburys Store = "sainsburys"
	StoreAsda       Store = "asda"
)

// KnownStores lists the recognised storefronts in their default comparison order
var KnownStores = []Store{StoreTesco, StoreSainsburys, StoreAsda}

// RequestedItem is one line of the user's shopping list
type RequestedItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
}

// NewRequestedItem builds a validated RequestedItem.
// The name is trimmed; an empty name or a quantity <= 0 yields ErrInvalidInput.
func NewRequestedItem(name string, quantity float64) (RequestedItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return RequestedItem{}, fmt.Errorf("%w: item name is empty", ErrInvalidInput)
	}
	if !(quantity > 0) {
		return RequestedItem{}, fmt.Errorf("%w: quantity for %q must be positive, got %v", ErrInvalidInput, name, quantity)
	}
	return RequestedItem{Name: name, Quantity: quantity}, nil
}

// Validate reports whether the item satisfies the RequestedItem invariants
func (i RequestedItem) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("%w: item name is empty", ErrInvalidInput)
	}
	if !(i.Quantity > 0) {
		return fmt.Errorf("%w: quantity for %q must be positive, got %v", ErrInvalidInput, i.Name, i.Quantity)
	}
	return nil
}

// CatalogEntry is a single product scraped from a storefront
type CatalogEntry struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"price"`
}

// StoreCatalog is the catalog snapshot of one store for one comparison request
type StoreCatalog struct {
	Store   Store          `json:"store"`
	Entries []CatalogEntry `json:"entries"`
}

// MatchedLine is a requested item resolved to a catalog entry of a store
type MatchedLine struct {
	Requested string  `json:"requested"`
	Matched   string  `json:"matched"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  float64 `json:"quantity"`
}

// StoreMatches holds the matched lines of one store
type StoreMatches struct {
	Store Store
	Lines []MatchedLine
}

// StoreQuote is the priced result for one store
type StoreQuote struct {
	Store       Store         `json:"store"`
	Subtotal    float64       `json:"subtotal"`
	DeliveryFee float64       `json:"delivery_fee"`
	TotalPrice  float64       `json:"total_price"`
	Lines       []MatchedLine `json:"lines"`
}

// CompareRequest is a full comparison request: shopping list plus matching policy and filters
type CompareRequest struct {
	Items              []RequestedItem
	AllowSubstitutions bool
	IncludeTags        []string
	ExcludeBrands      []string
}
