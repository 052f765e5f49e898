package http

import (
	"github.com/grocerycompare/backend/internal/domain"
)

// defaultQuantity applies when an item omits its quantity
const defaultQuantity = 1.0

type itemBody struct {
	Name     string   `json:"name" binding:"required"`
	Quantity *float64 `json:"quantity" binding:"omitempty,gt=0"`
}

// compareRequest is the body of POST /api/v1/compare
type compareRequest struct {
	Items              []itemBody `json:"items" binding:"required,dive"`
	AllowSubstitutions *bool      `json:"allow_substitutions"`
	IncludeTags        []string   `json:"include_tags"`
	ExcludeBrands      []string   `json:"exclude_brands"`
}

type catalogEntryBody struct {
	Name  string  `json:"name" binding:"required"`
	Price float64 `json:"price" binding:"gte=0"`
}

type storeCatalogBody struct {
	Store   string             `json:"store" binding:"required"`
	Entries []catalogEntryBody `json:"entries" binding:"dive"`
}

// matchRequest is the body of POST /api/v1/match
type matchRequest struct {
	Items              []itemBody         `json:"items" binding:"required,dive"`
	Catalogs           []storeCatalogBody `json:"catalogs" binding:"required,dive"`
	AllowSubstitutions *bool              `json:"allow_substitutions"`
}

type storeInfo struct {
	Store       domain.Store `json:"store"`
	DeliveryFee float64      `json:"delivery_fee"`
}

func toRequestedItems(body []itemBody) ([]domain.RequestedItem, error) {
	items := make([]domain.RequestedItem, 0, len(body))
	for _, b := range body {
		quantity := defaultQuantity
		if b.Quantity != nil {
			quantity = *b.Quantity
		}
		item, err := domain.NewRequestedItem(b.Name, quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func toStoreCatalogs(body []storeCatalogBody) []domain.StoreCatalog {
	catalogs := make([]domain.StoreCatalog, 0, len(body))
	for _, b := range body {
		entries := make([]domain.CatalogEntry, 0, len(b.Entries))
		for _, e := range b.Entries {
			entries = append(entries, domain.CatalogEntry{Name: e.Name, UnitPrice: e.Price})
		}
		catalogs = append(catalogs, domain.StoreCatalog{Store: domain.Store(b.Store), Entries: entries})
	}
	return catalogs
}

// allowSubstitutions defaults to true when the field is omitted
func allowSubstitutions(v *bool) bool {
	return v == nil || *v
}
