package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grocerycompare/backend/internal/domain"
)

// Version is reported by the health check
const Version = "1.0.0"

// ComparisonUsecase is the pipeline the handlers drive
type ComparisonUsecase interface {
	Compare(ctx context.Context, request domain.CompareRequest) ([]domain.StoreQuote, error)
	Price(items []domain.RequestedItem, catalogs []domain.StoreCatalog, allowSubstitutions bool) ([]domain.StoreQuote, error)
	Stores() []domain.Store
	DeliveryFee(store domain.Store) float64
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	comparison ComparisonUsecase
}

// NewHandler creates a new HTTP handler. A nil usecase makes the API endpoints answer 503.
func NewHandler(comparison ComparisonUsecase) *Handler {
	return &Handler{comparison: comparison}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "grocery-compare",
		"version": Version,
	})
}

// Compare scrapes every store for the shopping list and returns the ranked quotes
func (h *Handler) Compare(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	var body compareRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	items, err := toRequestedItems(body.Items)
	if err != nil {
		h.respondError(c, err)
		return
	}

	quotes, err := h.comparison.Compare(c.Request.Context(), domain.CompareRequest{
		Items:              items,
		AllowSubstitutions: allowSubstitutions(body.AllowSubstitutions),
		IncludeTags:        body.IncludeTags,
		ExcludeBrands:      body.ExcludeBrands,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quotes)
}

// Match prices a shopping list against catalogs supplied in the request body
func (h *Handler) Match(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	var body matchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	items, err := toRequestedItems(body.Items)
	if err != nil {
		h.respondError(c, err)
		return
	}

	quotes, err := h.comparison.Price(items, toStoreCatalogs(body.Catalogs), allowSubstitutions(body.AllowSubstitutions))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quotes)
}

// Stores lists the compared stores and their delivery fees
func (h *Handler) Stores(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	stores := h.comparison.Stores()
	infos := make([]storeInfo, 0, len(stores))
	for _, s := range stores {
		infos = append(infos, storeInfo{Store: s, DeliveryFee: h.comparison.DeliveryFee(s)})
	}

	c.JSON(http.StatusOK, infos)
}

func (h *Handler) configured(c *gin.Context) bool {
	if h.comparison == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "comparison service not configured"})
		return false
	}
	return true
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCatalogUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		slog.ErrorContext(c.Request.Context(), "comparison failed",
			"op", "Handler.respondError", "request_id", c.GetString(requestIDKey), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
