package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/grocerycompare/backend/internal/domain"
)

// APIClient talks to the comparison API
type APIClient struct {
	httpClient *resty.Client
}

// NewAPIClient creates a client for the API served at baseURL
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		httpClient: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json"),
	}
}

type apiError struct {
	Error string `json:"error"`
}

// Compare submits a shopping list and returns the ranked store quotes
func (c *APIClient) Compare(ctx context.Context, req CompareRequest) ([]domain.StoreQuote, error) {
	var (
		quotes []domain.StoreQuote
		failed apiError
	)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&quotes).
		SetError(&failed).
		Post("/api/v1/compare")
	if err != nil {
		return nil, fmt.Errorf("compare request failed: %w", err)
	}
	if resp.IsError() {
		if failed.Error != "" {
			return nil, fmt.Errorf("compare request failed: status %d: %s", resp.StatusCode(), failed.Error)
		}
		return nil, fmt.Errorf("compare request failed: status %d", resp.StatusCode())
	}

	return quotes, nil
}
