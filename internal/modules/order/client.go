package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrPriceUnavailable means the product service could not supply a price;
// the enclosing mutation is aborted with nothing persisted.
var ErrPriceUnavailable = errors.New("product service unavailable")

// ProductInfo is the slice of the product service payload the order service
// needs for pricing a line.
type ProductInfo struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Price float64   `json:"price"`
}

// ProductClient looks up products in the product service. Each re-price
// event issues a fresh lookup; there is no retry and no caching here.
type ProductClient interface {
	GetProduct(ctx context.Context, productID string) (*ProductInfo, error)
}

type httpProductClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPProductClient returns a ProductClient backed by the product
// service's REST API. timeout bounds each call end to end.
func NewHTTPProductClient(baseURL string, timeout time.Duration) ProductClient {
	return &httpProductClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *httpProductClient) GetProduct(ctx context.Context, productID string) (*ProductInfo, error) {
	url := fmt.Sprintf("%s/api/v1/products/%s", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build product request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPriceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: product %s returned status %d", ErrPriceUnavailable, productID, resp.StatusCode)
	}

	var p ProductInfo
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: decode product %s: %v", ErrPriceUnavailable, productID, err)
	}
	return &p, nil
}
