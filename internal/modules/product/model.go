package product

import (
	"time"

	"github.com/google/uuid"
)

// Product is an item in the master catalog. Price is the authoritative unit
// price the order service re-prices lines against.
type Product struct {
	ID          uuid.UUID `json:"id"`
	CatalogID   uuid.UUID `json:"catalog_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      bool      `json:"status"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateProductRequest holds data for creating or updating a product.
type CreateProductRequest struct {
	CatalogID   string  `json:"catalog_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Status      *bool   `json:"status,omitempty"`
	Price       float64 `json:"price"`
}
