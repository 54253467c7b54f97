package stock

import (
	"time"

	"github.com/google/uuid"
)

// Stock is the quantity-on-hand counter for one product, 1:1 with the
// product. Quantity is only ever mutated through Decrement while the row
// lock is held.
type Stock struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateStockRequest holds data for creating a stock record.
type CreateStockRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// UpdateStockRequest holds data for replacing a stock record's quantity.
type UpdateStockRequest struct {
	Quantity int `json:"quantity"`
}
