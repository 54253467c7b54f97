package order

import (
	"time"

	"github.com/google/uuid"
)

// Order lifecycle status codes.
const (
	StatusOpen      = 1
	StatusCompleted = 2
	StatusCancelled = 3
)

// Order is an order aggregate: the order row plus the line items it owns.
// TotalAmount is derived and always equals the sum of the current items'
// LineTotal at the end of every mutating operation.
type Order struct {
	ID          uuid.UUID    `json:"id"`
	OrderDate   time.Time    `json:"order_date"`
	Status      int          `json:"status"`
	TotalAmount float64      `json:"total_amount"`
	Items       []*OrderItem `json:"items,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// OrderItem is a single line item within an order. UnitPrice is a snapshot of
// the product's price at the last re-price; LineTotal = UnitPrice * Quantity.
type OrderItem struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	LineTotal float64   `json:"line_total"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AddItemRequest is the payload for adding a line item. Quantity is a delta:
// when the order already has a line for ProductID the quantities are summed.
type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// UpdateItemRequest is the payload for replacing a line item's quantity.
// A quantity of zero or less is a delete request for the line.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateStatusRequest is the payload for advancing an order's status.
type UpdateStatusRequest struct {
	Status int `json:"status"`
}
