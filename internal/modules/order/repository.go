package order

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrOrderNotFound means the referenced order does not exist.
	ErrOrderNotFound = errors.New("order not found")
	// ErrItemNotFound means the referenced order item does not exist.
	ErrItemNotFound = errors.New("order item not found")
)

// Repository defines data access for orders and their line items.
//
// Line mutations go through WithTx: the transaction function locks the order
// row via GetOrderForUpdate before resolving any line, so the whole
// read-merge-write of one mutation runs under the order's exclusive lock.
// Concurrent mutations to the same order serialize on that lock; mutations
// to different orders do not block each other.
type Repository interface {
	// CreateOrder persists a new, empty order.
	CreateOrder(ctx context.Context, o *Order) error

	// GetOrderByID retrieves an order with all its items.
	GetOrderByID(ctx context.Context, id string) (*Order, error)

	// UpdateStatus advances an order to a new status.
	UpdateStatus(ctx context.Context, id string, status int) error

	// DeleteOrder removes the order and every item it owns.
	DeleteOrder(ctx context.Context, id string) error

	// GetItemByID retrieves a single line item regardless of owner.
	GetItemByID(ctx context.Context, itemID string) (*OrderItem, error)

	// RecomputeTotal overwrites the order's total_amount with the sum of its
	// items' line_total and returns the new value. Corrective operation; the
	// normal write path only ever applies deltas.
	RecomputeTotal(ctx context.Context, orderID string) (float64, error)

	// WithTx runs fn inside one transaction. Row locks taken through the
	// TxRepository are held until the transaction commits or rolls back.
	WithTx(ctx context.Context, fn func(tx TxRepository) error) error
}

// TxRepository is the transactional view used while the order lock is held.
type TxRepository interface {
	// GetOrderForUpdate loads the order and its items with the order row
	// exclusively locked (SELECT ... FOR UPDATE). Concurrent callers for the
	// same order block until the surrounding transaction ends.
	GetOrderForUpdate(ctx context.Context, orderID string) (*Order, error)

	// GetItemByID retrieves a single line item within the transaction.
	GetItemByID(ctx context.Context, itemID string) (*OrderItem, error)

	// SaveItem upserts the line and adds totalDelta to the owning order's
	// total_amount. Callers must already hold the order lock via
	// GetOrderForUpdate.
	SaveItem(ctx context.Context, item *OrderItem, totalDelta float64) error

	// DeleteItem removes the line and adds totalDelta (normally negative) to
	// the owning order's total_amount.
	DeleteItem(ctx context.Context, itemID, orderID uuid.UUID, totalDelta float64) error
}
