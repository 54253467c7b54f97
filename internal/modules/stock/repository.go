package stock

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound means no stock record exists for the referenced id or product.
var ErrNotFound = errors.New("stock record not found")

// Repository defines stock data access.
type Repository interface {
	Create(ctx context.Context, s *Stock) error
	GetByID(ctx context.Context, id string) (*Stock, error)
	GetByProductID(ctx context.Context, productID string) (*Stock, error)
	Update(ctx context.Context, s *Stock) error
	Delete(ctx context.Context, id string) error

	// WithTx runs fn inside one transaction. Row locks taken through the
	// TxRepository are held until the transaction commits or rolls back.
	WithTx(ctx context.Context, fn func(tx TxRepository) error) error
}

// TxRepository is the transactional view used while a row lock is held.
type TxRepository interface {
	// GetByProductIDForUpdate loads the product's stock row with an
	// exclusive lock (SELECT ... FOR UPDATE). Concurrent callers for the
	// same product block until the surrounding transaction ends; different
	// products do not contend.
	GetByProductIDForUpdate(ctx context.Context, productID string) (*Stock, error)

	// UpdateQuantity writes the new quantity for a locked row.
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error
}
