package product

import (
	"context"
	"errors"
)

// ErrNotFound means the referenced product does not exist.
var ErrNotFound = errors.New("product not found")

// Repository defines product data access.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	ListByCatalog(ctx context.Context, catalogID string) ([]*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
}
