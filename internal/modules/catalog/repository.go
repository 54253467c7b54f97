package catalog

import (
	"context"
	"errors"
)

// ErrNotFound means the referenced catalog does not exist.
var ErrNotFound = errors.New("catalog not found")

// Repository defines catalog data access.
type Repository interface {
	Create(ctx context.Context, c *Catalog) error
	GetByID(ctx context.Context, id string) (*Catalog, error)
	List(ctx context.Context) ([]*Catalog, error)
	Update(ctx context.Context, c *Catalog) error
	Delete(ctx context.Context, id string) error
}
