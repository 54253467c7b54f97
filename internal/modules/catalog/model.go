package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Catalog groups related products in the master catalog.
type Catalog struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      bool      `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCatalogRequest holds data for creating or updating a catalog.
type CreateCatalogRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      *bool  `json:"status,omitempty"`
}
