package product

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/denizatli/orderhub-backend/internal/cache"
)

// Service defines product business logic. GetProduct is the hot path: the
// order service calls it on every line re-price, so reads go through the
// cache the same way the catalog side does.
type Service interface {
	CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListByCatalog(ctx context.Context, catalogID string) ([]*Product, error)
	UpdateProduct(ctx context.Context, id string, req CreateProductRequest) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type service struct {
	repo     Repository
	cache    cache.Cache
	cacheTTL time.Duration
}

// NewService creates a new product service.
func NewService(repo Repository, c cache.Cache, cacheTTL time.Duration) Service {
	return &service{repo: repo, cache: c, cacheTTL: cacheTTL}
}

func (s *service) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("price must not be negative")
	}
	catalogID, err := uuid.Parse(req.CatalogID)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog_id: %w", err)
	}
	status := true
	if req.Status != nil {
		status = *req.Status
	}
	p := &Product{
		ID:          uuid.New(),
		CatalogID:   catalogID,
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		Price:       req.Price,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	_ = s.cache.Set(ctx, s.cache.Key("product", p.ID.String()), p, s.cacheTTL)
	_ = s.cache.Del(ctx, s.cache.Key("products-by-catalog", req.CatalogID))
	slog.Info("product created", "product_id", p.ID, "catalog_id", catalogID, "price", p.Price)
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	key := s.cache.Key("product", id)
	var cached Product
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return &cached, nil
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, p, s.cacheTTL)
	return p, nil
}

func (s *service) ListByCatalog(ctx context.Context, catalogID string) ([]*Product, error) {
	key := s.cache.Key("products-by-catalog", catalogID)
	var cached []*Product
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}
	products, err := s.repo.ListByCatalog(ctx, catalogID)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, products, s.cacheTTL)
	return products, nil
}

func (s *service) UpdateProduct(ctx context.Context, id string, req CreateProductRequest) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		p.Name = req.Name
	}
	p.Description = req.Description
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("price must not be negative")
	}
	p.Price = req.Price
	if req.CatalogID != "" {
		catalogID, err := uuid.Parse(req.CatalogID)
		if err != nil {
			return nil, fmt.Errorf("invalid catalog_id: %w", err)
		}
		p.CatalogID = catalogID
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	_ = s.cache.Set(ctx, s.cache.Key("product", id), p, s.cacheTTL)
	_ = s.cache.Del(ctx, s.cache.Key("products-by-catalog", p.CatalogID.String()))
	slog.Info("product updated", "product_id", id, "price", p.Price)
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Del(ctx,
		s.cache.Key("product", id),
		s.cache.Key("products-by-catalog", p.CatalogID.String()))
	slog.Info("product deleted", "product_id", id)
	return nil
}
