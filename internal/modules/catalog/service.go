package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/denizatli/orderhub-backend/internal/cache"
)

// Service defines catalog business logic.
type Service interface {
	CreateCatalog(ctx context.Context, req CreateCatalogRequest) (*Catalog, error)
	GetCatalog(ctx context.Context, id string) (*Catalog, error)
	ListCatalogs(ctx context.Context) ([]*Catalog, error)
	UpdateCatalog(ctx context.Context, id string, req CreateCatalogRequest) (*Catalog, error)
	DeleteCatalog(ctx context.Context, id string) error
}

type service struct {
	repo     Repository
	cache    cache.Cache
	cacheTTL time.Duration
}

// NewService creates a new catalog service.
func NewService(repo Repository, c cache.Cache, cacheTTL time.Duration) Service {
	return &service{repo: repo, cache: c, cacheTTL: cacheTTL}
}

func (s *service) CreateCatalog(ctx context.Context, req CreateCatalogRequest) (*Catalog, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	status := true
	if req.Status != nil {
		status = *req.Status
	}
	c := &Catalog{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create catalog: %w", err)
	}
	_ = s.cache.Set(ctx, s.cache.Key("catalog", c.ID.String()), c, s.cacheTTL)
	slog.Info("catalog created", "catalog_id", c.ID, "name", c.Name)
	return c, nil
}

func (s *service) GetCatalog(ctx context.Context, id string) (*Catalog, error) {
	key := s.cache.Key("catalog", id)
	var cached Catalog
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return &cached, nil
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, c, s.cacheTTL)
	return c, nil
}

func (s *service) ListCatalogs(ctx context.Context) ([]*Catalog, error) {
	return s.repo.List(ctx)
}

func (s *service) UpdateCatalog(ctx context.Context, id string, req CreateCatalogRequest) (*Catalog, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		c.Name = req.Name
	}
	c.Description = req.Description
	if req.Status != nil {
		c.Status = *req.Status
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update catalog: %w", err)
	}
	_ = s.cache.Set(ctx, s.cache.Key("catalog", id), c, s.cacheTTL)
	return c, nil
}

func (s *service) DeleteCatalog(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Del(ctx, s.cache.Key("catalog", id))
	slog.Info("catalog deleted", "catalog_id", id)
	return nil
}
