package order

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/denizatli/orderhub-backend/internal/cache"
)

// Service defines order lifecycle management.
type Service interface {
	// CreateOrder opens a new, empty order with a zero total.
	CreateOrder(ctx context.Context) (*Order, error)

	// GetOrder retrieves a full order with its items.
	GetOrder(ctx context.Context, id string) (*Order, error)

	// UpdateStatus advances an order to a new lifecycle status.
	UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Order, error)

	// DeleteOrder removes the order together with all its items.
	DeleteOrder(ctx context.Context, id string) error
}

type service struct {
	repo     Repository
	cache    cache.Cache
	cacheTTL time.Duration
}

// NewService creates a new order service.
func NewService(repo Repository, c cache.Cache, cacheTTL time.Duration) Service {
	return &service{repo: repo, cache: c, cacheTTL: cacheTTL}
}

func (s *service) CreateOrder(ctx context.Context) (*Order, error) {
	o := &Order{
		ID:          uuid.New(),
		OrderDate:   time.Now().UTC(),
		Status:      StatusOpen,
		TotalAmount: 0,
	}
	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	slog.Info("order created", "order_id", o.ID)
	return o, nil
}

func (s *service) GetOrder(ctx context.Context, id string) (*Order, error) {
	key := s.cache.Key("order", id)
	var cached Order
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return &cached, nil
	}

	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, o, s.cacheTTL)
	return o, nil
}

func (s *service) UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Order, error) {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status < StatusOpen || req.Status > StatusCancelled {
		return nil, fmt.Errorf("unknown status code %d", req.Status)
	}
	if err := s.repo.UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	o.Status = req.Status
	_ = s.cache.Del(ctx, s.cache.Key("order", id))
	slog.Info("order status updated", "order_id", id, "status", req.Status)
	return o, nil
}

func (s *service) DeleteOrder(ctx context.Context, id string) error {
	if _, err := s.repo.GetOrderByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	_ = s.cache.Del(ctx, s.cache.Key("order", id))
	slog.Info("order deleted", "order_id", id)
	return nil
}
