package stock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// ErrInvalidQuantity means a non-positive decrement amount was supplied.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Service defines stock business logic.
type Service interface {
	CreateStock(ctx context.Context, req CreateStockRequest) (*Stock, error)
	GetStock(ctx context.Context, id string) (*Stock, error)
	GetStockByProduct(ctx context.Context, productID string) (*Stock, error)
	UpdateStock(ctx context.Context, id string, req UpdateStockRequest) (*Stock, error)
	DeleteStock(ctx context.Context, id string) error

	// Decrement reduces the product's stock quantity by quantity under the
	// record's exclusive lock, so concurrent decrements for the same product
	// serialize and no update is ever lost. A missing record fails with
	// ErrNotFound. The result may go negative: the counter does not enforce
	// a floor, callers that disallow backorders must check first.
	Decrement(ctx context.Context, productID string, quantity int) error
}

type service struct {
	repo Repository
}

// NewService creates a new stock service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateStock(ctx context.Context, req CreateStockRequest) (*Stock, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("invalid product_id: %w", err)
	}
	st := &Stock{
		ID:        uuid.New(),
		ProductID: productID,
		Quantity:  req.Quantity,
	}
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, fmt.Errorf("create stock: %w", err)
	}
	slog.Info("stock created", "stock_id", st.ID, "product_id", productID, "quantity", st.Quantity)
	return st, nil
}

func (s *service) GetStock(ctx context.Context, id string) (*Stock, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetStockByProduct(ctx context.Context, productID string) (*Stock, error) {
	return s.repo.GetByProductID(ctx, productID)
}

func (s *service) UpdateStock(ctx context.Context, id string, req UpdateStockRequest) (*Stock, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	st.Quantity = req.Quantity
	if err := s.repo.Update(ctx, st); err != nil {
		return nil, fmt.Errorf("update stock: %w", err)
	}
	return st, nil
}

func (s *service) DeleteStock(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) Decrement(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	err := s.repo.WithTx(ctx, func(tx TxRepository) error {
		st, err := tx.GetByProductIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		st.Quantity -= quantity
		return tx.UpdateQuantity(ctx, st.ID, st.Quantity)
	})
	if err != nil {
		return fmt.Errorf("decrement stock for product %s: %w", productID, err)
	}
	slog.Info("stock decremented", "product_id", productID, "quantity", quantity)
	return nil
}
