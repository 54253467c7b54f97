package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/denizatli/orderhub-backend/internal/cache"
)

var (
	// ErrForeignItem means the item exists but belongs to a different order
	// than the one used to address it.
	ErrForeignItem = errors.New("order item does not belong to the specified order")
	// ErrInvalidQuantity means a line quantity below 1 was supplied where a
	// positive quantity is required.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrInvalidProductID means the supplied product id is not a valid UUID.
	ErrInvalidProductID = errors.New("invalid product id")
)

// ItemService owns the line items of an order and keeps the order's total
// amount consistent with them. Every mutation applies the signed difference
// between a line's new and old line_total to the order total instead of
// re-summing all lines, so a mutation stays O(1) in the number of lines and
// never re-prices unrelated lines.
type ItemService interface {
	// AddItem adds quantity of a product to the order. When a line for the
	// product already exists its quantity is increased; at most one line per
	// (order, product) ever exists. The line is re-priced from the product
	// service either way.
	AddItem(ctx context.Context, orderID string, req AddItemRequest) (*OrderItem, error)

	// UpdateItem replaces a line's quantity and re-prices it. A requested
	// quantity of zero or less removes the line instead; the returned item is
	// nil in that case.
	UpdateItem(ctx context.Context, orderID, itemID string, req UpdateItemRequest) (*OrderItem, error)

	// RemoveItem deletes a line and deducts its line total from the order.
	RemoveItem(ctx context.Context, orderID, itemID string) error

	// ListItems returns the order's current lines.
	ListItems(ctx context.Context, orderID string) ([]*OrderItem, error)

	// ReconcileTotal recomputes the order total from scratch as the sum of
	// its lines and persists it. Corrective operation for detecting and
	// repairing drift; the mutation paths above never use it.
	ReconcileTotal(ctx context.Context, orderID string) (float64, error)
}

type itemService struct {
	repo     Repository
	products ProductClient
	cache    cache.Cache
}

// NewItemService creates the line item service.
func NewItemService(repo Repository, products ProductClient, c cache.Cache) ItemService {
	return &itemService{repo: repo, products: products, cache: c}
}

func (s *itemService) AddItem(ctx context.Context, orderID string, req AddItemRequest) (*OrderItem, error) {
	if req.Quantity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, req.Quantity)
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProductID, req.ProductID)
	}

	var item *OrderItem
	err = s.repo.WithTx(ctx, func(tx TxRepository) error {
		o, err := tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		// Product id is the sole merge key: a second add for the same product
		// merges into the existing line, never creates a duplicate. Resolving
		// the line under the order lock keeps two concurrent adds from both
		// reading the pre-merge quantity and losing one increment.
		for _, it := range o.Items {
			if it.ProductID == productID {
				item = it
				break
			}
		}

		var oldTotal float64
		if item != nil {
			oldTotal = item.LineTotal
			item.Quantity += req.Quantity
		} else {
			item = &OrderItem{
				ID:        uuid.New(),
				OrderID:   o.ID,
				ProductID: productID,
				Quantity:  req.Quantity,
			}
		}

		// Price lookup happens before anything is written; a failure here
		// rolls the transaction back with nothing persisted.
		if err := s.reprice(ctx, item); err != nil {
			return err
		}
		if err := tx.SaveItem(ctx, item, item.LineTotal-oldTotal); err != nil {
			return fmt.Errorf("save order item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Del(ctx, s.cache.Key("order", orderID))
	slog.Info("order item added", "order_id", orderID, "product_id", productID, "quantity", item.Quantity)
	return item, nil
}

func (s *itemService) UpdateItem(ctx context.Context, orderID, itemID string, req UpdateItemRequest) (*OrderItem, error) {
	var (
		item    *OrderItem
		removed bool
	)
	err := s.repo.WithTx(ctx, func(tx TxRepository) error {
		o, err := tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		it, err := tx.GetItemByID(ctx, itemID)
		if err != nil {
			return err
		}
		if it.OrderID != o.ID {
			return ErrForeignItem
		}

		// Quantity zero or below is a delete request for the line.
		if req.Quantity <= 0 {
			removed = true
			if err := tx.DeleteItem(ctx, it.ID, o.ID, -it.LineTotal); err != nil {
				return fmt.Errorf("delete order item: %w", err)
			}
			return nil
		}

		oldTotal := it.LineTotal
		it.Quantity = req.Quantity
		if err := s.reprice(ctx, it); err != nil {
			return err
		}
		if err := tx.SaveItem(ctx, it, it.LineTotal-oldTotal); err != nil {
			return fmt.Errorf("save order item: %w", err)
		}
		item = it
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Del(ctx, s.cache.Key("order", orderID))
	if removed {
		slog.Info("order item removed", "order_id", orderID, "item_id", itemID)
		return nil, nil
	}
	slog.Info("order item updated", "order_id", orderID, "item_id", itemID, "quantity", item.Quantity)
	return item, nil
}

func (s *itemService) RemoveItem(ctx context.Context, orderID, itemID string) error {
	err := s.repo.WithTx(ctx, func(tx TxRepository) error {
		o, err := tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		it, err := tx.GetItemByID(ctx, itemID)
		if err != nil {
			return err
		}
		if it.OrderID != o.ID {
			return ErrForeignItem
		}
		if err := tx.DeleteItem(ctx, it.ID, o.ID, -it.LineTotal); err != nil {
			return fmt.Errorf("delete order item: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	_ = s.cache.Del(ctx, s.cache.Key("order", orderID))
	slog.Info("order item removed", "order_id", orderID, "item_id", itemID)
	return nil
}

func (s *itemService) ListItems(ctx context.Context, orderID string) ([]*OrderItem, error) {
	o, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return o.Items, nil
}

func (s *itemService) ReconcileTotal(ctx context.Context, orderID string) (float64, error) {
	if _, err := s.repo.GetOrderByID(ctx, orderID); err != nil {
		return 0, err
	}
	total, err := s.repo.RecomputeTotal(ctx, orderID)
	if err != nil {
		return 0, fmt.Errorf("recompute order total: %w", err)
	}
	_ = s.cache.Del(ctx, s.cache.Key("order", orderID))
	slog.Info("order total reconciled", "order_id", orderID, "total_amount", total)
	return total, nil
}

// reprice fetches the product's current unit price and recomputes the line
// total from it.
func (s *itemService) reprice(ctx context.Context, item *OrderItem) error {
	p, err := s.products.GetProduct(ctx, item.ProductID.String())
	if err != nil {
		return fmt.Errorf("price lookup for product %s: %w", item.ProductID, err)
	}
	item.UnitPrice = p.Price
	item.LineTotal = p.Price * float64(item.Quantity)
	return nil
}
