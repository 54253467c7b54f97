package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates the postgres-backed order repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx, so the
// read helpers below serve both the plain repository and the transactional one.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO orders (id, order_date, status, total_amount)
		VALUES ($1,$2,$3,$4)`,
		o.ID, o.OrderDate, o.Status, o.TotalAmount)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, id string) (*Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return getOrder(ctx, r.db, uid, false)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status=$1, updated_at=$2 WHERE id=$3`,
		status, time.Now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// DeleteOrder removes the order row and all its items in one transaction.
func (r *postgresRepo) DeleteOrder(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id=$1`, id); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOrderNotFound
	}
	return tx.Commit()
}

func (r *postgresRepo) GetItemByID(ctx context.Context, itemID string) (*OrderItem, error) {
	return getItem(ctx, r.db, itemID)
}

func (r *postgresRepo) RecomputeTotal(ctx context.Context, orderID string) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx, `
		UPDATE orders
		SET total_amount = COALESCE((SELECT SUM(line_total) FROM order_items WHERE order_id=$1), 0),
		    updated_at = NOW()
		WHERE id=$1
		RETURNING total_amount`, orderID).Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrOrderNotFound
	}
	return total, err
}

// WithTx runs fn inside one transaction; any error from fn rolls it back.
func (r *postgresRepo) WithTx(ctx context.Context, fn func(tx TxRepository) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&txRepo{tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

type txRepo struct{ tx *sql.Tx }

// GetOrderForUpdate locks the order row for the rest of the transaction, then
// reads the order and its lines under that lock.
func (t *txRepo) GetOrderForUpdate(ctx context.Context, orderID string) (*Order, error) {
	uid, err := uuid.Parse(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return getOrder(ctx, t.tx, uid, true)
}

func (t *txRepo) GetItemByID(ctx context.Context, itemID string) (*OrderItem, error) {
	return getItem(ctx, t.tx, itemID)
}

// SaveItem writes the line and the order total delta in the surrounding
// transaction, so the line write can never commit without its delta.
func (t *txRepo) SaveItem(ctx context.Context, item *OrderItem, totalDelta float64) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, line_total)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE
		SET quantity=EXCLUDED.quantity,
		    unit_price=EXCLUDED.unit_price,
		    line_total=EXCLUDED.line_total,
		    updated_at=NOW()`,
		item.ID, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.LineTotal)
	if err != nil {
		return fmt.Errorf("upsert order item: %w", err)
	}
	return applyTotalDelta(ctx, t.tx, item.OrderID, totalDelta)
}

func (t *txRepo) DeleteItem(ctx context.Context, itemID, orderID uuid.UUID, totalDelta float64) error {
	res, err := t.tx.ExecContext(ctx,
		`DELETE FROM order_items WHERE id=$1 AND order_id=$2`, itemID, orderID)
	if err != nil {
		return fmt.Errorf("delete order item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrItemNotFound
	}
	return applyTotalDelta(ctx, t.tx, orderID, totalDelta)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func getOrder(ctx context.Context, q querier, id uuid.UUID, forUpdate bool) (*Order, error) {
	query := `
		SELECT id, order_date, status, total_amount, created_at, updated_at
		FROM orders WHERE id=$1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	o := &Order{}
	err := q.QueryRowContext(ctx, query, id).
		Scan(&o.ID, &o.OrderDate, &o.Status, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	o.Items, err = listItems(ctx, q, o.ID)
	return o, err
}

func getItem(ctx context.Context, q querier, itemID string) (*OrderItem, error) {
	uid, err := uuid.Parse(itemID)
	if err != nil {
		return nil, ErrItemNotFound
	}
	item := &OrderItem{}
	err = q.QueryRowContext(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price, line_total, created_at, updated_at
		FROM order_items WHERE id=$1`, uid).
		Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity,
			&item.UnitPrice, &item.LineTotal, &item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func applyTotalDelta(ctx context.Context, q querier, orderID uuid.UUID, delta float64) error {
	_, err := q.ExecContext(ctx, `
		UPDATE orders SET total_amount = total_amount + $1, updated_at = NOW() WHERE id=$2`,
		delta, orderID)
	if err != nil {
		return fmt.Errorf("apply order total delta: %w", err)
	}
	return nil
}

func listItems(ctx context.Context, q querier, orderID uuid.UUID) ([]*OrderItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price, line_total, created_at, updated_at
		FROM order_items WHERE order_id=$1 ORDER BY created_at ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*OrderItem
	for rows.Next() {
		item := &OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity,
			&item.UnitPrice, &item.LineTotal, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
