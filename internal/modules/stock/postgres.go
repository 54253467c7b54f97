package stock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates the postgres-backed stock repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, s *Stock) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO stocks (id, product_id, quantity)
		VALUES ($1,$2,$3)`,
		s.ID, s.ProductID, s.Quantity)
	if err != nil {
		return fmt.Errorf("insert stock: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Stock, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return scanStock(r.db.QueryRowContext(ctx, `
		SELECT id, product_id, quantity, created_at, updated_at
		FROM stocks WHERE id=$1`, uid).Scan)
}

func (r *postgresRepo) GetByProductID(ctx context.Context, productID string) (*Stock, error) {
	return scanStock(r.db.QueryRowContext(ctx, `
		SELECT id, product_id, quantity, created_at, updated_at
		FROM stocks WHERE product_id=$1`, productID).Scan)
}

func (r *postgresRepo) Update(ctx context.Context, s *Stock) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE stocks SET quantity=$1, updated_at=NOW() WHERE id=$2`,
		s.Quantity, s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stocks WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresRepo) WithTx(ctx context.Context, fn func(tx TxRepository) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(&txRepo{tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

type txRepo struct{ tx *sql.Tx }

func (t *txRepo) GetByProductIDForUpdate(ctx context.Context, productID string) (*Stock, error) {
	return scanStock(t.tx.QueryRowContext(ctx, `
		SELECT id, product_id, quantity, created_at, updated_at
		FROM stocks WHERE product_id=$1 FOR UPDATE`, productID).Scan)
}

func (t *txRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE stocks SET quantity=$1, updated_at=NOW() WHERE id=$2`, quantity, id)
	return err
}

func scanStock(scan func(...interface{}) error) (*Stock, error) {
	s := &Stock{}
	err := scan(&s.ID, &s.ProductID, &s.Quantity, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
