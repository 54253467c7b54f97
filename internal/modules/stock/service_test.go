package stock

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// memRepo is an in-memory Repository whose WithTx honors the row-lock
// contract: GetByProductIDForUpdate blocks concurrent callers for the same
// product until the transaction function returns, so the read-modify-write
// in Service.Decrement runs under exclusion exactly as it does against
// postgres.
type memRepo struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*Stock
	rowLock map[uuid.UUID]*sync.Mutex
}

func newMemRepo() *memRepo {
	return &memRepo{
		byID:    make(map[uuid.UUID]*Stock),
		rowLock: make(map[uuid.UUID]*sync.Mutex),
	}
}

func (r *memRepo) Create(ctx context.Context, s *Stock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.byID[s.ID] = &cp
	r.rowLock[s.ID] = &sync.Mutex{}
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, id string) (*Stock, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[uid]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memRepo) GetByProductID(ctx context.Context, productID string) (*Stock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.findByProduct(productID)
	if s == nil {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memRepo) Update(ctx context.Context, s *Stock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[s.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Quantity = s.Quantity
	return nil
}

func (r *memRepo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[uid]; !ok {
		return ErrNotFound
	}
	delete(r.byID, uid)
	delete(r.rowLock, uid)
	return nil
}

func (r *memRepo) WithTx(ctx context.Context, fn func(tx TxRepository) error) error {
	tx := &memTx{repo: r}
	defer tx.release()
	return fn(tx)
}

func (r *memRepo) findByProduct(productID string) *Stock {
	for _, s := range r.byID {
		if s.ProductID.String() == productID {
			return s
		}
	}
	return nil
}

type memTx struct {
	repo *memRepo
	held []*sync.Mutex
}

func (t *memTx) GetByProductIDForUpdate(ctx context.Context, productID string) (*Stock, error) {
	t.repo.mu.Lock()
	s := t.repo.findByProduct(productID)
	if s == nil {
		t.repo.mu.Unlock()
		return nil, ErrNotFound
	}
	lock := t.repo.rowLock[s.ID]
	t.repo.mu.Unlock()

	lock.Lock()
	t.held = append(t.held, lock)

	// re-read under the row lock: the quantity may have changed while we
	// were blocked on a concurrent holder
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	cp := *t.repo.byID[s.ID]
	return &cp, nil
}

func (t *memTx) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	s, ok := t.repo.byID[id]
	if !ok {
		return ErrNotFound
	}
	s.Quantity = quantity
	return nil
}

func (t *memTx) release() {
	for _, l := range t.held {
		l.Unlock()
	}
	t.held = nil
}

func newStock(t *testing.T, repo *memRepo, quantity int) *Stock {
	t.Helper()
	s := &Stock{ID: uuid.New(), ProductID: uuid.New(), Quantity: quantity}
	require.NoError(t, repo.Create(context.Background(), s))
	return s
}

func TestDecrementReducesQuantity(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	s := newStock(t, repo, 50)

	require.NoError(t, svc.Decrement(context.Background(), s.ProductID.String(), 10))

	got, err := svc.GetStockByProduct(context.Background(), s.ProductID.String())
	require.NoError(t, err)
	assert.Equal(t, 40, got.Quantity)
}

func TestDecrementMissingRecordFails(t *testing.T) {
	svc := NewService(newMemRepo())

	err := svc.Decrement(context.Background(), uuid.New().String(), 5)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDecrementRejectsNonPositiveQuantity(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	s := newStock(t, repo, 50)

	err := svc.Decrement(context.Background(), s.ProductID.String(), 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)
	err = svc.Decrement(context.Background(), s.ProductID.String(), -3)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	got, err := svc.GetStockByProduct(context.Background(), s.ProductID.String())
	require.NoError(t, err)
	assert.Equal(t, 50, got.Quantity)
}

func TestDecrementAllowsNegativeQuantity(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	s := newStock(t, repo, 5)

	require.NoError(t, svc.Decrement(context.Background(), s.ProductID.String(), 8))

	got, err := svc.GetStockByProduct(context.Background(), s.ProductID.String())
	require.NoError(t, err)
	assert.Equal(t, -3, got.Quantity)
}

func TestDecrementSerializesTwoConcurrentCalls(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	s := newStock(t, repo, 50)

	var g errgroup.Group
	for i := 0; i < 2; i++ {
		g.Go(func() error {
			return svc.Decrement(context.Background(), s.ProductID.String(), 10)
		})
	}
	require.NoError(t, g.Wait())

	got, err := svc.GetStockByProduct(context.Background(), s.ProductID.String())
	require.NoError(t, err)
	assert.Equal(t, 30, got.Quantity, "one of the two decrements was lost")
}

func TestDecrementNoLostUpdatesUnderContention(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	s := newStock(t, repo, 1000)

	const callers = 25
	expected := 1000
	var g errgroup.Group
	for i := 1; i <= callers; i++ {
		amount := i
		expected -= amount
		g.Go(func() error {
			return svc.Decrement(context.Background(), s.ProductID.String(), amount)
		})
	}
	require.NoError(t, g.Wait())

	got, err := svc.GetStockByProduct(context.Background(), s.ProductID.String())
	require.NoError(t, err)
	assert.Equal(t, expected, got.Quantity)
}

func TestDecrementsOnDifferentProductsDoNotInterfere(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	a := newStock(t, repo, 100)
	b := newStock(t, repo, 100)

	var g errgroup.Group
	for i := 0; i < 10; i++ {
		g.Go(func() error { return svc.Decrement(context.Background(), a.ProductID.String(), 1) })
		g.Go(func() error { return svc.Decrement(context.Background(), b.ProductID.String(), 2) })
	}
	require.NoError(t, g.Wait())

	gotA, err := svc.GetStockByProduct(context.Background(), a.ProductID.String())
	require.NoError(t, err)
	gotB, err := svc.GetStockByProduct(context.Background(), b.ProductID.String())
	require.NoError(t, err)
	assert.Equal(t, 90, gotA.Quantity)
	assert.Equal(t, 80, gotB.Quantity)
}

func TestStockCRUD(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	productID := uuid.New()
	created, err := svc.CreateStock(context.Background(), CreateStockRequest{
		ProductID: productID.String(),
		Quantity:  25,
	})
	require.NoError(t, err)
	assert.Equal(t, productID, created.ProductID)

	updated, err := svc.UpdateStock(context.Background(), created.ID.String(), UpdateStockRequest{Quantity: 40})
	require.NoError(t, err)
	assert.Equal(t, 40, updated.Quantity)

	require.NoError(t, svc.DeleteStock(context.Background(), created.ID.String()))
	_, err = svc.GetStock(context.Background(), created.ID.String())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateStockRejectsBadProductID(t *testing.T) {
	svc := NewService(newMemRepo())

	_, err := svc.CreateStock(context.Background(), CreateStockRequest{ProductID: "not-a-uuid", Quantity: 1})
	require.Error(t, err)
}
