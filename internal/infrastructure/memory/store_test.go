package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/repository"
)

func seeded() *Store {
	s := NewStore()
	s.AddSupplier(&entity.Supplier{ID: "sup-1", Name: "Distribuidora Norte"})
	s.AddProduct(&entity.Product{ID: "P", Name: "Arroz", InStock: decimal.NewFromInt(10), Cost: decimal.NewFromInt(5)})
	return s
}

func TestRun_RollbackDescartaCambios(t *testing.T) {
	s := seeded()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Run(ctx, func(products repository.ProductRepository, purchases repository.PurchaseRepository) error {
		require.NoError(t, products.UpdateInventory(ctx, "P", decimal.NewFromInt(99), decimal.NewFromInt(99), decimal.NewFromInt(1)))
		require.NoError(t, purchases.Create(ctx, &entity.Purchase{ID: "c1", Date: time.Now()}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, err := s.Products().GetByID(ctx, "P")
	require.NoError(t, err)
	assert.True(t, p.InStock.Equal(decimal.NewFromInt(10)))
	got, err := s.Purchases().GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRun_CommitPublicaCambios(t *testing.T) {
	s := seeded()
	ctx := context.Background()

	err := s.Run(ctx, func(products repository.ProductRepository, purchases repository.PurchaseRepository) error {
		locked, err := products.LockForUpdate(ctx, []string{"P", "nope"})
		require.NoError(t, err)
		assert.Len(t, locked, 1)
		if err := purchases.Create(ctx, &entity.Purchase{ID: "c1", Date: time.Now()}); err != nil {
			return err
		}
		return purchases.CreateDetail(ctx, &entity.PurchaseDetail{
			ID: "d1", PurchaseID: "c1", ProductID: "P",
			Cost: decimal.NewFromInt(7), Quantity: decimal.NewFromInt(10),
		})
	})
	require.NoError(t, err)

	got, err := s.Purchases().GetByID(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Details, 1)
	assert.True(t, got.Details[0].LineTotalCost().Equal(decimal.NewFromInt(70)))
}

func TestRun_ContextoCancelado(t *testing.T) {
	s := seeded()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.Run(ctx, func(repository.ProductRepository, repository.PurchaseRepository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestLockForUpdate_FueraDeTransaccion(t *testing.T) {
	s := seeded()
	_, err := s.Products().LockForUpdate(context.Background(), []string{"P"})
	assert.Error(t, err)
}

func TestGetByID_DevuelveCopia(t *testing.T) {
	s := seeded()
	ctx := context.Background()
	p, err := s.Products().GetByID(ctx, "P")
	require.NoError(t, err)
	p.InStock = decimal.NewFromInt(1)

	again, err := s.Products().GetByID(ctx, "P")
	require.NoError(t, err)
	assert.True(t, again.InStock.Equal(decimal.NewFromInt(10)))
}

func TestDeleteDetail(t *testing.T) {
	s := seeded()
	ctx := context.Background()
	repo := s.Purchases()
	require.NoError(t, repo.Create(ctx, &entity.Purchase{ID: "c1"}))
	for _, id := range []string{"d1", "d2", "d3"} {
		require.NoError(t, repo.CreateDetail(ctx, &entity.PurchaseDetail{ID: id, PurchaseID: "c1", ProductID: "P"}))
	}
	require.NoError(t, repo.DeleteDetail(ctx, "d2"))

	got, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, got.Details, 2)
	assert.Equal(t, "d1", got.Details[0].ID)
	assert.Equal(t, "d3", got.Details[1].ID)
}

func TestAddProduct_ValorizaStockDeApertura(t *testing.T) {
	s := seeded()
	p, err := s.Products().GetByID(context.Background(), "P")
	require.NoError(t, err)
	assert.True(t, p.StockValue.Equal(decimal.NewFromInt(50)), "valor: %s", p.StockValue)

	s.AddProduct(&entity.Product{ID: "V", InStock: decimal.NewFromInt(3), Cost: decimal.RequireFromString("1.67"),
		StockValue: decimal.NewFromInt(5)})
	v, err := s.Products().GetByID(context.Background(), "V")
	require.NoError(t, err)
	assert.True(t, v.StockValue.Equal(decimal.NewFromInt(5)), "un valor explícito no se recalcula")
}

func TestRun_TransaccionesConcurrentesSeSerializan(t *testing.T) {
	s := seeded()
	s.AddProduct(&entity.Product{ID: "Q", Name: "Lentejas", InStock: decimal.NewFromInt(3), Cost: decimal.NewFromInt(2)})
	ctx := context.Background()
	one := decimal.NewFromInt(1)

	// Cada transacción lee y reescribe su producto; ninguna escritura se pierde.
	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		id := "P"
		if i%2 == 1 {
			id = "Q"
		}
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			err := s.Run(ctx, func(products repository.ProductRepository, _ repository.PurchaseRepository) error {
				locked, err := products.LockForUpdate(ctx, []string{id})
				if err != nil {
					return err
				}
				p := locked[id]
				return products.UpdateInventory(ctx, id, p.InStock.Add(one), p.StockValue.Add(p.Cost), p.Cost)
			})
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	p, err := s.Products().GetByID(ctx, "P")
	require.NoError(t, err)
	assert.True(t, p.InStock.Equal(decimal.NewFromInt(10+n/2)), "stock P: %s", p.InStock)
	q, err := s.Products().GetByID(ctx, "Q")
	require.NoError(t, err)
	assert.True(t, q.InStock.Equal(decimal.NewFromInt(3+n/2)), "stock Q: %s", q.InStock)
}
