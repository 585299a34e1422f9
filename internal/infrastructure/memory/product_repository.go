package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	store *Store
	tx    *state
}

// GetByID devuelve una copia del producto o nil si no existe.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	_ = r.store.read(r.tx, func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = p.Clone()
		}
		return nil
	})
	return out, nil
}

// GetByIDs devuelve copias de los productos encontrados.
func (r *ProductRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(ids))
	_ = r.store.read(r.tx, func(st *state) error {
		for _, id := range ids {
			if p, ok := st.products[id]; ok {
				out[id] = p.Clone()
			}
		}
		return nil
	})
	return out, nil
}

// LockForUpdate en memoria la exclusión la da Run; aquí solo se leen las filas.
func (r *ProductRepo) LockForUpdate(ctx context.Context, ids []string) (map[string]*entity.Product, error) {
	if r.tx == nil {
		return nil, fmt.Errorf("lock products: fuera de transacción")
	}
	return r.GetByIDs(ctx, ids)
}

// UpdateInventory persiste stock, valor y costo.
func (r *ProductRepo) UpdateInventory(_ context.Context, productID string, inStock, stockValue, cost decimal.Decimal) error {
	return r.store.write(r.tx, func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return fmt.Errorf("update product inventory: producto %s no existe", productID)
		}
		p.InStock = inStock
		p.StockValue = stockValue
		p.Cost = cost
		p.UpdatedAt = time.Now()
		return nil
	})
}

// ListByCategoryIDs lista productos de las categorías dadas ordenados por nombre.
func (r *ProductRepo) ListByCategoryIDs(_ context.Context, categoryIDs []string) ([]*entity.Product, error) {
	wanted := make(map[string]struct{}, len(categoryIDs))
	for _, id := range categoryIDs {
		wanted[id] = struct{}{}
	}
	var out []*entity.Product
	_ = r.store.read(r.tx, func(st *state) error {
		for _, p := range st.products {
			if p.CategoryID == nil {
				continue
			}
			if _, ok := wanted[*p.CategoryID]; ok {
				out = append(out, p.Clone())
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
