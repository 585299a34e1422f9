package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
)

// CategoryRepo implementación en memoria de CategoryRepository.
type CategoryRepo struct {
	store *Store
}

// GetByIDs devuelve las categorías encontradas.
func (r *CategoryRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Category, error) {
	out := make(map[string]*entity.Category, len(ids))
	_ = r.store.read(nil, func(st *state) error {
		for _, id := range ids {
			if c, ok := st.categories[id]; ok {
				cat := *c
				out[id] = &cat
			}
		}
		return nil
	})
	return out, nil
}

// ListOrdered lista por sort_order y luego por nombre.
func (r *CategoryRepo) ListOrdered(_ context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	_ = r.store.read(nil, func(st *state) error {
		for _, c := range st.categories {
			cat := *c
			out = append(out, &cat)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// SupplierRepo implementación en memoria de SupplierRepository.
type SupplierRepo struct {
	store *Store
}

// GetByID devuelve el proveedor o nil.
func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	_ = r.store.read(nil, func(st *state) error {
		if s, ok := st.suppliers[id]; ok {
			sup := *s
			out = &sup
		}
		return nil
	})
	return out, nil
}

// ListOrderedByName lista proveedores por nombre.
func (r *SupplierRepo) ListOrderedByName(_ context.Context) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	_ = r.store.read(nil, func(st *state) error {
		for _, s := range st.suppliers {
			sup := *s
			out = append(out, &sup)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
