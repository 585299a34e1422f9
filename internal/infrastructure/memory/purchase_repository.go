package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/compras-api/internal/domain"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación en memoria de PurchaseRepository.
type PurchaseRepo struct {
	store *Store
	tx    *state
}

// Create persiste la cabecera (sin líneas; se agregan con CreateDetail).
func (r *PurchaseRepo) Create(_ context.Context, purchase *entity.Purchase) error {
	return r.store.write(r.tx, func(st *state) error {
		if _, ok := st.purchases[purchase.ID]; ok {
			return fmt.Errorf("insert purchase: id %s duplicado", purchase.ID)
		}
		c := purchase.Clone()
		c.Details = nil
		st.purchases[purchase.ID] = c
		return nil
	})
}

// Update actualiza los campos de cabecera.
func (r *PurchaseRepo) Update(_ context.Context, purchase *entity.Purchase) error {
	return r.store.write(r.tx, func(st *state) error {
		p, ok := st.purchases[purchase.ID]
		if !ok {
			return domain.ErrNotFound
		}
		details := p.Details
		c := purchase.Clone()
		c.Details = details
		st.purchases[purchase.ID] = c
		return nil
	})
}

// Delete elimina la cabecera y sus líneas.
func (r *PurchaseRepo) Delete(_ context.Context, id string) error {
	return r.store.write(r.tx, func(st *state) error {
		delete(st.purchases, id)
		return nil
	})
}

// GetByID devuelve una copia de la compra con sus líneas.
func (r *PurchaseRepo) GetByID(_ context.Context, id string) (*entity.Purchase, error) {
	var out *entity.Purchase
	_ = r.store.read(r.tx, func(st *state) error {
		if p, ok := st.purchases[id]; ok {
			out = p.Clone()
		}
		return nil
	})
	return out, nil
}

// GetForUpdate igual que GetByID; la exclusión la da Run.
func (r *PurchaseRepo) GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.GetByID(ctx, id)
}

// CreateDetail agrega una línea al final de la compra.
func (r *PurchaseRepo) CreateDetail(_ context.Context, detail *entity.PurchaseDetail) error {
	return r.store.write(r.tx, func(st *state) error {
		p, ok := st.purchases[detail.PurchaseID]
		if !ok {
			return fmt.Errorf("insert purchase detail: compra %s no existe", detail.PurchaseID)
		}
		d := *detail
		p.Details = append(p.Details, &d)
		return nil
	})
}

// DeleteDetail elimina una línea por ID.
func (r *PurchaseRepo) DeleteDetail(_ context.Context, id string) error {
	return r.store.write(r.tx, func(st *state) error {
		for _, p := range st.purchases {
			for i, d := range p.Details {
				if d.ID == id {
					p.Details = append(p.Details[:i:i], p.Details[i+1:]...)
					return nil
				}
			}
		}
		return nil
	})
}

// List filtra, ordena (fecha desc) y pagina las compras.
func (r *PurchaseRepo) List(_ context.Context, f repository.PurchaseFilter) ([]*entity.Purchase, int, error) {
	var matched []*entity.Purchase
	_ = r.store.read(r.tx, func(st *state) error {
		for _, p := range st.purchases {
			if matches(st, p, f) {
				matched = append(matched, p.Clone())
			}
		}
		return nil
	})
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	total := len(matched)
	if f.Offset >= total {
		return []*entity.Purchase{}, total, nil
	}
	end := total
	if f.Limit > 0 && f.Offset+f.Limit < total {
		end = f.Offset + f.Limit
	}
	return matched[f.Offset:end], total, nil
}

func matches(st *state, p *entity.Purchase, f repository.PurchaseFilter) bool {
	if f.Search != "" {
		q := strings.TrimSpace(f.Search)
		if !containsFold(p.ReferenceNumber, q) && !containsFold(p.Notes, q) && !containsFold(p.ShipmentName, q) {
			return false
		}
	}
	if f.SupplierName != "" {
		if p.SupplierID == nil {
			return false
		}
		s, ok := st.suppliers[*p.SupplierID]
		if !ok || !containsFold(s.Name, f.SupplierName) {
			return false
		}
	}
	if f.Date != "" && !strings.HasPrefix(p.Date.Format("2006-01-02"), strings.TrimSpace(f.Date)) {
		return false
	}
	if f.PurchaseNumber != "" && !containsFold(p.ReferenceNumber, f.PurchaseNumber) {
		return false
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
