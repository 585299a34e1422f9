package purchase

import (
	"context"

	"github.com/jhoicas/compras-api/internal/application/dto"
)

// Form devuelve proveedores (por nombre), categorías (por sort_order) con sus productos y la moneda.
func (uc *QueryUseCase) Form(ctx context.Context) (*dto.PurchaseFormResponse, error) {
	suppliers, err := uc.supplierRepo.ListOrderedByName(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := uc.categoryRepo.ListOrdered(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	products, err := uc.productRepo.ListByCategoryIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byCategory := make(map[string][]dto.FormProductResponse, len(categories))
	for _, p := range products {
		if p.CategoryID == nil {
			continue
		}
		byCategory[*p.CategoryID] = append(byCategory[*p.CategoryID], dto.FormProductResponse{
			ID:       p.ID,
			Name:     p.Name,
			FullName: p.DisplayName(),
			SKU:      p.SKU,
			Barcode:  p.Barcode,
			ImageURL: uc.imageOrPlaceholder(p.ImageURL),
			InStock:  p.InStock,
			Cost:     p.Cost,
		})
	}

	out := &dto.PurchaseFormResponse{
		Categories: make([]dto.CategoryWithProductsResponse, 0, len(categories)),
		Suppliers:  make([]dto.SupplierResponse, 0, len(suppliers)),
		Currency:   uc.cfg.CurrencySymbol,
	}
	for _, c := range categories {
		items := byCategory[c.ID]
		if items == nil {
			items = []dto.FormProductResponse{}
		}
		out.Categories = append(out.Categories, dto.CategoryWithProductsResponse{
			ID:        c.ID,
			Name:      c.Name,
			ImageURL:  uc.imageOrPlaceholder(c.ImageURL),
			SortOrder: c.SortOrder,
			Products:  items,
		})
	}
	for _, s := range suppliers {
		out.Suppliers = append(out.Suppliers, dto.SupplierResponse{
			ID:      s.ID,
			Name:    s.Name,
			Email:   s.Email,
			Phone:   s.Phone,
			Address: s.Address,
		})
	}
	return out, nil
}
