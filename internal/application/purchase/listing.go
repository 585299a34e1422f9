package purchase

import (
	"context"

	"github.com/jhoicas/compras-api/internal/application/dto"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/repository"
)

// UnknownCategoryName nombre del grupo para productos sin categoría resoluble.
const UnknownCategoryName = "Unknown"

// QueryConfig parámetros de lectura: paginación, moneda e imagen por defecto.
type QueryConfig struct {
	PageSize            int
	CurrencySymbol      string
	PlaceholderImageURL string
}

// QueryUseCase consultas de compras: listado agrupado y datos del formulario.
// Las lecturas toleran referencias colgantes (líneas con producto borrado se omiten).
type QueryUseCase struct {
	purchaseRepo repository.PurchaseRepository
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
	cfg          QueryConfig
}

// NewQueryUseCase construye el caso de uso de consultas.
func NewQueryUseCase(
	purchaseRepo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
	cfg QueryConfig,
) *QueryUseCase {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 20
	}
	return &QueryUseCase{
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
		cfg:          cfg,
	}
}

// List devuelve una página de compras con sus líneas agrupadas por categoría del producto.
func (uc *QueryUseCase) List(ctx context.Context, q dto.PurchaseListQuery) (*dto.PurchaseListResponse, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	purchases, total, err := uc.purchaseRepo.List(ctx, repository.PurchaseFilter{
		Search:         q.SearchQuery,
		SupplierName:   q.SupplierName,
		Date:           q.Date,
		PurchaseNumber: q.PurchaseNumber,
		Limit:          uc.cfg.PageSize,
		Offset:         q.Offset(uc.cfg.PageSize),
	})
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, p := range purchases {
		for _, d := range p.Details {
			ids = append(ids, d.ProductID)
		}
	}
	products, err := uc.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	var categoryIDs []string
	for _, p := range products {
		if p.CategoryID != nil {
			categoryIDs = append(categoryIDs, *p.CategoryID)
		}
	}
	categories, err := uc.categoryRepo.GetByIDs(ctx, categoryIDs)
	if err != nil {
		return nil, err
	}

	return &dto.PurchaseListResponse{
		Status: "ok",
		Data:   uc.group(purchases, products, categories),
		Page:   dto.PageResponse{Page: page, PageSize: uc.cfg.PageSize, Total: total},
	}, nil
}

// group arma los grupos en orden de primera aparición (compras más recientes primero).
func (uc *QueryUseCase) group(
	purchases []*entity.Purchase,
	products map[string]*entity.Product,
	categories map[string]*entity.Category,
) []dto.PurchaseListGroup {
	groups := make([]dto.PurchaseListGroup, 0)
	index := make(map[string]int)
	for _, purchase := range purchases {
		for _, detail := range purchase.Details {
			product, ok := products[detail.ProductID]
			if !ok {
				continue
			}
			// Sin categoría o con categoría inexistente: grupo Unknown con id nulo.
			var category *entity.Category
			if product.CategoryID != nil {
				category = categories[*product.CategoryID]
			}
			key := ""
			if category != nil {
				key = category.ID
			}
			i, ok := index[key]
			if !ok {
				groups = append(groups, uc.newGroup(category))
				i = len(groups) - 1
				index[key] = i
			}
			groups[i].Products = append(groups[i].Products, uc.toListProduct(purchase.ID, detail, product))
		}
	}
	return groups
}

func (uc *QueryUseCase) newGroup(c *entity.Category) dto.PurchaseListGroup {
	if c == nil {
		return dto.PurchaseListGroup{
			Name:     UnknownCategoryName,
			ImageURL: uc.cfg.PlaceholderImageURL,
			Products: []dto.PurchaseListProduct{},
		}
	}
	id := c.ID
	return dto.PurchaseListGroup{
		ID:       &id,
		Name:     c.Name,
		ImageURL: uc.imageOrPlaceholder(c.ImageURL),
		Products: []dto.PurchaseListProduct{},
	}
}

func (uc *QueryUseCase) toListProduct(purchaseID string, d *entity.PurchaseDetail, p *entity.Product) dto.PurchaseListProduct {
	return dto.PurchaseListProduct{
		ID:                            p.ID,
		PurchaseID:                    purchaseID,
		FullName:                      p.DisplayName(),
		Name:                          p.Name,
		LineTotalCost:                 d.LineTotalCost(),
		WholesalePrice:                p.WholesalePrice,
		RetailPrice:                   p.RetailPrice,
		ImageURL:                      uc.imageOrPlaceholder(p.ImageURL),
		Barcode:                       nilIfEmpty(p.Barcode),
		WholesaleBarcode:              nilIfEmpty(p.WholesaleBarcode),
		RetailBarcode:                 nilIfEmpty(p.RetailBarcode),
		SKU:                           nilIfEmpty(p.SKU),
		WholesaleSKU:                  nilIfEmpty(p.WholesaleSKU),
		RetailSKU:                     nilIfEmpty(p.RetailSKU),
		InStock:                       p.InStock,
		TrackStock:                    p.TrackStock,
		ContinueSellingWhenOutOfStock: p.ContinueSellingWhenOutOfStock,
	}
}

func (uc *QueryUseCase) imageOrPlaceholder(url string) string {
	if url == "" {
		return uc.cfg.PlaceholderImageURL
	}
	return url
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
