package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, category_id, name, full_name, image_url,
	barcode, wholesale_barcode, retail_barcode, sku, wholesale_sku, retail_sku,
	wholesale_price, retail_price, in_stock, stock_value, cost,
	track_stock, continue_selling_when_out_of_stock, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !isUUID(id) {
		return nil, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByIDs obtiene los productos existentes entre los IDs dados.
func (r *ProductRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Product, error) {
	ids = uuidsOnly(ids)
	if len(ids) == 0 {
		return map[string]*entity.Product{}, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1::uuid[])`
	return r.queryMap(ctx, "get products", query, ids)
}

// LockForUpdate bloquea (SELECT ... FOR UPDATE) las filas de los productos en orden de ID
// hasta el fin de la transacción. Los IDs inexistentes simplemente no aparecen en el mapa.
func (r *ProductRepo) LockForUpdate(ctx context.Context, ids []string) (map[string]*entity.Product, error) {
	ids = uuidsOnly(ids)
	if len(ids) == 0 {
		return map[string]*entity.Product{}, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1::uuid[]) ORDER BY id FOR UPDATE`
	return r.queryMap(ctx, "lock products", query, ids)
}

// UpdateInventory persiste stock, valor del inventario y costo promedio.
func (r *ProductRepo) UpdateInventory(ctx context.Context, productID string, inStock, stockValue, cost decimal.Decimal) error {
	query := `UPDATE products SET in_stock = $2, stock_value = $3, cost = $4, updated_at = $5 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, productID, inStock, stockValue, cost, time.Now())
	if err != nil {
		return fmt.Errorf("update product inventory: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update product inventory: producto %s no existe", productID)
	}
	return nil
}

// ListByCategoryIDs lista los productos de las categorías dadas ordenados por nombre.
func (r *ProductRepo) ListByCategoryIDs(ctx context.Context, categoryIDs []string) ([]*entity.Product, error) {
	categoryIDs = uuidsOnly(categoryIDs)
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE category_id = ANY($1::uuid[]) ORDER BY name, id`
	rows, err := r.q.Query(ctx, query, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("list products by category: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *ProductRepo) queryMap(ctx context.Context, op, query string, ids []string) (map[string]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	out := make(map[string]*entity.Product, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var fullName, imageURL, barcode, wBarcode, rBarcode, sku, wSKU, rSKU *string
	err := row.Scan(
		&p.ID, &p.CategoryID, &p.Name, &fullName, &imageURL,
		&barcode, &wBarcode, &rBarcode, &sku, &wSKU, &rSKU,
		&p.WholesalePrice, &p.RetailPrice, &p.InStock, &p.StockValue, &p.Cost,
		&p.TrackStock, &p.ContinueSellingWhenOutOfStock, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.FullName = derefStr(fullName)
	p.ImageURL = derefStr(imageURL)
	p.Barcode = derefStr(barcode)
	p.WholesaleBarcode = derefStr(wBarcode)
	p.RetailBarcode = derefStr(rBarcode)
	p.SKU = derefStr(sku)
	p.WholesaleSKU = derefStr(wSKU)
	p.RetailSKU = derefStr(rSKU)
	return &p, nil
}
