package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/compras-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByIDs devuelve los productos encontrados indexados por ID; los IDs inexistentes se omiten.
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Product, error)
	// LockForUpdate bloquea las filas (SELECT ... FOR UPDATE) en orden ascendente de ID
	// y devuelve las encontradas. Solo tiene sentido dentro de una transacción.
	LockForUpdate(ctx context.Context, ids []string) (map[string]*entity.Product, error)
	// UpdateInventory persiste stock, valor del inventario y costo promedio (usado por el motor de compras).
	UpdateInventory(ctx context.Context, productID string, inStock, stockValue, cost decimal.Decimal) error
	ListByCategoryIDs(ctx context.Context, categoryIDs []string) ([]*entity.Product, error)
}
