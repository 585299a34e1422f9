package repository

import (
	"context"

	"github.com/jhoicas/compras-api/internal/domain/entity"
)

// PurchaseFilter filtros del listado de compras. Los campos vacíos no filtran.
type PurchaseFilter struct {
	Search         string // texto libre: referencia, notas, nombre del envío
	SupplierName   string
	Date           string // prefijo de fecha ISO (2025, 2025-02, 2025-02-16)
	PurchaseNumber string
	Limit          int
	Offset         int
}

// PurchaseRepository define el puerto de persistencia para Purchase y sus líneas.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	Update(ctx context.Context, purchase *entity.Purchase) error
	// Delete elimina la cabecera; las líneas se eliminan en cascada.
	Delete(ctx context.Context, id string) error
	// GetByID devuelve la compra con sus líneas, o nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	// GetForUpdate igual que GetByID pero bloqueando la cabecera dentro de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error)
	CreateDetail(ctx context.Context, detail *entity.PurchaseDetail) error
	DeleteDetail(ctx context.Context, id string) error
	// List devuelve la página de compras (más recientes primero) con sus líneas y el total sin paginar.
	List(ctx context.Context, filter PurchaseFilter) ([]*entity.Purchase, int, error)
}
