package repository

import (
	"context"

	"github.com/jhoicas/compras-api/internal/domain/entity"
)

// SupplierRepository define el puerto de lectura de proveedores.
type SupplierRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	ListOrderedByName(ctx context.Context) ([]*entity.Supplier, error)
}
