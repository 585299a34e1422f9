package repository

import (
	"context"

	"github.com/jhoicas/compras-api/internal/domain/entity"
)

// CategoryRepository define el puerto de lectura de categorías.
type CategoryRepository interface {
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Category, error)
	// ListOrdered lista todas las categorías por sort_order ascendente.
	ListOrdered(ctx context.Context) ([]*entity.Category, error)
}
