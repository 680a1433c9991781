package repository

import (
	"context"

	"github.com/jhoicas/stockops-api/internal/domain/entity"
)

// ProductRepository define el puerto de lectura de productos que necesita el motor (DIP).
// El CRUD de productos vive fuera del núcleo.
type ProductRepository interface {
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	ListActive(ctx context.Context, category string) ([]*entity.Product, error)
}
