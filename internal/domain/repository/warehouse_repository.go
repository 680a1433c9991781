package repository

import (
	"context"

	"github.com/jhoicas/stockops-api/internal/domain/entity"
)

// WarehouseRepository define el puerto de lectura de bodegas (DIP).
type WarehouseRepository interface {
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	ListActive(ctx context.Context) ([]*entity.Warehouse, error)
}

// LocationRepository define el puerto de lectura de ubicaciones.
type LocationRepository interface {
	// GetByID devuelve la ubicación con los datos de su bodega; nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	// FirstActiveByWarehouse devuelve la primera ubicación activa por nombre; nil, nil si no hay.
	FirstActiveByWarehouse(ctx context.Context, warehouseID string) (*entity.Location, error)
	ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.Location, error)
}
