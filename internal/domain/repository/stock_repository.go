package repository

import (
	"context"

	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// QuantFilter filtros de lectura del stock; campos vacíos = sin filtro.
type QuantFilter struct {
	ProductID   string
	WarehouseID string
	LocationID  string
	Category    string
}

// StockQuantRepository define el puerto del almacén de cantidades (producto, ubicación).
// Las escrituras solo ocurren dentro de la transacción de validación.
type StockQuantRepository interface {
	// Get devuelve la cantidad actual; cero si no hay registro.
	Get(ctx context.Context, productID, locationID string) (decimal.Decimal, error)
	// LockForUpdate bloquea las filas existentes (SELECT FOR UPDATE) en el orden de keys
	// y devuelve la cantidad de cada clave (cero si la fila no existe).
	LockForUpdate(ctx context.Context, keys []entity.QuantKey) (map[entity.QuantKey]decimal.Decimal, error)
	// ApplyDelta suma delta a la fila, creándola si no existe (insert-or-add).
	ApplyDelta(ctx context.Context, productID, locationID string, delta decimal.Decimal) error
	// TotalForProduct suma la cantidad del producto en todas las ubicaciones.
	TotalForProduct(ctx context.Context, productID string) (decimal.Decimal, error)
	// List devuelve las filas con datos de ubicación y bodega.
	List(ctx context.Context, filter QuantFilter) ([]*entity.StockQuant, error)
}
