package repository

import (
	"context"

	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// DashboardFilter alcance del tablero; campos vacíos = sin filtro.
type DashboardFilter struct {
	WarehouseID string
	LocationID  string
	Category    string
}

// StockLevelRow cantidad de un producto en una ubicación (crudo, para agregar en el use case).
type StockLevelRow struct {
	ProductID  string
	LocationID string
	Quantity   decimal.Decimal
}

// AnalyticsRepository consultas de solo lectura para el tablero.
type AnalyticsRepository interface {
	CountActiveProducts(ctx context.Context, category string) (int, error)
	StockLevels(ctx context.Context, filter DashboardFilter) ([]StockLevelRow, error)
	// CountDocumentsByStatus cuenta documentos por tipo con alguno de los estados dados.
	CountDocumentsByStatus(ctx context.Context, statuses []entity.DocumentStatus) (map[entity.DocumentKind]int, error)
}
