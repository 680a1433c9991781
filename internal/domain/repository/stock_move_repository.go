package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stockops-api/internal/domain/entity"
)

// DefaultLedgerCap tope de filas por consulta al libro de movimientos.
const DefaultLedgerCap = 1000

// LedgerFilter filtros que se resuelven en la consulta SQL. Los filtros por bodega y
// ubicación se aplican después en memoria (ver inventory.LedgerService).
type LedgerFilter struct {
	ProductID  string
	MoveType   entity.DocumentKind
	Reference  string
	DocumentID string
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
}

// StockMoveRepository define el puerto del libro de movimientos: solo inserción y lectura.
type StockMoveRepository interface {
	Append(ctx context.Context, move *entity.StockMove) error
	// Query devuelve movimientos del más reciente al más antiguo, como máximo filter.Limit.
	Query(ctx context.Context, filter LedgerFilter) ([]*entity.StockMove, error)
}
