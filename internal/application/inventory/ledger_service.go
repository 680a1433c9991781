package inventory

import (
	"context"

	"github.com/jhoicas/stockops-api/internal/application/dto"
	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
)

// LedgerService consultas del libro de movimientos.
//
// Lectura en dos fases: la consulta SQL aplica producto, tipo, referencia y fechas con
// el tope de filas; bodega y ubicación se filtran después en memoria sobre esa página.
// Con filtros por bodega/ubicación el resultado puede quedar incompleto si hay más
// movimientos que el tope.
type LedgerService struct {
	moveRepo repository.StockMoveRepository
	ledgerCap int
}

// NewLedgerService construye el servicio. ledgerCap <= 0 usa repository.DefaultLedgerCap.
func NewLedgerService(moveRepo repository.StockMoveRepository, ledgerCap int) *LedgerService {
	if ledgerCap <= 0 {
		ledgerCap = repository.DefaultLedgerCap
	}
	return &LedgerService{moveRepo: moveRepo, ledgerCap: ledgerCap}
}

// Query devuelve movimientos del más reciente al más antiguo.
func (s *LedgerService) Query(ctx context.Context, q dto.LedgerQueryRequest) ([]dto.StockMoveResponse, error) {
	moveType := entity.DocumentKind(q.MoveType)
	if moveType != "" && !moveType.IsValid() {
		return nil, domain.Validation("move_type", "tipo de movimiento desconocido %q", q.MoveType)
	}
	if err := checkDateRange(q.DateFrom, q.DateTo); err != nil {
		return nil, err
	}
	limit := q.Limit
	if limit <= 0 || limit > s.ledgerCap {
		limit = s.ledgerCap
	}

	moves, err := s.moveRepo.Query(ctx, repository.LedgerFilter{
		ProductID: q.ProductID,
		MoveType:  moveType,
		Reference: q.Reference,
		DateFrom:  q.DateFrom.Start(),
		DateTo:    q.DateTo.End(),
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}

	out := make([]dto.StockMoveResponse, 0, len(moves))
	for _, m := range moves {
		if !touches(m, q.WarehouseID, q.LocationID) {
			continue
		}
		out = append(out, presentMove(m))
	}
	return out, nil
}

// touches indica si el movimiento entra o sale de la bodega/ubicación dadas.
func touches(m *entity.StockMove, warehouseID, locationID string) bool {
	if warehouseID != "" && m.FromWarehouseID != warehouseID && m.ToWarehouseID != warehouseID {
		return false
	}
	if locationID != "" && m.FromLocationID != locationID && m.ToLocationID != locationID {
		return false
	}
	return true
}

// checkDateRange rechaza un date_to anterior a date_from.
func checkDateRange(from, to *dto.QueryDate) error {
	if from != nil && to != nil && to.End().Before(*from.Start()) {
		return domain.Validation("date_to", "date_to es anterior a date_from")
	}
	return nil
}
