package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
)

var _ repository.StockMoveRepository = (*StockMoveRepo)(nil)

// StockMoveRepo libro de movimientos sobre PostgreSQL. La tabla rechaza UPDATE y DELETE.
type StockMoveRepo struct {
	q Querier
}

// NewStockMoveRepository construye el adaptador del libro. Pasar pool o tx (Querier).
func NewStockMoveRepository(q Querier) *StockMoveRepo {
	return &StockMoveRepo{q: q}
}

// Append inserta un movimiento.
func (r *StockMoveRepo) Append(ctx context.Context, m *entity.StockMove) error {
	query := `
		INSERT INTO stock_moves (id, move_type, reference, document_id, product_id,
			from_location_id, to_location_id, quantity, status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		m.ID, string(m.MoveType), m.Reference, nullIfEmpty(m.DocumentID), m.ProductID,
		nullIfEmpty(m.FromLocationID), nullIfEmpty(m.ToLocationID), m.Quantity, m.Status, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock move: %w", err)
	}
	return nil
}

// Query filtra en SQL y devuelve del más reciente al más antiguo, como máximo filter.Limit filas.
func (r *StockMoveRepo) Query(ctx context.Context, filter repository.LedgerFilter) ([]*entity.StockMove, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = repository.DefaultLedgerCap
	}

	where := []string{"TRUE"}
	args := []any{}
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.ProductID != "" {
		add("m.product_id::text = $%d", filter.ProductID)
	}
	if filter.MoveType != "" {
		add("m.move_type = $%d", string(filter.MoveType))
	}
	if filter.Reference != "" {
		add("m.reference ILIKE '%%' || $%d || '%%'", filter.Reference)
	}
	if filter.DocumentID != "" {
		add("m.document_id::text = $%d", filter.DocumentID)
	}
	if filter.DateFrom != nil {
		add("m.created_at >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		add("m.created_at <= $%d", *filter.DateTo)
	}
	args = append(args, limit)

	query := `
		SELECT m.id, m.move_type, m.reference, COALESCE(m.document_id::text, ''), m.product_id,
			COALESCE(m.from_location_id::text, ''), COALESCE(m.to_location_id::text, ''),
			m.quantity, m.status, m.created_by, m.created_at,
			p.name, p.sku,
			COALESCE(lf.name, ''), COALESCE(lf.warehouse_id::text, ''),
			COALESCE(lt.name, ''), COALESCE(lt.warehouse_id::text, '')
		FROM stock_moves m
		JOIN products p ON p.id = m.product_id
		LEFT JOIN locations lf ON lf.id = m.from_location_id
		LEFT JOIN locations lt ON lt.id = m.to_location_id
		WHERE ` + strings.Join(where, " AND ") + fmt.Sprintf(`
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $%d`, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stock moves: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMove
	for rows.Next() {
		var m entity.StockMove
		var moveType string
		if err := rows.Scan(
			&m.ID, &moveType, &m.Reference, &m.DocumentID, &m.ProductID,
			&m.FromLocationID, &m.ToLocationID,
			&m.Quantity, &m.Status, &m.CreatedBy, &m.CreatedAt,
			&m.ProductName, &m.ProductSKU,
			&m.FromLocationName, &m.FromWarehouseID,
			&m.ToLocationName, &m.ToWarehouseID,
		); err != nil {
			return nil, fmt.Errorf("scan stock move: %w", err)
		}
		m.MoveType = entity.DocumentKind(moveType)
		out = append(out, &m)
	}
	return out, rows.Err()
}
