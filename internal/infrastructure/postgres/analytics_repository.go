package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el tablero.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// CountActiveProducts productos activos, opcionalmente de una categoría.
func (r *AnalyticsRepo) CountActiveProducts(ctx context.Context, category string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM products
		WHERE is_active AND ($1 = '' OR category = $1)`, category).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("analytics.CountActiveProducts: %w", err)
	}
	return n, nil
}

// StockLevels filas (producto, ubicación) de productos activos dentro del alcance.
func (r *AnalyticsRepo) StockLevels(ctx context.Context, filter repository.DashboardFilter) ([]repository.StockLevelRow, error) {
	const query = `
	SELECT q.product_id, q.location_id, q.quantity
	FROM stock_quants q
	JOIN products  p ON p.id = q.product_id
	JOIN locations l ON l.id = q.location_id
	WHERE p.is_active
	  AND ($1 = '' OR l.warehouse_id::text = $1)
	  AND ($2 = '' OR q.location_id::text  = $2)
	  AND ($3 = '' OR p.category           = $3)`

	rows, err := r.q.Query(ctx, query, filter.WarehouseID, filter.LocationID, filter.Category)
	if err != nil {
		return nil, fmt.Errorf("analytics.StockLevels: %w", err)
	}
	defer rows.Close()

	var out []repository.StockLevelRow
	for rows.Next() {
		var row repository.StockLevelRow
		if err := rows.Scan(&row.ProductID, &row.LocationID, &row.Quantity); err != nil {
			return nil, fmt.Errorf("analytics.StockLevels scan: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// CountDocumentsByStatus cuenta por tipo los documentos en alguno de los estados.
func (r *AnalyticsRepo) CountDocumentsByStatus(ctx context.Context, statuses []entity.DocumentStatus) (map[entity.DocumentKind]int, error) {
	out := make(map[entity.DocumentKind]int, len(entity.DocumentKinds))
	if len(statuses) == 0 {
		return out, nil
	}
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}

	parts := make([]string, 0, len(entity.DocumentKinds))
	for _, k := range entity.DocumentKinds {
		parts = append(parts, fmt.Sprintf(
			`SELECT '%s' AS kind, COUNT(*) FROM %s WHERE status = ANY($1::text[])`, k, docTables[k].table))
	}
	rows, err := r.q.Query(ctx, strings.Join(parts, " UNION ALL "), values)
	if err != nil {
		return nil, fmt.Errorf("analytics.CountDocumentsByStatus: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("analytics.CountDocumentsByStatus scan: %w", err)
		}
		out[entity.DocumentKind(kind)] = n
	}
	return out, rows.Err()
}
