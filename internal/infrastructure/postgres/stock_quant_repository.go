package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
)

var _ repository.StockQuantRepository = (*StockQuantRepo)(nil)

// StockQuantRepo almacén de cantidades por (producto, ubicación) sobre PostgreSQL.
type StockQuantRepo struct {
	q Querier
}

// NewStockQuantRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockQuantRepository(q Querier) *StockQuantRepo {
	return &StockQuantRepo{q: q}
}

// Get obtiene la cantidad actual; cero si no hay fila.
func (r *StockQuantRepo) Get(ctx context.Context, productID, locationID string) (decimal.Decimal, error) {
	var qty decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT quantity FROM stock_quants
		WHERE product_id = $1 AND location_id = $2`, productID, locationID).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("get stock quant: %w", err)
	}
	return qty, nil
}

// LockForUpdate bloquea (SELECT FOR UPDATE) las filas existentes de keys en orden
// (producto, ubicación). Las claves sin fila se devuelven en cero.
func (r *StockQuantRepo) LockForUpdate(ctx context.Context, keys []entity.QuantKey) (map[entity.QuantKey]decimal.Decimal, error) {
	out := make(map[entity.QuantKey]decimal.Decimal, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	productIDs := make([]string, len(keys))
	locationIDs := make([]string, len(keys))
	for i, k := range keys {
		productIDs[i], locationIDs[i] = k.ProductID, k.LocationID
		out[k] = decimal.Zero
	}

	rows, err := r.q.Query(ctx, `
		SELECT q.product_id, q.location_id, q.quantity
		FROM stock_quants q
		JOIN unnest($1::uuid[], $2::uuid[]) AS k(product_id, location_id)
		  ON q.product_id = k.product_id AND q.location_id = k.location_id
		ORDER BY q.product_id, q.location_id
		FOR UPDATE OF q`, productIDs, locationIDs)
	if err != nil {
		return nil, fmt.Errorf("lock stock quants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var k entity.QuantKey
		var qty decimal.Decimal
		if err := rows.Scan(&k.ProductID, &k.LocationID, &qty); err != nil {
			return nil, fmt.Errorf("scan stock quant: %w", err)
		}
		out[k] = qty
	}
	return out, rows.Err()
}

// ApplyDelta insert-or-add en una sola sentencia. Un delta negativo sobre una fila
// inexistente crea la fila en cero; el CHECK (quantity >= 0) impide quedar en negativo.
func (r *StockQuantRepo) ApplyDelta(ctx context.Context, productID, locationID string, delta decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_quants (product_id, location_id, quantity, updated_at)
		VALUES ($1, $2, GREATEST($3::numeric, 0), now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET quantity = stock_quants.quantity + $3::numeric, updated_at = now()`,
		productID, locationID, delta)
	if err != nil {
		if isCheckViolation(err) {
			return domain.InsufficientStock(productID, locationID, "desconocido", delta.Neg().String())
		}
		if isNumericOverflow(err) {
			e := domain.Validation("quantity", "el stock de %s en %s supera el máximo admitido", productID, locationID)
			e.ProductID, e.LocationID = productID, locationID
			return e
		}
		return fmt.Errorf("apply stock delta: %w", err)
	}
	return nil
}

// TotalForProduct suma de todas las ubicaciones.
func (r *StockQuantRepo) TotalForProduct(ctx context.Context, productID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0) FROM stock_quants WHERE product_id = $1`, productID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total stock: %w", err)
	}
	return total, nil
}

// List filas con nombre de ubicación y bodega.
func (r *StockQuantRepo) List(ctx context.Context, filter repository.QuantFilter) ([]*entity.StockQuant, error) {
	rows, err := r.q.Query(ctx, `
		SELECT q.product_id, q.location_id, l.name, l.warehouse_id, w.name, q.quantity, q.updated_at
		FROM stock_quants q
		JOIN locations l ON l.id = q.location_id
		JOIN warehouses w ON w.id = l.warehouse_id
		JOIN products p ON p.id = q.product_id
		WHERE ($1 = '' OR q.product_id::text = $1)
		  AND ($2 = '' OR l.warehouse_id::text = $2)
		  AND ($3 = '' OR q.location_id::text = $3)
		  AND ($4 = '' OR p.category = $4)
		ORDER BY q.product_id, q.location_id`,
		filter.ProductID, filter.WarehouseID, filter.LocationID, filter.Category)
	if err != nil {
		return nil, fmt.Errorf("list stock quants: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockQuant
	for rows.Next() {
		var s entity.StockQuant
		if err := rows.Scan(&s.ProductID, &s.LocationID, &s.LocationName, &s.WarehouseID, &s.WarehouseName, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock quant: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
