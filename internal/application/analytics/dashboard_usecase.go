// Package analytics contiene los casos de uso de reportes de solo lectura:
// el tablero de inventario.
package analytics

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockops-api/internal/application/dto"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
)

// DefaultLowStockThreshold umbral de stock bajo si no se configura otro.
var DefaultLowStockThreshold = decimal.NewFromInt(10)

// pendingStatuses estados que cuentan como documento pendiente.
var pendingStatuses = []entity.DocumentStatus{entity.StatusDraft, entity.StatusWaiting, entity.StatusReady}

// DashboardUseCase genera el resumen del tablero de inventario.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	threshold     decimal.Decimal
}

// NewDashboardUseCase construye el caso de uso. threshold <= 0 usa DefaultLowStockThreshold.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, threshold decimal.Decimal) *DashboardUseCase {
	if !threshold.IsPositive() {
		threshold = DefaultLowStockThreshold
	}
	return &DashboardUseCase{analyticsRepo: analyticsRepo, threshold: threshold}
}

// GetSummary construye el DashboardSummaryDTO para el alcance indicado.
//
// Tres llamadas en paralelo:
//  1. CountActiveProducts        → TotalProducts
//  2. StockLevels(filtro)        → ProductsInStock / LowStock / OutOfStock
//  3. CountDocumentsByStatus     → Pending* por tipo
//
// Los conteos de stock son por registro (producto, ubicación), no por producto.
func (uc *DashboardUseCase) GetSummary(ctx context.Context, filter repository.DashboardFilter) (*dto.DashboardSummaryDTO, error) {
	type countResult struct {
		n   int
		err error
	}
	type levelsResult struct {
		rows []repository.StockLevelRow
		err  error
	}
	type pendingResult struct {
		byKind map[entity.DocumentKind]int
		err    error
	}

	productsCh := make(chan countResult, 1)
	levelsCh := make(chan levelsResult, 1)
	pendingCh := make(chan pendingResult, 1)

	go func() {
		n, err := uc.analyticsRepo.CountActiveProducts(ctx, filter.Category)
		productsCh <- countResult{n, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.StockLevels(ctx, filter)
		levelsCh <- levelsResult{rows, err}
	}()
	go func() {
		byKind, err := uc.analyticsRepo.CountDocumentsByStatus(ctx, pendingStatuses)
		pendingCh <- pendingResult{byKind, err}
	}()

	products := <-productsCh
	levels := <-levelsCh
	pending := <-pendingCh

	if products.err != nil {
		return nil, fmt.Errorf("dashboard: productos activos: %w", products.err)
	}
	if levels.err != nil {
		return nil, fmt.Errorf("dashboard: niveles de stock: %w", levels.err)
	}
	if pending.err != nil {
		return nil, fmt.Errorf("dashboard: documentos pendientes: %w", pending.err)
	}

	// ── Clasificar niveles ─────────────────────────────────────────────────────
	out := &dto.DashboardSummaryDTO{TotalProducts: products.n}
	inStock := make(map[string]struct{})
	for _, r := range levels.rows {
		switch {
		case r.Quantity.IsZero():
			out.OutOfStockItems++
		case r.Quantity.IsPositive():
			inStock[r.ProductID] = struct{}{}
			if r.Quantity.LessThan(uc.threshold) {
				out.LowStockItems++
			}
		}
	}
	out.ProductsInStock = len(inStock)

	out.PendingReceipts = pending.byKind[entity.KindReceipt]
	out.PendingDeliveries = pending.byKind[entity.KindDelivery]
	out.PendingTransfers = pending.byKind[entity.KindTransfer]
	out.PendingAdjustments = pending.byKind[entity.KindAdjustment]
	return out, nil
}
