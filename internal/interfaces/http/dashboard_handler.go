package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/stockops-api/internal/application/analytics"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
)

// DashboardHandler maneja el endpoint del tablero.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve los indicadores de stock y los documentos pendientes.
// GET /api/dashboard?warehouse_id=&location_id=&category=
//
// Respuesta: DashboardSummaryDTO (total_products, products_in_stock, low_stock_items,
// out_of_stock_items, pending_receipts, pending_deliveries, pending_transfers, pending_adjustments).
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context(), repository.DashboardFilter{
		WarehouseID: c.Query("warehouse_id"),
		LocationID:  c.Query("location_id"),
		Category:    c.Query("category"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
