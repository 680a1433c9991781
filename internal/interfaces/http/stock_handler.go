package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockops-api/internal/application/dto"
	"github.com/jhoicas/stockops-api/internal/application/inventory"
)

// StockHandler lecturas de stock y del libro de movimientos.
type StockHandler struct {
	quants *inventory.QuantityService
	ledger *inventory.LedgerService
}

// NewStockHandler construye el handler.
func NewStockHandler(quants *inventory.QuantityService, ledger *inventory.LedgerService) *StockHandler {
	return &StockHandler{quants: quants, ledger: ledger}
}

// Ledger godoc
// @Summary      Libro de movimientos
// @Description  Del más reciente al más antiguo. El tope de filas se aplica antes de filtrar por bodega o ubicación.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "Producto"
// @Param        warehouse_id  query  string  false  "Bodega (origen o destino)"
// @Param        location_id   query  string  false  "Ubicación (origen o destino)"
// @Param        move_type     query  string  false  "RECEIPT | DELIVERY | TRANSFER | ADJUSTMENT"
// @Param        reference     query  string  false  "Referencia (parcial)"
// @Param        date_from     query  string  false  "Desde"
// @Param        date_to       query  string  false  "Hasta (inclusive)"
// @Param        limit         query  int     false  "Máximo de filas"
// @Success      200  {array}   dto.StockMoveResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger [get]
func (h *StockHandler) Ledger(c *fiber.Ctx) error {
	var q dto.LedgerQueryRequest
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	moves, err := h.ledger.Query(c.Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(moves)
}

// ProductStock godoc
// @Summary      Stock de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del producto"
// @Success      200  {object}  dto.ProductStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/products/{id} [get]
func (h *StockHandler) ProductStock(c *fiber.Ctx) error {
	res, err := h.quants.StockPerWarehouse(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// LowStock productos activos con stock total bajo el umbral.
// GET /api/stock/low?warehouse_id=&category=
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	items, err := h.quants.LowStockProducts(c.Context(), c.Query("warehouse_id"), c.Query("category"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total": len(items),
		"items": items,
	})
}
