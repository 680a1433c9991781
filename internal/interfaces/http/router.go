package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/stockops-api/internal/application/analytics"
	"github.com/jhoicas/stockops-api/internal/application/inventory"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Documents   *inventory.DocumentUseCase
	Validate    *inventory.ValidateUseCase
	Slips       *inventory.SlipUseCase
	Quantities  *inventory.QuantityService
	Ledger      *inventory.LedgerService
	DashboardUC *appanalytics.DashboardUseCase
	JWTSecret   string
}

// documentRoutes prefijo de ruta por tipo de documento.
var documentRoutes = map[entity.DocumentKind]string{
	entity.KindReceipt:    "/receipts",
	entity.KindDelivery:   "/deliveries",
	entity.KindTransfer:   "/transfers",
	entity.KindAdjustment: "/adjustments",
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	for _, kind := range entity.DocumentKinds {
		h := NewDocumentHandler(kind, deps.Documents, deps.Validate, deps.Slips)
		g := api.Group(documentRoutes[kind])
		g.Get("/", h.List)
		g.Get("/:id", h.GetByID)
		g.Get("/:id/slip", h.Slip)

		// Los ajustes solo los escribe un MANAGER.
		write := func(handler fiber.Handler) []fiber.Handler {
			if kind == entity.KindAdjustment {
				return []fiber.Handler{RequireRole(jwt.RoleManager), handler}
			}
			return []fiber.Handler{handler}
		}
		g.Post("/", write(h.Create)...)
		g.Patch("/:id", write(h.Update)...)
		g.Post("/:id/validate", write(h.Validate)...)
		g.Post("/:id/cancel", write(h.Cancel)...)
		g.Post("/:id/status", write(h.SetStatus)...)
	}

	stockHandler := NewStockHandler(deps.Quantities, deps.Ledger)
	api.Get("/ledger", stockHandler.Ledger)
	stock := api.Group("/stock")
	stock.Get("/low", stockHandler.LowStock)
	stock.Get("/products/:id", stockHandler.ProductStock)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/dashboard", dashboardHandler.GetSummary)
}
