package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoveStatusDone es el único estado con el que se escribe un movimiento.
const MoveStatusDone = "DONE"

// StockMove es una entrada inmutable del libro de movimientos.
// Quantity siempre es la magnitud positiva; la dirección la dan From/ToLocationID.
type StockMove struct {
	ID             string
	MoveType       DocumentKind // coincide con el tipo de documento
	Reference      string       // código del documento
	DocumentID     string
	ProductID      string
	FromLocationID string // vacío si no aplica
	ToLocationID   string // vacío si no aplica
	Quantity       decimal.Decimal
	Status         string
	CreatedBy      string
	CreatedAt      time.Time

	// Solo lectura: enriquecido por el repositorio.
	ProductName      string
	ProductSKU       string
	FromLocationName string
	FromWarehouseID  string
	ToLocationName   string
	ToWarehouseID    string
}
