package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Las cantidades se guardan como NUMERIC(18,4).
const QuantityScale int32 = 4

// MaxQuantity cota superior exclusiva de una cantidad (14 dígitos enteros).
var MaxQuantity = decimal.New(1, 14)

// StockQuant es la cantidad disponible de un producto en una ubicación (registro de cantidad).
// Clave única (ProductID, LocationID); Quantity nunca es negativa.
type StockQuant struct {
	ProductID     string
	LocationID    string
	LocationName  string
	WarehouseID   string
	WarehouseName string
	Quantity      decimal.Decimal
	UpdatedAt     time.Time
}

// QuantKey identifica un StockQuant.
type QuantKey struct {
	ProductID  string
	LocationID string
}

// Less ordena las claves de forma determinista (producto, ubicación) para tomar bloqueos sin deadlock.
func (k QuantKey) Less(o QuantKey) bool {
	if k.ProductID != o.ProductID {
		return k.ProductID < o.ProductID
	}
	return k.LocationID < o.LocationID
}
