package entity

import "time"

// Product representa un producto o SKU del inventario.
// El stock no vive aquí: se lleva por ubicación en StockQuant.
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	Category    string
	UnitMeasure string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
