package entity

import "time"

// Warehouse representa una bodega; el stock se ubica en sus Location.
type Warehouse struct {
	ID        string
	Name      string
	Code      string // prefijo de las referencias de documentos (ej. WH/IN/00001)
	Address   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location es una ubicación física dentro de exactamente una bodega.
type Location struct {
	ID            string
	WarehouseID   string
	WarehouseCode string // denormalizado en lecturas
	WarehouseName string
	Name          string
	Code          string
	IsActive      bool
	CreatedAt     time.Time
}
