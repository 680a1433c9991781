package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerQueryRequest query params de GET /api/ledger.
type LedgerQueryRequest struct {
	ProductID   string     `query:"product_id"`
	WarehouseID string     `query:"warehouse_id"`
	LocationID  string     `query:"location_id"`
	MoveType    string     `query:"move_type" validate:"omitempty,oneof=RECEIPT DELIVERY TRANSFER ADJUSTMENT"`
	Reference   string     `query:"reference"`
	DateFrom    *QueryDate `query:"date_from"`
	DateTo      *QueryDate `query:"date_to"`
	Limit       int        `query:"limit" validate:"min=0"`
}

// StockMoveResponse entrada del libro de movimientos.
type StockMoveResponse struct {
	ID               string          `json:"id"`
	MoveType         string          `json:"move_type"`
	Reference        string          `json:"reference"`
	DocumentID       string          `json:"document_id,omitempty"`
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name,omitempty"`
	ProductSKU       string          `json:"product_sku,omitempty"`
	FromLocationID   string          `json:"from_location_id,omitempty"`
	FromLocationName string          `json:"from_location_name,omitempty"`
	FromWarehouseID  string          `json:"from_warehouse_id,omitempty"`
	ToLocationID     string          `json:"to_location_id,omitempty"`
	ToLocationName   string          `json:"to_location_name,omitempty"`
	ToWarehouseID    string          `json:"to_warehouse_id,omitempty"`
	Quantity         decimal.Decimal `json:"quantity"`
	Status           string          `json:"status"`
	CreatedBy        string          `json:"created_by,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}
