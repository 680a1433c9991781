package dto

import "github.com/shopspring/decimal"

// LocationStockDTO cantidad de un producto en una ubicación.
type LocationStockDTO struct {
	LocationID    string          `json:"location_id"`
	LocationName  string          `json:"location_name,omitempty"`
	WarehouseID   string          `json:"warehouse_id"`
	WarehouseName string          `json:"warehouse_name,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
}

// ProductStockResponse respuesta de GET /api/stock/products/:id.
type ProductStockResponse struct {
	ProductID         string                     `json:"product_id"`
	Total             decimal.Decimal            `json:"total"`
	StockPerWarehouse map[string]decimal.Decimal `json:"stock_per_warehouse"`
	Locations         []LocationStockDTO         `json:"locations"`
}

// LowStockItemDTO producto con stock total bajo el umbral.
type LowStockItemDTO struct {
	ProductID   string          `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Category    string          `json:"category,omitempty"`
	Total       decimal.Decimal `json:"total"`
	OutOfStock  bool            `json:"out_of_stock"`
}
