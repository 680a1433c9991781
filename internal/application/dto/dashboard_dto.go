package dto

// DashboardSummaryDTO respuesta de GET /api/dashboard.
type DashboardSummaryDTO struct {
	TotalProducts      int `json:"total_products"`
	ProductsInStock    int `json:"products_in_stock"`
	LowStockItems      int `json:"low_stock_items"`    // 0 < cantidad < umbral
	OutOfStockItems    int `json:"out_of_stock_items"` // cantidad == 0
	PendingReceipts    int `json:"pending_receipts"`
	PendingDeliveries  int `json:"pending_deliveries"`
	PendingTransfers   int `json:"pending_transfers"`
	PendingAdjustments int `json:"pending_adjustments"`
}
