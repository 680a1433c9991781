package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentLineRequest línea de un documento. Qué campos aplican depende del tipo:
//   - RECEIPT: location_id (opcional si hay warehouse_id), ordered_qty (o quantity), received_qty
//   - DELIVERY: source_location_id (opcional si hay warehouse_id), quantity
//   - TRANSFER: source_location_id / destination_location_id (por defecto los de cabecera), quantity
//   - ADJUSTMENT: counted_qty, previous_qty (si falta se toma el stock actual)
type DocumentLineRequest struct {
	ProductID             string           `json:"product_id" validate:"required"`
	LocationID            string           `json:"location_id,omitempty"`
	SourceLocationID      string           `json:"source_location_id,omitempty"`
	DestinationLocationID string           `json:"destination_location_id,omitempty"`
	Quantity              *decimal.Decimal `json:"quantity,omitempty"`
	OrderedQty            *decimal.Decimal `json:"ordered_qty,omitempty"`
	ReceivedQty           *decimal.Decimal `json:"received_qty,omitempty"`
	CountedQty            *decimal.Decimal `json:"counted_qty,omitempty"`
	PreviousQty           *decimal.Decimal `json:"previous_qty,omitempty"`
}

// CreateDocumentRequest body para POST /api/{receipts|deliveries|transfers|adjustments}.
type CreateDocumentRequest struct {
	WarehouseID           string                `json:"warehouse_id,omitempty"`
	SupplierName          string                `json:"supplier_name,omitempty"`
	CustomerName          string                `json:"customer_name,omitempty"`
	SourceLocationID      string                `json:"source_location_id,omitempty"`
	DestinationLocationID string                `json:"destination_location_id,omitempty"`
	LocationID            string                `json:"location_id,omitempty"`
	Reason                string                `json:"reason,omitempty"`
	ScheduledDate         *time.Time            `json:"scheduled_date,omitempty"`
	Responsible           string                `json:"responsible,omitempty"`
	Notes                 string                `json:"notes,omitempty"`
	Lines                 []DocumentLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// UpdateDocumentRequest body para PATCH; solo se aplican los campos presentes.
// Lines reemplaza todas las líneas y solo se acepta en DRAFT.
type UpdateDocumentRequest struct {
	Notes         *string                `json:"notes,omitempty"`
	ScheduledDate *time.Time             `json:"scheduled_date,omitempty"`
	Responsible   *string                `json:"responsible,omitempty"`
	SupplierName  *string                `json:"supplier_name,omitempty"`
	CustomerName  *string                `json:"customer_name,omitempty"`
	Reason        *string                `json:"reason,omitempty"`
	Lines         *[]DocumentLineRequest `json:"lines,omitempty" validate:"omitempty,min=1,dive"`
}

// ChangeStatusRequest body para POST /:id/status (cambios administrativos sin efecto en stock).
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=DRAFT READY WAITING"`
}

// ListDocumentsRequest query params de los listados.
type ListDocumentsRequest struct {
	PageRequest
	Status      string     `query:"status" validate:"omitempty,oneof=DRAFT READY WAITING DONE CANCELED"`
	WarehouseID string     `query:"warehouse_id"`
	LocationID  string     `query:"location_id"`
	Partner     string     `query:"partner"`
	DateFrom    *QueryDate `query:"date_from"`
	DateTo      *QueryDate `query:"date_to"`
}

// ReceiptHeaderDTO cabecera específica de recepciones.
type ReceiptHeaderDTO struct {
	WarehouseID  string `json:"warehouse_id,omitempty"`
	SupplierName string `json:"supplier_name,omitempty"`
}

// DeliveryHeaderDTO cabecera específica de despachos.
type DeliveryHeaderDTO struct {
	WarehouseID  string `json:"warehouse_id,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
}

// TransferHeaderDTO cabecera específica de traslados.
type TransferHeaderDTO struct {
	SourceLocationID      string `json:"source_location_id,omitempty"`
	DestinationLocationID string `json:"destination_location_id,omitempty"`
}

// AdjustmentHeaderDTO cabecera específica de ajustes.
type AdjustmentHeaderDTO struct {
	LocationID string `json:"location_id"`
	Reason     string `json:"reason,omitempty"`
}

// DocumentLineResponse línea serializada; solo vienen los campos del tipo.
type DocumentLineResponse struct {
	ID                    string           `json:"id"`
	Seq                   int              `json:"seq"`
	ProductID             string           `json:"product_id"`
	LocationID            string           `json:"location_id,omitempty"`
	SourceLocationID      string           `json:"source_location_id,omitempty"`
	DestinationLocationID string           `json:"destination_location_id,omitempty"`
	Quantity              *decimal.Decimal `json:"quantity,omitempty"`
	OrderedQty            *decimal.Decimal `json:"ordered_qty,omitempty"`
	ReceivedQty           *decimal.Decimal `json:"received_qty,omitempty"`
	CountedQty            *decimal.Decimal `json:"counted_qty,omitempty"`
	PreviousQty           *decimal.Decimal `json:"previous_qty,omitempty"`
	Delta                 *decimal.Decimal `json:"delta,omitempty"`
}

// DocumentResponse documento con su cabecera por tipo (solo uno de Receipt/Delivery/Transfer/Adjustment).
type DocumentResponse struct {
	ID            string                 `json:"id"`
	Code          string                 `json:"code"`
	Kind          string                 `json:"kind"`
	Status        string                 `json:"status"`
	ScheduledDate *time.Time             `json:"scheduled_date,omitempty"`
	Responsible   string                 `json:"responsible,omitempty"`
	Notes         string                 `json:"notes,omitempty"`
	CreatedBy     string                 `json:"created_by,omitempty"`
	ValidatedBy   string                 `json:"validated_by,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
	ValidatedAt   *time.Time             `json:"validated_at,omitempty"`
	Receipt       *ReceiptHeaderDTO      `json:"receipt,omitempty"`
	Delivery      *DeliveryHeaderDTO     `json:"delivery,omitempty"`
	Transfer      *TransferHeaderDTO     `json:"transfer,omitempty"`
	Adjustment    *AdjustmentHeaderDTO   `json:"adjustment,omitempty"`
	Lines         []DocumentLineResponse `json:"lines"`
}

// ValidationResultDTO respuesta de POST /:id/validate.
type ValidationResultDTO struct {
	Document DocumentResponse    `json:"document"`
	Moves    []StockMoveResponse `json:"moves"`
}
