package entity

import "github.com/shopspring/decimal"

// DocumentBody es la variante por tipo de documento (unión cerrada: solo la
// implementan los cuatro *Body de este paquete).
type DocumentBody interface {
	Kind() DocumentKind
	LineCount() int
	isDocumentBody()
}

// ReceiptBody recepción: proveedor + bodega destino.
type ReceiptBody struct {
	WarehouseID  string
	SupplierName string
	Lines        []ReceiptLine
}

// ReceiptLine ReceivedQty nil = aún no informado.
type ReceiptLine struct {
	ID          string
	Seq         int
	ProductID   string
	LocationID  string
	OrderedQty  decimal.Decimal
	ReceivedQty *decimal.Decimal
}

// EffectiveQty cantidad que entra al validar: recibida si está informada, si no la pedida.
func (l ReceiptLine) EffectiveQty() decimal.Decimal {
	if l.ReceivedQty != nil {
		return *l.ReceivedQty
	}
	return l.OrderedQty
}

// DeliveryBody despacho: cliente + bodega origen.
type DeliveryBody struct {
	WarehouseID  string
	CustomerName string
	Lines        []DeliveryLine
}

// DeliveryLine sale Quantity de SourceLocationID.
type DeliveryLine struct {
	ID               string
	Seq              int
	ProductID        string
	SourceLocationID string
	Quantity         decimal.Decimal
}

// TransferBody traslado interno; Source/DestinationLocationID son los valores por defecto de las líneas.
type TransferBody struct {
	SourceLocationID      string
	DestinationLocationID string
	Lines                 []TransferLine
}

// TransferLine mueve Quantity de origen a destino.
type TransferLine struct {
	ID                    string
	Seq                   int
	ProductID             string
	SourceLocationID      string
	DestinationLocationID string
	Quantity              decimal.Decimal
}

// AdjustmentBody ajuste de inventario sobre una única ubicación.
type AdjustmentBody struct {
	LocationID string
	Reason     string
	Lines      []AdjustmentLine
}

// AdjustmentLine PreviousQty es el stock del sistema al momento del conteo.
type AdjustmentLine struct {
	ID          string
	Seq         int
	ProductID   string
	CountedQty  decimal.Decimal
	PreviousQty decimal.Decimal
}

// Delta = contado − anterior.
func (l AdjustmentLine) Delta() decimal.Decimal {
	return l.CountedQty.Sub(l.PreviousQty)
}

func (*ReceiptBody) Kind() DocumentKind    { return KindReceipt }
func (*DeliveryBody) Kind() DocumentKind   { return KindDelivery }
func (*TransferBody) Kind() DocumentKind   { return KindTransfer }
func (*AdjustmentBody) Kind() DocumentKind { return KindAdjustment }

func (b *ReceiptBody) LineCount() int    { return len(b.Lines) }
func (b *DeliveryBody) LineCount() int   { return len(b.Lines) }
func (b *TransferBody) LineCount() int   { return len(b.Lines) }
func (b *AdjustmentBody) LineCount() int { return len(b.Lines) }

func (*ReceiptBody) isDocumentBody()    {}
func (*DeliveryBody) isDocumentBody()   {}
func (*TransferBody) isDocumentBody()   {}
func (*AdjustmentBody) isDocumentBody() {}
