package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockops-api/internal/application/dto"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
)

// presentDocument serializa un documento según su tipo.
func presentDocument(doc *entity.Document) (*dto.DocumentResponse, error) {
	out := &dto.DocumentResponse{
		ID:            doc.ID,
		Code:          doc.Code,
		Kind:          string(doc.Kind),
		Status:        string(doc.Status),
		ScheduledDate: doc.ScheduledDate,
		Responsible:   doc.Responsible,
		Notes:         doc.Notes,
		CreatedBy:     doc.CreatedBy,
		ValidatedBy:   doc.ValidatedBy,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
		ValidatedAt:   doc.ValidatedAt,
	}

	switch b := doc.Body.(type) {
	case *entity.ReceiptBody:
		out.Receipt = &dto.ReceiptHeaderDTO{WarehouseID: b.WarehouseID, SupplierName: b.SupplierName}
		out.Lines = make([]dto.DocumentLineResponse, 0, len(b.Lines))
		for _, l := range b.Lines {
			out.Lines = append(out.Lines, dto.DocumentLineResponse{
				ID:          l.ID,
				Seq:         l.Seq,
				ProductID:   l.ProductID,
				LocationID:  l.LocationID,
				OrderedQty:  decPtr(l.OrderedQty),
				ReceivedQty: l.ReceivedQty,
			})
		}
	case *entity.DeliveryBody:
		out.Delivery = &dto.DeliveryHeaderDTO{WarehouseID: b.WarehouseID, CustomerName: b.CustomerName}
		out.Lines = make([]dto.DocumentLineResponse, 0, len(b.Lines))
		for _, l := range b.Lines {
			out.Lines = append(out.Lines, dto.DocumentLineResponse{
				ID:               l.ID,
				Seq:              l.Seq,
				ProductID:        l.ProductID,
				SourceLocationID: l.SourceLocationID,
				Quantity:         decPtr(l.Quantity),
			})
		}
	case *entity.TransferBody:
		out.Transfer = &dto.TransferHeaderDTO{
			SourceLocationID:      b.SourceLocationID,
			DestinationLocationID: b.DestinationLocationID,
		}
		out.Lines = make([]dto.DocumentLineResponse, 0, len(b.Lines))
		for _, l := range b.Lines {
			out.Lines = append(out.Lines, dto.DocumentLineResponse{
				ID:                    l.ID,
				Seq:                   l.Seq,
				ProductID:             l.ProductID,
				SourceLocationID:      l.SourceLocationID,
				DestinationLocationID: l.DestinationLocationID,
				Quantity:              decPtr(l.Quantity),
			})
		}
	case *entity.AdjustmentBody:
		out.Adjustment = &dto.AdjustmentHeaderDTO{LocationID: b.LocationID, Reason: b.Reason}
		out.Lines = make([]dto.DocumentLineResponse, 0, len(b.Lines))
		for _, l := range b.Lines {
			out.Lines = append(out.Lines, dto.DocumentLineResponse{
				ID:          l.ID,
				Seq:         l.Seq,
				ProductID:   l.ProductID,
				LocationID:  b.LocationID,
				CountedQty:  decPtr(l.CountedQty),
				PreviousQty: decPtr(l.PreviousQty),
				Delta:       decPtr(l.Delta()),
			})
		}
	default:
		return nil, fmt.Errorf("presentar documento %s: tipo no soportado %T", doc.ID, doc.Body)
	}
	return out, nil
}

func presentMove(m *entity.StockMove) dto.StockMoveResponse {
	return dto.StockMoveResponse{
		ID:               m.ID,
		MoveType:         string(m.MoveType),
		Reference:        m.Reference,
		DocumentID:       m.DocumentID,
		ProductID:        m.ProductID,
		ProductName:      m.ProductName,
		ProductSKU:       m.ProductSKU,
		FromLocationID:   m.FromLocationID,
		FromLocationName: m.FromLocationName,
		FromWarehouseID:  m.FromWarehouseID,
		ToLocationID:     m.ToLocationID,
		ToLocationName:   m.ToLocationName,
		ToWarehouseID:    m.ToWarehouseID,
		Quantity:         m.Quantity,
		Status:           m.Status,
		CreatedBy:        m.CreatedBy,
		CreatedAt:        m.CreatedAt,
	}
}

func presentMoves(moves []*entity.StockMove) []dto.StockMoveResponse {
	out := make([]dto.StockMoveResponse, 0, len(moves))
	for _, m := range moves {
		out = append(out, presentMove(m))
	}
	return out
}

func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }
