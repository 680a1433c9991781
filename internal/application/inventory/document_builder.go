package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockops-api/internal/application/dto"
	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
)

// bodyBuilder arma y valida el cuerpo de un documento a partir de la entrada.
// Resuelve ubicaciones por defecto y el código de bodega para la referencia.
type bodyBuilder struct {
	repos    Repos
	defaults map[string]*entity.Location // bodega -> primera ubicación activa
	checked  map[string]*entity.Location
	products map[string]struct{}
}

func newBodyBuilder(repos Repos) *bodyBuilder {
	return &bodyBuilder{
		repos:    repos,
		defaults: make(map[string]*entity.Location),
		checked:  make(map[string]*entity.Location),
		products: make(map[string]struct{}),
	}
}

// build devuelve el cuerpo y el código de bodega que prefija la referencia.
func (b *bodyBuilder) build(ctx context.Context, kind entity.DocumentKind, in dto.CreateDocumentRequest) (entity.DocumentBody, string, error) {
	if len(in.Lines) == 0 {
		return nil, "", domain.Validation("lines", "el documento debe tener al menos una línea")
	}
	switch kind {
	case entity.KindReceipt:
		return b.receipt(ctx, in)
	case entity.KindDelivery:
		return b.delivery(ctx, in)
	case entity.KindTransfer:
		return b.transfer(ctx, in)
	case entity.KindAdjustment:
		return b.adjustment(ctx, in)
	}
	return nil, "", domain.Validation("kind", "tipo de documento desconocido %q", kind)
}

func (b *bodyBuilder) receipt(ctx context.Context, in dto.CreateDocumentRequest) (entity.DocumentBody, string, error) {
	whCode, err := b.warehouseCode(ctx, in.WarehouseID)
	if err != nil {
		return nil, "", err
	}
	body := &entity.ReceiptBody{WarehouseID: in.WarehouseID, SupplierName: in.SupplierName}
	for i, l := range in.Lines {
		field := fmt.Sprintf("lines[%d]", i)
		if err := b.product(ctx, field, l.ProductID); err != nil {
			return nil, "", err
		}
		ordered := l.OrderedQty
		if ordered == nil {
			ordered = l.Quantity
		}
		if ordered == nil || !ordered.IsPositive() {
			return nil, "", domain.Validation(field+".ordered_qty", "la cantidad pedida debe ser mayor que cero")
		}
		if err := storable(field+".ordered_qty", *ordered); err != nil {
			return nil, "", err
		}
		if l.ReceivedQty != nil {
			if l.ReceivedQty.IsNegative() {
				return nil, "", domain.Validation(field+".received_qty", "la cantidad recibida no puede ser negativa")
			}
			if err := storable(field+".received_qty", *l.ReceivedQty); err != nil {
				return nil, "", err
			}
		}
		loc, err := b.lineLocation(ctx, field+".location_id", l.LocationID, in.WarehouseID)
		if err != nil {
			return nil, "", err
		}
		if whCode == "" {
			whCode = loc.WarehouseCode
		}
		body.Lines = append(body.Lines, entity.ReceiptLine{
			ID:          uuid.New().String(),
			Seq:         i + 1,
			ProductID:   l.ProductID,
			LocationID:  loc.ID,
			OrderedQty:  *ordered,
			ReceivedQty: l.ReceivedQty,
		})
	}
	return body, whCode, nil
}

func (b *bodyBuilder) delivery(ctx context.Context, in dto.CreateDocumentRequest) (entity.DocumentBody, string, error) {
	whCode, err := b.warehouseCode(ctx, in.WarehouseID)
	if err != nil {
		return nil, "", err
	}
	body := &entity.DeliveryBody{WarehouseID: in.WarehouseID, CustomerName: in.CustomerName}
	for i, l := range in.Lines {
		field := fmt.Sprintf("lines[%d]", i)
		if err := b.product(ctx, field, l.ProductID); err != nil {
			return nil, "", err
		}
		if err := positive(field+".quantity", l.Quantity); err != nil {
			return nil, "", err
		}
		loc, err := b.lineLocation(ctx, field+".source_location_id", l.SourceLocationID, in.WarehouseID)
		if err != nil {
			return nil, "", err
		}
		if whCode == "" {
			whCode = loc.WarehouseCode
		}
		body.Lines = append(body.Lines, entity.DeliveryLine{
			ID:               uuid.New().String(),
			Seq:              i + 1,
			ProductID:        l.ProductID,
			SourceLocationID: loc.ID,
			Quantity:         *l.Quantity,
		})
	}
	return body, whCode, nil
}

func (b *bodyBuilder) transfer(ctx context.Context, in dto.CreateDocumentRequest) (entity.DocumentBody, string, error) {
	body := &entity.TransferBody{
		SourceLocationID:      in.SourceLocationID,
		DestinationLocationID: in.DestinationLocationID,
	}
	var whCode string
	for i, l := range in.Lines {
		field := fmt.Sprintf("lines[%d]", i)
		if err := b.product(ctx, field, l.ProductID); err != nil {
			return nil, "", err
		}
		if err := positive(field+".quantity", l.Quantity); err != nil {
			return nil, "", err
		}
		srcID := firstNonEmpty(l.SourceLocationID, in.SourceLocationID)
		dstID := firstNonEmpty(l.DestinationLocationID, in.DestinationLocationID)
		if srcID == "" || dstID == "" {
			return nil, "", domain.Validation(field, "el traslado requiere ubicación de origen y de destino")
		}
		if srcID == dstID {
			return nil, "", domain.Validation(field, "origen y destino del traslado deben ser distintos (%s)", srcID)
		}
		src, err := b.location(ctx, field+".source_location_id", srcID)
		if err != nil {
			return nil, "", err
		}
		if _, err := b.location(ctx, field+".destination_location_id", dstID); err != nil {
			return nil, "", err
		}
		if whCode == "" {
			whCode = src.WarehouseCode
		}
		body.Lines = append(body.Lines, entity.TransferLine{
			ID:                    uuid.New().String(),
			Seq:                   i + 1,
			ProductID:             l.ProductID,
			SourceLocationID:      srcID,
			DestinationLocationID: dstID,
			Quantity:              *l.Quantity,
		})
	}
	return body, whCode, nil
}

func (b *bodyBuilder) adjustment(ctx context.Context, in dto.CreateDocumentRequest) (entity.DocumentBody, string, error) {
	if in.LocationID == "" {
		return nil, "", domain.Validation("location_id", "el ajuste requiere una ubicación")
	}
	loc, err := b.location(ctx, "location_id", in.LocationID)
	if err != nil {
		return nil, "", err
	}
	body := &entity.AdjustmentBody{LocationID: loc.ID, Reason: in.Reason}
	for i, l := range in.Lines {
		field := fmt.Sprintf("lines[%d]", i)
		if err := b.product(ctx, field, l.ProductID); err != nil {
			return nil, "", err
		}
		if l.CountedQty == nil || l.CountedQty.IsNegative() {
			return nil, "", domain.Validation(field+".counted_qty", "la cantidad contada es obligatoria y no puede ser negativa")
		}
		if err := storable(field+".counted_qty", *l.CountedQty); err != nil {
			return nil, "", err
		}
		var previous decimal.Decimal
		if l.PreviousQty != nil {
			if l.PreviousQty.IsNegative() {
				return nil, "", domain.Validation(field+".previous_qty", "la cantidad anterior no puede ser negativa")
			}
			if err := storable(field+".previous_qty", *l.PreviousQty); err != nil {
				return nil, "", err
			}
			previous = *l.PreviousQty
		} else {
			previous, err = b.repos.Quants.Get(ctx, l.ProductID, loc.ID)
			if err != nil {
				return nil, "", fmt.Errorf("stock actual de %s: %w", l.ProductID, err)
			}
		}
		body.Lines = append(body.Lines, entity.AdjustmentLine{
			ID:          uuid.New().String(),
			Seq:         i + 1,
			ProductID:   l.ProductID,
			CountedQty:  *l.CountedQty,
			PreviousQty: previous,
		})
	}
	return body, loc.WarehouseCode, nil
}

// warehouseCode valida la bodega de cabecera (opcional) y devuelve su código.
func (b *bodyBuilder) warehouseCode(ctx context.Context, warehouseID string) (string, error) {
	if warehouseID == "" {
		return "", nil
	}
	wh, err := b.repos.Warehouses.GetByID(ctx, warehouseID)
	if err != nil {
		return "", fmt.Errorf("bodega %s: %w", warehouseID, err)
	}
	if wh == nil || !wh.IsActive {
		return "", domain.NotFound("bodega", warehouseID)
	}
	return wh.Code, nil
}

// lineLocation resuelve la ubicación de una línea de recepción o despacho: la indicada,
// o la primera ubicación activa de la bodega de cabecera.
func (b *bodyBuilder) lineLocation(ctx context.Context, field, locationID, warehouseID string) (*entity.Location, error) {
	if locationID != "" {
		loc, err := b.location(ctx, field, locationID)
		if err != nil {
			return nil, err
		}
		if warehouseID != "" && loc.WarehouseID != warehouseID {
			return nil, domain.Validation(field, "la ubicación %s no pertenece a la bodega %s", locationID, warehouseID)
		}
		return loc, nil
	}
	if warehouseID == "" {
		return nil, domain.Validation(field, "indique la ubicación de la línea o la bodega del documento")
	}
	if loc, ok := b.defaults[warehouseID]; ok {
		return loc, nil
	}
	loc, err := b.repos.Locations.FirstActiveByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("ubicación por defecto de %s: %w", warehouseID, err)
	}
	if loc == nil {
		return nil, domain.Validation(field, "la bodega %s no tiene ubicaciones activas", warehouseID)
	}
	b.defaults[warehouseID] = loc
	return loc, nil
}

func (b *bodyBuilder) location(ctx context.Context, field, id string) (*entity.Location, error) {
	if loc, ok := b.checked[id]; ok {
		return loc, nil
	}
	loc, err := b.repos.Locations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ubicación %s: %w", id, err)
	}
	if loc == nil || !loc.IsActive {
		e := domain.NotFound("ubicación", id)
		e.Field = field
		return nil, e
	}
	b.checked[id] = loc
	return loc, nil
}

func (b *bodyBuilder) product(ctx context.Context, field, id string) error {
	if id == "" {
		return domain.Validation(field+".product_id", "la línea no tiene producto")
	}
	if _, ok := b.products[id]; ok {
		return nil
	}
	p, err := b.repos.Products.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("producto %s: %w", id, err)
	}
	if p == nil || !p.IsActive {
		e := domain.NotFound("producto", id)
		e.Field = field + ".product_id"
		return e
	}
	b.products[id] = struct{}{}
	return nil
}

func positive(field string, q *decimal.Decimal) error {
	if q == nil || !q.IsPositive() {
		return domain.Validation(field, "la cantidad debe ser mayor que cero")
	}
	return storable(field, *q)
}

// storable: la cantidad cabe en NUMERIC(18,4) sin redondeo.
func storable(field string, q decimal.Decimal) error {
	if !q.Equal(q.Truncate(entity.QuantityScale)) {
		return domain.Validation(field, "la cantidad admite como máximo %d decimales", entity.QuantityScale)
	}
	if q.Abs().GreaterThanOrEqual(entity.MaxQuantity) {
		return domain.Validation(field, "la cantidad debe ser menor que %s", entity.MaxQuantity.String())
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
