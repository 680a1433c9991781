package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
)

// SlipUseCase genera el comprobante PDF de un documento (solo lectura).
type SlipUseCase struct {
	docRepo       repository.DocumentRepository
	productRepo   repository.ProductRepository
	locationRepo  repository.LocationRepository
	warehouseRepo repository.WarehouseRepository
	generator     SlipGenerator
}

// NewSlipUseCase construye el caso de uso inyectando todas sus dependencias.
func NewSlipUseCase(
	docRepo repository.DocumentRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	warehouseRepo repository.WarehouseRepository,
	generator SlipGenerator,
) *SlipUseCase {
	return &SlipUseCase{
		docRepo:       docRepo,
		productRepo:   productRepo,
		locationRepo:  locationRepo,
		warehouseRepo: warehouseRepo,
		generator:     generator,
	}
}

// Render devuelve los bytes del PDF y un nombre de archivo derivado de la referencia.
func (uc *SlipUseCase) Render(ctx context.Context, id string) (pdfBytes []byte, filename string, err error) {
	// ── 1. Cargar documento ───────────────────────────────────────────────────
	doc, err := uc.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: obtener documento: %w", err)
	}
	if doc == nil {
		return nil, "", domain.NotFound("documento", id)
	}
	resp, err := presentDocument(doc)
	if err != nil {
		return nil, "", err
	}

	// ── 2. Nombres legibles de productos y ubicaciones ────────────────────────
	names := SlipNames{Products: map[string]string{}, Locations: map[string]string{}}
	locIDs := make([]string, 0, len(resp.Lines)*2)
	for _, l := range resp.Lines {
		if _, ok := names.Products[l.ProductID]; !ok {
			name := "Producto " + l.ProductID // fallback
			if p, pErr := uc.productRepo.GetByID(ctx, l.ProductID); pErr == nil && p != nil {
				name = p.SKU + " · " + p.Name
			}
			names.Products[l.ProductID] = name
		}
		locIDs = append(locIDs, l.LocationID, l.SourceLocationID, l.DestinationLocationID)
	}
	for _, locID := range locIDs {
		if locID == "" {
			continue
		}
		if _, ok := names.Locations[locID]; ok {
			continue
		}
		names.Locations[locID] = locID
		if loc, lErr := uc.locationRepo.GetByID(ctx, locID); lErr == nil && loc != nil {
			names.Locations[locID] = loc.WarehouseCode + "/" + loc.Name
			if names.Warehouse == "" {
				names.Warehouse = loc.WarehouseName
			}
		}
	}
	var whID string
	switch {
	case resp.Receipt != nil:
		whID = resp.Receipt.WarehouseID
	case resp.Delivery != nil:
		whID = resp.Delivery.WarehouseID
	}
	if whID != "" {
		if wh, wErr := uc.warehouseRepo.GetByID(ctx, whID); wErr == nil && wh != nil {
			names.Warehouse = wh.Name
		}
	}

	// ── 3. Generar PDF ────────────────────────────────────────────────────────
	pdfBytes, err = uc.generator.Generate(ctx, resp, names)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: generación fallida: %w", err)
	}
	filename = strings.ReplaceAll(doc.Code, "/", "_") + ".pdf"
	return pdfBytes, filename, nil
}
