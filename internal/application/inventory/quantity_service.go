package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockops-api/internal/application/dto"
	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
)

// DefaultLowStockThreshold umbral por defecto de stock bajo.
var DefaultLowStockThreshold = decimal.NewFromInt(10)

// QuantityService lecturas del almacén de cantidades. No tiene camino de escritura.
type QuantityService struct {
	quantRepo   repository.StockQuantRepository
	productRepo repository.ProductRepository
	threshold   decimal.Decimal
}

// NewQuantityService construye el servicio. threshold <= 0 usa DefaultLowStockThreshold.
func NewQuantityService(quantRepo repository.StockQuantRepository, productRepo repository.ProductRepository, threshold decimal.Decimal) *QuantityService {
	if !threshold.IsPositive() {
		threshold = DefaultLowStockThreshold
	}
	return &QuantityService{quantRepo: quantRepo, productRepo: productRepo, threshold: threshold}
}

// Get cantidad actual de (producto, ubicación); cero si no hay registro.
func (s *QuantityService) Get(ctx context.Context, productID, locationID string) (decimal.Decimal, error) {
	return s.quantRepo.Get(ctx, productID, locationID)
}

// TotalForProduct suma de todas las ubicaciones.
func (s *QuantityService) TotalForProduct(ctx context.Context, productID string) (decimal.Decimal, error) {
	return s.quantRepo.TotalForProduct(ctx, productID)
}

// StockByLocation cantidades del producto por ubicación.
func (s *QuantityService) StockByLocation(ctx context.Context, productID string) ([]dto.LocationStockDTO, error) {
	rows, err := s.quantRepo.List(ctx, repository.QuantFilter{ProductID: productID})
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationStockDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.LocationStockDTO{
			LocationID:    r.LocationID,
			LocationName:  r.LocationName,
			WarehouseID:   r.WarehouseID,
			WarehouseName: r.WarehouseName,
			Quantity:      r.Quantity,
		})
	}
	return out, nil
}

// StockPerWarehouse vista de stock de un producto: total, por bodega y por ubicación.
func (s *QuantityService) StockPerWarehouse(ctx context.Context, productID string) (*dto.ProductStockResponse, error) {
	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("producto", productID)
	}
	locs, err := s.StockByLocation(ctx, productID)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductStockResponse{
		ProductID:         productID,
		Total:             decimal.Zero,
		StockPerWarehouse: make(map[string]decimal.Decimal),
		Locations:         locs,
	}
	for _, l := range locs {
		resp.Total = resp.Total.Add(l.Quantity)
		resp.StockPerWarehouse[l.WarehouseID] = resp.StockPerWarehouse[l.WarehouseID].Add(l.Quantity)
	}
	return resp, nil
}

// LowStockProducts productos activos cuyo total (en la bodega, si se indica) está bajo el umbral.
func (s *QuantityService) LowStockProducts(ctx context.Context, warehouseID, category string) ([]dto.LowStockItemDTO, error) {
	products, err := s.productRepo.ListActive(ctx, category)
	if err != nil {
		return nil, err
	}
	rows, err := s.quantRepo.List(ctx, repository.QuantFilter{WarehouseID: warehouseID, Category: category})
	if err != nil {
		return nil, err
	}
	totals := make(map[string]decimal.Decimal, len(products))
	for _, r := range rows {
		totals[r.ProductID] = totals[r.ProductID].Add(r.Quantity)
	}

	out := make([]dto.LowStockItemDTO, 0)
	for _, p := range products {
		total := totals[p.ID]
		if !total.LessThan(s.threshold) {
			continue
		}
		out = append(out, dto.LowStockItemDTO{
			ProductID:   p.ID,
			SKU:         p.SKU,
			ProductName: p.Name,
			Category:    p.Category,
			Total:       total,
			OutOfStock:  total.IsZero(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.LessThan(out[j].Total)
		}
		return out[i].SKU < out[j].SKU
	})
	return out, nil
}
