package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockops-api/internal/application/dto"
	"github.com/jhoicas/stockops-api/internal/application/inventory"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/infrastructure/memory"
	"github.com/jhoicas/stockops-api/pkg/logger"
)

const (
	user = "user-1"
	wh1  = "W1"
	wh2  = "W2"
	loc1 = "L1" // W1 "Stock"
	loc2 = "L2" // W1 "Zona B"
	loc3 = "L3" // W2 "Principal"
)

type fixture struct {
	store    *memory.Store
	docs     *inventory.DocumentUseCase
	validate *inventory.ValidateUseCase
	quants   *inventory.QuantityService
	ledger   *inventory.LedgerService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.AddWarehouse(entity.Warehouse{ID: wh1, Code: "WH", Name: "Bodega Central", IsActive: true})
	store.AddWarehouse(entity.Warehouse{ID: wh2, Code: "WH2", Name: "Bodega Norte", IsActive: true})
	store.AddLocation(entity.Location{ID: "L0", WarehouseID: wh1, Name: "A Muelle", IsActive: false})
	store.AddLocation(entity.Location{ID: loc1, WarehouseID: wh1, Name: "Stock", IsActive: true})
	store.AddLocation(entity.Location{ID: loc2, WarehouseID: wh1, Name: "Zona B", IsActive: true})
	store.AddLocation(entity.Location{ID: loc3, WarehouseID: wh2, Name: "Principal", IsActive: true})
	store.AddProduct(entity.Product{ID: "P1", SKU: "SKU-1", Name: "Tornillo", Category: "ferreteria", IsActive: true})
	store.AddProduct(entity.Product{ID: "P2", SKU: "SKU-2", Name: "Tuerca", Category: "ferreteria", IsActive: true})
	store.AddProduct(entity.Product{ID: "P3", SKU: "SKU-3", Name: "Pintura", Category: "acabados", IsActive: true})
	store.AddProduct(entity.Product{ID: "P9", SKU: "SKU-9", Name: "Descontinuado", IsActive: false})

	log := logger.New(logger.Config{Env: "test", Level: "error"})
	repos := store.Repos()
	return &fixture{
		store:    store,
		docs:     inventory.NewDocumentUseCase(store, repos.Documents, log),
		validate: inventory.NewValidateUseCase(store, inventory.NoopMetrics, log),
		quants:   inventory.NewQuantityService(repos.Quants, repos.Products, decimal.Zero),
		ledger:   inventory.NewLedgerService(repos.Moves, 0),
	}
}

func (f *fixture) create(t *testing.T, kind entity.DocumentKind, in dto.CreateDocumentRequest) *dto.DocumentResponse {
	t.Helper()
	doc, err := f.docs.CreateDraft(context.Background(), user, kind, in)
	require.NoError(t, err)
	return doc
}

func (f *fixture) qty(productID, locationID string) decimal.Decimal {
	return f.store.Quantity(productID, locationID)
}

func d(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func dp(n int64) *decimal.Decimal {
	v := decimal.NewFromInt(n)
	return &v
}

func receipt(lines ...dto.DocumentLineRequest) dto.CreateDocumentRequest {
	return dto.CreateDocumentRequest{WarehouseID: wh1, SupplierName: "Proveedor S.A.", Lines: lines}
}

func delivery(lines ...dto.DocumentLineRequest) dto.CreateDocumentRequest {
	return dto.CreateDocumentRequest{WarehouseID: wh1, CustomerName: "Cliente Final", Lines: lines}
}

func transfer(src, dst string, lines ...dto.DocumentLineRequest) dto.CreateDocumentRequest {
	return dto.CreateDocumentRequest{SourceLocationID: src, DestinationLocationID: dst, Lines: lines}
}

func adjustment(location string, lines ...dto.DocumentLineRequest) dto.CreateDocumentRequest {
	return dto.CreateDocumentRequest{LocationID: location, Reason: "conteo cíclico", Lines: lines}
}
