package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockops-api/internal/application/dto"
	"github.com/jhoicas/stockops-api/internal/application/inventory"
	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
)

func validated(t *testing.T, f *fixture, kind entity.DocumentKind, in dto.CreateDocumentRequest) *dto.DocumentResponse {
	t.Helper()
	doc := f.create(t, kind, in)
	_, err := f.validate.Validate(context.Background(), user, doc.ID)
	require.NoError(t, err)
	return doc
}

func TestStockPerWarehouse_AgregaPorBodega(t *testing.T) {
	f := newFixture(t)
	f.store.SetQuantity("P1", loc1, d(4))
	f.store.SetQuantity("P1", loc2, d(6))
	f.store.SetQuantity("P1", loc3, d(1))

	got, err := f.quants.StockPerWarehouse(context.Background(), "P1")
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(d(11)))
	assert.True(t, got.StockPerWarehouse[wh1].Equal(d(10)))
	assert.True(t, got.StockPerWarehouse[wh2].Equal(d(1)))
	assert.Len(t, got.Locations, 3)

	total, err := f.quants.TotalForProduct(context.Background(), "P1")
	require.NoError(t, err)
	assert.True(t, total.Equal(d(11)))

	_, err = f.quants.StockPerWarehouse(context.Background(), "PX")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLowStockProducts_BajoUmbral(t *testing.T) {
	f := newFixture(t)
	f.store.SetQuantity("P1", loc1, d(25))
	f.store.SetQuantity("P2", loc1, d(3))

	got, err := f.quants.LowStockProducts(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, got, 2, "P2 con 3 y P3 sin stock; P9 está inactivo")
	assert.Equal(t, "P3", got[0].ProductID)
	assert.True(t, got[0].OutOfStock)
	assert.Equal(t, "P2", got[1].ProductID)

	byCategory, err := f.quants.LowStockProducts(context.Background(), "", "acabados")
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "P3", byCategory[0].ProductID)
}

func TestLedger_MasRecientePrimeroYFiltrosEnMemoria(t *testing.T) {
	f := newFixture(t)
	rec := validated(t, f, entity.KindReceipt, receipt(dto.DocumentLineRequest{ProductID: "P1", LocationID: loc1, OrderedQty: dp(10)}))
	validated(t, f, entity.KindTransfer, transfer(loc1, loc3, dto.DocumentLineRequest{ProductID: "P1", Quantity: dp(4)}))
	validated(t, f, entity.KindReceipt, receipt(dto.DocumentLineRequest{ProductID: "P2", LocationID: loc2, OrderedQty: dp(1)}))

	all, err := f.ledger.Query(context.Background(), dto.LedgerQueryRequest{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "P2", all[0].ProductID)
	assert.Equal(t, rec.Code, all[2].Reference)
	assert.Equal(t, "Tornillo", all[2].ProductName)

	byWarehouse, err := f.ledger.Query(context.Background(), dto.LedgerQueryRequest{WarehouseID: wh2})
	require.NoError(t, err)
	require.Len(t, byWarehouse, 1, "solo el traslado toca la bodega 2")
	assert.Equal(t, "TRANSFER", byWarehouse[0].MoveType)
	assert.Equal(t, wh1, byWarehouse[0].FromWarehouseID)
	assert.Equal(t, wh2, byWarehouse[0].ToWarehouseID)

	byLocation, err := f.ledger.Query(context.Background(), dto.LedgerQueryRequest{LocationID: loc1, ProductID: "P1"})
	require.NoError(t, err)
	assert.Len(t, byLocation, 2)

	byType, err := f.ledger.Query(context.Background(), dto.LedgerQueryRequest{MoveType: "RECEIPT"})
	require.NoError(t, err)
	assert.Len(t, byType, 2)

	_, err = f.ledger.Query(context.Background(), dto.LedgerQueryRequest{MoveType: "SALE"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLedger_TopeSeAplicaAntesDelFiltroEnMemoria(t *testing.T) {
	f := newFixture(t)
	validated(t, f, entity.KindReceipt, dto.CreateDocumentRequest{WarehouseID: wh2, Lines: []dto.DocumentLineRequest{{ProductID: "P1", OrderedQty: dp(1)}}})
	validated(t, f, entity.KindReceipt, receipt(dto.DocumentLineRequest{ProductID: "P1", LocationID: loc1, OrderedQty: dp(1)}))
	validated(t, f, entity.KindReceipt, receipt(dto.DocumentLineRequest{ProductID: "P1", LocationID: loc1, OrderedQty: dp(1)}))

	capped := inventory.NewLedgerService(f.store.Repos().Moves, 2)
	got, err := capped.Query(context.Background(), dto.LedgerQueryRequest{WarehouseID: wh2})
	require.NoError(t, err)
	assert.Empty(t, got, "el movimiento de la bodega 2 quedó fuera de las 2 filas más recientes")

	got, err = capped.Query(context.Background(), dto.LedgerQueryRequest{Limit: 50})
	require.NoError(t, err)
	assert.Len(t, got, 2, "el límite pedido no supera el tope")
}

func TestLedger_DateToConHoraExplicitaNoSeExtiende(t *testing.T) {
	f := newFixture(t)
	validated(t, f, entity.KindReceipt, receipt(dto.DocumentLineRequest{ProductID: "P1", LocationID: loc1, OrderedQty: dp(2)}))
	all, err := f.ledger.Query(context.Background(), dto.LedgerQueryRequest{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	midnight := all[0].CreatedAt.Truncate(24 * time.Hour)
	if all[0].CreatedAt.Equal(midnight) {
		t.Skip("movimiento creado justo a medianoche")
	}

	dateOnly, err := f.ledger.Query(context.Background(), dto.LedgerQueryRequest{DateTo: &dto.QueryDate{At: midnight, DateOnly: true}})
	require.NoError(t, err)
	assert.Len(t, dateOnly, 1, "una fecha sin hora cubre todo el día")

	exact, err := f.ledger.Query(context.Background(), dto.LedgerQueryRequest{DateTo: &dto.QueryDate{At: midnight}})
	require.NoError(t, err)
	assert.Empty(t, exact, "T00:00:00Z explícito es un instante, no un día")
}
