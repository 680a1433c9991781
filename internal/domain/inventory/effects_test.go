package inventory_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/inventory"
)

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func qtyPtr(n int64) *decimal.Decimal {
	d := decimal.NewFromInt(n)
	return &d
}

func key(p, l string) entity.QuantKey { return entity.QuantKey{ProductID: p, LocationID: l} }

func TestEffects_RecepcionUsaRecibidaSiEstaInformada(t *testing.T) {
	body := &entity.ReceiptBody{Lines: []entity.ReceiptLine{
		{Seq: 1, ProductID: "P1", LocationID: "L1", OrderedQty: qty(12), ReceivedQty: qtyPtr(10)},
		{Seq: 2, ProductID: "P2", LocationID: "L1", OrderedQty: qty(5)},
		{Seq: 3, ProductID: "P3", LocationID: "L1", OrderedQty: qty(5), ReceivedQty: qtyPtr(0)},
	}}

	effects, err := inventory.Effects(body)
	require.NoError(t, err)
	require.Len(t, effects, 2, "la línea con recibido 0 no debe producir efecto")

	assert.True(t, effects[0].Quantity.Equal(qty(10)))
	assert.Equal(t, "L1", effects[0].ToLocationID)
	assert.Empty(t, effects[0].FromLocationID)
	assert.True(t, effects[1].Quantity.Equal(qty(5)), "sin recibido se usa la cantidad pedida")
}

func TestEffects_TrasladoRestaYSuma(t *testing.T) {
	body := &entity.TransferBody{Lines: []entity.TransferLine{
		{Seq: 1, ProductID: "P1", SourceLocationID: "L1", DestinationLocationID: "L2", Quantity: qty(5)},
	}}
	effects, err := inventory.Effects(body)
	require.NoError(t, err)
	require.Len(t, effects, 1)
	assert.Equal(t, "L1", effects[0].FromLocationID)
	assert.Equal(t, "L2", effects[0].ToLocationID)
}

func TestEffects_AjusteSegunSignoDelDelta(t *testing.T) {
	body := &entity.AdjustmentBody{LocationID: "L1", Lines: []entity.AdjustmentLine{
		{Seq: 1, ProductID: "P1", CountedQty: qty(8), PreviousQty: qty(10)},
		{Seq: 2, ProductID: "P2", CountedQty: qty(15), PreviousQty: qty(10)},
		{Seq: 3, ProductID: "P3", CountedQty: qty(4), PreviousQty: qty(4)},
	}}
	effects, err := inventory.Effects(body)
	require.NoError(t, err)
	require.Len(t, effects, 2, "delta cero no produce efecto")

	assert.Equal(t, "L1", effects[0].FromLocationID)
	assert.True(t, effects[0].Quantity.Equal(qty(2)))
	assert.Equal(t, "L1", effects[1].ToLocationID)
	assert.True(t, effects[1].Quantity.Equal(qty(5)))
}

func TestKeys_OrdenadasSinDuplicados(t *testing.T) {
	effects := []inventory.Effect{
		{ProductID: "P2", FromLocationID: "L2", ToLocationID: "L1", Quantity: qty(1)},
		{ProductID: "P1", FromLocationID: "L2", Quantity: qty(1)},
		{ProductID: "P2", FromLocationID: "L2", Quantity: qty(1)},
	}
	keys := inventory.Keys(effects)
	assert.Equal(t, []entity.QuantKey{key("P1", "L2"), key("P2", "L1"), key("P2", "L2")}, keys)
}

func TestPlan_ReduccionesAcumuladasSobreLaMismaClave(t *testing.T) {
	effects := []inventory.Effect{
		{LineSeq: 1, ProductID: "P1", FromLocationID: "L1", Quantity: qty(6)},
		{LineSeq: 2, ProductID: "P1", FromLocationID: "L1", Quantity: qty(6)},
	}
	_, err := inventory.Plan(effects, map[entity.QuantKey]decimal.Decimal{key("P1", "L1"): qty(10)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "P1", de.ProductID)
	assert.Equal(t, "L1", de.LocationID)
}

func TestPlan_EntradaPreviaHabilitaSalidaPosterior(t *testing.T) {
	effects := []inventory.Effect{
		{LineSeq: 1, ProductID: "P1", FromLocationID: "L1", ToLocationID: "L2", Quantity: qty(4)},
		{LineSeq: 2, ProductID: "P1", FromLocationID: "L2", ToLocationID: "L3", Quantity: qty(4)},
	}
	deltas, err := inventory.Plan(effects, map[entity.QuantKey]decimal.Decimal{key("P1", "L1"): qty(4)})
	require.NoError(t, err)
	assert.True(t, deltas[key("P1", "L1")].Equal(qty(-4)))
	assert.True(t, deltas[key("P1", "L2")].IsZero())
	assert.True(t, deltas[key("P1", "L3")].Equal(qty(4)))
}

func TestPlan_ClaveAusenteEsCero(t *testing.T) {
	effects := []inventory.Effect{{LineSeq: 1, ProductID: "P9", FromLocationID: "L1", Quantity: qty(1)}}
	_, err := inventory.Plan(effects, nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}
