package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockops-api/internal/application/dto"
	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
)

// ── CreateDraft ───────────────────────────────────────────────────────────────

func TestCreateDraft_ReferenciasCorrelativasPorBodegaYTipo(t *testing.T) {
	f := newFixture(t)
	line := dto.DocumentLineRequest{ProductID: "P1", OrderedQty: dp(1)}

	a := f.create(t, entity.KindReceipt, receipt(line))
	b := f.create(t, entity.KindReceipt, receipt(line))
	c := f.create(t, entity.KindDelivery, delivery(dto.DocumentLineRequest{ProductID: "P1", Quantity: dp(1)}))
	e := f.create(t, entity.KindAdjustment, adjustment(loc3, dto.DocumentLineRequest{ProductID: "P1", CountedQty: dp(1)}))

	assert.Equal(t, "WH/IN/00001", a.Code)
	assert.Equal(t, "WH/IN/00002", b.Code)
	assert.Equal(t, "WH/OUT/00001", c.Code)
	assert.Equal(t, "WH2/ADJ/00001", e.Code)
	assert.Equal(t, "DRAFT", a.Status)
	assert.Equal(t, user, a.CreatedBy)
}

func TestCreateDraft_UbicacionPorDefectoEsLaPrimeraActiva(t *testing.T) {
	f := newFixture(t)
	doc := f.create(t, entity.KindDelivery, delivery(dto.DocumentLineRequest{ProductID: "P1", Quantity: dp(1)}))

	require.Len(t, doc.Lines, 1)
	assert.Equal(t, loc1, doc.Lines[0].SourceLocationID, "A Muelle está inactiva; Stock es la primera activa")
}

func TestCreateDraft_BodegaSinUbicacionesActivas(t *testing.T) {
	f := newFixture(t)
	f.store.AddWarehouse(entity.Warehouse{ID: "W3", Code: "VACIA", Name: "Vacía", IsActive: true})

	_, err := f.docs.CreateDraft(context.Background(), user, entity.KindReceipt, dto.CreateDocumentRequest{
		WarehouseID: "W3",
		Lines:       []dto.DocumentLineRequest{{ProductID: "P1", OrderedQty: dp(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateDraft_AjusteTomaCantidadActualComoAnterior(t *testing.T) {
	f := newFixture(t)
	f.store.SetQuantity("P1", loc1, d(7))

	doc := f.create(t, entity.KindAdjustment, adjustment(loc1, dto.DocumentLineRequest{ProductID: "P1", CountedQty: dp(5)}))

	require.Len(t, doc.Lines, 1)
	require.NotNil(t, doc.Lines[0].PreviousQty)
	assert.True(t, doc.Lines[0].PreviousQty.Equal(d(7)))
	assert.True(t, doc.Lines[0].Delta.Equal(d(-2)))
	assert.True(t, f.qty("P1", loc1).Equal(d(7)), "crear un borrador no mueve stock")
}

func TestCreateDraft_ErroresDeValidacion(t *testing.T) {
	cases := []struct {
		name string
		kind entity.DocumentKind
		in   dto.CreateDocumentRequest
		want error
	}{
		{"sin líneas", entity.KindReceipt, receipt(), domain.ErrValidation},
		{"línea sin producto", entity.KindReceipt, receipt(dto.DocumentLineRequest{OrderedQty: dp(1)}), domain.ErrValidation},
		{"cantidad cero", entity.KindDelivery, delivery(dto.DocumentLineRequest{ProductID: "P1", Quantity: dp(0)}), domain.ErrValidation},
		{"cantidad negativa", entity.KindTransfer, transfer(loc1, loc2, dto.DocumentLineRequest{ProductID: "P1", Quantity: dp(-1)}), domain.ErrValidation},
		{"traslado mismo origen y destino", entity.KindTransfer, transfer(loc1, loc1, dto.DocumentLineRequest{ProductID: "P1", Quantity: dp(1)}), domain.ErrValidation},
		{"traslado sin destino", entity.KindTransfer, transfer(loc1, "", dto.DocumentLineRequest{ProductID: "P1", Quantity: dp(1)}), domain.ErrValidation},
		{"ajuste sin ubicación", entity.KindAdjustment, adjustment("", dto.DocumentLineRequest{ProductID: "P1", CountedQty: dp(1)}), domain.ErrValidation},
		{"ajuste sin contado", entity.KindAdjustment, adjustment(loc1, dto.DocumentLineRequest{ProductID: "P1"}), domain.ErrValidation},
		{"despacho sin bodega ni ubicación", entity.KindDelivery, dto.CreateDocumentRequest{Lines: []dto.DocumentLineRequest{{ProductID: "P1", Quantity: dp(1)}}}, domain.ErrValidation},
		{"ubicación de otra bodega", entity.KindReceipt, receipt(dto.DocumentLineRequest{ProductID: "P1", LocationID: loc3, OrderedQty: dp(1)}), domain.ErrValidation},
		{"producto inactivo", entity.KindReceipt, receipt(dto.DocumentLineRequest{ProductID: "P9", OrderedQty: dp(1)}), domain.ErrNotFound},
		{"ubicación inexistente", entity.KindTransfer, transfer(loc1, "LX", dto.DocumentLineRequest{ProductID: "P1", Quantity: dp(1)}), domain.ErrNotFound},
		{"bodega inexistente", entity.KindReceipt, dto.CreateDocumentRequest{WarehouseID: "WX", Lines: []dto.DocumentLineRequest{{ProductID: "P1", OrderedQty: dp(1)}}}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.docs.CreateDraft(context.Background(), user, tc.kind, tc.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreateDraft_CantidadDebeCaberEnLaColumna(t *testing.T) {
	q := func(s string) *decimal.Decimal {
		v := decimal.RequireFromString(s)
		return &v
	}
	cases := []struct {
		name  string
		kind  entity.DocumentKind
		in    dto.CreateDocumentRequest
		field string
	}{
		{"cinco decimales se redondearían a cero", entity.KindDelivery, delivery(dto.DocumentLineRequest{ProductID: "P1", Quantity: q("0.00004")}), "lines[0].quantity"},
		{"recibido con cinco decimales", entity.KindReceipt, receipt(dto.DocumentLineRequest{ProductID: "P1", OrderedQty: dp(2), ReceivedQty: q("1.00005")}), "lines[0].received_qty"},
		{"pedido fuera de rango", entity.KindReceipt, receipt(dto.DocumentLineRequest{ProductID: "P1", OrderedQty: q("100000000000000")}), "lines[0].ordered_qty"},
		{"traslado con cinco decimales", entity.KindTransfer, transfer(loc1, loc2, dto.DocumentLineRequest{ProductID: "P1", Quantity: q("3.12345")}), "lines[0].quantity"},
		{"contado con cinco decimales", entity.KindAdjustment, adjustment(loc1, dto.DocumentLineRequest{ProductID: "P1", CountedQty: q("2.00001")}), "lines[0].counted_qty"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.docs.CreateDraft(context.Background(), user, tc.kind, tc.in)
			require.ErrorIs(t, err, domain.ErrValidation)
			var de *domain.Error
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tc.field, de.Field)
		})
	}

	t.Run("ceros a la derecha y máximo admitido", func(t *testing.T) {
		f := newFixture(t)
		doc := f.create(t, entity.KindReceipt, receipt(dto.DocumentLineRequest{ProductID: "P1", OrderedQty: q("99999999999999.9999"), ReceivedQty: q("1.50000")}))
		require.Len(t, doc.Lines, 1)
		require.NotNil(t, doc.Lines[0].ReceivedQty)
		assert.True(t, doc.Lines[0].ReceivedQty.Equal(decimal.RequireFromString("1.5")))
	})
}

// ── Update ────────────────────────────────────────────────────────────────────

func TestUpdate_ReemplazaLineasEnDRAFT(t *testing.T) {
	f := newFixture(t)
	doc := f.create(t, entity.KindReceipt, receipt(dto.DocumentLineRequest{ProductID: "P1", OrderedQty: dp(1)}))

	lines := []dto.DocumentLineRequest{
		{ProductID: "P2", LocationID: loc2, OrderedQty: dp(4)},
		{ProductID: "P3", OrderedQty: dp(2), ReceivedQty: dp(1)},
	}
	notes := "llega en dos camiones"
	got, err := f.docs.Update(context.Background(), doc.ID, dto.UpdateDocumentRequest{Notes: &notes, Lines: &lines})
	require.NoError(t, err)

	assert.Equal(t, doc.Code, got.Code, "la referencia no cambia")
	assert.Equal(t, notes, got.Notes)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, loc2, got.Lines[0].LocationID)
	assert.Equal(t, loc1, got.Lines[1].LocationID)

	reloaded, err := f.docs.Get(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Lines, 2)
}

func TestUpdate_LineasFueraDeDRAFTEsEstadoInvalido(t *testing.T) {
	f := newFixture(t)
	doc := f.create(t, entity.KindReceipt, receipt(dto.DocumentLineRequest{ProductID: "P1", OrderedQty: dp(1)}))
	_, err := f.docs.SetStatus(context.Background(), doc.ID, entity.StatusWaiting)
	require.NoError(t, err)

	lines := []dto.DocumentLineRequest{{ProductID: "P2", OrderedQty: dp(4)}}
	_, err = f.docs.Update(context.Background(), doc.ID, dto.UpdateDocumentRequest{Lines: &lines})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	supplier := "Otro proveedor"
	got, err := f.docs.Update(context.Background(), doc.ID, dto.UpdateDocumentRequest{SupplierName: &supplier})
	require.NoError(t, err, "la cabecera se edita en cualquier estado no terminal")
	assert.Equal(t, supplier, got.Receipt.SupplierName)
	assert.Len(t, got.Lines, 1)
}

func TestUpdate_DocumentoValidadoNoAdmiteCambios(t *testing.T) {
	f := newFixture(t)
	doc := f.create(t, entity.KindReceipt, receipt(dto.DocumentLineRequest{ProductID: "P1", OrderedQty: dp(1)}))
	_, err := f.validate.Validate(context.Background(), user, doc.ID)
	require.NoError(t, err)

	notes := "tarde"
	_, err = f.docs.Update(context.Background(), doc.ID, dto.UpdateDocumentRequest{Notes: &notes})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Len(t, f.store.Moves(), 1)
}

func TestUpdate_CampoDeOtroTipoEsValidacion(t *testing.T) {
	f := newFixture(t)
	doc := f.create(t, entity.KindDelivery, delivery(dto.DocumentLineRequest{ProductID: "P1", Quantity: dp(1)}))

	reason := "rotura"
	_, err := f.docs.Update(context.Background(), doc.ID, dto.UpdateDocumentRequest{Reason: &reason})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ── Estados ───────────────────────────────────────────────────────────────────

func TestSetStatus_CambiosAdministrativos(t *testing.T) {
	f := newFixture(t)
	doc := f.create(t, entity.KindReceipt, receipt(dto.DocumentLineRequest{ProductID: "P1", OrderedQty: dp(1)}))

	for _, s := range []entity.DocumentStatus{entity.StatusReady, entity.StatusWaiting, entity.StatusDraft, entity.StatusDraft} {
		got, err := f.docs.SetStatus(context.Background(), doc.ID, s)
		require.NoError(t, err)
		assert.Equal(t, string(s), got.Status)
	}
	assert.True(t, f.qty("P1", loc1).IsZero())

	_, err := f.docs.SetStatus(context.Background(), doc.ID, entity.StatusDone)
	assert.ErrorIs(t, err, domain.ErrValidation, "DONE solo se alcanza validando")
}

func TestCancel_EstadosTerminales(t *testing.T) {
	f := newFixture(t)
	done := f.create(t, entity.KindReceipt, receipt(dto.DocumentLineRequest{ProductID: "P1", OrderedQty: dp(1)}))
	_, err := f.validate.Validate(context.Background(), user, done.ID)
	require.NoError(t, err)

	_, err = f.docs.Cancel(context.Background(), done.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.True(t, f.qty("P1", loc1).Equal(d(1)), "cancelar no revierte stock")

	draft := f.create(t, entity.KindReceipt, receipt(dto.DocumentLineRequest{ProductID: "P1", OrderedQty: dp(1)}))
	got, err := f.docs.Cancel(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "CANCELED", got.Status)

	_, err = f.docs.Cancel(context.Background(), draft.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.docs.SetStatus(context.Background(), draft.ID, entity.StatusReady)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ── Lectura ───────────────────────────────────────────────────────────────────

func TestList_FiltrosTipados(t *testing.T) {
	f := newFixture(t)
	r1 := f.create(t, entity.KindReceipt, dto.CreateDocumentRequest{WarehouseID: wh1, SupplierName: "Acme Ltda", Lines: []dto.DocumentLineRequest{{ProductID: "P1", OrderedQty: dp(1)}}})
	r2 := f.create(t, entity.KindReceipt, dto.CreateDocumentRequest{WarehouseID: wh2, SupplierName: "Otro", Lines: []dto.DocumentLineRequest{{ProductID: "P1", OrderedQty: dp(1)}}})
	f.create(t, entity.KindDelivery, delivery(dto.DocumentLineRequest{ProductID: "P1", Quantity: dp(1)}))
	_, err := f.docs.Cancel(context.Background(), r2.ID)
	require.NoError(t, err)

	all, err := f.docs.List(context.Background(), entity.KindReceipt, dto.ListDocumentsRequest{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, r2.ID, all[0].ID, "más reciente primero")

	byPartner, err := f.docs.List(context.Background(), entity.KindReceipt, dto.ListDocumentsRequest{Partner: "acme"})
	require.NoError(t, err)
	require.Len(t, byPartner, 1)
	assert.Equal(t, r1.ID, byPartner[0].ID)

	byStatus, err := f.docs.List(context.Background(), entity.KindReceipt, dto.ListDocumentsRequest{Status: "CANCELED"})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, r2.ID, byStatus[0].ID)

	byWarehouse, err := f.docs.List(context.Background(), entity.KindReceipt, dto.ListDocumentsRequest{WarehouseID: wh1})
	require.NoError(t, err)
	require.Len(t, byWarehouse, 1)
	assert.Equal(t, r1.ID, byWarehouse[0].ID)

	_, err = f.docs.List(context.Background(), entity.KindReceipt, dto.ListDocumentsRequest{Status: "ARCHIVED"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestList_DateToSinHoraIncluyeTodoElDia(t *testing.T) {
	f := newFixture(t)
	doc := f.create(t, entity.KindReceipt, receipt(dto.DocumentLineRequest{ProductID: "P1", OrderedQty: dp(1)}))
	day := doc.CreatedAt.Truncate(24 * time.Hour)

	sameDay, err := f.docs.List(context.Background(), entity.KindReceipt, dto.ListDocumentsRequest{
		DateFrom: &dto.QueryDate{At: day, DateOnly: true},
		DateTo:   &dto.QueryDate{At: day, DateOnly: true},
	})
	require.NoError(t, err)
	require.Len(t, sameDay, 1)
	assert.Equal(t, doc.ID, sameDay[0].ID)

	before, err := f.docs.List(context.Background(), entity.KindReceipt, dto.ListDocumentsRequest{
		DateTo: &dto.QueryDate{At: day.Add(-24 * time.Hour), DateOnly: true},
	})
	require.NoError(t, err)
	assert.Empty(t, before)

	_, err = f.docs.List(context.Background(), entity.KindReceipt, dto.ListDocumentsRequest{
		DateFrom: &dto.QueryDate{At: day, DateOnly: true},
		DateTo:   &dto.QueryDate{At: day.Add(-24 * time.Hour), DateOnly: true},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGet_PresentaCabeceraSegunTipo(t *testing.T) {
	f := newFixture(t)
	doc := f.create(t, entity.KindTransfer, transfer(loc1, loc3, dto.DocumentLineRequest{ProductID: "P1", Quantity: dp(2)}))

	got, err := f.docs.Get(context.Background(), doc.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Transfer)
	assert.Nil(t, got.Receipt)
	assert.Nil(t, got.Delivery)
	assert.Nil(t, got.Adjustment)
	assert.Equal(t, loc1, got.Transfer.SourceLocationID)
	assert.Equal(t, loc3, got.Lines[0].DestinationLocationID)

	_, err = f.docs.Get(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
