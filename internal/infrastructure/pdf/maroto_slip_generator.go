// Package pdf genera el comprobante imprimible de un documento de inventario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de documento     │  Referencia + Estado        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS: Bodega / Ubicaciones / Tercero / Fechas              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Producto | Origen | Destino | Cantidad           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con la referencia + firmas                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockops-api/internal/application/dto"
	"github.com/jhoicas/stockops-api/internal/application/inventory"
)

var _ inventory.SlipGenerator = (*MarotoSlipGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var kindTitles = map[string]string{
	"RECEIPT":    "RECEPCIÓN DE MERCANCÍA",
	"DELIVERY":   "DESPACHO",
	"TRANSFER":   "TRASLADO INTERNO",
	"ADJUSTMENT": "AJUSTE DE INVENTARIO",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoSlipGenerator implementa inventory.SlipGenerator usando Maroto v2.
type MarotoSlipGenerator struct {
	author string
}

// NewMarotoSlipGenerator construye el generador; author aparece como autor del PDF.
func NewMarotoSlipGenerator(author string) *MarotoSlipGenerator {
	return &MarotoSlipGenerator{author: author}
}

// Generate genera el PDF y devuelve sus bytes.
func (g *MarotoSlipGenerator) Generate(_ context.Context, doc *dto.DocumentResponse, names inventory.SlipNames) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(doc.Code, true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(detailsRow(doc, names))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(doc.Kind))
	for _, r := range tableLineRows(doc, names) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(doc))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: tipo de documento (izq) y referencia + estado (der).
func headerRow(doc *dto.DocumentResponse) core.Row {
	title := nonEmpty(kindTitles[doc.Kind], doc.Kind)
	return row.New(18).Add(
		col.New(7).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Creado: "+doc.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(doc.Code, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Estado: "+doc.Status, props.Text{
				Size: 9, Align: align.Right, Top: 8, Color: colorPrimary,
			}),
		),
	)
}

// detailsRow: bodega, tercero, responsable y fechas.
func detailsRow(doc *dto.DocumentResponse, names inventory.SlipNames) core.Row {
	var partner string
	switch {
	case doc.Receipt != nil:
		partner = "Proveedor: " + nonEmpty(doc.Receipt.SupplierName, "-")
	case doc.Delivery != nil:
		partner = "Cliente: " + nonEmpty(doc.Delivery.CustomerName, "-")
	case doc.Transfer != nil:
		partner = fmt.Sprintf("Origen: %s   |   Destino: %s",
			locName(names, doc.Transfer.SourceLocationID), locName(names, doc.Transfer.DestinationLocationID))
	case doc.Adjustment != nil:
		partner = fmt.Sprintf("Ubicación: %s   |   Motivo: %s",
			locName(names, doc.Adjustment.LocationID), nonEmpty(doc.Adjustment.Reason, "-"))
	}

	scheduled := "-"
	if doc.ScheduledDate != nil {
		scheduled = doc.ScheduledDate.Format("02/01/2006")
	}
	validated := "-"
	if doc.ValidatedAt != nil {
		validated = doc.ValidatedAt.Format("02/01/2006 15:04")
	}

	return row.New(20).Add(
		col.New(12).Add(
			text.New("Bodega: "+nonEmpty(names.Warehouse, "-"), props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 1,
			}),
			text.New(partner, props.Text{Size: 8, Top: 6, Color: colorGray}),
			text.New(fmt.Sprintf("Responsable: %s   |   Programado: %s   |   Validado: %s",
				nonEmpty(doc.Responsible, "-"), scheduled, validated,
			), props.Text{Size: 8, Top: 11, Color: colorGray}),
			text.New(nonEmpty(doc.Notes, ""), props.Text{Size: 8, Top: 16, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow(kind string) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	qtyLabel := "Cantidad"
	if kind == "ADJUSTMENT" {
		qtyLabel = "Contado / Anterior"
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("#", 1, align.Center),
		h("Producto", 5, align.Left),
		h("Origen", 2, align.Left),
		h("Destino", 2, align.Left),
		h(qtyLabel, 2, align.Right),
	)
}

// tableLineRows: una fila por línea del documento.
func tableLineRows(doc *dto.DocumentResponse, names inventory.SlipNames) []core.Row {
	result := make([]core.Row, 0, len(doc.Lines))
	for _, l := range doc.Lines {
		from, to := l.SourceLocationID, l.DestinationLocationID
		if doc.Receipt != nil {
			to = l.LocationID
		}
		qty := formatQty(l.Quantity)
		switch {
		case doc.Receipt != nil:
			qty = formatQty(l.OrderedQty)
			if l.ReceivedQty != nil {
				qty = formatQty(l.ReceivedQty) + " de " + qty
			}
		case doc.Adjustment != nil:
			qty = formatQty(l.CountedQty) + " / " + formatQty(l.PreviousQty)
			if l.Delta != nil && l.Delta.IsNegative() {
				from = l.LocationID
			} else {
				to = l.LocationID
			}
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(l.Seq), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(names.Products[l.ProductID], props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(locName(names, from), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(locName(names, to), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(qty, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// footerRow: QR con la referencia + espacio de firmas.
func footerRow(doc *dto.DocumentResponse) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(doc.Code, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Entregado por: ______________________", props.Text{Size: 9, Top: 8, Left: 3}),
			text.New("Recibido por:  ______________________", props.Text{Size: 9, Top: 20, Left: 3}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func locName(names inventory.SlipNames, id string) string {
	if id == "" {
		return "-"
	}
	return nonEmpty(names.Locations[id], id)
}

func formatQty(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.String()
}
