// Package inventory contiene las reglas puras del motor de stock: qué efecto tiene
// cada línea de un documento y si un conjunto de efectos cabe en el stock disponible.
package inventory

import (
	"fmt"
	"sort"

	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Effect es el movimiento que produce una línea al validar. Quantity > 0 siempre;
// FromLocationID resta, ToLocationID suma (uno o ambos presentes).
type Effect struct {
	LineSeq        int
	ProductID      string
	FromLocationID string
	ToLocationID   string
	Quantity       decimal.Decimal
}

// Effects calcula los efectos de un documento según su tipo.
// Las líneas sin efecto (recepción ≤ 0, ajuste con delta 0) no producen Effect.
func Effects(body entity.DocumentBody) ([]Effect, error) {
	switch b := body.(type) {
	case *entity.ReceiptBody:
		out := make([]Effect, 0, len(b.Lines))
		for _, l := range b.Lines {
			qty := l.EffectiveQty()
			if !qty.IsPositive() {
				continue
			}
			out = append(out, Effect{LineSeq: l.Seq, ProductID: l.ProductID, ToLocationID: l.LocationID, Quantity: qty})
		}
		return out, nil
	case *entity.DeliveryBody:
		out := make([]Effect, 0, len(b.Lines))
		for _, l := range b.Lines {
			out = append(out, Effect{LineSeq: l.Seq, ProductID: l.ProductID, FromLocationID: l.SourceLocationID, Quantity: l.Quantity})
		}
		return out, nil
	case *entity.TransferBody:
		out := make([]Effect, 0, len(b.Lines))
		for _, l := range b.Lines {
			out = append(out, Effect{
				LineSeq:        l.Seq,
				ProductID:      l.ProductID,
				FromLocationID: l.SourceLocationID,
				ToLocationID:   l.DestinationLocationID,
				Quantity:       l.Quantity,
			})
		}
		return out, nil
	case *entity.AdjustmentBody:
		out := make([]Effect, 0, len(b.Lines))
		for _, l := range b.Lines {
			delta := l.Delta()
			switch {
			case delta.IsPositive():
				out = append(out, Effect{LineSeq: l.Seq, ProductID: l.ProductID, ToLocationID: b.LocationID, Quantity: delta})
			case delta.IsNegative():
				out = append(out, Effect{LineSeq: l.Seq, ProductID: l.ProductID, FromLocationID: b.LocationID, Quantity: delta.Neg()})
			}
		}
		return out, nil
	case nil:
		return nil, domain.Validation("body", "documento sin contenido")
	}
	return nil, fmt.Errorf("inventory: tipo de documento no soportado %T", body)
}

// Keys devuelve las claves de stock tocadas por los efectos, sin duplicados y ordenadas.
func Keys(effects []Effect) []entity.QuantKey {
	seen := make(map[entity.QuantKey]struct{}, len(effects)*2)
	keys := make([]entity.QuantKey, 0, len(effects)*2)
	add := func(k entity.QuantKey) {
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	for _, e := range effects {
		if e.FromLocationID != "" {
			add(entity.QuantKey{ProductID: e.ProductID, LocationID: e.FromLocationID})
		}
		if e.ToLocationID != "" {
			add(entity.QuantKey{ProductID: e.ProductID, LocationID: e.ToLocationID})
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// Plan aplica los efectos en orden sobre una copia de balances y devuelve el delta neto
// por clave. Falla con InsufficientStock en la primera reducción que dejaría una clave
// en negativo; en ese caso no debe aplicarse ningún delta.
func Plan(effects []Effect, balances map[entity.QuantKey]decimal.Decimal) (map[entity.QuantKey]decimal.Decimal, error) {
	running := make(map[entity.QuantKey]decimal.Decimal, len(balances))
	for k, v := range balances {
		running[k] = v
	}
	deltas := make(map[entity.QuantKey]decimal.Decimal)
	for _, e := range effects {
		if e.FromLocationID != "" {
			k := entity.QuantKey{ProductID: e.ProductID, LocationID: e.FromLocationID}
			available := running[k]
			if available.LessThan(e.Quantity) {
				return nil, domain.InsufficientStock(e.ProductID, e.FromLocationID, available.String(), e.Quantity.String())
			}
			running[k] = available.Sub(e.Quantity)
			deltas[k] = deltas[k].Sub(e.Quantity)
		}
		if e.ToLocationID != "" {
			k := entity.QuantKey{ProductID: e.ProductID, LocationID: e.ToLocationID}
			running[k] = running[k].Add(e.Quantity)
			deltas[k] = deltas[k].Add(e.Quantity)
		}
	}
	return deltas, nil
}
