// Package memory implementa en memoria todos los puertos de persistencia del motor.
// Se usa en tests y en entornos efímeros; Run trabaja sobre una copia del estado y
// solo la publica si la función termina sin error.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockops-api/internal/application/inventory"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	products   map[string]entity.Product
	warehouses map[string]entity.Warehouse
	locations  map[string]entity.Location
	documents  map[string]*entity.Document
	docOrder   map[string]int64
	quants     map[entity.QuantKey]entity.StockQuant
	moves      []entity.StockMove
	sequences  map[string]int64
	nextOrder  int64
}

func newState() state {
	return state{
		products:   make(map[string]entity.Product),
		warehouses: make(map[string]entity.Warehouse),
		locations:  make(map[string]entity.Location),
		documents:  make(map[string]*entity.Document),
		docOrder:   make(map[string]int64),
		quants:     make(map[entity.QuantKey]entity.StockQuant),
		sequences:  make(map[string]int64),
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range s.locations {
		c.locations[k] = v
	}
	for k, v := range s.documents {
		c.documents[k] = cloneDocument(v)
	}
	for k, v := range s.docOrder {
		c.docOrder[k] = v
	}
	for k, v := range s.quants {
		c.quants[k] = v
	}
	c.moves = append(make([]entity.StockMove, 0, len(s.moves)), s.moves...)
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	c.nextOrder = s.nextOrder
	return c
}

// source da acceso al estado: comprometido (con lock) o el de una transacción en curso.
type source interface {
	view(fn func(st *state) error) error
	update(fn func(st *state) error) error
	now() time.Time
}

// Store estado comprometido. Las transacciones se serializan con el mutex.
type Store struct {
	mu    sync.RWMutex
	state state
	nowFn func() time.Time
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{state: newState(), nowFn: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) view(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&s.state)
}

func (s *Store) update(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.state)
}

func (s *Store) now() time.Time { return s.nowFn() }

// Run ejecuta fn con repositorios sobre una copia del estado; publica la copia solo si fn no falla.
// No llamar a los repositorios de Repos() desde dentro de fn.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txSource{st: s.state.clone(), nowFn: s.nowFn}
	if err := fn(reposFor(tx)); err != nil {
		return err
	}
	s.state = tx.st
	return nil
}

// Repos devuelve repositorios que leen y escriben el estado comprometido.
func (s *Store) Repos() inventory.Repos { return reposFor(s) }

// Analytics devuelve el repositorio del tablero.
func (s *Store) Analytics() *AnalyticsRepo { return &AnalyticsRepo{src: s} }

type txSource struct {
	st    state
	nowFn func() time.Time
}

func (t *txSource) view(fn func(st *state) error) error   { return fn(&t.st) }
func (t *txSource) update(fn func(st *state) error) error { return fn(&t.st) }
func (t *txSource) now() time.Time                        { return t.nowFn() }

func reposFor(src source) inventory.Repos {
	return inventory.Repos{
		Documents:  &DocumentRepo{src: src},
		Sequences:  &SequenceRepo{src: src},
		Quants:     &QuantRepo{src: src},
		Moves:      &MoveRepo{src: src},
		Products:   &ProductRepo{src: src},
		Warehouses: &WarehouseRepo{src: src},
		Locations:  &LocationRepo{src: src},
	}
}

// ── Datos de prueba ───────────────────────────────────────────────────────────

// AddProduct registra un producto.
func (s *Store) AddProduct(p entity.Product) {
	_ = s.update(func(st *state) error { st.products[p.ID] = p; return nil })
}

// AddWarehouse registra una bodega.
func (s *Store) AddWarehouse(w entity.Warehouse) {
	_ = s.update(func(st *state) error { st.warehouses[w.ID] = w; return nil })
}

// AddLocation registra una ubicación.
func (s *Store) AddLocation(l entity.Location) {
	_ = s.update(func(st *state) error { st.locations[l.ID] = l; return nil })
}

// SetQuantity fija la cantidad de (producto, ubicación) sin pasar por el libro.
func (s *Store) SetQuantity(productID, locationID string, q decimal.Decimal) {
	_ = s.update(func(st *state) error {
		k := entity.QuantKey{ProductID: productID, LocationID: locationID}
		st.quants[k] = entity.StockQuant{ProductID: productID, LocationID: locationID, Quantity: q, UpdatedAt: s.nowFn()}
		return nil
	})
}

// Quantity cantidad comprometida de (producto, ubicación).
func (s *Store) Quantity(productID, locationID string) decimal.Decimal {
	var q decimal.Decimal
	_ = s.view(func(st *state) error {
		q = st.quants[entity.QuantKey{ProductID: productID, LocationID: locationID}].Quantity
		return nil
	})
	return q
}

// Moves copia de todos los movimientos en orden de inserción.
func (s *Store) Moves() []entity.StockMove {
	var out []entity.StockMove
	_ = s.view(func(st *state) error {
		out = append(out, st.moves...)
		return nil
	})
	return out
}

// TotalQuantity suma de todas las cantidades del almacén.
func (s *Store) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	_ = s.view(func(st *state) error {
		for _, q := range st.quants {
			total = total.Add(q.Quantity)
		}
		return nil
	})
	return total
}

// ── Copias profundas ──────────────────────────────────────────────────────────

func cloneDocument(d *entity.Document) *entity.Document {
	if d == nil {
		return nil
	}
	c := *d
	if d.ScheduledDate != nil {
		t := *d.ScheduledDate
		c.ScheduledDate = &t
	}
	if d.ValidatedAt != nil {
		t := *d.ValidatedAt
		c.ValidatedAt = &t
	}
	c.Body = cloneBody(d.Body)
	return &c
}

func cloneBody(body entity.DocumentBody) entity.DocumentBody {
	switch b := body.(type) {
	case *entity.ReceiptBody:
		c := *b
		c.Lines = make([]entity.ReceiptLine, len(b.Lines))
		for i, l := range b.Lines {
			if l.ReceivedQty != nil {
				q := *l.ReceivedQty
				l.ReceivedQty = &q
			}
			c.Lines[i] = l
		}
		return &c
	case *entity.DeliveryBody:
		c := *b
		c.Lines = append([]entity.DeliveryLine(nil), b.Lines...)
		return &c
	case *entity.TransferBody:
		c := *b
		c.Lines = append([]entity.TransferLine(nil), b.Lines...)
		return &c
	case *entity.AdjustmentBody:
		c := *b
		c.Lines = append([]entity.AdjustmentLine(nil), b.Lines...)
		return &c
	}
	return body
}

// withLinesOf devuelve una copia de header con las líneas de lines (mismo tipo).
func withLinesOf(header, lines entity.DocumentBody) entity.DocumentBody {
	out := cloneBody(header)
	src := cloneBody(lines)
	switch b := out.(type) {
	case *entity.ReceiptBody:
		if s, ok := src.(*entity.ReceiptBody); ok {
			b.Lines = s.Lines
		}
	case *entity.DeliveryBody:
		if s, ok := src.(*entity.DeliveryBody); ok {
			b.Lines = s.Lines
		}
	case *entity.TransferBody:
		if s, ok := src.(*entity.TransferBody); ok {
			b.Lines = s.Lines
		}
	case *entity.AdjustmentBody:
		if s, ok := src.(*entity.AdjustmentBody); ok {
			b.Lines = s.Lines
		}
	}
	return out
}
