package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository    = (*ProductRepo)(nil)
	_ repository.WarehouseRepository  = (*WarehouseRepo)(nil)
	_ repository.LocationRepository   = (*LocationRepo)(nil)
	_ repository.StockQuantRepository = (*QuantRepo)(nil)
	_ repository.StockMoveRepository  = (*MoveRepo)(nil)
	_ repository.DocumentRepository   = (*DocumentRepo)(nil)
	_ repository.SequenceRepository   = (*SequenceRepo)(nil)
	_ repository.AnalyticsRepository  = (*AnalyticsRepo)(nil)
)

// ── Productos ─────────────────────────────────────────────────────────────────

// ProductRepo implementa repository.ProductRepository.
type ProductRepo struct{ src source }

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.src.view(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.src.view(func(st *state) error {
		for _, p := range st.products {
			if p.SKU == sku {
				p := p
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) ListActive(_ context.Context, category string) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.src.view(func(st *state) error {
		for _, p := range st.products {
			if !p.IsActive || (category != "" && p.Category != category) {
				continue
			}
			p := p
			out = append(out, &p)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, err
}

// ── Bodegas y ubicaciones ─────────────────────────────────────────────────────

// WarehouseRepo implementa repository.WarehouseRepository.
type WarehouseRepo struct{ src source }

func (r *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.src.view(func(st *state) error {
		if w, ok := st.warehouses[id]; ok {
			out = &w
		}
		return nil
	})
	return out, err
}

func (r *WarehouseRepo) ListActive(_ context.Context) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	err := r.src.view(func(st *state) error {
		for _, w := range st.warehouses {
			if w.IsActive {
				w := w
				out = append(out, &w)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// LocationRepo implementa repository.LocationRepository.
type LocationRepo struct{ src source }

func (r *LocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	var out *entity.Location
	err := r.src.view(func(st *state) error {
		if l, ok := st.locations[id]; ok {
			out = st.enrichLocation(l)
		}
		return nil
	})
	return out, err
}

func (r *LocationRepo) FirstActiveByWarehouse(ctx context.Context, warehouseID string) (*entity.Location, error) {
	locs, err := r.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	for _, l := range locs {
		if l.IsActive {
			return l, nil
		}
	}
	return nil, nil
}

// ListByWarehouse ordenadas por nombre.
func (r *LocationRepo) ListByWarehouse(_ context.Context, warehouseID string) ([]*entity.Location, error) {
	var out []*entity.Location
	err := r.src.view(func(st *state) error {
		for _, l := range st.locations {
			if l.WarehouseID == warehouseID {
				out = append(out, st.enrichLocation(l))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (st *state) enrichLocation(l entity.Location) *entity.Location {
	if w, ok := st.warehouses[l.WarehouseID]; ok {
		l.WarehouseCode = w.Code
		l.WarehouseName = w.Name
	}
	return &l
}

// ── Stock ─────────────────────────────────────────────────────────────────────

// QuantRepo implementa repository.StockQuantRepository.
type QuantRepo struct{ src source }

func (r *QuantRepo) Get(_ context.Context, productID, locationID string) (decimal.Decimal, error) {
	q := decimal.Zero
	err := r.src.view(func(st *state) error {
		if v, ok := st.quants[entity.QuantKey{ProductID: productID, LocationID: locationID}]; ok {
			q = v.Quantity
		}
		return nil
	})
	return q, err
}

// LockForUpdate en memoria no hay bloqueo por fila: Run ya serializa las transacciones.
func (r *QuantRepo) LockForUpdate(_ context.Context, keys []entity.QuantKey) (map[entity.QuantKey]decimal.Decimal, error) {
	out := make(map[entity.QuantKey]decimal.Decimal, len(keys))
	err := r.src.view(func(st *state) error {
		for _, k := range keys {
			out[k] = st.quants[k].Quantity
		}
		return nil
	})
	return out, err
}

// ApplyDelta emula el CHECK (quantity >= 0) de la tabla real.
func (r *QuantRepo) ApplyDelta(_ context.Context, productID, locationID string, delta decimal.Decimal) error {
	return r.src.update(func(st *state) error {
		k := entity.QuantKey{ProductID: productID, LocationID: locationID}
		cur, ok := st.quants[k]
		if !ok {
			cur = entity.StockQuant{ProductID: productID, LocationID: locationID}
			if delta.IsNegative() {
				delta = decimal.Zero
			}
		}
		next := cur.Quantity.Add(delta)
		if next.IsNegative() {
			return domain.InsufficientStock(productID, locationID, cur.Quantity.String(), delta.Neg().String())
		}
		cur.Quantity = next
		cur.UpdatedAt = r.src.now()
		st.quants[k] = cur
		return nil
	})
}

func (r *QuantRepo) TotalForProduct(_ context.Context, productID string) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.src.view(func(st *state) error {
		for k, q := range st.quants {
			if k.ProductID == productID {
				total = total.Add(q.Quantity)
			}
		}
		return nil
	})
	return total, err
}

func (r *QuantRepo) List(_ context.Context, filter repository.QuantFilter) ([]*entity.StockQuant, error) {
	var out []*entity.StockQuant
	err := r.src.view(func(st *state) error {
		for k, q := range st.quants {
			if filter.ProductID != "" && k.ProductID != filter.ProductID {
				continue
			}
			if filter.LocationID != "" && k.LocationID != filter.LocationID {
				continue
			}
			loc := st.locations[k.LocationID]
			if filter.WarehouseID != "" && loc.WarehouseID != filter.WarehouseID {
				continue
			}
			if filter.Category != "" && st.products[k.ProductID].Category != filter.Category {
				continue
			}
			q.LocationName = loc.Name
			q.WarehouseID = loc.WarehouseID
			q.WarehouseName = st.warehouses[loc.WarehouseID].Name
			out = append(out, &q)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		a := entity.QuantKey{ProductID: out[i].ProductID, LocationID: out[i].LocationID}
		return a.Less(entity.QuantKey{ProductID: out[j].ProductID, LocationID: out[j].LocationID})
	})
	return out, err
}

// ── Libro de movimientos ──────────────────────────────────────────────────────

// MoveRepo implementa repository.StockMoveRepository. Solo inserción.
type MoveRepo struct{ src source }

func (r *MoveRepo) Append(_ context.Context, move *entity.StockMove) error {
	return r.src.update(func(st *state) error {
		st.moves = append(st.moves, *move)
		return nil
	})
}

func (r *MoveRepo) Query(_ context.Context, filter repository.LedgerFilter) ([]*entity.StockMove, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = repository.DefaultLedgerCap
	}
	var out []*entity.StockMove
	err := r.src.view(func(st *state) error {
		// Recorrido inverso: más reciente primero, desempate por orden de inserción.
		idx := make([]int, len(st.moves))
		for i := range idx {
			idx[i] = len(st.moves) - 1 - i
		}
		sort.SliceStable(idx, func(a, b int) bool {
			return st.moves[idx[a]].CreatedAt.After(st.moves[idx[b]].CreatedAt)
		})
		for _, i := range idx {
			if len(out) >= limit {
				break
			}
			m := st.moves[i]
			if filter.ProductID != "" && m.ProductID != filter.ProductID {
				continue
			}
			if filter.MoveType != "" && m.MoveType != filter.MoveType {
				continue
			}
			if filter.Reference != "" && !strings.Contains(strings.ToLower(m.Reference), strings.ToLower(filter.Reference)) {
				continue
			}
			if filter.DocumentID != "" && m.DocumentID != filter.DocumentID {
				continue
			}
			if filter.DateFrom != nil && m.CreatedAt.Before(*filter.DateFrom) {
				continue
			}
			if filter.DateTo != nil && m.CreatedAt.After(*filter.DateTo) {
				continue
			}
			if p, ok := st.products[m.ProductID]; ok {
				m.ProductName, m.ProductSKU = p.Name, p.SKU
			}
			if l, ok := st.locations[m.FromLocationID]; ok {
				m.FromLocationName, m.FromWarehouseID = l.Name, l.WarehouseID
			}
			if l, ok := st.locations[m.ToLocationID]; ok {
				m.ToLocationName, m.ToWarehouseID = l.Name, l.WarehouseID
			}
			out = append(out, &m)
		}
		return nil
	})
	return out, err
}

// ── Documentos ────────────────────────────────────────────────────────────────

// DocumentRepo implementa repository.DocumentRepository.
type DocumentRepo struct{ src source }

func (r *DocumentRepo) Create(_ context.Context, doc *entity.Document) error {
	return r.src.update(func(st *state) error {
		if _, ok := st.documents[doc.ID]; ok {
			return domain.Duplicate("ya existe un documento con id %s", doc.ID)
		}
		for _, d := range st.documents {
			if d.Code == doc.Code {
				return domain.Duplicate("ya existe un documento con referencia %s", doc.Code)
			}
		}
		st.nextOrder++
		st.documents[doc.ID] = cloneDocument(doc)
		st.docOrder[doc.ID] = st.nextOrder
		return nil
	})
}

func (r *DocumentRepo) GetByID(_ context.Context, id string) (*entity.Document, error) {
	var out *entity.Document
	err := r.src.view(func(st *state) error {
		out = cloneDocument(st.documents[id])
		return nil
	})
	return out, err
}

// GetForUpdate igual que GetByID: Run ya serializa las transacciones.
func (r *DocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	return r.GetByID(ctx, id)
}

func (r *DocumentRepo) UpdateHeader(_ context.Context, doc *entity.Document) error {
	return r.src.update(func(st *state) error {
		cur, ok := st.documents[doc.ID]
		if !ok {
			return domain.NotFound("documento", doc.ID)
		}
		next := cloneDocument(doc)
		next.Body = withLinesOf(doc.Body, cur.Body)
		st.documents[doc.ID] = next
		return nil
	})
}

func (r *DocumentRepo) ReplaceLines(_ context.Context, doc *entity.Document) error {
	return r.src.update(func(st *state) error {
		cur, ok := st.documents[doc.ID]
		if !ok {
			return domain.NotFound("documento", doc.ID)
		}
		cur.Body = withLinesOf(cur.Body, doc.Body)
		return nil
	})
}

func (r *DocumentRepo) List(_ context.Context, filter repository.DocumentFilter) ([]*entity.Document, error) {
	var out []*entity.Document
	err := r.src.view(func(st *state) error {
		for _, d := range st.documents {
			if st.matches(d, filter) {
				out = append(out, cloneDocument(d))
			}
		}
		sort.Slice(out, func(i, j int) bool {
			if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return st.docOrder[out[i].ID] > st.docOrder[out[j].ID]
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (st *state) matches(d *entity.Document, f repository.DocumentFilter) bool {
	if f.Kind != "" && d.Kind != f.Kind {
		return false
	}
	if f.Status != "" && d.Status != f.Status {
		return false
	}
	if f.DateFrom != nil && d.CreatedAt.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && d.CreatedAt.After(*f.DateTo) {
		return false
	}
	partner, warehouseID, locs := documentScope(d.Body)
	if f.Partner != "" && !strings.Contains(strings.ToLower(partner), strings.ToLower(f.Partner)) {
		return false
	}
	if f.LocationID != "" && !contains(locs, f.LocationID) {
		return false
	}
	if f.WarehouseID != "" && warehouseID != f.WarehouseID {
		inWarehouse := false
		for _, id := range locs {
			if st.locations[id].WarehouseID == f.WarehouseID {
				inWarehouse = true
				break
			}
		}
		if !inWarehouse {
			return false
		}
	}
	return true
}

// documentScope tercero, bodega de cabecera y ubicaciones referenciadas por el documento.
func documentScope(body entity.DocumentBody) (partner, warehouseID string, locations []string) {
	switch b := body.(type) {
	case *entity.ReceiptBody:
		for _, l := range b.Lines {
			locations = append(locations, l.LocationID)
		}
		return b.SupplierName, b.WarehouseID, locations
	case *entity.DeliveryBody:
		for _, l := range b.Lines {
			locations = append(locations, l.SourceLocationID)
		}
		return b.CustomerName, b.WarehouseID, locations
	case *entity.TransferBody:
		for _, l := range b.Lines {
			locations = append(locations, l.SourceLocationID, l.DestinationLocationID)
		}
		return "", "", locations
	case *entity.AdjustmentBody:
		return "", "", []string{b.LocationID}
	}
	return "", "", nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// SequenceRepo implementa repository.SequenceRepository.
type SequenceRepo struct{ src source }

func (r *SequenceRepo) Next(_ context.Context, prefix string) (int64, error) {
	var n int64
	err := r.src.update(func(st *state) error {
		st.sequences[prefix]++
		n = st.sequences[prefix]
		return nil
	})
	return n, err
}

// ── Tablero ───────────────────────────────────────────────────────────────────

// AnalyticsRepo implementa repository.AnalyticsRepository.
type AnalyticsRepo struct{ src source }

func (r *AnalyticsRepo) CountActiveProducts(_ context.Context, category string) (int, error) {
	n := 0
	err := r.src.view(func(st *state) error {
		for _, p := range st.products {
			if p.IsActive && (category == "" || p.Category == category) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *AnalyticsRepo) StockLevels(_ context.Context, filter repository.DashboardFilter) ([]repository.StockLevelRow, error) {
	var out []repository.StockLevelRow
	err := r.src.view(func(st *state) error {
		for k, q := range st.quants {
			p, ok := st.products[k.ProductID]
			if !ok || !p.IsActive {
				continue
			}
			if filter.Category != "" && p.Category != filter.Category {
				continue
			}
			if filter.LocationID != "" && k.LocationID != filter.LocationID {
				continue
			}
			if filter.WarehouseID != "" && st.locations[k.LocationID].WarehouseID != filter.WarehouseID {
				continue
			}
			out = append(out, repository.StockLevelRow{ProductID: k.ProductID, LocationID: k.LocationID, Quantity: q.Quantity})
		}
		return nil
	})
	return out, err
}

func (r *AnalyticsRepo) CountDocumentsByStatus(_ context.Context, statuses []entity.DocumentStatus) (map[entity.DocumentKind]int, error) {
	out := make(map[entity.DocumentKind]int)
	err := r.src.view(func(st *state) error {
		for _, d := range st.documents {
			for _, s := range statuses {
				if d.Status == s {
					out[d.Kind]++
					break
				}
			}
		}
		return nil
	})
	return out, err
}
