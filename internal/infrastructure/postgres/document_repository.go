package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// docTable describe la tabla de cabecera y de líneas de un tipo de documento.
// Cada cabecera tiene exactamente dos columnas propias (attrs).
type docTable struct {
	kind      entity.DocumentKind
	table     string
	lineTable string
	fk        string
	attrs     [2]string
	// uuidAttr indica qué attrs son uuid (NULL cuando vienen vacíos).
	uuidAttr [2]bool
	// partner columna de tercero; vacía si el tipo no tiene.
	partner string
	// warehouse columna de bodega de cabecera; vacía si el tipo no tiene.
	warehouse string
	// lineLocations columnas de ubicación en las líneas.
	lineLocations []string
	// headerLocation columna de ubicación en la cabecera (ajustes).
	headerLocation string
}

var docTables = map[entity.DocumentKind]docTable{
	entity.KindReceipt: {
		kind: entity.KindReceipt, table: "receipts", lineTable: "receipt_lines", fk: "receipt_id",
		attrs: [2]string{"warehouse_id", "supplier_name"}, uuidAttr: [2]bool{true, false},
		partner: "supplier_name", warehouse: "warehouse_id", lineLocations: []string{"location_id"},
	},
	entity.KindDelivery: {
		kind: entity.KindDelivery, table: "deliveries", lineTable: "delivery_lines", fk: "delivery_id",
		attrs: [2]string{"warehouse_id", "customer_name"}, uuidAttr: [2]bool{true, false},
		partner: "customer_name", warehouse: "warehouse_id", lineLocations: []string{"source_location_id"},
	},
	entity.KindTransfer: {
		kind: entity.KindTransfer, table: "transfers", lineTable: "transfer_lines", fk: "transfer_id",
		attrs: [2]string{"source_location_id", "destination_location_id"}, uuidAttr: [2]bool{true, true},
		lineLocations: []string{"source_location_id", "destination_location_id"},
	},
	entity.KindAdjustment: {
		kind: entity.KindAdjustment, table: "adjustments", lineTable: "adjustment_lines", fk: "adjustment_id",
		attrs: [2]string{"location_id", "reason"}, uuidAttr: [2]bool{true, false},
		headerLocation: "location_id",
	},
}

func tableFor(kind entity.DocumentKind) (docTable, error) {
	t, ok := docTables[kind]
	if !ok {
		return docTable{}, fmt.Errorf("tipo de documento desconocido %q", kind)
	}
	return t, nil
}

// DocumentRepo persiste recepciones, despachos, traslados y ajustes.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador de documentos. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

// ── Escritura ─────────────────────────────────────────────────────────────────

// Create inserta cabecera y líneas. Una referencia repetida se traduce en DUPLICATE.
func (r *DocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	t, err := tableFor(doc.Kind)
	if err != nil {
		return err
	}
	a0, a1 := t.attrValues(doc.Body)
	query := fmt.Sprintf(`
		INSERT INTO %s (id, code, status, %s, %s, scheduled_date, responsible, notes,
			created_by, validated_by, created_at, updated_at, validated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		t.table, t.attrs[0], t.attrs[1])
	_, err = r.q.Exec(ctx, query,
		doc.ID, doc.Code, string(doc.Status), a0, a1, doc.ScheduledDate, doc.Responsible, doc.Notes,
		doc.CreatedBy, doc.ValidatedBy, doc.CreatedAt, doc.UpdatedAt, doc.ValidatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Duplicate("ya existe un documento con referencia %s", doc.Code)
		}
		return fmt.Errorf("insert %s: %w", t.table, err)
	}
	return r.insertLines(ctx, t, doc)
}

// UpdateHeader persiste estado y cabecera; no toca las líneas.
func (r *DocumentRepo) UpdateHeader(ctx context.Context, doc *entity.Document) error {
	t, err := tableFor(doc.Kind)
	if err != nil {
		return err
	}
	a0, a1 := t.attrValues(doc.Body)
	query := fmt.Sprintf(`
		UPDATE %s SET status = $2, %s = $3, %s = $4, scheduled_date = $5, responsible = $6,
			notes = $7, validated_by = $8, updated_at = $9, validated_at = $10
		WHERE id = $1`, t.table, t.attrs[0], t.attrs[1])
	tag, err := r.q.Exec(ctx, query,
		doc.ID, string(doc.Status), a0, a1, doc.ScheduledDate, doc.Responsible,
		doc.Notes, doc.ValidatedBy, doc.UpdatedAt, doc.ValidatedAt,
	)
	if err != nil {
		return fmt.Errorf("update %s: %w", t.table, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("documento", doc.ID)
	}
	return nil
}

// ReplaceLines borra las líneas actuales e inserta las de doc.
func (r *DocumentRepo) ReplaceLines(ctx context.Context, doc *entity.Document) error {
	t, err := tableFor(doc.Kind)
	if err != nil {
		return err
	}
	if _, err := r.q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.lineTable, t.fk), doc.ID); err != nil {
		return fmt.Errorf("delete %s: %w", t.lineTable, err)
	}
	return r.insertLines(ctx, t, doc)
}

func (r *DocumentRepo) insertLines(ctx context.Context, t docTable, doc *entity.Document) error {
	batch := &pgx.Batch{}
	switch b := doc.Body.(type) {
	case *entity.ReceiptBody:
		for _, l := range b.Lines {
			batch.Queue(`
				INSERT INTO receipt_lines (id, receipt_id, seq, product_id, location_id, ordered_qty, received_qty)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				l.ID, doc.ID, l.Seq, l.ProductID, l.LocationID, l.OrderedQty, l.ReceivedQty)
		}
	case *entity.DeliveryBody:
		for _, l := range b.Lines {
			batch.Queue(`
				INSERT INTO delivery_lines (id, delivery_id, seq, product_id, source_location_id, quantity)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				l.ID, doc.ID, l.Seq, l.ProductID, l.SourceLocationID, l.Quantity)
		}
	case *entity.TransferBody:
		for _, l := range b.Lines {
			batch.Queue(`
				INSERT INTO transfer_lines (id, transfer_id, seq, product_id, source_location_id, destination_location_id, quantity)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				l.ID, doc.ID, l.Seq, l.ProductID, l.SourceLocationID, l.DestinationLocationID, l.Quantity)
		}
	case *entity.AdjustmentBody:
		for _, l := range b.Lines {
			batch.Queue(`
				INSERT INTO adjustment_lines (id, adjustment_id, seq, product_id, counted_qty, previous_qty)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				l.ID, doc.ID, l.Seq, l.ProductID, l.CountedQty, l.PreviousQty)
		}
	}
	if batch.Len() == 0 {
		return nil
	}

	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert %s: %w", t.lineTable, err)
		}
	}
	return nil
}

// attrValues valores de las dos columnas propias del tipo.
func (t docTable) attrValues(body entity.DocumentBody) (any, any) {
	var v [2]string
	switch b := body.(type) {
	case *entity.ReceiptBody:
		v = [2]string{b.WarehouseID, b.SupplierName}
	case *entity.DeliveryBody:
		v = [2]string{b.WarehouseID, b.CustomerName}
	case *entity.TransferBody:
		v = [2]string{b.SourceLocationID, b.DestinationLocationID}
	case *entity.AdjustmentBody:
		v = [2]string{b.LocationID, b.Reason}
	}
	out := [2]any{v[0], v[1]}
	for i := range v {
		if t.uuidAttr[i] {
			out[i] = nullIfEmpty(v[i])
		}
	}
	return out[0], out[1]
}

// ── Lectura ───────────────────────────────────────────────────────────────────

// GetByID busca el documento en las cuatro tablas; nil, nil si no existe.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate como GetByID con SELECT ... FOR UPDATE sobre la cabecera.
func (r *DocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	return r.get(ctx, id, true)
}

func (r *DocumentRepo) get(ctx context.Context, id string, lock bool) (*entity.Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	kind, err := r.kindOf(ctx, id)
	if err != nil || kind == "" {
		return nil, err
	}
	t := docTables[kind]

	query := t.selectHeader() + ` WHERE d.id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	doc, err := t.scanHeader(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", t.table, err)
	}
	if err := r.loadLines(ctx, t, []*entity.Document{doc}); err != nil {
		return nil, err
	}
	return doc, nil
}

// kindOf resuelve en qué tabla vive el id; "" si en ninguna.
func (r *DocumentRepo) kindOf(ctx context.Context, id string) (entity.DocumentKind, error) {
	parts := make([]string, 0, len(entity.DocumentKinds))
	for _, k := range entity.DocumentKinds {
		parts = append(parts, fmt.Sprintf(`SELECT '%s' AS kind FROM %s WHERE id = $1`, k, docTables[k].table))
	}
	var kind string
	err := r.q.QueryRow(ctx, strings.Join(parts, " UNION ALL ")+` LIMIT 1`, id).Scan(&kind)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("resolve document kind: %w", err)
	}
	return entity.DocumentKind(kind), nil
}

// List documentos más recientes primero. Sin Kind se consultan los cuatro tipos y se mezclan.
func (r *DocumentRepo) List(ctx context.Context, filter repository.DocumentFilter) ([]*entity.Document, error) {
	if filter.Kind != "" {
		t, err := tableFor(filter.Kind)
		if err != nil {
			return nil, err
		}
		return r.listKind(ctx, t, filter, filter.Limit, filter.Offset)
	}

	var out []*entity.Document
	window := 0
	if filter.Limit > 0 {
		window = filter.Limit + filter.Offset
	}
	for _, k := range entity.DocumentKinds {
		docs, err := r.listKind(ctx, docTables[k], filter, window, 0)
		if err != nil {
			return nil, err
		}
		out = append(out, docs...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
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

func (r *DocumentRepo) listKind(ctx context.Context, t docTable, f repository.DocumentFilter, limit, offset int) ([]*entity.Document, error) {
	where := []string{"TRUE"}
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != "" {
		where = append(where, "d.status = "+arg(string(f.Status)))
	}
	if f.DateFrom != nil {
		where = append(where, "d.created_at >= "+arg(*f.DateFrom))
	}
	if f.DateTo != nil {
		where = append(where, "d.created_at <= "+arg(*f.DateTo))
	}
	if f.Partner != "" {
		if t.partner == "" {
			return nil, nil
		}
		where = append(where, fmt.Sprintf("d.%s ILIKE '%%' || %s || '%%'", t.partner, arg(f.Partner)))
	}
	if f.LocationID != "" {
		where = append(where, t.locationCond(arg(f.LocationID)))
	}
	if f.WarehouseID != "" {
		where = append(where, t.warehouseCond(arg(f.WarehouseID)))
	}

	query := t.selectHeader() + ` WHERE ` + strings.Join(where, " AND ") + ` ORDER BY d.created_at DESC, d.id DESC`
	if limit > 0 {
		query += ` LIMIT ` + arg(limit)
	}
	if offset > 0 {
		query += ` OFFSET ` + arg(offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.table, err)
	}
	var docs []*entity.Document
	for rows.Next() {
		doc, err := t.scanHeader(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan %s: %w", t.table, err)
		}
		docs = append(docs, doc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, t, docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// locationCond el documento referencia la ubicación en cabecera o en alguna línea.
func (t docTable) locationCond(p string) string {
	if t.headerLocation != "" {
		return fmt.Sprintf("d.%s::text = %s", t.headerLocation, p)
	}
	ors := make([]string, len(t.lineLocations))
	for i, c := range t.lineLocations {
		ors[i] = fmt.Sprintf("x.%s::text = %s", c, p)
	}
	return fmt.Sprintf("EXISTS (SELECT 1 FROM %s x WHERE x.%s = d.id AND (%s))",
		t.lineTable, t.fk, strings.Join(ors, " OR "))
}

// warehouseCond la bodega de cabecera coincide o alguna ubicación referenciada pertenece a ella.
func (t docTable) warehouseCond(p string) string {
	if t.headerLocation != "" {
		return fmt.Sprintf("EXISTS (SELECT 1 FROM locations l WHERE l.id = d.%s AND l.warehouse_id::text = %s)", t.headerLocation, p)
	}
	cols := make([]string, len(t.lineLocations))
	for i, c := range t.lineLocations {
		cols[i] = "x." + c
	}
	byLines := fmt.Sprintf(
		"EXISTS (SELECT 1 FROM %s x JOIN locations l ON l.id IN (%s) WHERE x.%s = d.id AND l.warehouse_id::text = %s)",
		t.lineTable, strings.Join(cols, ", "), t.fk, p)
	if t.warehouse == "" {
		return byLines
	}
	return fmt.Sprintf("(d.%s::text = %s OR %s)", t.warehouse, p, byLines)
}

func (t docTable) selectHeader() string {
	return fmt.Sprintf(`
		SELECT d.id, d.code, d.status, COALESCE(d.%s::text, ''), COALESCE(d.%s::text, ''),
			d.scheduled_date, d.responsible, d.notes, d.created_by, d.validated_by,
			d.created_at, d.updated_at, d.validated_at
		FROM %s d`, t.attrs[0], t.attrs[1], t.table)
}

func (t docTable) scanHeader(row pgx.Row) (*entity.Document, error) {
	var d entity.Document
	var status, a0, a1 string
	err := row.Scan(
		&d.ID, &d.Code, &status, &a0, &a1,
		&d.ScheduledDate, &d.Responsible, &d.Notes, &d.CreatedBy, &d.ValidatedBy,
		&d.CreatedAt, &d.UpdatedAt, &d.ValidatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.Kind = t.kind
	d.Status = entity.DocumentStatus(status)
	switch t.kind {
	case entity.KindReceipt:
		d.Body = &entity.ReceiptBody{WarehouseID: a0, SupplierName: a1}
	case entity.KindDelivery:
		d.Body = &entity.DeliveryBody{WarehouseID: a0, CustomerName: a1}
	case entity.KindTransfer:
		d.Body = &entity.TransferBody{SourceLocationID: a0, DestinationLocationID: a1}
	case entity.KindAdjustment:
		d.Body = &entity.AdjustmentBody{LocationID: a0, Reason: a1}
	}
	return &d, nil
}

// loadLines carga en una sola consulta las líneas de docs (todos del mismo tipo).
func (r *DocumentRepo) loadLines(ctx context.Context, t docTable, docs []*entity.Document) error {
	if len(docs) == 0 {
		return nil
	}
	ids := make([]string, len(docs))
	byID := make(map[string]*entity.Document, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
		byID[d.ID] = d
	}

	var cols string
	switch t.kind {
	case entity.KindReceipt:
		cols = "location_id::text, ordered_qty, received_qty"
	case entity.KindDelivery:
		cols = "source_location_id::text, quantity"
	case entity.KindTransfer:
		cols = "source_location_id::text, destination_location_id::text, quantity"
	case entity.KindAdjustment:
		cols = "counted_qty, previous_qty"
	}
	query := fmt.Sprintf(`
		SELECT id, %s, seq, product_id, %s FROM %s
		WHERE %s = ANY($1::uuid[])
		ORDER BY %s, seq`, t.fk, cols, t.lineTable, t.fk, t.fk)

	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("load %s: %w", t.lineTable, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, docID, productID string
		var seq int
		switch t.kind {
		case entity.KindReceipt:
			var l entity.ReceiptLine
			var received *decimal.Decimal
			if err := rows.Scan(&id, &docID, &seq, &productID, &l.LocationID, &l.OrderedQty, &received); err != nil {
				return fmt.Errorf("scan %s: %w", t.lineTable, err)
			}
			l.ID, l.Seq, l.ProductID, l.ReceivedQty = id, seq, productID, received
			b := byID[docID].Body.(*entity.ReceiptBody)
			b.Lines = append(b.Lines, l)
		case entity.KindDelivery:
			var l entity.DeliveryLine
			if err := rows.Scan(&id, &docID, &seq, &productID, &l.SourceLocationID, &l.Quantity); err != nil {
				return fmt.Errorf("scan %s: %w", t.lineTable, err)
			}
			l.ID, l.Seq, l.ProductID = id, seq, productID
			b := byID[docID].Body.(*entity.DeliveryBody)
			b.Lines = append(b.Lines, l)
		case entity.KindTransfer:
			var l entity.TransferLine
			if err := rows.Scan(&id, &docID, &seq, &productID, &l.SourceLocationID, &l.DestinationLocationID, &l.Quantity); err != nil {
				return fmt.Errorf("scan %s: %w", t.lineTable, err)
			}
			l.ID, l.Seq, l.ProductID = id, seq, productID
			b := byID[docID].Body.(*entity.TransferBody)
			b.Lines = append(b.Lines, l)
		case entity.KindAdjustment:
			var l entity.AdjustmentLine
			if err := rows.Scan(&id, &docID, &seq, &productID, &l.CountedQty, &l.PreviousQty); err != nil {
				return fmt.Errorf("scan %s: %w", t.lineTable, err)
			}
			l.ID, l.Seq, l.ProductID = id, seq, productID
			b := byID[docID].Body.(*entity.AdjustmentBody)
			b.Lines = append(b.Lines, l)
		}
	}
	return rows.Err()
}
