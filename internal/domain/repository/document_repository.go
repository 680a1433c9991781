package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stockops-api/internal/domain/entity"
)

// DocumentFilter filtros tipados para listar documentos; campos vacíos = sin filtro.
type DocumentFilter struct {
	Kind        entity.DocumentKind
	Status      entity.DocumentStatus
	WarehouseID string
	LocationID  string
	Partner     string // proveedor o cliente, búsqueda parcial sin distinguir mayúsculas
	DateFrom    *time.Time
	DateTo      *time.Time
	Limit       int
	Offset      int
}

// DocumentRepository persiste los cuatro tipos de documento (una tabla por tipo más sus líneas).
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	// GetForUpdate como GetByID pero bloquea la fila de cabecera hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Document, error)
	// UpdateHeader persiste estado y campos de cabecera (no toca líneas).
	UpdateHeader(ctx context.Context, doc *entity.Document) error
	// ReplaceLines reemplaza todas las líneas del documento.
	ReplaceLines(ctx context.Context, doc *entity.Document) error
	List(ctx context.Context, filter DocumentFilter) ([]*entity.Document, error)
}

// SequenceRepository entrega números correlativos por prefijo (ej. "WH/IN").
type SequenceRepository interface {
	Next(ctx context.Context, prefix string) (int64, error)
}
