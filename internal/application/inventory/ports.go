package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/stockops-api/internal/application/dto"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
)

// Repos agrupa los repositorios que el motor usa. Dentro de TxRunner.Run todos
// comparten la misma transacción.
type Repos struct {
	Documents  repository.DocumentRepository
	Sequences  repository.SequenceRepository
	Quants     repository.StockQuantRepository
	Moves      repository.StockMoveRepository
	Products   repository.ProductRepository
	Warehouses repository.WarehouseRepository
	Locations  repository.LocationRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn retorna error no queda ningún efecto persistido.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}

// Resultados de validación para métricas.
const (
	ResultOK     = "ok"
	ResultFailed = "failed"
)

// MetricsRecorder registra métricas del motor. La implementación real usa Prometheus.
type MetricsRecorder interface {
	ObserveValidation(kind entity.DocumentKind, result string, elapsed time.Duration)
	AddStockMoves(moveType entity.DocumentKind, n int)
}

type noopMetrics struct{}

func (noopMetrics) ObserveValidation(entity.DocumentKind, string, time.Duration) {}
func (noopMetrics) AddStockMoves(entity.DocumentKind, int)                        {}

// NoopMetrics recorder que descarta todo (tests y herramientas).
var NoopMetrics MetricsRecorder = noopMetrics{}

// SlipGenerator genera el comprobante imprimible de un documento.
type SlipGenerator interface {
	Generate(ctx context.Context, doc *dto.DocumentResponse, names SlipNames) ([]byte, error)
}

// SlipNames nombres legibles para el comprobante, indexados por ID.
type SlipNames struct {
	Products  map[string]string
	Locations map[string]string
	Warehouse string
}
