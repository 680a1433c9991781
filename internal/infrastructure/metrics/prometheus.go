package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/stockops-api/internal/application/inventory"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
)

var _ inventory.MetricsRecorder = (*Recorder)(nil)

// Recorder métricas Prometheus del motor de validación.
type Recorder struct {
	validations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	moves       *prometheus.CounterVec
}

// NewRecorder registra las métricas en reg. Con nil se usa el registry global.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		validations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stockops_validations_total",
			Help: "Validaciones de documentos por tipo y resultado",
		}, []string{"kind", "result"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stockops_validation_duration_seconds",
			Help:    "Duración de la transacción de validación",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms a ~4s
		}, []string{"kind"}),
		moves: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stockops_stock_moves_total",
			Help: "Movimientos escritos en el libro por tipo",
		}, []string{"move_type"}),
	}
}

func (r *Recorder) ObserveValidation(kind entity.DocumentKind, result string, elapsed time.Duration) {
	r.validations.WithLabelValues(string(kind), result).Inc()
	r.duration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
}

func (r *Recorder) AddStockMoves(moveType entity.DocumentKind, n int) {
	if n <= 0 {
		return
	}
	r.moves.WithLabelValues(string(moveType)).Add(float64(n))
}
