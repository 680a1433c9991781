package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stockops-api/internal/application/inventory"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
)

func TestRecorder_CuentaValidacionesYMovimientos(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.ObserveValidation(entity.KindReceipt, inventory.ResultOK, 20*time.Millisecond)
	r.ObserveValidation(entity.KindReceipt, inventory.ResultFailed, 5*time.Millisecond)
	r.ObserveValidation(entity.KindDelivery, inventory.ResultOK, time.Millisecond)
	r.AddStockMoves(entity.KindReceipt, 3)
	r.AddStockMoves(entity.KindReceipt, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.validations.WithLabelValues("RECEIPT", inventory.ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.validations.WithLabelValues("RECEIPT", inventory.ResultFailed)))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.moves.WithLabelValues("RECEIPT")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.duration))
}
