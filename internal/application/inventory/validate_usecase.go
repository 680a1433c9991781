package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stockops-api/internal/application/dto"
	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/inventory"
	"github.com/jhoicas/stockops-api/pkg/logger"
)

// ValidateUseCase aplica un documento al stock: única operación del sistema que
// modifica cantidades y escribe en el libro de movimientos.
type ValidateUseCase struct {
	txRunner TxRunner
	metrics  MetricsRecorder
	log      *logger.Logger
}

// NewValidateUseCase construye el caso de uso. metrics puede ser NoopMetrics.
func NewValidateUseCase(txRunner TxRunner, metrics MetricsRecorder, log *logger.Logger) *ValidateUseCase {
	if metrics == nil {
		metrics = NoopMetrics
	}
	return &ValidateUseCase{txRunner: txRunner, metrics: metrics, log: log.Component("validate")}
}

// Validate ejecuta en una sola transacción:
//  1. bloquea el documento (SELECT FOR UPDATE)
//  2. rechaza DONE (ALREADY_VALIDATED) y CANCELED (INVALID_STATE)
//  3. calcula los efectos de cada línea
//  4. bloquea los registros de stock tocados en orden (producto, ubicación) y simula
//     línea por línea; la primera reducción bajo cero aborta con INSUFFICIENT_STOCK
//  5. aplica los deltas netos (insert-or-add)
//  6. escribe un movimiento por efecto
//  7. marca el documento DONE con usuario y fecha de validación
//
// Cualquier error revierte todo: no quedan cantidades, movimientos ni cambio de estado.
// Se permite validar desde DRAFT, READY o WAITING.
func (uc *ValidateUseCase) Validate(ctx context.Context, userID, id string) (*dto.ValidationResultDTO, error) {
	start := time.Now()

	var (
		doc   *entity.Document
		moves []*entity.StockMove
	)
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		d, err := repos.Documents.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.NotFound("documento", id)
		}
		doc = d

		switch d.Status {
		case entity.StatusDone:
			return domain.AlreadyValidated(d.Code)
		case entity.StatusCanceled:
			return domain.InvalidState("el documento %s está cancelado y no se puede validar", d.Code)
		}

		effects, err := inventory.Effects(d.Body)
		if err != nil {
			return err
		}

		balances, err := repos.Quants.LockForUpdate(ctx, inventory.Keys(effects))
		if err != nil {
			return fmt.Errorf("bloquear stock: %w", err)
		}
		deltas, err := inventory.Plan(effects, balances)
		if err != nil {
			return err
		}

		// Claves en el mismo orden en que se bloquearon.
		for _, k := range inventory.Keys(effects) {
			delta := deltas[k]
			if delta.IsZero() {
				continue
			}
			if err := repos.Quants.ApplyDelta(ctx, k.ProductID, k.LocationID, delta); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		moves = make([]*entity.StockMove, 0, len(effects))
		for _, e := range effects {
			m := &entity.StockMove{
				ID:             uuid.New().String(),
				MoveType:       d.Kind,
				Reference:      d.Code,
				DocumentID:     d.ID,
				ProductID:      e.ProductID,
				FromLocationID: e.FromLocationID,
				ToLocationID:   e.ToLocationID,
				Quantity:       e.Quantity,
				Status:         entity.MoveStatusDone,
				CreatedBy:      userID,
				CreatedAt:      now,
			}
			if err := repos.Moves.Append(ctx, m); err != nil {
				return fmt.Errorf("registrar movimiento: %w", err)
			}
			moves = append(moves, m)
		}

		d.Status = entity.StatusDone
		d.ValidatedBy = userID
		d.ValidatedAt = &now
		d.UpdatedAt = now
		return repos.Documents.UpdateHeader(ctx, d)
	})

	kind := entity.DocumentKind("")
	if doc != nil {
		kind = doc.Kind
	}
	if err != nil {
		uc.metrics.ObserveValidation(kind, ResultFailed, time.Since(start))
		ev := uc.log.Warn().Err(err).Str("document_id", id).Str("reason", string(domain.KindOf(err)))
		var de *domain.Error
		if errors.As(err, &de) && de.ProductID != "" {
			ev = ev.Str("product_id", de.ProductID).Str("location_id", de.LocationID)
		}
		ev.Msg("validación rechazada")
		return nil, err
	}

	uc.metrics.ObserveValidation(kind, ResultOK, time.Since(start))
	uc.metrics.AddStockMoves(kind, len(moves))
	uc.log.Info().
		Str("document_id", doc.ID).
		Str("code", doc.Code).
		Str("kind", string(kind)).
		Int("lines", doc.Body.LineCount()).
		Int("moves", len(moves)).
		Msg("documento validado")

	resp, err := presentDocument(doc)
	if err != nil {
		return nil, err
	}
	return &dto.ValidationResultDTO{Document: *resp, Moves: presentMoves(moves)}, nil
}
