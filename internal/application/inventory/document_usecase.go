package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stockops-api/internal/application/dto"
	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
	"github.com/jhoicas/stockops-api/pkg/logger"
)

// DocumentUseCase crea, edita, lista y cambia de estado documentos de inventario.
// Ninguna operación de este caso de uso mueve stock; eso solo ocurre al validar.
type DocumentUseCase struct {
	txRunner TxRunner
	docRepo  repository.DocumentRepository
	log      *logger.Logger
}

// NewDocumentUseCase construye el caso de uso. docRepo se usa para lecturas fuera de transacción.
func NewDocumentUseCase(txRunner TxRunner, docRepo repository.DocumentRepository, log *logger.Logger) *DocumentUseCase {
	return &DocumentUseCase{txRunner: txRunner, docRepo: docRepo, log: log.Component("documents")}
}

// CreateDraft crea un documento en DRAFT con referencia <BODEGA>/<IN|OUT|INT|ADJ>/<00001>.
func (uc *DocumentUseCase) CreateDraft(ctx context.Context, userID string, kind entity.DocumentKind, in dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	if !kind.IsValid() {
		return nil, domain.Validation("kind", "tipo de documento desconocido %q", kind)
	}

	var created *entity.Document
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		body, whCode, err := newBodyBuilder(repos).build(ctx, kind, in)
		if err != nil {
			return err
		}
		if whCode == "" {
			return domain.Validation("warehouse_id", "no se pudo determinar la bodega del documento")
		}

		prefix := whCode + "/" + kind.SequenceCode()
		n, err := repos.Sequences.Next(ctx, prefix)
		if err != nil {
			return fmt.Errorf("secuencia %s: %w", prefix, err)
		}

		now := time.Now().UTC()
		doc := &entity.Document{
			ID:            uuid.New().String(),
			Code:          fmt.Sprintf("%s/%05d", prefix, n),
			Kind:          kind,
			Status:        entity.StatusDraft,
			ScheduledDate: in.ScheduledDate,
			Responsible:   in.Responsible,
			Notes:         in.Notes,
			CreatedBy:     userID,
			CreatedAt:     now,
			UpdatedAt:     now,
			Body:          body,
		}
		if err := repos.Documents.Create(ctx, doc); err != nil {
			return err
		}
		created = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("document_id", created.ID).
		Str("code", created.Code).
		Str("kind", string(kind)).
		Int("lines", created.Body.LineCount()).
		Msg("documento creado")
	return presentDocument(created)
}

// Update aplica cambios de cabecera sobre documentos no terminales y reemplaza líneas solo en DRAFT.
func (uc *DocumentUseCase) Update(ctx context.Context, id string, patch dto.UpdateDocumentRequest) (*dto.DocumentResponse, error) {
	var updated *entity.Document
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		doc, err := repos.Documents.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.NotFound("documento", id)
		}
		if err := doc.CanEditHeader(); err != nil {
			return err
		}
		if patch.Lines != nil {
			if err := doc.CanEditLines(); err != nil {
				return err
			}
		}
		if err := applyHeaderPatch(doc, patch); err != nil {
			return err
		}

		if patch.Lines != nil {
			in := headerRequest(doc)
			in.Lines = *patch.Lines
			body, _, err := newBodyBuilder(repos).build(ctx, doc.Kind, in)
			if err != nil {
				return err
			}
			doc.Body = body
			if err := repos.Documents.ReplaceLines(ctx, doc); err != nil {
				return err
			}
		}

		doc.UpdatedAt = time.Now().UTC()
		if err := repos.Documents.UpdateHeader(ctx, doc); err != nil {
			return err
		}
		updated = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return presentDocument(updated)
}

// Get devuelve un documento por ID.
func (uc *DocumentUseCase) Get(ctx context.Context, id string) (*dto.DocumentResponse, error) {
	doc, err := uc.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.NotFound("documento", id)
	}
	return presentDocument(doc)
}

// List lista documentos de un tipo, del más reciente al más antiguo.
func (uc *DocumentUseCase) List(ctx context.Context, kind entity.DocumentKind, req dto.ListDocumentsRequest) ([]dto.DocumentResponse, error) {
	req.DefaultPage()
	status := entity.DocumentStatus(req.Status)
	if status != "" && !status.IsValid() {
		return nil, domain.Validation("status", "estado desconocido %q", req.Status)
	}
	if err := checkDateRange(req.DateFrom, req.DateTo); err != nil {
		return nil, err
	}
	docs, err := uc.docRepo.List(ctx, repository.DocumentFilter{
		Kind:        kind,
		Status:      status,
		WarehouseID: req.WarehouseID,
		LocationID:  req.LocationID,
		Partner:     req.Partner,
		DateFrom:    req.DateFrom.Start(),
		DateTo:      req.DateTo.End(),
		Limit:       req.Limit,
		Offset:      req.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		r, err := presentDocument(d)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

// SetStatus cambio administrativo entre DRAFT, READY y WAITING. No mueve stock.
// Pedir el estado actual no es error.
func (uc *DocumentUseCase) SetStatus(ctx context.Context, id string, target entity.DocumentStatus) (*dto.DocumentResponse, error) {
	switch target {
	case entity.StatusDraft, entity.StatusReady, entity.StatusWaiting:
	case entity.StatusDone:
		return nil, domain.Validation("status", "DONE solo se alcanza validando el documento")
	case entity.StatusCanceled:
		return nil, domain.Validation("status", "use la operación de cancelar")
	default:
		return nil, domain.Validation("status", "estado desconocido %q", target)
	}
	return uc.transition(ctx, id, target)
}

// Cancel pasa un documento no terminal a CANCELED sin tocar stock.
func (uc *DocumentUseCase) Cancel(ctx context.Context, id string) (*dto.DocumentResponse, error) {
	return uc.transition(ctx, id, entity.StatusCanceled)
}

func (uc *DocumentUseCase) transition(ctx context.Context, id string, target entity.DocumentStatus) (*dto.DocumentResponse, error) {
	var updated *entity.Document
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		doc, err := repos.Documents.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.NotFound("documento", id)
		}
		if doc.Status == target && !target.IsTerminal() {
			updated = doc
			return nil
		}
		if !doc.Status.CanTransitionTo(target) {
			return domain.InvalidState("el documento %s está en estado %s y no puede pasar a %s", doc.Code, doc.Status, target)
		}
		doc.Status = target
		doc.UpdatedAt = time.Now().UTC()
		if err := repos.Documents.UpdateHeader(ctx, doc); err != nil {
			return err
		}
		updated = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("document_id", updated.ID).Str("code", updated.Code).Str("status", string(updated.Status)).Msg("estado de documento actualizado")
	return presentDocument(updated)
}

// applyHeaderPatch copia los campos de cabecera presentes. Los campos propios de otro
// tipo de documento son error de validación.
func applyHeaderPatch(doc *entity.Document, patch dto.UpdateDocumentRequest) error {
	if patch.SupplierName != nil && doc.Kind != entity.KindReceipt {
		return domain.Validation("supplier_name", "supplier_name solo aplica a recepciones")
	}
	if patch.CustomerName != nil && doc.Kind != entity.KindDelivery {
		return domain.Validation("customer_name", "customer_name solo aplica a despachos")
	}
	if patch.Reason != nil && doc.Kind != entity.KindAdjustment {
		return domain.Validation("reason", "reason solo aplica a ajustes")
	}

	if patch.Notes != nil {
		doc.Notes = *patch.Notes
	}
	if patch.Responsible != nil {
		doc.Responsible = *patch.Responsible
	}
	if patch.ScheduledDate != nil {
		doc.ScheduledDate = patch.ScheduledDate
	}

	switch b := doc.Body.(type) {
	case *entity.ReceiptBody:
		if patch.SupplierName != nil {
			b.SupplierName = *patch.SupplierName
		}
	case *entity.DeliveryBody:
		if patch.CustomerName != nil {
			b.CustomerName = *patch.CustomerName
		}
	case *entity.AdjustmentBody:
		if patch.Reason != nil {
			b.Reason = *patch.Reason
		}
	}
	return nil
}

// headerRequest reconstruye la cabecera de entrada de un documento existente (para reemplazar líneas).
func headerRequest(doc *entity.Document) dto.CreateDocumentRequest {
	in := dto.CreateDocumentRequest{
		ScheduledDate: doc.ScheduledDate,
		Responsible:   doc.Responsible,
		Notes:         doc.Notes,
	}
	switch b := doc.Body.(type) {
	case *entity.ReceiptBody:
		in.WarehouseID, in.SupplierName = b.WarehouseID, b.SupplierName
	case *entity.DeliveryBody:
		in.WarehouseID, in.CustomerName = b.WarehouseID, b.CustomerName
	case *entity.TransferBody:
		in.SourceLocationID, in.DestinationLocationID = b.SourceLocationID, b.DestinationLocationID
	case *entity.AdjustmentBody:
		in.LocationID, in.Reason = b.LocationID, b.Reason
	}
	return in
}
