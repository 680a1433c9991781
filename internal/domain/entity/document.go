package entity

import (
	"time"

	"github.com/jhoicas/stockops-api/internal/domain"
)

// DocumentKind identifica el tipo de documento de inventario. También es el MoveType del libro.
type DocumentKind string

const (
	KindReceipt    DocumentKind = "RECEIPT"    // recepción de proveedor
	KindDelivery   DocumentKind = "DELIVERY"   // despacho a cliente
	KindTransfer   DocumentKind = "TRANSFER"   // traslado interno
	KindAdjustment DocumentKind = "ADJUSTMENT" // ajuste por conteo físico
)

// DocumentKinds en el orden en que se listan.
var DocumentKinds = []DocumentKind{KindReceipt, KindDelivery, KindTransfer, KindAdjustment}

// IsValid indica si k es uno de los cuatro tipos conocidos.
func (k DocumentKind) IsValid() bool {
	switch k {
	case KindReceipt, KindDelivery, KindTransfer, KindAdjustment:
		return true
	}
	return false
}

// SequenceCode es el segmento del tipo en la referencia (WH/IN/00001).
func (k DocumentKind) SequenceCode() string {
	switch k {
	case KindReceipt:
		return "IN"
	case KindDelivery:
		return "OUT"
	case KindTransfer:
		return "INT"
	case KindAdjustment:
		return "ADJ"
	}
	return "DOC"
}

// DocumentStatus estado compartido por los cuatro tipos de documento.
type DocumentStatus string

const (
	StatusDraft    DocumentStatus = "DRAFT"
	StatusReady    DocumentStatus = "READY"
	StatusWaiting  DocumentStatus = "WAITING"
	StatusDone     DocumentStatus = "DONE"
	StatusCanceled DocumentStatus = "CANCELED"
)

// IsValid indica si s es un estado conocido.
func (s DocumentStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusReady, StatusWaiting, StatusDone, StatusCanceled:
		return true
	}
	return false
}

// IsTerminal: DONE y CANCELED no admiten más transiciones.
func (s DocumentStatus) IsTerminal() bool {
	return s == StatusDone || s == StatusCanceled
}

// CanTransitionTo reglas de la máquina de estados. DONE solo se alcanza validando
// y CANCELED desde cualquier estado no terminal; DRAFT/READY/WAITING son administrativos.
func (s DocumentStatus) CanTransitionTo(target DocumentStatus) bool {
	if s.IsTerminal() || !target.IsValid() || s == target {
		return false
	}
	return true
}

// Document cabecera común de Recepción, Despacho, Traslado y Ajuste.
// Body lleva la cabecera y las líneas propias de cada tipo.
type Document struct {
	ID            string
	Code          string // referencia única generada por el sistema
	Kind          DocumentKind
	Status        DocumentStatus
	ScheduledDate *time.Time
	Responsible   string
	Notes         string
	CreatedBy     string
	ValidatedBy   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ValidatedAt   *time.Time
	Body          DocumentBody
}

// CanEditLines: las líneas solo se modifican en DRAFT.
func (d *Document) CanEditLines() error {
	if d.Status != StatusDraft {
		return domain.InvalidState("las líneas del documento %s solo se editan en DRAFT (estado actual %s)", d.Code, d.Status)
	}
	return nil
}

// CanEditHeader: la cabecera se modifica en cualquier estado no terminal.
func (d *Document) CanEditHeader() error {
	if d.Status.IsTerminal() {
		return domain.InvalidState("el documento %s está en estado %s y no admite cambios", d.Code, d.Status)
	}
	return nil
}
