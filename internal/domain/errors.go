package domain

import (
	"errors"
	"fmt"
)

// ErrorKind identifica la categoría de un error de dominio (se expone al cliente como "code").
type ErrorKind string

const (
	KindValidation        ErrorKind = "VALIDATION"
	KindAlreadyValidated  ErrorKind = "ALREADY_VALIDATED"
	KindInvalidState      ErrorKind = "INVALID_STATE"
	KindInsufficientStock ErrorKind = "INSUFFICIENT_STOCK"
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindDuplicate         ErrorKind = "DUPLICATE"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrValidation        = errors.New("entrada inválida")
	ErrAlreadyValidated  = errors.New("el documento ya fue validado")
	ErrInvalidState      = errors.New("operación no permitida en el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrDuplicate         = errors.New("recurso duplicado")
)

var sentinels = map[ErrorKind]error{
	KindValidation:        ErrValidation,
	KindAlreadyValidated:  ErrAlreadyValidated,
	KindInvalidState:      ErrInvalidState,
	KindInsufficientStock: ErrInsufficientStock,
	KindNotFound:          ErrNotFound,
	KindDuplicate:         ErrDuplicate,
}

// Error es un error de dominio con tipo identificable y contexto opcional
// (producto, ubicación, campo). errors.Is(err, ErrXxx) funciona contra el sentinel de su Kind.
type Error struct {
	Kind       ErrorKind
	Message    string
	Field      string
	ProductID  string
	LocationID string
}

func (e *Error) Error() string { return e.Message }

// Unwrap devuelve el sentinel asociado al Kind.
func (e *Error) Unwrap() error { return sentinels[e.Kind] }

// Validation construye un error VALIDATION sobre un campo.
func Validation(field, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

// InvalidState construye un error INVALID_STATE.
func InvalidState(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

// AlreadyValidated construye un error ALREADY_VALIDATED para el documento indicado.
func AlreadyValidated(code string) *Error {
	return &Error{Kind: KindAlreadyValidated, Message: fmt.Sprintf("el documento %s ya fue validado", code)}
}

// NotFound construye un error NOT_FOUND para una entidad e ID.
func NotFound(what, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %s no encontrado", what, id)}
}

// Duplicate construye un error DUPLICATE.
func Duplicate(format string, args ...any) *Error {
	return &Error{Kind: KindDuplicate, Message: fmt.Sprintf(format, args...)}
}

// InsufficientStock nombra el producto y la ubicación que quedarían en negativo.
func InsufficientStock(productID, locationID, available, requested string) *Error {
	return &Error{
		Kind:       KindInsufficientStock,
		ProductID:  productID,
		LocationID: locationID,
		Message: fmt.Sprintf("stock insuficiente para el producto %s en la ubicación %s (disponible %s, requerido %s)",
			productID, locationID, available, requested),
	}
}

// KindOf devuelve el Kind de err, o "" si no es un error de dominio.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	for kind, s := range sentinels {
		if errors.Is(err, s) {
			return kind
		}
	}
	return ""
}
