package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockops-api/internal/application/dto"
	"github.com/jhoicas/stockops-api/internal/domain"
)

var kindStatus = map[domain.ErrorKind]int{
	domain.KindValidation:        fiber.StatusBadRequest,
	domain.KindNotFound:          fiber.StatusNotFound,
	domain.KindAlreadyValidated:  fiber.StatusConflict,
	domain.KindInvalidState:      fiber.StatusConflict,
	domain.KindInsufficientStock: fiber.StatusConflict,
	domain.KindDuplicate:         fiber.StatusConflict,
}

// writeError traduce un error de dominio a status + dto.ErrorResponse; lo demás es 500.
func writeError(c *fiber.Ctx, err error) error {
	kind := domain.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
	resp := dto.ErrorResponse{Code: string(kind), Message: err.Error()}
	var de *domain.Error
	if errors.As(err, &de) {
		resp.Message = de.Message
		resp.Field = de.Field
		resp.ProductID = de.ProductID
		resp.LocationID = de.LocationID
	}
	return c.Status(status).JSON(resp)
}

// ErrorHandler manejador de errores de Fiber: rutas inexistentes y errores no tratados.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := strings.ToUpper(strings.ReplaceAll(fe.Message, " ", "_"))
		if fe.Code == fiber.StatusNotFound {
			code = "NOT_FOUND"
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return writeError(c, err)
}
