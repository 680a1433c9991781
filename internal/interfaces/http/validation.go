package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockops-api/internal/application/dto"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	// Los errores nombran el campo por su tag json/query.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})

	// Fechas en query: 2006-01-02 o RFC3339.
	fiber.SetParserDecoder(fiber.ParserConfig{
		IgnoreUnknownKeys: true,
		ZeroEmpty:         true,
		ParserType: []fiber.ParserType{{
			Customtype: dto.QueryDate{},
			Converter:  parseQueryDate,
		}},
	})
}

func parseQueryDate(s string) reflect.Value {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return reflect.ValueOf(dto.QueryDate{At: t})
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return reflect.ValueOf(dto.QueryDate{At: t, DateOnly: true})
	}
	return reflect.Value{}
}

// validateStruct devuelve el primer error de validación como VALIDATION con el campo.
func validateStruct(v any) *dto.ErrorResponse {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	}
	fe := verrs[0]
	field := strings.SplitN(fe.Namespace(), ".", 2)
	name := fe.Field()
	if len(field) == 2 {
		name = field[1]
	}
	msg := fmt.Sprintf("%s no cumple la regla %s", name, fe.Tag())
	if fe.Param() != "" {
		msg += "=" + fe.Param()
	}
	return &dto.ErrorResponse{Code: "VALIDATION", Message: msg, Field: name}
}

// bindBody parsea y valida el cuerpo JSON. Devuelve false si ya respondió con error.
func bindBody(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if resp := validateStruct(out); resp != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(resp)
	}
	return true, nil
}

// bindQuery parsea y valida los query params. Devuelve false si ya respondió con error.
func bindQuery(c *fiber.Ctx, out any) (bool, error) {
	if err := c.QueryParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros de consulta inválidos"})
	}
	if resp := validateStruct(out); resp != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(resp)
	}
	return true, nil
}
