package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockops-api/internal/application/dto"
	"github.com/jhoicas/stockops-api/internal/application/inventory"
	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
)

// DocumentHandler expone un tipo de documento (recepciones, despachos, traslados o ajustes).
// Un id de otro tipo se responde como 404.
type DocumentHandler struct {
	kind     entity.DocumentKind
	docs     *inventory.DocumentUseCase
	validate *inventory.ValidateUseCase
	slips    *inventory.SlipUseCase
}

// NewDocumentHandler construye el handler para kind.
func NewDocumentHandler(kind entity.DocumentKind, docs *inventory.DocumentUseCase, validate *inventory.ValidateUseCase, slips *inventory.SlipUseCase) *DocumentHandler {
	return &DocumentHandler{kind: kind, docs: docs, validate: validate, slips: slips}
}

// List godoc
// @Summary      Listar documentos
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        status        query  string  false  "DRAFT | READY | WAITING | DONE | CANCELED"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        location_id   query  string  false  "Ubicación"
// @Param        partner       query  string  false  "Proveedor o cliente (parcial)"
// @Param        date_from     query  string  false  "Desde (YYYY-MM-DD)"
// @Param        date_to       query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit         query  int     false  "Máximo 500, por defecto 50"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/receipts [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	var req dto.ListDocumentsRequest
	if ok, err := bindQuery(c, &req); !ok {
		return err
	}
	req.DefaultPage()
	items, err := h.docs.List(c.Context(), h.kind, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": items,
		"page":  dto.PageResponse{Limit: req.Limit, Offset: req.Offset, Count: len(items)},
	})
}

// GetByID godoc
// @Summary      Obtener documento
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/receipts/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	doc, err := h.load(c)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(doc)
}

// Create godoc
// @Summary      Crear documento en borrador
// @Description  Genera la referencia <BODEGA>/<IN|OUT|INT|ADJ>/<00001>. No mueve stock.
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateDocumentRequest  true  "Cabecera y líneas"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/receipts [post]
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDocumentRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	doc, err := h.docs.CreateDraft(c.Context(), GetUserID(c), h.kind, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

// Update godoc
// @Summary      Modificar documento
// @Description  Cabecera en estados no terminales; líneas solo en DRAFT.
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                     true  "ID del documento"
// @Param        body  body      dto.UpdateDocumentRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.DocumentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/receipts/{id} [patch]
func (h *DocumentHandler) Update(c *fiber.Ctx) error {
	var patch dto.UpdateDocumentRequest
	if ok, err := bindBody(c, &patch); !ok {
		return err
	}
	if _, err := h.load(c); err != nil {
		return writeError(c, err)
	}
	doc, err := h.docs.Update(c.Context(), c.Params("id"), patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(doc)
}

// Validate godoc
// @Summary      Validar documento
// @Description  Aplica las líneas al stock en una transacción, escribe el libro y deja el documento en DONE.
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del documento"
// @Success      200  {object}  dto.ValidationResultDTO
// @Failure      409  {object}  dto.ErrorResponse  "ALREADY_VALIDATED | INVALID_STATE | INSUFFICIENT_STOCK"
// @Router       /api/receipts/{id}/validate [post]
func (h *DocumentHandler) Validate(c *fiber.Ctx) error {
	if _, err := h.load(c); err != nil {
		return writeError(c, err)
	}
	res, err := h.validate.Validate(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Cancel godoc
// @Summary      Cancelar documento
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/receipts/{id}/cancel [post]
func (h *DocumentHandler) Cancel(c *fiber.Ctx) error {
	if _, err := h.load(c); err != nil {
		return writeError(c, err)
	}
	doc, err := h.docs.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(doc)
}

// SetStatus cambio administrativo entre DRAFT, READY y WAITING.
func (h *DocumentHandler) SetStatus(c *fiber.Ctx) error {
	var in dto.ChangeStatusRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	if _, err := h.load(c); err != nil {
		return writeError(c, err)
	}
	doc, err := h.docs.SetStatus(c.Context(), c.Params("id"), entity.DocumentStatus(in.Status))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(doc)
}

// Slip devuelve el comprobante PDF del documento.
func (h *DocumentHandler) Slip(c *fiber.Ctx) error {
	if _, err := h.load(c); err != nil {
		return writeError(c, err)
	}
	pdf, filename, err := h.slips.Render(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdf)
}

// load obtiene el documento de la ruta y comprueba que sea del tipo del handler.
func (h *DocumentHandler) load(c *fiber.Ctx) (*dto.DocumentResponse, error) {
	id := c.Params("id")
	doc, err := h.docs.Get(c.Context(), id)
	if err != nil {
		return nil, err
	}
	if doc.Kind != string(h.kind) {
		return nil, domain.NotFound("documento", id)
	}
	return doc, nil
}
