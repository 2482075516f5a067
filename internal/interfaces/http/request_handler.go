package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/comprascasa/compras-api/internal/application/dto"
	"github.com/comprascasa/compras-api/internal/application/usecase"
	"github.com/comprascasa/compras-api/internal/domain"
)

// RequestHandler maneja el ciclo de vida del libro de solicitudes (protegido).
type RequestHandler struct {
	uc *usecase.RequestUseCase
}

// NewRequestHandler construye el handler.
func NewRequestHandler(uc *usecase.RequestUseCase) *RequestHandler {
	return &RequestHandler{uc: uc}
}

// actor arma la identidad del actor desde los locals del middleware.
func actor(c *fiber.Ctx) usecase.Actor {
	return usecase.Actor{UserID: GetUserID(c), Role: GetRole(c)}
}

// mapDomainError traduce los errores de dominio del ciclo de vida a HTTP.
func mapDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "línea no encontrada"})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "la línea no está en un estado que admita esta operación"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "entrada inválida"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para esta operación"})
	case errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario del token no existe"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el producto ya tiene una fila pendiente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// ApplyChangeSet godoc
// @Summary      Aplicar el conjunto de cambios del solicitante
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChangeSetRequest  true  "Cambios de cantidad por producto"
// @Success      200   {object}  dto.ChangeSetResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/requests/changeset [post]
func (h *RequestHandler) ApplyChangeSet(c *fiber.Ctx) error {
	var in dto.ChangeSetRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "items no puede estar vacío"})
	}
	out, err := h.uc.ApplyChangeSet(c.Context(), actor(c), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// ListPending godoc
// @Summary      Cola de aprobación en orden de llegada
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PendingItemResponse
// @Router       /api/requests/pending [get]
func (h *RequestHandler) ListPending(c *fiber.Ctx) error {
	out, err := h.uc.ListPending()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ProcessApprovals godoc
// @Summary      Procesar un lote de decisiones de aprobación
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApprovalsRequest  true  "Decisiones por línea"
// @Success      200   {object}  dto.ApprovalsResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/requests/approvals [post]
func (h *RequestHandler) ProcessApprovals(c *fiber.Ctx) error {
	var in dto.ApprovalsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "items no puede estar vacío"})
	}
	out, err := h.uc.ProcessApprovals(c.Context(), actor(c), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// ListBuyable godoc
// @Summary      Líneas por comprar agrupadas por categoría
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.BuyableItemResponse
// @Router       /api/requests/buyable [get]
func (h *RequestHandler) ListBuyable(c *fiber.Ctx) error {
	out, err := h.uc.ListBuyable()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Purchase godoc
// @Summary      Registrar la compra de una línea
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la línea"
// @Param        body  body  dto.PurchaseRequest  true  "Precio total de línea y cantidad reales"
// @Success      200   {object}  dto.ItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/purchase [post]
func (h *RequestHandler) Purchase(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.PurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.MarkPurchased(c.Context(), actor(c), id, in.Price, in.Quantity)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// Defer godoc
// @Summary      Postergar una línea en la pasada de compra
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la línea"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/defer [post]
func (h *RequestHandler) Defer(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.Defer(c.Context(), actor(c), id)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}
