package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/comprascasa/compras-api/internal/application/dto"
	"github.com/comprascasa/compras-api/internal/application/usecase"
	"github.com/comprascasa/compras-api/internal/infrastructure/catalog"
)

// CatalogHandler maneja el listado y la sincronización del catálogo (protegido).
type CatalogHandler struct {
	uc *usecase.CatalogUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *usecase.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// List godoc
// @Summary      Listar el catálogo con cantidades pendientes
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CatalogListResponse
// @Router       /api/catalog [get]
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Sync godoc
// @Summary      Sincronizar el catálogo desde el feed tabular
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/catalog/sync [post]
func (h *CatalogHandler) Sync(c *fiber.Ctx) error {
	out, err := h.uc.Sync(c.Context())
	if err != nil {
		if errors.Is(err, catalog.ErrNoSource) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_SOURCE", Message: "no hay fuente de catálogo configurada"})
		}
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "FEED_ERROR", Message: err.Error()})
	}
	return c.JSON(out)
}
