package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/comprascasa/compras-api/internal/application/auth"
	"github.com/comprascasa/compras-api/internal/application/usecase"
	"github.com/comprascasa/compras-api/internal/domain/entity"
	"github.com/comprascasa/compras-api/internal/domain/lifecycle"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	CatalogUC *usecase.CatalogUseCase
	RequestUC *usecase.RequestUseCase
	ReportUC  *usecase.ReportUseCase
	JWTSecret string
}

// Router registra las rutas de la API. Las reglas de rol por ruta salen de la
// tabla de permisos del ciclo de vida, de modo que middleware y casos de uso
// nunca se contradicen.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (login público, cambio de contraseña autenticado)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/change-password", AuthMiddleware(deps.JWTSecret), authHandler.ChangePassword)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo: listado para cualquier autenticado, sync restringido
	catalogGroup := protected.Group("/catalog")
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	catalogGroup.Get("/", catalogHandler.List)
	catalogGroup.Post("/sync", RequireRole(entity.RoleAdministrador, entity.RoleJefe), catalogHandler.Sync)

	// Libro de solicitudes: cada ruta exige los roles de su acción
	requests := protected.Group("/requests")
	requestHandler := NewRequestHandler(deps.RequestUC)
	requests.Post("/changeset", RequireRole(lifecycle.RolesFor(lifecycle.ActionSolicitar)...), requestHandler.ApplyChangeSet)
	requests.Get("/pending", RequireRole(lifecycle.RolesFor(lifecycle.ActionAprobar)...), requestHandler.ListPending)
	requests.Post("/approvals", RequireRole(lifecycle.RolesFor(lifecycle.ActionAprobar)...), requestHandler.ProcessApprovals)
	requests.Get("/buyable", RequireRole(lifecycle.RolesFor(lifecycle.ActionComprar)...), requestHandler.ListBuyable)
	requests.Post("/:id/purchase", RequireRole(lifecycle.RolesFor(lifecycle.ActionComprar)...), requestHandler.Purchase)
	requests.Post("/:id/defer", RequireRole(lifecycle.RolesFor(lifecycle.ActionPostergar)...), requestHandler.Defer)

	// Reportes: cualquier miembro autenticado del hogar
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/summary", reportHandler.Summary)
	reports.Get("/history", reportHandler.History)
	reports.Get("/history.pdf", reportHandler.HistoryPDF)
}
