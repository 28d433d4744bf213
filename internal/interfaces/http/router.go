package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmavida/farmavida-api/internal/application/auth"
	"github.com/farmavida/farmavida-api/internal/application/inventory"
	"github.com/farmavida/farmavida-api/internal/application/report"
	"github.com/farmavida/farmavida-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC        *usecase.ItemUseCase
	CategoryUC    *usecase.CategoryUseCase
	SupplierUC    *usecase.SupplierUseCase
	ApplyMovement *inventory.ApplyMovementUseCase
	ListMovements *inventory.ListMovementsUseCase
	AlertsUC      *inventory.AlertsUseCase
	KardexUC      *report.KardexUseCase
	AuthUC        *auth.AuthUseCase
	JWTSecret     string

	// Umbrales por defecto del tablero de alertas (config ALERTS_*).
	AlertDays       int
	AlertStockFloor int64
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Items (protegido). /alerts y /by-barcode van antes de /:id para que Fiber
	// no los capture como parámetro.
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC, deps.AlertsUC, deps.AlertDays, deps.AlertStockFloor)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/alerts", itemHandler.Alerts)
	items.Get("/by-barcode/:code", itemHandler.GetByBarcode)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Patch("/:id", itemHandler.Update)
	items.Patch("/:id/adjust-stock", itemHandler.AdjustStock)
	items.Patch("/:id/reactivate", itemHandler.Reactivate)
	items.Delete("/:id", RequireRole("admin"), itemHandler.Delete)

	// Movimientos de stock (protegido)
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.ApplyMovement, deps.ListMovements)
	movements.Post("/", movementHandler.Apply)
	movements.Post("/entries", movementHandler.RegisterEntry)
	movements.Get("/", movementHandler.List)

	// Categorías (protegido)
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", RequireRole("admin"), categoryHandler.Delete)

	// Proveedores (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", RequireRole("admin"), supplierHandler.Delete)

	// Reportes (protegido)
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.KardexUC)
	reports.Get("/kardex/:id", reportHandler.Kardex)
}
