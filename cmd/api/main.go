package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/farmavida/farmavida-api/internal/application/auth"
	"github.com/farmavida/farmavida-api/internal/application/inventory"
	"github.com/farmavida/farmavida-api/internal/application/report"
	"github.com/farmavida/farmavida-api/internal/application/usecase"
	infrapdf "github.com/farmavida/farmavida-api/internal/infrastructure/pdf"
	"github.com/farmavida/farmavida-api/internal/infrastructure/postgres"
	httpRouter "github.com/farmavida/farmavida-api/internal/interfaces/http"
	"github.com/farmavida/farmavida-api/pkg/config"
	"github.com/farmavida/farmavida-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	itemRepo := postgres.NewItemRepository(pool)
	lotRepo := postgres.NewLotRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	applyMovementUC := inventory.NewApplyMovementUseCase(txRunner)
	listMovementsUC := inventory.NewListMovementsUseCase(movementRepo)
	alertsUC := inventory.NewAlertsUseCase(itemRepo, lotRepo)
	itemUC := usecase.NewItemUseCase(itemRepo, txRunner, applyMovementUC)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)

	kardexGenerator := infrapdf.NewMarotoKardexGenerator()
	kardexUC := report.NewKardexUseCase(itemRepo, lotRepo, movementRepo, kardexGenerator)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Farmavida API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:        itemUC,
		CategoryUC:    categoryUC,
		SupplierUC:    supplierUC,
		ApplyMovement: applyMovementUC,
		ListMovements: listMovementsUC,
		AlertsUC:      alertsUC,
		KardexUC:      kardexUC,
		AuthUC:        authUC,
		JWTSecret:     cfg.JWT.Secret,

		AlertDays:       cfg.Alerts.ExpiryDays,
		AlertStockFloor: cfg.Alerts.StockFloor,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
