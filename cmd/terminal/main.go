package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/tienda-sync/internal/application/auth"
	"github.com/jhoicas/tienda-sync/internal/application/productos"
	appsync "github.com/jhoicas/tienda-sync/internal/application/sync"
	"github.com/jhoicas/tienda-sync/internal/application/ventas"
	"github.com/jhoicas/tienda-sync/internal/infrastructure/bridge"
	"github.com/jhoicas/tienda-sync/internal/infrastructure/relay"
	"github.com/jhoicas/tienda-sync/internal/infrastructure/sqlite"
	httpRouter "github.com/jhoicas/tienda-sync/internal/interfaces/http"
	"github.com/jhoicas/tienda-sync/pkg/config"
	"github.com/jhoicas/tienda-sync/pkg/logger"
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
		Str("store", cfg.Store.Path).
		Msg("iniciando terminal")

	db, err := sqlite.Open(cfg.Store.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir base local")
	}
	defer db.Close()

	productRepo := sqlite.NewProductRepository(db)
	saleRepo := sqlite.NewSaleRepository(db)
	logRepo := sqlite.NewInventoryLogRepository(db)
	parkedRepo := sqlite.NewParkedOrderRepository(db)
	staffRepo := sqlite.NewStaffRepository(db)
	settingsRepo := sqlite.NewSettingsRepository(db)
	txRunner := sqlite.NewTxRunner(db)

	codec := bridge.NewCodec()
	engine := appsync.NewReconciler(txRunner, log)
	liveSync := appsync.NewLiveSync(engine, settingsRepo, log)

	// El relay es opcional: sin él, el terminal opera solo con tokens.
	var relayClient *relay.Client
	if cfg.Relay.Enabled {
		settings, err := settingsRepo.Get()
		if err != nil {
			log.Fatal().Err(err).Msg("leer configuración del terminal")
		}
		if settings != nil && settings.SyncKey != "" {
			relayClient = relay.New(cfg.Relay.URL, log)
			if err := relayClient.Connect(settings.SyncKey, liveSync); err != nil {
				// Se sigue sin relay; la reconexión en segundo plano ya quedó armada.
				log.Warn().Err(err).Msg("relay no disponible al arrancar")
			}
		} else {
			log.Info().Msg("terminal sin clave de tienda; relay pospuesto hasta el setup")
		}
	}

	// Los puertos de publicación admiten nil solo vía interfaz tipada.
	var salePublisher ventas.RelayPublisher
	var stockPublisher appsync.StockPublisher
	var keyRotator appsync.KeyRotator
	var relayStatus httpRouter.RelayStatus
	if relayClient != nil {
		salePublisher = relayClient
		stockPublisher = relayClient
		keyRotator = relayClient
		relayStatus = relayClient
	}

	authUC := auth.NewUseCase(staffRepo, settingsRepo, cfg.JWT, log)
	ventasUC := ventas.NewSalesUseCase(txRunner, saleRepo, salePublisher, log)
	parkedUC := ventas.NewParkedUseCase(txRunner, parkedRepo, salePublisher, log)
	productosUC := productos.NewUseCase(txRunner, productRepo, logRepo, log)
	importer := appsync.NewImporter(codec, engine, settingsRepo, keyRotator, log)
	exporter := appsync.NewExporter(codec, saleRepo, productRepo, settingsRepo, stockPublisher, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		VentasUC:   ventasUC,
		ParkedUC:   parkedUC,
		ProductsUC: productosUC,
		Importer:   importer,
		Exporter:   exporter,
		Relay:      relayStatus,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando terminal...")

	if relayClient != nil {
		relayClient.Disconnect()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("terminal detenido")
}
