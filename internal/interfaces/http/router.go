package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-sync/internal/application/auth"
	"github.com/jhoicas/tienda-sync/internal/application/productos"
	appsync "github.com/jhoicas/tienda-sync/internal/application/sync"
	"github.com/jhoicas/tienda-sync/internal/application/ventas"
	"github.com/jhoicas/tienda-sync/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.UseCase
	VentasUC   *ventas.SalesUseCase
	ParkedUC   *ventas.ParkedUseCase
	ProductsUC *productos.UseCase
	Importer   *appsync.Importer
	Exporter   *appsync.Exporter
	Relay      RelayStatus
	JWTSecret  string
}

// Router registra las rutas de la API local del terminal.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Público: setup, login e importación (la invitación llega antes de que
	// exista cualquier empleado local).
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/setup", authHandler.Setup)
	authGroup.Post("/login", authHandler.Login)

	syncHandler := NewSyncHandler(deps.Importer, deps.Exporter, deps.Relay)
	api.Post("/sync/import", syncHandler.Import)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	privileged := RequireRole(entity.RoleAdmin, entity.RoleManager)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Empleados (protegido; altas y bajas solo roles privilegiados)
	staff := protected.Group("/staff")
	staff.Get("/", authHandler.ListStaff)
	staff.Post("/", privileged, authHandler.RegisterStaff)
	staff.Delete("/:id", privileged, authHandler.RemoveStaff)
	protected.Get("/settings", authHandler.Settings)

	// Catálogo (protegido; mutaciones solo roles privilegiados)
	products := protected.Group("/products")
	productosHandler := NewProductosHandler(deps.ProductsUC)
	products.Get("/", productosHandler.List)
	products.Get("/low-stock", productosHandler.ListLowStock)
	products.Get("/:id", productosHandler.GetByID)
	products.Get("/:id/history", productosHandler.History)
	products.Post("/", privileged, productosHandler.Create)
	products.Put("/:id", privileged, productosHandler.Update)
	products.Post("/:id/adjust", privileged, productosHandler.Adjust)
	products.Post("/:id/restock", privileged, productosHandler.Restock)
	products.Delete("/:id", privileged, productosHandler.Delete)

	// Ventas (protegido)
	sales := protected.Group("/sales")
	ventasHandler := NewVentasHandler(deps.VentasUC)
	sales.Post("/", ventasHandler.Create)
	sales.Get("/", ventasHandler.ListByDay)
	sales.Get("/pending", ventasHandler.ListPending)
	sales.Delete("/:sale_id", privileged, ventasHandler.Delete)
	sales.Post("/:sale_id/verify-transfer", privileged, ventasHandler.VerifyTransfer)

	// Pedidos aparcados (protegido)
	parked := protected.Group("/parked")
	parkedHandler := NewParkedHandler(deps.ParkedUC)
	parked.Post("/", parkedHandler.Park)
	parked.Get("/", parkedHandler.List)
	parked.Put("/:id", parkedHandler.Update)
	parked.Post("/:id/resume", parkedHandler.Resume)
	parked.Delete("/:id", parkedHandler.Cancel)

	// Sincronización (protegido; el push de catálogo y la rotación de clave
	// son del terminal admin)
	syncGroup := protected.Group("/sync")
	syncGroup.Get("/status", syncHandler.Status)
	syncGroup.Post("/export/sales", syncHandler.ExportSales)
	syncGroup.Post("/export/stock", adminOnly, syncHandler.ExportStock)
	syncGroup.Post("/export/invite", adminOnly, syncHandler.ExportInvite)
	syncGroup.Post("/rotate-key", adminOnly, syncHandler.RotateKey)
	syncGroup.Post("/push-stock", adminOnly, syncHandler.PushStock)
}
