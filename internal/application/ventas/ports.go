package ventas

import (
	"context"

	"github.com/jhoicas/tienda-sync/internal/domain/entity"
	"github.com/jhoicas/tienda-sync/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de la base local,
// pasando repositorios atados a esa tx. Garantiza la atomicidad del núcleo
// venta/stock/log: ningún cambio de stock sin su entrada de auditoría.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		sales repository.SaleRepository,
		products repository.ProductRepository,
		logs repository.InventoryLogRepository,
	) error) error

	RunParked(ctx context.Context, fn func(
		parked repository.ParkedOrderRepository,
		sales repository.SaleRepository,
		products repository.ProductRepository,
		logs repository.InventoryLogRepository,
	) error) error
}

// RelayPublisher espeja ventas locales hacia el canal en tiempo real.
// Es best-effort y fire-and-forget: se invoca después del commit local y sus
// fallos jamás llegan al caller del checkout.
type RelayPublisher interface {
	PublishSale(sale *entity.Sale)
	Connected() bool
}
