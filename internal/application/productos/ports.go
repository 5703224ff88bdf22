package productos

import (
	"context"

	"github.com/jhoicas/tienda-sync/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de la base local.
// Las mutaciones de stock del catálogo comparten la misma regla que las
// ventas: cambio y entrada de auditoría en la misma transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		sales repository.SaleRepository,
		products repository.ProductRepository,
		logs repository.InventoryLogRepository,
	) error) error
}
