package repository

import "github.com/jhoicas/tienda-sync/internal/domain/entity"

// InventoryLogRepository define el puerto del log de auditoría de stock.
// Solo inserta y lee: las entradas nunca se editan ni se borran.
type InventoryLogRepository interface {
	Create(log *entity.InventoryLog) error
	ListByProduct(productID int64, limit int) ([]*entity.InventoryLog, error)
	ListRecent(limit int) ([]*entity.InventoryLog, error)
}
