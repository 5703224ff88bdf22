package ventas

import (
	"time"

	"github.com/jhoicas/tienda-sync/internal/domain"
	"github.com/jhoicas/tienda-sync/internal/domain/entity"
	"github.com/jhoicas/tienda-sync/internal/domain/repository"
)

// DeductStockInTx descuenta stock de un producto usando los repositorios del
// caller (misma transacción) y deja la entrada de auditoría correspondiente.
// Es el punto único por el que pasan el checkout local y todas las rutas de
// reconciliación.
//
// Con strict=true (roles sin privilegio) una cantidad mayor al stock
// disponible devuelve ErrInsufficientStock. Con strict=false el descuento se
// recorta en cero: dos terminales sin reloj ni candado compartido pueden
// vender la misma unidad, y el recorte mantiene el contador local consistente
// aunque el stock real haya quedado conceptualmente negativo (brecha de
// consistencia eventual asumida, ver DESIGN.md).
func DeductStockInTx(
	products repository.ProductRepository,
	logs repository.InventoryLogRepository,
	product *entity.Product,
	quantity int,
	logType, actor string,
	strict bool,
	now time.Time,
) error {
	if quantity <= 0 {
		return domain.ErrInvalidInput
	}
	if strict && product.Stock < quantity {
		return domain.ErrInsufficientStock
	}

	newStock := product.Stock - quantity
	if newStock < 0 {
		newStock = 0
	}
	if err := products.UpdateStock(product.ID, newStock); err != nil {
		return err
	}
	if err := logs.Create(&entity.InventoryLog{
		ProductID: product.ID,
		Delta:     newStock - product.Stock,
		OldStock:  product.Stock,
		NewStock:  newStock,
		Type:      logType,
		Actor:     actor,
		CreatedAt: now,
	}); err != nil {
		return err
	}
	product.Stock = newStock
	return nil
}

// RestoreStockInTx devuelve stock a un producto (devoluciones y cancelación
// de pedidos aparcados), con su entrada de auditoría en la misma transacción.
func RestoreStockInTx(
	products repository.ProductRepository,
	logs repository.InventoryLogRepository,
	product *entity.Product,
	quantity int,
	logType, actor string,
	now time.Time,
) error {
	if quantity <= 0 {
		return domain.ErrInvalidInput
	}
	newStock := product.Stock + quantity
	if err := products.UpdateStock(product.ID, newStock); err != nil {
		return err
	}
	if err := logs.Create(&entity.InventoryLog{
		ProductID: product.ID,
		Delta:     quantity,
		OldStock:  product.Stock,
		NewStock:  newStock,
		Type:      logType,
		Actor:     actor,
		CreatedAt: now,
	}); err != nil {
		return err
	}
	product.Stock = newStock
	return nil
}
