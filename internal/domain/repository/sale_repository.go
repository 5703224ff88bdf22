package repository

import (
	"time"

	"github.com/jhoicas/tienda-sync/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para Sale y sus líneas.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	// GetBySaleID busca por la clave de idempotencia global. Devuelve nil, nil
	// si no existe (no es un error: es la señal de "venta nueva").
	GetBySaleID(saleID string) (*entity.Sale, error)
	ListByDay(day time.Time) ([]*entity.Sale, error)
	ListBySyncStatus(status string) ([]*entity.Sale, error)
	UpdateSyncStatus(saleID, status string) error
	// MarkTransferVerified normaliza el método de pago a la etiqueta
	// verificada y marca la venta como verificada.
	MarkTransferVerified(saleID string) error
	// Delete elimina la venta y sus líneas. Solo lo usa la transacción
	// compensatoria de borrado (devolución).
	Delete(id int64) error
}
