package repository

import "github.com/jhoicas/tienda-sync/internal/domain/entity"

// ParkedOrderRepository define el puerto de persistencia de pedidos aparcados.
type ParkedOrderRepository interface {
	Create(order *entity.ParkedOrder) error
	GetByID(id int64) (*entity.ParkedOrder, error)
	List() ([]*entity.ParkedOrder, error)
	// ReplaceItems borra y reinserta las líneas (re-aparcar es reemplazo).
	ReplaceItems(orderID int64, items []entity.SaleItem) error
	Delete(id int64) error
}
