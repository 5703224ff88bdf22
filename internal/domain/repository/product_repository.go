package repository

import "github.com/jhoicas/tienda-sync/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id int64) (*entity.Product, error)
	List() ([]*entity.Product, error)
	ListLowStock() ([]*entity.Product, error)
	Update(product *entity.Product) error
	// UpdateStock escribe la cantidad ya recortada en cero por el caller.
	UpdateStock(id int64, stock int) error
	Delete(id int64) error
	// DeleteAll vacía el catálogo completo (reemplazo total en StockReplaceMerge).
	DeleteAll() error
}
