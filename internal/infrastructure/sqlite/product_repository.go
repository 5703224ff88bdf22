package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/tienda-sync/internal/domain/entity"
	"github.com/jhoicas/tienda-sync/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository sobre SQLite (usable con db o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de productos. Pasar db o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = "id, name, price, cost, stock, category, low_stock_threshold, created_at, updated_at"

// Create inserta el producto y asigna el ID local autogenerado.
func (r *ProductRepo) Create(p *entity.Product) error {
	res, err := r.q.Exec(`
		INSERT INTO products (name, price, cost, stock, category, low_stock_threshold, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Price, p.Cost, p.Stock, p.Category, p.LowStockThreshold, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insertar producto: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("id de producto: %w", err)
	}
	p.ID = id
	return nil
}

// GetByID devuelve nil, nil si el producto no existe (catálogos divergentes
// entre terminales son un caso esperado, no un error).
func (r *ProductRepo) GetByID(id int64) (*entity.Product, error) {
	row := r.q.QueryRow(`SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("buscar producto: %w", err)
	}
	return p, nil
}

// List devuelve el catálogo completo ordenado por nombre.
func (r *ProductRepo) List() ([]*entity.Product, error) {
	rows, err := r.q.Query(`SELECT ` + productColumns + ` FROM products ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// ListLowStock devuelve los productos en o por debajo de su umbral de alerta.
func (r *ProductRepo) ListLowStock() ([]*entity.Product, error) {
	rows, err := r.q.Query(`
		SELECT ` + productColumns + `
		FROM products
		WHERE stock <= low_stock_threshold
		ORDER BY stock ASC`)
	if err != nil {
		return nil, fmt.Errorf("listar stock bajo: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// Update reescribe los campos editables del producto.
func (r *ProductRepo) Update(p *entity.Product) error {
	_, err := r.q.Exec(`
		UPDATE products
		SET name = ?, price = ?, cost = ?, category = ?, low_stock_threshold = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.Price, p.Cost, p.Category, p.LowStockThreshold, time.Now(), p.ID,
	)
	if err != nil {
		return fmt.Errorf("actualizar producto: %w", err)
	}
	return nil
}

// UpdateStock escribe la cantidad final (el caller ya la recortó en cero).
func (r *ProductRepo) UpdateStock(id int64, stock int) error {
	_, err := r.q.Exec(`UPDATE products SET stock = ?, updated_at = ? WHERE id = ?`, stock, time.Now(), id)
	if err != nil {
		return fmt.Errorf("actualizar stock: %w", err)
	}
	return nil
}

// Delete elimina un producto del catálogo local.
func (r *ProductRepo) Delete(id int64) error {
	_, err := r.q.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("eliminar producto: %w", err)
	}
	return nil
}

// DeleteAll vacía el catálogo. Solo lo usa el reemplazo total de
// StockReplaceMerge, siempre dentro de una transacción.
func (r *ProductRepo) DeleteAll() error {
	if _, err := r.q.Exec(`DELETE FROM products`); err != nil {
		return fmt.Errorf("vaciar catálogo: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Cost, &p.Stock, &p.Category, &p.LowStockThreshold, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows *sql.Rows) ([]*entity.Product, error) {
	var items []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("escanear producto: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
