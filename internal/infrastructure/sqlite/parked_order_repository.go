package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jhoicas/tienda-sync/internal/domain/entity"
	"github.com/jhoicas/tienda-sync/internal/domain/repository"
)

var _ repository.ParkedOrderRepository = (*ParkedOrderRepo)(nil)

// ParkedOrderRepo implementación de ParkedOrderRepository sobre SQLite.
type ParkedOrderRepo struct {
	q Querier
}

// NewParkedOrderRepository construye el adaptador de pedidos aparcados.
func NewParkedOrderRepository(q Querier) *ParkedOrderRepo {
	return &ParkedOrderRepo{q: q}
}

// Create inserta el pedido aparcado y sus líneas.
func (r *ParkedOrderRepo) Create(o *entity.ParkedOrder) error {
	res, err := r.q.Exec(`
		INSERT INTO parked_orders (customer_label, staff_id, staff_name, created_at)
		VALUES (?, ?, ?, ?)`,
		o.CustomerLabel, o.StaffID, o.StaffName, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insertar pedido aparcado: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("id de pedido aparcado: %w", err)
	}
	o.ID = id
	return r.insertItems(o.ID, o.Items)
}

// GetByID devuelve nil, nil si el pedido no existe.
func (r *ParkedOrderRepo) GetByID(id int64) (*entity.ParkedOrder, error) {
	row := r.q.QueryRow(`
		SELECT id, customer_label, staff_id, staff_name, created_at
		FROM parked_orders WHERE id = ?`, id)
	var o entity.ParkedOrder
	err := row.Scan(&o.ID, &o.CustomerLabel, &o.StaffID, &o.StaffName, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("buscar pedido aparcado: %w", err)
	}
	if err := r.loadItems(&o); err != nil {
		return nil, err
	}
	return &o, nil
}

// List devuelve todos los pedidos aparcados, reciente primero.
func (r *ParkedOrderRepo) List() ([]*entity.ParkedOrder, error) {
	rows, err := r.q.Query(`
		SELECT id, customer_label, staff_id, staff_name, created_at
		FROM parked_orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listar pedidos aparcados: %w", err)
	}
	defer rows.Close()

	var orders []*entity.ParkedOrder
	for rows.Next() {
		var o entity.ParkedOrder
		if err := rows.Scan(&o.ID, &o.CustomerLabel, &o.StaffID, &o.StaffName, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("escanear pedido aparcado: %w", err)
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range orders {
		if err := r.loadItems(o); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// ReplaceItems borra y reinserta las líneas (re-aparcar es reemplazo, no diff).
func (r *ParkedOrderRepo) ReplaceItems(orderID int64, items []entity.SaleItem) error {
	if _, err := r.q.Exec(`DELETE FROM parked_items WHERE order_ref = ?`, orderID); err != nil {
		return fmt.Errorf("borrar líneas aparcadas: %w", err)
	}
	return r.insertItems(orderID, items)
}

// Delete elimina el pedido; las líneas caen por ON DELETE CASCADE.
func (r *ParkedOrderRepo) Delete(id int64) error {
	if _, err := r.q.Exec(`DELETE FROM parked_orders WHERE id = ?`, id); err != nil {
		return fmt.Errorf("eliminar pedido aparcado: %w", err)
	}
	return nil
}

func (r *ParkedOrderRepo) insertItems(orderID int64, items []entity.SaleItem) error {
	for _, it := range items {
		_, err := r.q.Exec(`
			INSERT INTO parked_items (order_ref, product_id, name, price, quantity, stock_deducted)
			VALUES (?, ?, ?, ?, ?, ?)`,
			orderID, it.ProductID, it.Name, it.Price, it.Quantity, it.StockDeducted,
		)
		if err != nil {
			return fmt.Errorf("insertar línea aparcada: %w", err)
		}
	}
	return nil
}

func (r *ParkedOrderRepo) loadItems(o *entity.ParkedOrder) error {
	rows, err := r.q.Query(`
		SELECT product_id, name, price, quantity, stock_deducted
		FROM parked_items WHERE order_ref = ? ORDER BY id ASC`, o.ID)
	if err != nil {
		return fmt.Errorf("cargar líneas aparcadas: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Price, &it.Quantity, &it.StockDeducted); err != nil {
			return fmt.Errorf("escanear línea aparcada: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}
