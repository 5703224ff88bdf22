package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/jhoicas/tienda-sync/internal/domain/entity"
	"github.com/jhoicas/tienda-sync/internal/domain/repository"
)

var _ repository.InventoryLogRepository = (*InventoryLogRepo)(nil)

// InventoryLogRepo implementación del log de auditoría sobre SQLite.
// Solo inserta y lee: no hay Update ni Delete a propósito.
type InventoryLogRepo struct {
	q Querier
}

// NewInventoryLogRepository construye el adaptador del log. Pasar db o tx (Querier).
func NewInventoryLogRepository(q Querier) *InventoryLogRepo {
	return &InventoryLogRepo{q: q}
}

// Create inserta una entrada de auditoría.
func (r *InventoryLogRepo) Create(l *entity.InventoryLog) error {
	res, err := r.q.Exec(`
		INSERT INTO inventory_logs (product_id, delta, old_stock, new_stock, type, actor, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ProductID, l.Delta, l.OldStock, l.NewStock, l.Type, l.Actor, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insertar log de inventario: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("id de log: %w", err)
	}
	l.ID = id
	return nil
}

// ListByProduct devuelve el historial de un producto, reciente primero.
func (r *InventoryLogRepo) ListByProduct(productID int64, limit int) ([]*entity.InventoryLog, error) {
	rows, err := r.q.Query(`
		SELECT id, product_id, delta, old_stock, new_stock, type, actor, created_at
		FROM inventory_logs WHERE product_id = ?
		ORDER BY id DESC LIMIT ?`, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("listar logs de producto: %w", err)
	}
	defer rows.Close()
	return collectLogs(rows)
}

// ListRecent devuelve las últimas entradas de todos los productos.
func (r *InventoryLogRepo) ListRecent(limit int) ([]*entity.InventoryLog, error) {
	rows, err := r.q.Query(`
		SELECT id, product_id, delta, old_stock, new_stock, type, actor, created_at
		FROM inventory_logs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listar logs recientes: %w", err)
	}
	defer rows.Close()
	return collectLogs(rows)
}

func collectLogs(rows *sql.Rows) ([]*entity.InventoryLog, error) {
	var logs []*entity.InventoryLog
	for rows.Next() {
		var l entity.InventoryLog
		if err := rows.Scan(&l.ID, &l.ProductID, &l.Delta, &l.OldStock, &l.NewStock, &l.Type, &l.Actor, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("escanear log: %w", err)
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}
