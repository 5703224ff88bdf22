package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/tienda-sync/internal/domain/entity"
	"github.com/jhoicas/tienda-sync/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre SQLite (usable con db o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar db o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = "id, sale_id, subtotal, discount, total, payment_method, cash_tendered, staff_id, staff_name, sync_status, created_at"

// Create inserta la venta y sus líneas.
func (r *SaleRepo) Create(s *entity.Sale) error {
	res, err := r.q.Exec(`
		INSERT INTO sales (sale_id, subtotal, discount, total, payment_method, cash_tendered, staff_id, staff_name, sync_status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.SaleID, s.Subtotal, s.Discount, s.Total, s.PaymentMethod, s.CashTendered, s.StaffID, s.StaffName, s.SyncStatus, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insertar venta: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("id de venta: %w", err)
	}
	s.ID = id

	for _, it := range s.Items {
		_, err := r.q.Exec(`
			INSERT INTO sale_items (sale_ref, product_id, name, price, quantity, stock_deducted)
			VALUES (?, ?, ?, ?, ?, ?)`,
			s.ID, it.ProductID, it.Name, it.Price, it.Quantity, it.StockDeducted,
		)
		if err != nil {
			return fmt.Errorf("insertar línea de venta: %w", err)
		}
	}
	return nil
}

// GetBySaleID busca por la clave de idempotencia global; nil, nil si no existe.
func (r *SaleRepo) GetBySaleID(saleID string) (*entity.Sale, error) {
	row := r.q.QueryRow(`SELECT `+saleColumns+` FROM sales WHERE sale_id = ?`, saleID)
	s, err := scanSale(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("buscar venta: %w", err)
	}
	if err := r.loadItems(s); err != nil {
		return nil, err
	}
	return s, nil
}

// ListByDay devuelve las ventas del día local indicado.
func (r *SaleRepo) ListByDay(day time.Time) ([]*entity.Sale, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)
	rows, err := r.q.Query(`
		SELECT `+saleColumns+` FROM sales
		WHERE created_at >= ? AND created_at < ?
		ORDER BY created_at DESC`, start, end)
	if err != nil {
		return nil, fmt.Errorf("listar ventas del día: %w", err)
	}
	defer rows.Close()
	return r.collectSales(rows)
}

// ListBySyncStatus devuelve las ventas con el estado dado (ej. "pending").
func (r *SaleRepo) ListBySyncStatus(status string) ([]*entity.Sale, error) {
	rows, err := r.q.Query(`
		SELECT `+saleColumns+` FROM sales
		WHERE sync_status = ?
		ORDER BY created_at ASC`, status)
	if err != nil {
		return nil, fmt.Errorf("listar ventas por estado: %w", err)
	}
	defer rows.Close()
	return r.collectSales(rows)
}

// UpdateSyncStatus cambia el estado de sincronización de una venta.
func (r *SaleRepo) UpdateSyncStatus(saleID, status string) error {
	_, err := r.q.Exec(`UPDATE sales SET sync_status = ? WHERE sale_id = ?`, status, saleID)
	if err != nil {
		return fmt.Errorf("actualizar estado de venta: %w", err)
	}
	return nil
}

// MarkTransferVerified normaliza el método de pago y marca la venta verificada.
func (r *SaleRepo) MarkTransferVerified(saleID string) error {
	_, err := r.q.Exec(`UPDATE sales SET payment_method = ?, sync_status = ? WHERE sale_id = ?`,
		entity.TransferVerifiedLabel, entity.SyncStatusVerified, saleID)
	if err != nil {
		return fmt.Errorf("verificar transferencia: %w", err)
	}
	return nil
}

// Delete elimina la venta; las líneas caen por ON DELETE CASCADE.
func (r *SaleRepo) Delete(id int64) error {
	if _, err := r.q.Exec(`DELETE FROM sales WHERE id = ?`, id); err != nil {
		return fmt.Errorf("eliminar venta: %w", err)
	}
	return nil
}

func scanSale(row rowScanner) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.SaleID, &s.Subtotal, &s.Discount, &s.Total, &s.PaymentMethod,
		&s.CashTendered, &s.StaffID, &s.StaffName, &s.SyncStatus, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SaleRepo) collectSales(rows *sql.Rows) ([]*entity.Sale, error) {
	var sales []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("escanear venta: %w", err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range sales {
		if err := r.loadItems(s); err != nil {
			return nil, err
		}
	}
	return sales, nil
}

func (r *SaleRepo) loadItems(s *entity.Sale) error {
	rows, err := r.q.Query(`
		SELECT product_id, name, price, quantity, stock_deducted
		FROM sale_items WHERE sale_ref = ? ORDER BY id ASC`, s.ID)
	if err != nil {
		return fmt.Errorf("cargar líneas de venta: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Price, &it.Quantity, &it.StockDeducted); err != nil {
			return fmt.Errorf("escanear línea de venta: %w", err)
		}
		s.Items = append(s.Items, it)
	}
	return rows.Err()
}
