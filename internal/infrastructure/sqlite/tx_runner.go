package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jhoicas/tienda-sync/internal/application/productos"
	"github.com/jhoicas/tienda-sync/internal/application/sync"
	"github.com/jhoicas/tienda-sync/internal/application/ventas"
	"github.com/jhoicas/tienda-sync/internal/domain/repository"
)

// Ensure TxRunner implementa los puertos transaccionales de las aplicaciones.
var (
	_ ventas.TxRunner    = (*TxRunner)(nil)
	_ sync.TxRunner      = (*TxRunner)(nil)
	_ productos.TxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción SQLite. Una aplicación
// parcial de una venta o de una reconciliación nunca debe ser observable:
// cualquier error dentro del callback revierte todas las escrituras.
type TxRunner struct {
	db *sql.DB
}

// NewTxRunner construye el runner con la base local.
func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Cubre el núcleo venta/stock/log (checkout y borrado).
func (r *TxRunner) Run(ctx context.Context, fn func(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	logs repository.InventoryLogRepository,
) error) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		return fn(NewSaleRepository(tx), NewProductRepository(tx), NewInventoryLogRepository(tx))
	})
}

// RunParked inicia una transacción con repos de pedidos aparcados además del
// núcleo (aparcar, editar, retomar y cancelar pedidos).
func (r *TxRunner) RunParked(ctx context.Context, fn func(
	parked repository.ParkedOrderRepository,
	sales repository.SaleRepository,
	products repository.ProductRepository,
	logs repository.InventoryLogRepository,
) error) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		return fn(NewParkedOrderRepository(tx), NewSaleRepository(tx), NewProductRepository(tx), NewInventoryLogRepository(tx))
	})
}

// RunSync inicia una transacción con todos los repos que tocan las rutinas de
// reconciliación (reportes de venta, reemplazo de catálogo, invitaciones).
func (r *TxRunner) RunSync(ctx context.Context, fn func(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	logs repository.InventoryLogRepository,
	staff repository.StaffRepository,
	settings repository.SettingsRepository,
) error) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		return fn(NewSaleRepository(tx), NewProductRepository(tx), NewInventoryLogRepository(tx),
			NewStaffRepository(tx), NewSettingsRepository(tx))
	})
}

func (r *TxRunner) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
