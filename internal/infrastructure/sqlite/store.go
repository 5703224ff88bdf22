package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Open abre (o crea) la base local embebida del terminal y aplica el esquema.
// Cada terminal posee su propio archivo: no hay base compartida ni servidor.
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("abrir base local: %w", err)
	}
	// SQLite serializa escrituras; una sola conexión evita SQLITE_BUSY en
	// transacciones concurrentes del mismo proceso.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping base local: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrar esquema: %w", err)
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			price TEXT NOT NULL,
			cost TEXT NOT NULL DEFAULT '0',
			stock INTEGER NOT NULL DEFAULT 0,
			category TEXT NOT NULL DEFAULT '',
			low_stock_threshold INTEGER NOT NULL DEFAULT 5,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sales (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			sale_id TEXT NOT NULL UNIQUE,
			subtotal TEXT NOT NULL,
			discount TEXT NOT NULL DEFAULT '0',
			total TEXT NOT NULL,
			payment_method TEXT NOT NULL,
			cash_tendered TEXT NOT NULL DEFAULT '0',
			staff_id TEXT NOT NULL DEFAULT '',
			staff_name TEXT NOT NULL DEFAULT '',
			sync_status TEXT NOT NULL DEFAULT 'pending',
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_created_at ON sales (created_at)`,
		`CREATE TABLE IF NOT EXISTS sale_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			sale_ref INTEGER NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
			product_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			price TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			stock_deducted INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS inventory_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			product_id INTEGER NOT NULL,
			delta INTEGER NOT NULL,
			old_stock INTEGER NOT NULL,
			new_stock INTEGER NOT NULL,
			type TEXT NOT NULL,
			actor TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_inventory_logs_product ON inventory_logs (product_id)`,
		`CREATE TABLE IF NOT EXISTS parked_orders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			customer_label TEXT NOT NULL DEFAULT '',
			staff_id TEXT NOT NULL DEFAULT '',
			staff_name TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS parked_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			order_ref INTEGER NOT NULL REFERENCES parked_orders(id) ON DELETE CASCADE,
			product_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			price TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			stock_deducted INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS staff (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			pin_hash TEXT NOT NULL,
			role TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			shop_name TEXT NOT NULL DEFAULT '',
			sync_key TEXT NOT NULL DEFAULT '',
			terminal_role TEXT NOT NULL DEFAULT 'admin',
			admin_whatsapp TEXT NOT NULL DEFAULT '',
			whatsapp_group_link TEXT NOT NULL DEFAULT '',
			setup_complete INTEGER NOT NULL DEFAULT 0,
			license_active INTEGER NOT NULL DEFAULT 0,
			last_stock_sync_at DATETIME,
			updated_at DATETIME NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("aplicar esquema: %w", err)
		}
	}
	return nil
}
