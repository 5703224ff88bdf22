package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/tienda-sync/internal/domain/entity"
	"github.com/jhoicas/tienda-sync/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo implementación de SettingsRepository sobre SQLite (fila única).
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador de configuración.
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// Get devuelve nil, nil si el terminal todavía no completó el setup.
func (r *SettingsRepo) Get() (*entity.Settings, error) {
	row := r.q.QueryRow(`
		SELECT id, shop_name, sync_key, terminal_role, admin_whatsapp, whatsapp_group_link,
		       setup_complete, license_active, last_stock_sync_at, updated_at
		FROM settings WHERE id = 1`)

	var s entity.Settings
	var lastSync sql.NullTime
	err := row.Scan(&s.ID, &s.ShopName, &s.SyncKey, &s.TerminalRole, &s.AdminWhatsApp,
		&s.WhatsAppGroupLink, &s.SetupComplete, &s.LicenseActive, &lastSync, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("leer configuración: %w", err)
	}
	if lastSync.Valid {
		t := lastSync.Time
		s.LastStockSyncAt = &t
	}
	return &s, nil
}

// Save inserta o actualiza la fila única (id = 1).
func (r *SettingsRepo) Save(s *entity.Settings) error {
	s.ID = 1
	s.UpdatedAt = time.Now()
	var lastSync any
	if s.LastStockSyncAt != nil {
		lastSync = *s.LastStockSyncAt
	}
	_, err := r.q.Exec(`
		INSERT INTO settings (id, shop_name, sync_key, terminal_role, admin_whatsapp, whatsapp_group_link,
		                      setup_complete, license_active, last_stock_sync_at, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			shop_name = excluded.shop_name,
			sync_key = excluded.sync_key,
			terminal_role = excluded.terminal_role,
			admin_whatsapp = excluded.admin_whatsapp,
			whatsapp_group_link = excluded.whatsapp_group_link,
			setup_complete = excluded.setup_complete,
			license_active = excluded.license_active,
			last_stock_sync_at = excluded.last_stock_sync_at,
			updated_at = excluded.updated_at`,
		s.ShopName, s.SyncKey, s.TerminalRole, s.AdminWhatsApp, s.WhatsAppGroupLink,
		s.SetupComplete, s.LicenseActive, lastSync, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("guardar configuración: %w", err)
	}
	return nil
}
