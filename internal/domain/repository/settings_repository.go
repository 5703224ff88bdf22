package repository

import "github.com/jhoicas/tienda-sync/internal/domain/entity"

// SettingsRepository define el puerto de la fila única de configuración.
type SettingsRepository interface {
	// Get devuelve nil, nil si el terminal todavía no completó el setup.
	Get() (*entity.Settings, error)
	// Save inserta o actualiza la fila única (id = 1).
	Save(settings *entity.Settings) error
}
