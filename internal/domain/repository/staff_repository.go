package repository

import "github.com/jhoicas/tienda-sync/internal/domain/entity"

// StaffRepository define el puerto de persistencia para Staff.
type StaffRepository interface {
	Create(staff *entity.Staff) error
	GetByID(id string) (*entity.Staff, error)
	// GetByName devuelve nil, nil si no existe; el nombre es la clave de
	// dedupe al importar invitaciones.
	GetByName(name string) (*entity.Staff, error)
	List() ([]*entity.Staff, error)
	Delete(id string) error
}
