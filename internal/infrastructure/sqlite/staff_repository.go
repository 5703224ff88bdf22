package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jhoicas/tienda-sync/internal/domain/entity"
	"github.com/jhoicas/tienda-sync/internal/domain/repository"
)

var _ repository.StaffRepository = (*StaffRepo)(nil)

// StaffRepo implementación de StaffRepository sobre SQLite.
type StaffRepo struct {
	q Querier
}

// NewStaffRepository construye el adaptador de empleados. Pasar db o tx (Querier).
func NewStaffRepository(q Querier) *StaffRepo {
	return &StaffRepo{q: q}
}

// Create inserta un empleado.
func (r *StaffRepo) Create(s *entity.Staff) error {
	_, err := r.q.Exec(`
		INSERT INTO staff (id, name, pin_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.PINHash, s.Role, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insertar empleado: %w", err)
	}
	return nil
}

// GetByID devuelve nil, nil si no existe.
func (r *StaffRepo) GetByID(id string) (*entity.Staff, error) {
	return r.getBy(`id = ?`, id)
}

// GetByName devuelve nil, nil si no existe (clave de dedupe en invitaciones).
func (r *StaffRepo) GetByName(name string) (*entity.Staff, error) {
	return r.getBy(`name = ?`, name)
}

// List devuelve todos los empleados del terminal.
func (r *StaffRepo) List() ([]*entity.Staff, error) {
	rows, err := r.q.Query(`SELECT id, name, pin_hash, role, created_at FROM staff ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listar empleados: %w", err)
	}
	defer rows.Close()

	var staff []*entity.Staff
	for rows.Next() {
		var s entity.Staff
		if err := rows.Scan(&s.ID, &s.Name, &s.PINHash, &s.Role, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("escanear empleado: %w", err)
		}
		staff = append(staff, &s)
	}
	return staff, rows.Err()
}

// Delete elimina un empleado.
func (r *StaffRepo) Delete(id string) error {
	if _, err := r.q.Exec(`DELETE FROM staff WHERE id = ?`, id); err != nil {
		return fmt.Errorf("eliminar empleado: %w", err)
	}
	return nil
}

func (r *StaffRepo) getBy(where string, arg any) (*entity.Staff, error) {
	row := r.q.QueryRow(`SELECT id, name, pin_hash, role, created_at FROM staff WHERE `+where, arg)
	var s entity.Staff
	err := row.Scan(&s.ID, &s.Name, &s.PINHash, &s.Role, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("buscar empleado: %w", err)
	}
	return &s, nil
}
