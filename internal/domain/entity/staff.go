package entity

import "time"

// Roles de empleado. Admin y manager son roles privilegiados: pueden forzar
// ventas por encima del stock disponible (el stock se recorta en cero).
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// Staff es un empleado registrado en este terminal.
type Staff struct {
	ID        string // uuid
	Name      string // único dentro del terminal
	PINHash   string // bcrypt del PIN de acceso
	Role      string
	CreatedAt time.Time
}

// Privileged indica si el rol puede saltarse la validación estricta de stock.
func (s *Staff) Privileged() bool {
	return s.Role == RoleAdmin || s.Role == RoleManager
}
