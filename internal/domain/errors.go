package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrStaffNotFound      = errors.New("empleado no encontrado")
	ErrStaffAlreadyExists = errors.New("el empleado ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente")

	// Errores del canal asíncrono de sincronización (tokens del bridge).
	ErrInvalidFormat  = errors.New("código inválido: falta el marcador de formato")
	ErrCorruptPayload = errors.New("código corrupto: no se pudo descomprimir")
	ErrKeyMismatch    = errors.New("esta actualización pertenece a otra tienda")
	ErrUnknownPayload = errors.New("tipo de payload no reconocido")
)
