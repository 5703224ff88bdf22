package entity

import "time"

// Roles de terminal. El terminal admin es la fuente del catálogo y el
// destino de los reportes de venta; los terminales staff son lo contrario.
const (
	TerminalAdmin = "admin"
	TerminalStaff = "staff"
)

// Settings es la fila única de configuración del terminal.
// SyncKey es el secreto compartido de la tienda: ofusca los tokens del canal
// asíncrono y deriva el nombre del canal de relay. No es una frontera
// criptográfica, solo enrutamiento por clave (ver DESIGN.md).
type Settings struct {
	ID                int64 // siempre 1
	ShopName          string
	SyncKey           string
	TerminalRole      string // TerminalAdmin | TerminalStaff
	AdminWhatsApp     string // número para enviar reportes
	WhatsAppGroupLink string
	SetupComplete     bool
	LicenseActive     bool
	LastStockSyncAt   *time.Time // última importación de catálogo (solo staff)
	UpdatedAt         time.Time
}
