package dto

import "github.com/shopspring/decimal"

// SetupRequest setup inicial del terminal admin.
type SetupRequest struct {
	ShopName          string `json:"shop_name"`
	SyncKey           string `json:"sync_key"`
	AdminWhatsApp     string `json:"admin_whatsapp_number"`
	WhatsAppGroupLink string `json:"whatsapp_group_link"`
	AdminName         string `json:"admin_name"`
	AdminPIN          string `json:"admin_pin"`
}

// LoginRequest credenciales de un empleado (nombre + PIN).
type LoginRequest struct {
	Name string `json:"name"`
	PIN  string `json:"pin"`
}

// RegisterStaffRequest alta de empleado en este terminal.
type RegisterStaffRequest struct {
	Name string `json:"name"`
	PIN  string `json:"pin"`
	Role string `json:"role"`
}

// SaleItemRequest línea del carrito; el precio lo fija el catálogo local.
type SaleItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// SaleRequest registro de una venta.
type SaleRequest struct {
	Items         []SaleItemRequest `json:"items"`
	Discount      decimal.Decimal   `json:"discount"`
	PaymentMethod string            `json:"payment_method"`
	CashTendered  decimal.Decimal   `json:"cash_tendered"`
}

// ParkRequest aparcado de un carrito.
type ParkRequest struct {
	CustomerLabel string            `json:"customer_label"`
	Items         []SaleItemRequest `json:"items"`
}

// ParkedUpdateRequest re-aparcado con líneas nuevas.
type ParkedUpdateRequest struct {
	Items []SaleItemRequest `json:"items"`
}

// ResumeRequest cobro de un pedido aparcado.
type ResumeRequest struct {
	Discount      decimal.Decimal `json:"discount"`
	PaymentMethod string          `json:"payment_method"`
	CashTendered  decimal.Decimal `json:"cash_tendered"`
}

// ProductRequest alta o edición de producto.
type ProductRequest struct {
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	Cost              decimal.Decimal `json:"cost"`
	Category          string          `json:"category"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	InitialStock      int             `json:"initial_stock"`
}

// StockAdjustRequest recuento físico o reabastecimiento.
type StockAdjustRequest struct {
	Quantity int `json:"quantity"`
}

// ImportTokenRequest token del bridge pegado por el usuario.
type ImportTokenRequest struct {
	Token string `json:"token"`
}

// InviteRequest invitación de un terminal staff nuevo.
type InviteRequest struct {
	StaffName string `json:"staff_name"`
	StaffPIN  string `json:"staff_pin"`
	StaffRole string `json:"staff_role"`
}

// RotateKeyRequest rotación de la clave de sincronización.
type RotateKeyRequest struct {
	NewKey string `json:"new_key"`
}
