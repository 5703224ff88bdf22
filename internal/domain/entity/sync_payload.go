package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de payload de sincronización.
const (
	PayloadSalesReport = "SALES_REPORT" // staff -> admin: ventas pendientes
	PayloadStockUpdate = "STOCK_UPDATE" // admin -> staff: catálogo completo (sin costo)
	PayloadStaffInvite = "STAFF_INVITE" // onboarding de un terminal nuevo
	PayloadKeyUpdate   = "KEY_UPDATE"   // rotación de la clave de sincronización
)

// SyncPayload es la unión etiquetada que viaja en un token del bridge o en un
// evento del relay. Es transitoria: se construye y se consume en la frontera
// codec/importador, nunca se persiste. Los campos poblados dependen de Type.
type SyncPayload struct {
	Type string `json:"type"`

	// SALES_REPORT
	StaffName string       `json:"staff_name,omitempty"`
	Sales     []SaleRecord `json:"sales,omitempty"`

	// STOCK_UPDATE (sin precio de costo, a propósito)
	Products []ProductSnapshot `json:"products,omitempty"`

	// STAFF_INVITE
	ShopName          string       `json:"shop_name,omitempty"`
	MasterSyncKey     string       `json:"master_sync_key,omitempty"`
	AdminWhatsApp     string       `json:"admin_whatsapp_number,omitempty"`
	WhatsAppGroupLink string       `json:"whatsapp_group_link,omitempty"`
	StaffMember       *StaffRecord `json:"staffMember,omitempty"`

	// KEY_UPDATE
	NewKey string `json:"new_key,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// SaleRecord es la forma de cable de una venta (reportes y evento new-sale).
type SaleRecord struct {
	SaleID        string           `json:"sale_id"`
	Items         []SaleItemRecord `json:"items"`
	Subtotal      decimal.Decimal  `json:"subtotal"`
	Discount      decimal.Decimal  `json:"discount"`
	Total         decimal.Decimal  `json:"total"`
	PaymentMethod string           `json:"payment_method"`
	CashTendered  decimal.Decimal  `json:"cash_tendered"`
	StaffID       string           `json:"staff_id"`
	StaffName     string           `json:"staff_name"`
	Timestamp     time.Time        `json:"timestamp"`
}

// SaleItemRecord es la línea de venta en forma de cable.
type SaleItemRecord struct {
	ProductID     int64           `json:"product_id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	StockDeducted bool            `json:"is_stock_deducted"`
}

// ProductSnapshot es la proyección del producto en un STOCK_UPDATE.
// No incluye costo ni umbral: el terminal receptor sintetiza ambos.
type ProductSnapshot struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Stock    int             `json:"stock_qty"`
}

// StaffRecord es el empleado embebido en una invitación.
type StaffRecord struct {
	Name string `json:"name"`
	Role string `json:"role"`
	PIN  string `json:"pin,omitempty"` // PIN inicial en claro; se hashea al importar
}
