package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-sync/internal/domain/entity"
)

// ErrorResponse error uniforme de la API local.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// LoginResponse sesión emitida.
type LoginResponse struct {
	Token string        `json:"token"`
	Staff StaffResponse `json:"staff"`
}

// StaffResponse empleado sin el hash del PIN.
type StaffResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// NewStaffResponse proyecta un empleado.
func NewStaffResponse(s *entity.Staff) StaffResponse {
	return StaffResponse{ID: s.ID, Name: s.Name, Role: s.Role, CreatedAt: s.CreatedAt}
}

// ProductResponse producto del catálogo.
type ProductResponse struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	Cost              decimal.Decimal `json:"cost"`
	Stock             int             `json:"stock"`
	Category          string          `json:"category"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	LowStock          bool            `json:"low_stock"`
}

// NewProductResponse proyecta un producto.
func NewProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:                p.ID,
		Name:              p.Name,
		Price:             p.Price,
		Cost:              p.Cost,
		Stock:             p.Stock,
		Category:          p.Category,
		LowStockThreshold: p.LowStockThreshold,
		LowStock:          p.LowStock(),
	}
}

// SaleResponse venta registrada.
type SaleResponse struct {
	SaleID        string             `json:"sale_id"`
	Items         []SaleItemResponse `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Discount      decimal.Decimal    `json:"discount"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	CashTendered  decimal.Decimal    `json:"cash_tendered"`
	StaffName     string             `json:"staff_name"`
	SyncStatus    string             `json:"sync_status"`
	CreatedAt     time.Time          `json:"created_at"`
}

// SaleItemResponse línea de venta.
type SaleItemResponse struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// NewSaleResponse proyecta una venta.
func NewSaleResponse(s *entity.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, SaleItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}
	return SaleResponse{
		SaleID:        s.SaleID,
		Items:         items,
		Subtotal:      s.Subtotal,
		Discount:      s.Discount,
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		CashTendered:  s.CashTendered,
		StaffName:     s.StaffName,
		SyncStatus:    s.SyncStatus,
		CreatedAt:     s.CreatedAt,
	}
}

// ParkedOrderResponse pedido aparcado.
type ParkedOrderResponse struct {
	ID            int64              `json:"id"`
	CustomerLabel string             `json:"customer_label"`
	StaffName     string             `json:"staff_name"`
	Items         []SaleItemResponse `json:"items"`
	CreatedAt     time.Time          `json:"created_at"`
}

// NewParkedOrderResponse proyecta un pedido aparcado.
func NewParkedOrderResponse(o *entity.ParkedOrder) ParkedOrderResponse {
	items := make([]SaleItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, SaleItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}
	return ParkedOrderResponse{
		ID:            o.ID,
		CustomerLabel: o.CustomerLabel,
		StaffName:     o.StaffName,
		Items:         items,
		CreatedAt:     o.CreatedAt,
	}
}

// TokenResponse resultado de una exportación del bridge. Si el payload superó
// el largo máximo, Token queda vacío y File describe el archivo descargable.
type TokenResponse struct {
	Token string        `json:"token,omitempty"`
	Raw   string        `json:"raw"`
	Count int           `json:"count,omitempty"`
	File  *FileResponse `json:"file,omitempty"`
}

// FileResponse artefacto de archivo para tokens largos.
type FileResponse struct {
	Name string `json:"name"`
	Data []byte `json:"data"` // base64 en JSON
}

// NewTokenResponse proyecta un BridgeToken.
func NewTokenResponse(t *entity.BridgeToken, count int) TokenResponse {
	resp := TokenResponse{Token: t.Token, Raw: t.Raw, Count: count}
	if t.File != nil {
		resp.File = &FileResponse{Name: t.File.Name, Data: t.File.Data}
	}
	return resp
}

// InventoryLogResponse entrada de auditoría de stock.
type InventoryLogResponse struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	Delta     int       `json:"delta"`
	OldStock  int       `json:"old_stock"`
	NewStock  int       `json:"new_stock"`
	Type      string    `json:"type"`
	Actor     string    `json:"actor"`
	CreatedAt time.Time `json:"created_at"`
}

// NewInventoryLogResponse proyecta una entrada de auditoría.
func NewInventoryLogResponse(l *entity.InventoryLog) InventoryLogResponse {
	return InventoryLogResponse{
		ID:        l.ID,
		ProductID: l.ProductID,
		Delta:     l.Delta,
		OldStock:  l.OldStock,
		NewStock:  l.NewStock,
		Type:      l.Type,
		Actor:     l.Actor,
		CreatedAt: l.CreatedAt,
	}
}

// SettingsResponse configuración visible del terminal.
type SettingsResponse struct {
	ShopName          string     `json:"shop_name"`
	TerminalRole      string     `json:"terminal_role"`
	AdminWhatsApp     string     `json:"admin_whatsapp_number"`
	WhatsAppGroupLink string     `json:"whatsapp_group_link"`
	SetupComplete     bool       `json:"setup_complete"`
	LicenseActive     bool       `json:"license_active"`
	LastStockSyncAt   *time.Time `json:"last_stock_sync_at,omitempty"`
}

// NewSettingsResponse proyecta la configuración sin exponer la clave.
func NewSettingsResponse(s *entity.Settings) SettingsResponse {
	return SettingsResponse{
		ShopName:          s.ShopName,
		TerminalRole:      s.TerminalRole,
		AdminWhatsApp:     s.AdminWhatsApp,
		WhatsAppGroupLink: s.WhatsAppGroupLink,
		SetupComplete:     s.SetupComplete,
		LicenseActive:     s.LicenseActive,
		LastStockSyncAt:   s.LastStockSyncAt,
	}
}
