package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados. TransferVerifiedLabel es la etiqueta normalizada
// que se aplica a una transferencia después de verificarla manualmente.
const (
	PaymentCash     = "cash"
	PaymentTransfer = "transfer"
	PaymentCard     = "pos-card"
	PaymentSplit    = "split"

	TransferVerifiedLabel = "Bank Transfer"
)

// Estados de sincronización de una venta.
const (
	SyncStatusPending  = "pending"
	SyncStatusSynced   = "synced"
	SyncStatusVerified = "verified"
)

// SaleItem es una línea de venta con los datos del producto capturados al
// momento de vender (el catálogo puede cambiar después).
// StockDeducted marca que el stock de esta línea ya fue descontado (por
// ejemplo al aparcar el pedido); evita el doble descuento al finalizar.
type SaleItem struct {
	ProductID     int64
	Name          string
	Price         decimal.Decimal
	Quantity      int
	StockDeducted bool
}

// Sale es una venta registrada en el terminal.
// SaleID es un identificador global generado por el terminal que la creó y es
// la clave de idempotencia de toda la reconciliación: una venta ya presente
// (por SaleID) nunca se reaplica ni vuelve a descontar stock.
type Sale struct {
	ID            int64  // autoincremento local, sin significado entre terminales
	SaleID        string // clave de idempotencia global
	Items         []SaleItem
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod string
	CashTendered  decimal.Decimal // efectivo recibido (cash/split)
	StaffID       string
	StaffName     string
	SyncStatus    string
	CreatedAt     time.Time
}

// Record devuelve la forma de cable de la venta para reportes y relay.
// StockDeducted es local a esta réplica (marca que el stock ya se descontó
// aquí, para el guard de aparcar/retomar); el terminal que reciba el registro
// no descontó nada todavía, así que en el cable viaja siempre en false.
func (s *Sale) Record() SaleRecord {
	items := make([]SaleItemRecord, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, SaleItemRecord{
			ProductID:     it.ProductID,
			Name:          it.Name,
			Price:         it.Price,
			Quantity:      it.Quantity,
			StockDeducted: false,
		})
	}
	return SaleRecord{
		SaleID:        s.SaleID,
		Items:         items,
		Subtotal:      s.Subtotal,
		Discount:      s.Discount,
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		CashTendered:  s.CashTendered,
		StaffID:       s.StaffID,
		StaffName:     s.StaffName,
		Timestamp:     s.CreatedAt,
	}
}
