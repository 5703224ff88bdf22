package entity

import "time"

// ParkedOrder es un carrito suspendido y retomable. Las líneas aparcadas ya
// descontaron stock (StockDeducted=true), así que al retomar y cobrar no se
// vuelve a descontar. Al retomar, el pedido se elimina y se convierte en Sale.
type ParkedOrder struct {
	ID            int64
	CustomerLabel string
	StaffID       string
	StaffName     string
	Items         []SaleItem
	CreatedAt     time.Time
}
