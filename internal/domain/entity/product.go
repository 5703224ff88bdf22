package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo local del terminal.
// El ID es local (autoincremento de la base embebida) y NO es globalmente
// único entre terminales; la fuente de verdad del catálogo es el terminal admin.
// Cost (precio de costo) es un campo solo-admin: nunca viaja a terminales staff.
type Product struct {
	ID                int64
	Name              string
	Price             decimal.Decimal // precio de venta
	Cost              decimal.Decimal // precio de costo (solo admin)
	Stock             int             // siempre >= 0 (los decrementos se recortan en cero)
	Category          string
	LowStockThreshold int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// LowStock indica si el producto está en o por debajo de su umbral de alerta.
func (p *Product) LowStock() bool {
	return p.Stock <= p.LowStockThreshold
}

// Snapshot devuelve la proyección del producto que viaja en un STOCK_UPDATE.
// Omite deliberadamente el precio de costo: los terminales staff no deben
// recibir el costo real por ningún canal.
func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		Name:     p.Name,
		Price:    p.Price,
		Category: p.Category,
		Stock:    p.Stock,
	}
}
