package entity

import "time"

// Tipos de movimiento del log de inventario. Los valores van tal cual a la
// base y a la UI, por eso se mantienen legibles.
const (
	LogTypeSale         = "Sale"
	LogTypeReturn       = "Return"
	LogTypeAdjustment   = "Adjustment"
	LogTypeSync         = "Sync"
	LogTypeRestock      = "Restock"
	LogTypeManual       = "Manual"
	LogTypeInitialStock = "Initial Stock"
)

// InventoryLog es una entrada inmutable de auditoría: existe exactamente una
// por cada mutación de stock, creada en la misma transacción que la mutación.
// Nunca se edita ni se borra; deshacer una venta genera una entrada Return
// compensatoria en lugar de tocar las existentes.
type InventoryLog struct {
	ID        int64
	ProductID int64
	Delta     int // cambio aplicado (negativo en ventas)
	OldStock  int
	NewStock  int
	Type      string
	Actor     string // quién o qué lo hizo: nombre del empleado o etiqueta sintética ("Sync Bridge (Ana)")
	CreatedAt time.Time
}
