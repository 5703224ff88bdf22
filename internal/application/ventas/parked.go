package ventas

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-sync/internal/domain"
	"github.com/jhoicas/tienda-sync/internal/domain/entity"
	"github.com/jhoicas/tienda-sync/internal/domain/repository"
	"github.com/jhoicas/tienda-sync/pkg/logger"
)

// ParkInput datos para aparcar un carrito.
type ParkInput struct {
	CustomerLabel string
	StaffID       string
	StaffName     string
	Privileged    bool
	Items         []SaleItemInput
}

// ResumeInput datos de cobro al retomar un pedido aparcado.
type ResumeInput struct {
	Discount      decimal.Decimal
	PaymentMethod string
	CashTendered  decimal.Decimal
	StaffID       string
	StaffName     string
}

// ParkedUseCase casos de uso de pedidos aparcados. Aparcar descuenta stock de
// inmediato (las unidades quedan reservadas); retomar cobra sin volver a
// descontar; cancelar devuelve el stock.
type ParkedUseCase struct {
	txRunner   TxRunner
	parkedRepo repository.ParkedOrderRepository
	relay      RelayPublisher
	log        *logger.Logger
}

// NewParkedUseCase construye el caso de uso de pedidos aparcados.
func NewParkedUseCase(txRunner TxRunner, parkedRepo repository.ParkedOrderRepository, relay RelayPublisher, log *logger.Logger) *ParkedUseCase {
	return &ParkedUseCase{txRunner: txRunner, parkedRepo: parkedRepo, relay: relay, log: log}
}

// Park suspende un carrito: descuenta el stock de cada línea (con auditoría)
// y persiste el pedido con las líneas marcadas StockDeducted.
func (uc *ParkedUseCase) Park(ctx context.Context, in ParkInput) (*entity.ParkedOrder, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	order := &entity.ParkedOrder{
		CustomerLabel: in.CustomerLabel,
		StaffID:       in.StaffID,
		StaffName:     in.StaffName,
		CreatedAt:     now,
	}

	err := uc.txRunner.RunParked(ctx, func(parked repository.ParkedOrderRepository, _ repository.SaleRepository, products repository.ProductRepository, logs repository.InventoryLogRepository) error {
		for _, it := range in.Items {
			product, err := products.GetByID(it.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("producto %d: %w", it.ProductID, domain.ErrNotFound)
			}
			if err := DeductStockInTx(products, logs, product, it.Quantity,
				entity.LogTypeSale, in.StaffName, !in.Privileged, now); err != nil {
				return err
			}
			order.Items = append(order.Items, entity.SaleItem{
				ProductID:     product.ID,
				Name:          product.Name,
				Price:         product.Price,
				Quantity:      it.Quantity,
				StockDeducted: true,
			})
		}
		return parked.Create(order)
	})
	if err != nil {
		return nil, fmt.Errorf("aparcar pedido: %w", err)
	}

	uc.log.Info().Int64("order_id", order.ID).Str("customer", in.CustomerLabel).Msg("pedido aparcado")
	return order, nil
}

// UpdateItems re-aparca un pedido con cantidades nuevas. Las diferencias por
// producto se aplican como ajustes de stock: más unidades descuentan, menos
// unidades devuelven. Las líneas se reemplazan por completo.
func (uc *ParkedUseCase) UpdateItems(ctx context.Context, orderID int64, items []SaleItemInput, staffName string, privileged bool) (*entity.ParkedOrder, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var updated *entity.ParkedOrder

	err := uc.txRunner.RunParked(ctx, func(parked repository.ParkedOrderRepository, _ repository.SaleRepository, products repository.ProductRepository, logs repository.InventoryLogRepository) error {
		order, err := parked.GetByID(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}

		previous := make(map[int64]int, len(order.Items))
		for _, it := range order.Items {
			previous[it.ProductID] += it.Quantity
		}
		requested := make(map[int64]int, len(items))
		for _, it := range items {
			if it.Quantity <= 0 {
				return domain.ErrInvalidInput
			}
			requested[it.ProductID] += it.Quantity
		}

		newItems := make([]entity.SaleItem, 0, len(items))
		for _, it := range items {
			product, err := products.GetByID(it.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("producto %d: %w", it.ProductID, domain.ErrNotFound)
			}

			delta := requested[product.ID] - previous[product.ID]
			if delta > 0 {
				if err := DeductStockInTx(products, logs, product, delta,
					entity.LogTypeAdjustment, staffName, !privileged, now); err != nil {
					return err
				}
			} else if delta < 0 {
				if err := RestoreStockInTx(products, logs, product, -delta,
					entity.LogTypeAdjustment, staffName, now); err != nil {
					return err
				}
			}
			// Marcar el delta como aplicado: varias líneas del mismo
			// producto no deben reaplicarlo.
			previous[product.ID] = requested[product.ID]

			newItems = append(newItems, entity.SaleItem{
				ProductID:     product.ID,
				Name:          product.Name,
				Price:         product.Price,
				Quantity:      it.Quantity,
				StockDeducted: true,
			})
		}

		// Productos que salieron del pedido: devolver todo su stock.
		seen := make(map[int64]bool, len(requested))
		for id := range requested {
			seen[id] = true
		}
		for _, it := range order.Items {
			if seen[it.ProductID] || previous[it.ProductID] == 0 {
				continue
			}
			seen[it.ProductID] = true
			product, err := products.GetByID(it.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				continue
			}
			if err := RestoreStockInTx(products, logs, product, previous[it.ProductID],
				entity.LogTypeAdjustment, staffName, now); err != nil {
				return err
			}
		}

		if err := parked.ReplaceItems(order.ID, newItems); err != nil {
			return err
		}
		order.Items = newItems
		updated = order
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("actualizar pedido aparcado: %w", err)
	}

	uc.log.Info().Int64("order_id", orderID).Msg("pedido aparcado actualizado")
	return updated, nil
}

// Resume convierte un pedido aparcado en venta y lo elimina, en una sola
// transacción. El stock ya fue descontado al aparcar, así que aquí no se toca.
func (uc *ParkedUseCase) Resume(ctx context.Context, orderID int64, in ResumeInput) (*entity.Sale, error) {
	if in.Discount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	switch in.PaymentMethod {
	case entity.PaymentCash, entity.PaymentTransfer, entity.PaymentCard, entity.PaymentSplit:
	default:
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var sale *entity.Sale

	err := uc.txRunner.RunParked(ctx, func(parked repository.ParkedOrderRepository, sales repository.SaleRepository, _ repository.ProductRepository, _ repository.InventoryLogRepository) error {
		order, err := parked.GetByID(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}

		subtotal := decimal.Zero
		for _, it := range order.Items {
			subtotal = subtotal.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
		total := subtotal.Sub(in.Discount)
		if total.IsNegative() {
			return domain.ErrInvalidInput
		}

		sale = &entity.Sale{
			SaleID:        "SAL-" + uuid.New().String(),
			Items:         order.Items,
			Subtotal:      subtotal,
			Discount:      in.Discount,
			Total:         total,
			PaymentMethod: in.PaymentMethod,
			CashTendered:  in.CashTendered,
			StaffID:       in.StaffID,
			StaffName:     in.StaffName,
			SyncStatus:    entity.SyncStatusPending,
			CreatedAt:     now,
		}
		if err := sales.Create(sale); err != nil {
			return err
		}
		return parked.Delete(order.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("retomar pedido aparcado: %w", err)
	}

	uc.log.Info().Int64("order_id", orderID).Str("sale_id", sale.SaleID).Msg("pedido retomado y cobrado")
	if uc.relay != nil && uc.relay.Connected() {
		uc.relay.PublishSale(sale)
	}
	return sale, nil
}

// Cancel descarta un pedido aparcado devolviendo el stock de cada línea con
// entradas Return.
func (uc *ParkedUseCase) Cancel(ctx context.Context, orderID int64, actorName string) error {
	now := time.Now()
	err := uc.txRunner.RunParked(ctx, func(parked repository.ParkedOrderRepository, _ repository.SaleRepository, products repository.ProductRepository, logs repository.InventoryLogRepository) error {
		order, err := parked.GetByID(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		for _, it := range order.Items {
			if !it.StockDeducted {
				continue
			}
			product, err := products.GetByID(it.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				continue
			}
			if err := RestoreStockInTx(products, logs, product, it.Quantity,
				entity.LogTypeReturn, actorName, now); err != nil {
				return err
			}
		}
		return parked.Delete(order.ID)
	})
	if err != nil {
		return fmt.Errorf("cancelar pedido aparcado: %w", err)
	}

	uc.log.Info().Int64("order_id", orderID).Str("actor", actorName).Msg("pedido aparcado cancelado")
	return nil
}

// List lista los pedidos aparcados del terminal.
func (uc *ParkedUseCase) List(_ context.Context) ([]*entity.ParkedOrder, error) {
	return uc.parkedRepo.List()
}
