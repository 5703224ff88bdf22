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

// SaleItemInput línea de venta entrante (el precio se captura del catálogo).
type SaleItemInput struct {
	ProductID int64
	Quantity  int
}

// SaleInput datos para registrar una venta.
type SaleInput struct {
	Items         []SaleItemInput
	Discount      decimal.Decimal
	PaymentMethod string
	CashTendered  decimal.Decimal
	StaffID       string
	StaffName     string
	// Privileged permite vender por encima del stock disponible (el
	// descuento se recorta en cero). Lo fija el handler según el rol.
	Privileged bool
}

// SalesUseCase casos de uso del ciclo de vida de una venta local.
type SalesUseCase struct {
	txRunner TxRunner
	saleRepo repository.SaleRepository
	relay    RelayPublisher // puede ser nil (terminal sin relay)
	log      *logger.Logger
}

// NewSalesUseCase construye el caso de uso de ventas.
func NewSalesUseCase(txRunner TxRunner, saleRepo repository.SaleRepository, relay RelayPublisher, log *logger.Logger) *SalesUseCase {
	return &SalesUseCase{txRunner: txRunner, saleRepo: saleRepo, relay: relay, log: log}
}

// RegisterSale registra una venta: captura precio y nombre del catálogo,
// descuenta stock línea por línea con su entrada de auditoría, e inserta la
// venta con estado pending. Todo en una transacción. Después del commit la
// venta se espeja al relay (best-effort).
func (uc *SalesUseCase) RegisterSale(ctx context.Context, in SaleInput) (*entity.Sale, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Discount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	switch in.PaymentMethod {
	case entity.PaymentCash, entity.PaymentTransfer, entity.PaymentCard, entity.PaymentSplit:
	default:
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	sale := &entity.Sale{
		SaleID:        "SAL-" + uuid.New().String(),
		Discount:      in.Discount,
		PaymentMethod: in.PaymentMethod,
		CashTendered:  in.CashTendered,
		StaffID:       in.StaffID,
		StaffName:     in.StaffName,
		SyncStatus:    entity.SyncStatusPending,
		CreatedAt:     now,
	}

	err := uc.txRunner.Run(ctx, func(sales repository.SaleRepository, products repository.ProductRepository, logs repository.InventoryLogRepository) error {
		subtotal := decimal.Zero
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
			sale.Items = append(sale.Items, entity.SaleItem{
				ProductID:     product.ID,
				Name:          product.Name,
				Price:         product.Price,
				Quantity:      it.Quantity,
				StockDeducted: true,
			})
			subtotal = subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}

		sale.Subtotal = subtotal
		sale.Total = subtotal.Sub(in.Discount)
		if sale.Total.IsNegative() {
			return domain.ErrInvalidInput
		}
		return sales.Create(sale)
	})
	if err != nil {
		return nil, fmt.Errorf("registrar venta: %w", err)
	}

	uc.log.Info().Str("sale_id", sale.SaleID).Str("staff", in.StaffName).
		Str("total", sale.Total.String()).Msg("venta registrada")
	uc.publish(sale)
	return sale, nil
}

// DeleteSale deshace una venta con una transacción compensatoria: restaura el
// stock de cada línea descontada dejando entradas Return y elimina la venta.
func (uc *SalesUseCase) DeleteSale(ctx context.Context, saleID, actorName string) error {
	now := time.Now()
	err := uc.txRunner.Run(ctx, func(sales repository.SaleRepository, products repository.ProductRepository, logs repository.InventoryLogRepository) error {
		sale, err := sales.GetBySaleID(saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		for _, it := range sale.Items {
			if !it.StockDeducted {
				continue
			}
			product, err := products.GetByID(it.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				// El producto fue eliminado después de la venta; no hay
				// stock que restaurar.
				continue
			}
			if err := RestoreStockInTx(products, logs, product, it.Quantity,
				entity.LogTypeReturn, actorName, now); err != nil {
				return err
			}
		}
		return sales.Delete(sale.ID)
	})
	if err != nil {
		return fmt.Errorf("eliminar venta: %w", err)
	}

	uc.log.Info().Str("sale_id", saleID).Str("actor", actorName).Msg("venta eliminada con devolución de stock")
	return nil
}

// VerifyTransfer marca una transferencia como verificada manualmente y
// normaliza su método de pago a la etiqueta verificada.
func (uc *SalesUseCase) VerifyTransfer(_ context.Context, saleID string) error {
	sale, err := uc.saleRepo.GetBySaleID(saleID)
	if err != nil {
		return err
	}
	if sale == nil {
		return domain.ErrNotFound
	}
	if sale.PaymentMethod != entity.PaymentTransfer && sale.PaymentMethod != entity.PaymentSplit {
		return fmt.Errorf("la venta %s no es una transferencia: %w", saleID, domain.ErrInvalidInput)
	}
	// Verificar saca la venta del estado pending; si aún no viajó al admin
	// quedaría fuera del próximo reporte para siempre.
	if sale.SyncStatus == entity.SyncStatusPending {
		return fmt.Errorf("la venta %s aún no fue exportada: %w", saleID, domain.ErrInvalidInput)
	}
	if err := uc.saleRepo.MarkTransferVerified(saleID); err != nil {
		return fmt.Errorf("verificar transferencia: %w", err)
	}
	uc.log.Info().Str("sale_id", saleID).Msg("transferencia verificada")
	return nil
}

// ListByDay lista las ventas de un día (reporte diario del terminal).
func (uc *SalesUseCase) ListByDay(_ context.Context, day time.Time) ([]*entity.Sale, error) {
	return uc.saleRepo.ListByDay(day)
}

// ListPending lista las ventas aún no exportadas al terminal admin.
func (uc *SalesUseCase) ListPending(_ context.Context) ([]*entity.Sale, error) {
	return uc.saleRepo.ListBySyncStatus(entity.SyncStatusPending)
}

func (uc *SalesUseCase) publish(sale *entity.Sale) {
	if uc.relay == nil || !uc.relay.Connected() {
		return
	}
	uc.relay.PublishSale(sale)
}
