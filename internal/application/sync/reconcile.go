package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/tienda-sync/internal/application/ventas"
	"github.com/jhoicas/tienda-sync/internal/domain"
	"github.com/jhoicas/tienda-sync/internal/domain/entity"
	"github.com/jhoicas/tienda-sync/internal/domain/repository"
	"github.com/jhoicas/tienda-sync/pkg/logger"
)

// Umbral de alerta sintetizado para catálogos importados: el STOCK_UPDATE no
// transporta umbrales y el terminal staff necesita alguno razonable.
const defaultLowStockThreshold = 5

// Reconciler aplica payloads remotos sobre el estado local. Cada rutina de
// merge es idempotente: reaplicar el mismo payload no cambia nada.
type Reconciler struct {
	txRunner TxRunner
	log      *logger.Logger
}

// NewReconciler construye el motor de reconciliación.
func NewReconciler(txRunner TxRunner, log *logger.Logger) *Reconciler {
	return &Reconciler{txRunner: txRunner, log: log}
}

// MergeSalesReport incorpora ventas remotas. La clave de idempotencia es
// SaleID: una venta ya presente se salta por completo (ni inserción ni stock).
// Las líneas nuevas sin stock descontado lo descuentan aquí con recorte en
// cero; las líneas de productos que no existen localmente se conservan en la
// venta pero no tocan stock. Devuelve cuántas ventas se incorporaron.
func (r *Reconciler) MergeSalesReport(ctx context.Context, staffName string, records []entity.SaleRecord, channel string) (int, error) {
	actor := fmt.Sprintf("%s (%s)", channel, staffName)
	now := time.Now()
	imported := 0

	err := r.txRunner.Run(ctx, func(sales repository.SaleRepository, products repository.ProductRepository, logs repository.InventoryLogRepository) error {
		for _, rec := range records {
			if rec.SaleID == "" {
				continue
			}
			existing, err := sales.GetBySaleID(rec.SaleID)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}

			sale := &entity.Sale{
				SaleID:        rec.SaleID,
				Subtotal:      rec.Subtotal,
				Discount:      rec.Discount,
				Total:         rec.Total,
				PaymentMethod: rec.PaymentMethod,
				CashTendered:  rec.CashTendered,
				StaffID:       rec.StaffID,
				StaffName:     rec.StaffName,
				SyncStatus:    entity.SyncStatusSynced,
				CreatedAt:     rec.Timestamp,
			}

			for _, it := range rec.Items {
				deducted := it.StockDeducted
				if !deducted {
					product, err := products.GetByID(it.ProductID)
					if err != nil {
						return err
					}
					if product != nil {
						if err := ventas.DeductStockInTx(products, logs, product, it.Quantity,
							entity.LogTypeSale, actor, false, now); err != nil {
							return err
						}
						deducted = true
					}
				}
				sale.Items = append(sale.Items, entity.SaleItem{
					ProductID:     it.ProductID,
					Name:          it.Name,
					Price:         it.Price,
					Quantity:      it.Quantity,
					StockDeducted: deducted,
				})
			}

			if err := sales.Create(sale); err != nil {
				return err
			}
			imported++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("incorporar reporte de ventas: %w", err)
	}

	r.log.Info().Int("imported", imported).Int("received", len(records)).
		Str("channel", channel).Str("staff", staffName).Msg("reporte de ventas incorporado")
	return imported, nil
}

// MergeStockReplace reemplaza el catálogo completo por el snapshot recibido.
// Es destructivo a propósito: el terminal admin es la fuente de verdad del
// catálogo y los IDs locales no significan nada entre terminales, así que no
// hay merge por producto posible. Cada alta deja una entrada Sync y se
// registra el momento de la última sincronización de catálogo.
func (r *Reconciler) MergeStockReplace(ctx context.Context, snapshots []entity.ProductSnapshot, ts time.Time, channel string) (int, error) {
	if ts.IsZero() {
		ts = time.Now()
	}
	actor := fmt.Sprintf("%s (catálogo)", channel)
	now := time.Now()

	err := r.txRunner.RunSync(ctx, func(_ repository.SaleRepository, products repository.ProductRepository, logs repository.InventoryLogRepository, _ repository.StaffRepository, settings repository.SettingsRepository) error {
		if err := products.DeleteAll(); err != nil {
			return err
		}
		for _, snap := range snapshots {
			product := &entity.Product{
				Name:              snap.Name,
				Price:             snap.Price,
				Cost:              placeholderCost(snap.Price),
				Stock:             snap.Stock,
				Category:          snap.Category,
				LowStockThreshold: defaultLowStockThreshold,
				CreatedAt:         now,
				UpdatedAt:         now,
			}
			if err := products.Create(product); err != nil {
				return err
			}
			if err := logs.Create(&entity.InventoryLog{
				ProductID: product.ID,
				Delta:     snap.Stock,
				OldStock:  0,
				NewStock:  snap.Stock,
				Type:      entity.LogTypeSync,
				Actor:     actor,
				CreatedAt: now,
			}); err != nil {
				return err
			}
		}

		s, err := settings.Get()
		if err != nil {
			return err
		}
		if s == nil {
			// Sin setup no hay clave, y sin clave este payload no se pudo
			// decodificar. No debería pasar; no es motivo de rollback.
			return nil
		}
		s.LastStockSyncAt = &ts
		return settings.Save(s)
	})
	if err != nil {
		return 0, fmt.Errorf("reemplazar catálogo: %w", err)
	}

	r.log.Info().Int("products", len(snapshots)).Str("channel", channel).Msg("catálogo reemplazado")
	return len(snapshots), nil
}

// MergeStaffInvite configura el terminal como staff de la tienda que invita y
// da de alta al empleado embebido (dedupe por nombre). Reimportar la misma
// invitación es inocuo.
func (r *Reconciler) MergeStaffInvite(ctx context.Context, p *entity.SyncPayload) error {
	if p.ShopName == "" || p.MasterSyncKey == "" {
		return fmt.Errorf("invitación incompleta: %w", domain.ErrInvalidInput)
	}

	err := r.txRunner.RunSync(ctx, func(_ repository.SaleRepository, _ repository.ProductRepository, _ repository.InventoryLogRepository, staff repository.StaffRepository, settings repository.SettingsRepository) error {
		s, err := settings.Get()
		if err != nil {
			return err
		}
		if s == nil {
			s = &entity.Settings{}
		}
		s.ShopName = p.ShopName
		s.SyncKey = p.MasterSyncKey
		s.TerminalRole = entity.TerminalStaff
		s.AdminWhatsApp = p.AdminWhatsApp
		s.WhatsAppGroupLink = p.WhatsAppGroupLink
		s.SetupComplete = true
		s.LicenseActive = true
		if err := settings.Save(s); err != nil {
			return err
		}

		if p.StaffMember == nil || p.StaffMember.Name == "" {
			return nil
		}
		existing, err := staff.GetByName(p.StaffMember.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(p.StaffMember.PIN), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hashear pin: %w", err)
		}
		role := p.StaffMember.Role
		if role == "" {
			role = entity.RoleStaff
		}
		return staff.Create(&entity.Staff{
			ID:        uuid.New().String(),
			Name:      p.StaffMember.Name,
			PINHash:   string(hash),
			Role:      role,
			CreatedAt: time.Now(),
		})
	})
	if err != nil {
		return fmt.Errorf("aplicar invitación: %w", err)
	}

	r.log.Info().Str("shop", p.ShopName).Msg("terminal configurado por invitación")
	return nil
}

// ApplyKeyUpdate rota la clave de sincronización local. A partir de aquí los
// tokens con la clave anterior se rechazan con ErrKeyMismatch.
func (r *Reconciler) ApplyKeyUpdate(ctx context.Context, newKey string) error {
	if newKey == "" {
		return domain.ErrInvalidInput
	}
	err := r.txRunner.RunSync(ctx, func(_ repository.SaleRepository, _ repository.ProductRepository, _ repository.InventoryLogRepository, _ repository.StaffRepository, settings repository.SettingsRepository) error {
		s, err := settings.Get()
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		s.SyncKey = newKey
		return settings.Save(s)
	})
	if err != nil {
		return fmt.Errorf("rotar clave: %w", err)
	}
	r.log.Info().Msg("clave de sincronización rotada")
	return nil
}

// placeholderCost sintetiza un costo para productos importados: 60% del
// precio, redondeado hacia abajo a la decena. El costo real nunca viaja a
// terminales staff, pero los reportes locales necesitan un valor plausible.
func placeholderCost(price decimal.Decimal) decimal.Decimal {
	ten := decimal.NewFromInt(10)
	return price.Mul(decimal.NewFromFloat(0.6)).Div(ten).Floor().Mul(ten)
}
