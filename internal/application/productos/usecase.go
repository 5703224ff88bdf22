package productos

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-sync/internal/domain"
	"github.com/jhoicas/tienda-sync/internal/domain/entity"
	"github.com/jhoicas/tienda-sync/internal/domain/repository"
	"github.com/jhoicas/tienda-sync/pkg/logger"
)

// ProductInput datos para crear o actualizar un producto.
type ProductInput struct {
	Name              string
	Price             decimal.Decimal
	Cost              decimal.Decimal
	Category          string
	LowStockThreshold int
	InitialStock      int // solo en Create
	Actor             string
}

// UseCase casos de uso del catálogo local.
type UseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	logRepo     repository.InventoryLogRepository
	log         *logger.Logger
}

// NewUseCase construye el caso de uso del catálogo.
func NewUseCase(txRunner TxRunner, productRepo repository.ProductRepository, logRepo repository.InventoryLogRepository, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, productRepo: productRepo, logRepo: logRepo, log: log}
}

// Create da de alta un producto. Si trae stock inicial, la entrada de
// auditoría Initial Stock se crea en la misma transacción que el alta.
func (uc *UseCase) Create(ctx context.Context, in ProductInput) (*entity.Product, error) {
	if in.Name == "" || in.Price.IsNegative() || in.InitialStock < 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	product := &entity.Product{
		Name:              in.Name,
		Price:             in.Price,
		Cost:              in.Cost,
		Stock:             in.InitialStock,
		Category:          in.Category,
		LowStockThreshold: in.LowStockThreshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err := uc.txRunner.Run(ctx, func(_ repository.SaleRepository, products repository.ProductRepository, logs repository.InventoryLogRepository) error {
		if err := products.Create(product); err != nil {
			return err
		}
		if in.InitialStock == 0 {
			return nil
		}
		return logs.Create(&entity.InventoryLog{
			ProductID: product.ID,
			Delta:     in.InitialStock,
			OldStock:  0,
			NewStock:  in.InitialStock,
			Type:      entity.LogTypeInitialStock,
			Actor:     in.Actor,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("crear producto: %w", err)
	}

	uc.log.Info().Int64("product_id", product.ID).Str("name", product.Name).Msg("producto creado")
	return product, nil
}

// Update modifica los datos del producto sin tocar el stock (el stock solo
// cambia por las rutas auditadas: venta, ajuste, restock, sync).
func (uc *UseCase) Update(ctx context.Context, id int64, in ProductInput) (*entity.Product, error) {
	if in.Name == "" || in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	product.Name = in.Name
	product.Price = in.Price
	product.Cost = in.Cost
	product.Category = in.Category
	product.LowStockThreshold = in.LowStockThreshold
	product.UpdatedAt = time.Now()

	if err := uc.productRepo.Update(product); err != nil {
		return nil, fmt.Errorf("actualizar producto: %w", err)
	}
	return product, nil
}

// AdjustStock fija el stock en una cantidad contada a mano (recuento físico).
// La entrada de auditoría Manual registra el delta respecto al valor anterior.
func (uc *UseCase) AdjustStock(ctx context.Context, id int64, newQty int, actor string) (*entity.Product, error) {
	if newQty < 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var adjusted *entity.Product

	err := uc.txRunner.Run(ctx, func(_ repository.SaleRepository, products repository.ProductRepository, logs repository.InventoryLogRepository) error {
		product, err := products.GetByID(id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if product.Stock == newQty {
			adjusted = product
			return nil
		}
		if err := products.UpdateStock(product.ID, newQty); err != nil {
			return err
		}
		if err := logs.Create(&entity.InventoryLog{
			ProductID: product.ID,
			Delta:     newQty - product.Stock,
			OldStock:  product.Stock,
			NewStock:  newQty,
			Type:      entity.LogTypeManual,
			Actor:     actor,
			CreatedAt: now,
		}); err != nil {
			return err
		}
		product.Stock = newQty
		adjusted = product
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ajustar stock: %w", err)
	}

	uc.log.Info().Int64("product_id", id).Int("stock", newQty).Str("actor", actor).Msg("stock ajustado por recuento")
	return adjusted, nil
}

// Restock suma unidades recibidas del proveedor con auditoría Restock.
func (uc *UseCase) Restock(ctx context.Context, id int64, qty int, actor string) (*entity.Product, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var restocked *entity.Product

	err := uc.txRunner.Run(ctx, func(_ repository.SaleRepository, products repository.ProductRepository, logs repository.InventoryLogRepository) error {
		product, err := products.GetByID(id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		newStock := product.Stock + qty
		if err := products.UpdateStock(product.ID, newStock); err != nil {
			return err
		}
		if err := logs.Create(&entity.InventoryLog{
			ProductID: product.ID,
			Delta:     qty,
			OldStock:  product.Stock,
			NewStock:  newStock,
			Type:      entity.LogTypeRestock,
			Actor:     actor,
			CreatedAt: now,
		}); err != nil {
			return err
		}
		product.Stock = newStock
		restocked = product
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reabastecer producto: %w", err)
	}

	uc.log.Info().Int64("product_id", id).Int("qty", qty).Msg("producto reabastecido")
	return restocked, nil
}

// Get devuelve un producto por ID.
func (uc *UseCase) Get(_ context.Context, id int64) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// List devuelve el catálogo completo.
func (uc *UseCase) List(_ context.Context) ([]*entity.Product, error) {
	return uc.productRepo.List()
}

// ListLowStock devuelve los productos en o por debajo de su umbral de alerta.
func (uc *UseCase) ListLowStock(_ context.Context) ([]*entity.Product, error) {
	return uc.productRepo.ListLowStock()
}

// History devuelve las últimas entradas de auditoría de un producto.
func (uc *UseCase) History(_ context.Context, id int64, limit int) ([]*entity.InventoryLog, error) {
	return uc.logRepo.ListByProduct(id, limit)
}

// Delete elimina un producto del catálogo. Las entradas de auditoría se
// conservan como historial.
func (uc *UseCase) Delete(_ context.Context, id int64) error {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if err := uc.productRepo.Delete(id); err != nil {
		return fmt.Errorf("eliminar producto: %w", err)
	}
	uc.log.Info().Int64("product_id", id).Str("name", product.Name).Msg("producto eliminado")
	return nil
}
