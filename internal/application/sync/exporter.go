package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/tienda-sync/internal/domain"
	"github.com/jhoicas/tienda-sync/internal/domain/entity"
	"github.com/jhoicas/tienda-sync/internal/domain/repository"
	"github.com/jhoicas/tienda-sync/pkg/logger"
)

// StockPublisher espeja el catálogo hacia el canal en tiempo real.
type StockPublisher interface {
	PublishStock(products []entity.ProductSnapshot, ts time.Time)
	Connected() bool
}

// Exporter es la boca de salida del canal asíncrono: arma payloads desde el
// estado local y los codifica a tokens listos para pegar en un chat.
type Exporter struct {
	codec        Codec
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	settingsRepo repository.SettingsRepository
	relay        StockPublisher // puede ser nil
	log          *logger.Logger
}

// NewExporter construye el exportador del bridge.
func NewExporter(codec Codec, saleRepo repository.SaleRepository, productRepo repository.ProductRepository, settingsRepo repository.SettingsRepository, relay StockPublisher, log *logger.Logger) *Exporter {
	return &Exporter{codec: codec, saleRepo: saleRepo, productRepo: productRepo,
		settingsRepo: settingsRepo, relay: relay, log: log}
}

// ExportPendingSales codifica las ventas pendientes en un SALES_REPORT y las
// marca como synced. Devuelve cuántas ventas viajan en el token; si no hay
// pendientes devuelve (nil, 0, nil).
func (e *Exporter) ExportPendingSales(_ context.Context, staffName string) (*entity.BridgeToken, int, error) {
	settings, err := e.requireSettings()
	if err != nil {
		return nil, 0, err
	}

	pending, err := e.saleRepo.ListBySyncStatus(entity.SyncStatusPending)
	if err != nil {
		return nil, 0, fmt.Errorf("exportar ventas: %w", err)
	}
	if len(pending) == 0 {
		return nil, 0, nil
	}

	payload := &entity.SyncPayload{
		Type:      entity.PayloadSalesReport,
		StaffName: staffName,
		Timestamp: time.Now(),
	}
	for _, s := range pending {
		payload.Sales = append(payload.Sales, s.Record())
	}

	token, err := e.codec.Encode(payload, settings.SyncKey, settings.ShopName)
	if err != nil {
		return nil, 0, fmt.Errorf("exportar ventas: %w", err)
	}

	// Marcar después de codificar: si el encode falla las ventas siguen
	// pendientes y el próximo export las reintenta.
	for _, s := range pending {
		if err := e.saleRepo.UpdateSyncStatus(s.SaleID, entity.SyncStatusSynced); err != nil {
			return nil, 0, fmt.Errorf("marcar venta sincronizada: %w", err)
		}
	}

	e.log.Info().Int("sales", len(pending)).Msg("reporte de ventas exportado")
	return token, len(pending), nil
}

// ExportStockSnapshot codifica el catálogo completo en un STOCK_UPDATE.
// La proyección omite el costo: es la frontera admin -> staff.
func (e *Exporter) ExportStockSnapshot(_ context.Context) (*entity.BridgeToken, int, error) {
	settings, err := e.requireSettings()
	if err != nil {
		return nil, 0, err
	}

	products, err := e.productRepo.List()
	if err != nil {
		return nil, 0, fmt.Errorf("exportar catálogo: %w", err)
	}

	payload := &entity.SyncPayload{
		Type:      entity.PayloadStockUpdate,
		Timestamp: time.Now(),
	}
	for _, p := range products {
		payload.Products = append(payload.Products, p.Snapshot())
	}

	token, err := e.codec.Encode(payload, settings.SyncKey, settings.ShopName)
	if err != nil {
		return nil, 0, fmt.Errorf("exportar catálogo: %w", err)
	}

	e.log.Info().Int("products", len(products)).Msg("catálogo exportado")
	return token, len(products), nil
}

// ExportStaffInvite codifica una invitación bajo la clave fija de handshake:
// el terminal receptor todavía no conoce la clave de la tienda.
func (e *Exporter) ExportStaffInvite(_ context.Context, member *entity.StaffRecord) (*entity.BridgeToken, error) {
	settings, err := e.requireSettings()
	if err != nil {
		return nil, err
	}

	payload := &entity.SyncPayload{
		Type:              entity.PayloadStaffInvite,
		ShopName:          settings.ShopName,
		MasterSyncKey:     settings.SyncKey,
		AdminWhatsApp:     settings.AdminWhatsApp,
		WhatsAppGroupLink: settings.WhatsAppGroupLink,
		StaffMember:       member,
		Timestamp:         time.Now(),
	}

	token, err := e.codec.EncodeInvite(payload, settings.ShopName)
	if err != nil {
		return nil, fmt.Errorf("exportar invitación: %w", err)
	}

	e.log.Info().Msg("invitación de terminal exportada")
	return token, nil
}

// RotateKey codifica un KEY_UPDATE bajo la clave vigente y recién entonces
// adopta la clave nueva localmente. El orden importa: el token debe poder
// decodificarse en terminales que todavía tienen la clave anterior.
func (e *Exporter) RotateKey(_ context.Context, newKey string) (*entity.BridgeToken, error) {
	if newKey == "" {
		return nil, domain.ErrInvalidInput
	}
	settings, err := e.requireSettings()
	if err != nil {
		return nil, err
	}
	if newKey == settings.SyncKey {
		return nil, fmt.Errorf("la clave nueva es igual a la vigente: %w", domain.ErrInvalidInput)
	}

	payload := &entity.SyncPayload{
		Type:      entity.PayloadKeyUpdate,
		NewKey:    newKey,
		Timestamp: time.Now(),
	}
	token, err := e.codec.Encode(payload, settings.SyncKey, settings.ShopName)
	if err != nil {
		return nil, fmt.Errorf("rotar clave: %w", err)
	}

	settings.SyncKey = newKey
	if err := e.settingsRepo.Save(settings); err != nil {
		return nil, fmt.Errorf("rotar clave: %w", err)
	}

	// El canal del relay se deriva de la clave; hay que mudarse ya mismo o
	// este terminal seguiría escuchando el canal de la clave anterior.
	if r, ok := e.relay.(KeyRotator); ok {
		r.Rekey(newKey)
	}

	e.log.Info().Msg("clave de sincronización rotada y token de rotación emitido")
	return token, nil
}

// PushStockLive espeja el catálogo por el relay (best-effort, sin token).
func (e *Exporter) PushStockLive(_ context.Context) (int, error) {
	if e.relay == nil || !e.relay.Connected() {
		return 0, fmt.Errorf("relay no conectado: %w", domain.ErrInvalidInput)
	}
	products, err := e.productRepo.List()
	if err != nil {
		return 0, fmt.Errorf("espejar catálogo: %w", err)
	}
	snapshots := make([]entity.ProductSnapshot, 0, len(products))
	for _, p := range products {
		snapshots = append(snapshots, p.Snapshot())
	}
	e.relay.PublishStock(snapshots, time.Now())
	return len(snapshots), nil
}

func (e *Exporter) requireSettings() (*entity.Settings, error) {
	settings, err := e.settingsRepo.Get()
	if err != nil {
		return nil, err
	}
	if settings == nil || settings.SyncKey == "" {
		return nil, fmt.Errorf("terminal sin configurar: %w", domain.ErrInvalidInput)
	}
	return settings, nil
}
