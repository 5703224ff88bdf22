package sync

import (
	"context"
	"time"

	"github.com/jhoicas/tienda-sync/internal/domain/entity"
	"github.com/jhoicas/tienda-sync/internal/domain/repository"
	"github.com/jhoicas/tienda-sync/pkg/logger"
)

// LiveSync despacha eventos entrantes del relay hacia el motor de
// reconciliación, filtrando por el rol del terminal: un admin solo aplica
// ventas remotas (los staff le reportan) y un staff solo aplica catálogos
// (el admin es la fuente de verdad). Los eventos del rol contrario se
// descartan en silencio; así un terminal nunca se reaplica su propio eco.
type LiveSync struct {
	engine       *Reconciler
	settingsRepo repository.SettingsRepository
	log          *logger.Logger
}

// NewLiveSync construye el despachador de eventos del relay.
func NewLiveSync(engine *Reconciler, settingsRepo repository.SettingsRepository, log *logger.Logger) *LiveSync {
	return &LiveSync{engine: engine, settingsRepo: settingsRepo, log: log}
}

// OnRemoteSale aplica una venta llegada por el relay, solo en terminales admin.
func (d *LiveSync) OnRemoteSale(ctx context.Context, rec entity.SaleRecord) {
	role, ok := d.terminalRole()
	if !ok || role != entity.TerminalAdmin {
		d.log.Debug().Str("sale_id", rec.SaleID).Msg("venta de relay ignorada por rol de terminal")
		return
	}
	if _, err := d.engine.MergeSalesReport(ctx, rec.StaffName, []entity.SaleRecord{rec}, ChannelRelay); err != nil {
		d.log.Error().Err(err).Str("sale_id", rec.SaleID).Msg("no se pudo aplicar venta del relay")
	}
}

// OnRemoteStock aplica un catálogo llegado por el relay, solo en terminales staff.
func (d *LiveSync) OnRemoteStock(ctx context.Context, products []entity.ProductSnapshot, ts time.Time) {
	role, ok := d.terminalRole()
	if !ok || role != entity.TerminalStaff {
		d.log.Debug().Msg("catálogo de relay ignorado por rol de terminal")
		return
	}
	if _, err := d.engine.MergeStockReplace(ctx, products, ts, ChannelRelay); err != nil {
		d.log.Error().Err(err).Msg("no se pudo aplicar catálogo del relay")
	}
}

func (d *LiveSync) terminalRole() (string, bool) {
	s, err := d.settingsRepo.Get()
	if err != nil {
		d.log.Error().Err(err).Msg("no se pudo leer la configuración del terminal")
		return "", false
	}
	if s == nil || !s.SetupComplete {
		return "", false
	}
	return s.TerminalRole, true
}
