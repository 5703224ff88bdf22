package sync

import (
	"context"
	"fmt"

	"github.com/jhoicas/tienda-sync/internal/domain"
	"github.com/jhoicas/tienda-sync/internal/domain/entity"
	"github.com/jhoicas/tienda-sync/internal/domain/repository"
	"github.com/jhoicas/tienda-sync/pkg/logger"
)

// ImportResult resume una importación del bridge para la UI.
type ImportResult struct {
	Success bool   `json:"success"`
	Type    string `json:"type"`
	Count   int    `json:"count"` // ventas incorporadas o productos reemplazados
}

// Importer es la boca de entrada del canal asíncrono: recibe un token pegado
// por el usuario, lo decodifica con la clave local y despacha al merge que
// corresponda según el tipo.
type Importer struct {
	codec        Codec
	engine       *Reconciler
	settingsRepo repository.SettingsRepository
	relay        KeyRotator // puede ser nil
	log          *logger.Logger
}

// NewImporter construye el importador del bridge.
func NewImporter(codec Codec, engine *Reconciler, settingsRepo repository.SettingsRepository, relay KeyRotator, log *logger.Logger) *Importer {
	return &Importer{codec: codec, engine: engine, settingsRepo: settingsRepo, relay: relay, log: log}
}

// ImportToken decodifica y aplica un token. Un terminal sin configurar puede
// importar únicamente invitaciones (la clave de handshake es fija); cualquier
// otro tipo requiere la clave de tienda local.
func (i *Importer) ImportToken(ctx context.Context, token string) (*ImportResult, error) {
	var shopKey string
	if s, err := i.settingsRepo.Get(); err != nil {
		return nil, fmt.Errorf("importación fallida: %w", err)
	} else if s != nil {
		shopKey = s.SyncKey
	}

	payload, err := i.codec.Decode(token, shopKey)
	if err != nil {
		i.log.Warn().Err(err).Msg("token de sincronización rechazado")
		return nil, fmt.Errorf("importación fallida: %w", err)
	}

	result := &ImportResult{Type: payload.Type}
	switch payload.Type {
	case entity.PayloadSalesReport:
		result.Count, err = i.engine.MergeSalesReport(ctx, payload.StaffName, payload.Sales, ChannelBridge)
	case entity.PayloadStockUpdate:
		result.Count, err = i.engine.MergeStockReplace(ctx, payload.Products, payload.Timestamp, ChannelBridge)
	case entity.PayloadStaffInvite:
		err = i.engine.MergeStaffInvite(ctx, payload)
		result.Count = 1
	case entity.PayloadKeyUpdate:
		err = i.engine.ApplyKeyUpdate(ctx, payload.NewKey)
		if err == nil && i.relay != nil {
			i.relay.Rekey(payload.NewKey)
		}
		result.Count = 1
	default:
		err = fmt.Errorf("%w: %q", domain.ErrUnknownPayload, payload.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("importación fallida: %w", err)
	}

	result.Success = true
	return result, nil
}
