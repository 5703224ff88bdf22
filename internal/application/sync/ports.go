package sync

import (
	"context"

	"github.com/jhoicas/tienda-sync/internal/domain/entity"
	"github.com/jhoicas/tienda-sync/internal/domain/repository"
)

// Canales por los que llega un payload remoto. Solo cambian la etiqueta de
// actor en las entradas de auditoría: la reconciliación es idéntica.
const (
	ChannelBridge = "Sync Bridge"
	ChannelRelay  = "Relay Sync"
)

// TxRunner ejecuta una función dentro de una transacción de la base local.
// Una reconciliación a medio aplicar nunca debe ser observable.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		sales repository.SaleRepository,
		products repository.ProductRepository,
		logs repository.InventoryLogRepository,
	) error) error

	RunSync(ctx context.Context, fn func(
		sales repository.SaleRepository,
		products repository.ProductRepository,
		logs repository.InventoryLogRepository,
		staff repository.StaffRepository,
		settings repository.SettingsRepository,
	) error) error
}

// KeyRotator reubica el canal del relay cuando cambia la clave de la tienda.
// Sin esto, un terminal que rotó su clave seguiría suscripto al canal derivado
// de la clave anterior hasta reiniciar el proceso.
type KeyRotator interface {
	Rekey(newKey string)
}

// Codec serializa payloads a tokens del bridge y de vuelta. La implementación
// vive en infrastructure/bridge.
type Codec interface {
	Encode(payload *entity.SyncPayload, key, shopName string) (*entity.BridgeToken, error)
	EncodeInvite(payload *entity.SyncPayload, shopName string) (*entity.BridgeToken, error)
	Decode(token, shopKey string) (*entity.SyncPayload, error)
}
