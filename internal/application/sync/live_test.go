package sync_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	appsync "github.com/jhoicas/tienda-sync/internal/application/sync"
	"github.com/jhoicas/tienda-sync/internal/domain/entity"
)

func newLiveTerminal(role string) (*memStore, *appsync.LiveSync) {
	store := newMemStore()
	store.settings = &entity.Settings{
		ID: 1, ShopName: "Tienda", SyncKey: "K",
		TerminalRole: role, SetupComplete: true,
	}
	engine := appsync.NewReconciler(&fakeTxRunner{store}, testLogger())
	return store, appsync.NewLiveSync(engine, &memSettingsRepo{store}, testLogger())
}

func TestLiveSync_AdminAplicaVentasRemotas(t *testing.T) {
	store, live := newLiveTerminal(entity.TerminalAdmin)
	p := seedProduct(store, "Coca-Cola", 150, 10)

	live.OnRemoteSale(context.Background(), saleRecord("SAL-R1", p.ID, 2, 150))

	assert.Len(t, store.sales, 1)
	assert.Equal(t, 8, store.products[p.ID].Stock)
	assert.Equal(t, "Relay Sync (Ana)", store.logs[0].Actor)
}

func TestLiveSync_StaffIgnoraVentasRemotas(t *testing.T) {
	// Así se descarta también el eco de la propia publicación.
	store, live := newLiveTerminal(entity.TerminalStaff)
	p := seedProduct(store, "Coca-Cola", 150, 10)

	live.OnRemoteSale(context.Background(), saleRecord("SAL-R2", p.ID, 2, 150))

	assert.Empty(t, store.sales)
	assert.Equal(t, 10, store.products[p.ID].Stock)
}

func TestLiveSync_StaffAplicaCatalogoRemoto(t *testing.T) {
	store, live := newLiveTerminal(entity.TerminalStaff)
	seedProduct(store, "Viejo", 100, 1)

	live.OnRemoteStock(context.Background(), []entity.ProductSnapshot{
		{Name: "Nuevo", Price: decimal.NewFromInt(200), Stock: 9},
	}, time.Now())

	assert.Len(t, store.products, 1)
	for _, p := range store.products {
		assert.Equal(t, "Nuevo", p.Name)
	}
}

func TestLiveSync_AdminIgnoraCatalogoRemoto(t *testing.T) {
	store, live := newLiveTerminal(entity.TerminalAdmin)
	seedProduct(store, "Propio", 100, 1)

	live.OnRemoteStock(context.Background(), []entity.ProductSnapshot{
		{Name: "Ajeno", Price: decimal.NewFromInt(200), Stock: 9},
	}, time.Now())

	assert.Len(t, store.products, 1)
	for _, p := range store.products {
		assert.Equal(t, "Propio", p.Name, "el catálogo del admin es la fuente de verdad")
	}
}

func TestLiveSync_TerminalSinSetupIgnoraTodo(t *testing.T) {
	store := newMemStore()
	engine := appsync.NewReconciler(&fakeTxRunner{store}, testLogger())
	live := appsync.NewLiveSync(engine, &memSettingsRepo{store}, testLogger())

	live.OnRemoteSale(context.Background(), saleRecord("SAL-R3", 1, 1, 100))
	live.OnRemoteStock(context.Background(), []entity.ProductSnapshot{
		{Name: "X", Price: decimal.NewFromInt(1), Stock: 1},
	}, time.Now())

	assert.Empty(t, store.sales)
	assert.Empty(t, store.products)
}
