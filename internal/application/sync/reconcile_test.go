package sync_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appsync "github.com/jhoicas/tienda-sync/internal/application/sync"
	"github.com/jhoicas/tienda-sync/internal/domain"
	"github.com/jhoicas/tienda-sync/internal/domain/entity"
	"github.com/jhoicas/tienda-sync/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func seedProduct(store *memStore, name string, price int64, stock int) *entity.Product {
	repo := &memProductRepo{store}
	p := &entity.Product{
		Name:              name,
		Price:             decimal.NewFromInt(price),
		Cost:              decimal.NewFromInt(price / 2),
		Stock:             stock,
		LowStockThreshold: 5,
	}
	_ = repo.Create(p)
	return p
}

func saleRecord(saleID string, productID int64, qty int, price int64) entity.SaleRecord {
	total := decimal.NewFromInt(price * int64(qty))
	return entity.SaleRecord{
		SaleID: saleID,
		Items: []entity.SaleItemRecord{{
			ProductID: productID,
			Name:      "Producto",
			Price:     decimal.NewFromInt(price),
			Quantity:  qty,
		}},
		Subtotal:      total,
		Total:         total,
		PaymentMethod: entity.PaymentCash,
		StaffName:     "Ana",
		Timestamp:     time.Now(),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// MergeSalesReport
// ──────────────────────────────────────────────────────────────────────────────

func TestMergeSalesReport_VentaNuevaDescuentaStock(t *testing.T) {
	store := newMemStore()
	p := seedProduct(store, "Coca-Cola", 150, 10)
	engine := appsync.NewReconciler(&fakeTxRunner{store}, testLogger())

	imported, err := engine.MergeSalesReport(context.Background(), "Ana",
		[]entity.SaleRecord{saleRecord("SAL-1", p.ID, 2, 150)}, appsync.ChannelBridge)
	require.NoError(t, err)
	assert.Equal(t, 1, imported)

	assert.Equal(t, 8, store.products[p.ID].Stock, "el stock debe bajar de 10 a 8")

	require.Len(t, store.sales, 1)
	assert.Equal(t, "SAL-1", store.sales[0].SaleID)
	assert.Equal(t, entity.SyncStatusSynced, store.sales[0].SyncStatus,
		"una venta importada nunca queda pending: ya está donde tenía que llegar")

	require.Len(t, store.logs, 1, "exactamente una entrada de auditoría por mutación")
	assert.Equal(t, entity.LogTypeSale, store.logs[0].Type)
	assert.Equal(t, -2, store.logs[0].Delta)
	assert.Equal(t, "Sync Bridge (Ana)", store.logs[0].Actor)
}

func TestMergeSalesReport_ReimportarEsInocuo(t *testing.T) {
	store := newMemStore()
	p := seedProduct(store, "Coca-Cola", 150, 10)
	engine := appsync.NewReconciler(&fakeTxRunner{store}, testLogger())
	records := []entity.SaleRecord{saleRecord("SAL-1", p.ID, 2, 150)}

	_, err := engine.MergeSalesReport(context.Background(), "Ana", records, appsync.ChannelBridge)
	require.NoError(t, err)

	imported, err := engine.MergeSalesReport(context.Background(), "Ana", records, appsync.ChannelBridge)
	require.NoError(t, err)

	assert.Equal(t, 0, imported, "la segunda importación no debe incorporar nada")
	assert.Equal(t, 8, store.products[p.ID].Stock, "el stock no debe volver a descontarse")
	assert.Len(t, store.sales, 1)
	assert.Len(t, store.logs, 1)
}

func TestMergeSalesReport_ProductoDesconocidoNoTocaStock(t *testing.T) {
	store := newMemStore()
	engine := appsync.NewReconciler(&fakeTxRunner{store}, testLogger())

	imported, err := engine.MergeSalesReport(context.Background(), "Ana",
		[]entity.SaleRecord{saleRecord("SAL-2", 999, 3, 80)}, appsync.ChannelBridge)
	require.NoError(t, err)

	assert.Equal(t, 1, imported, "la venta se conserva aunque el producto no exista aquí")
	require.Len(t, store.sales, 1)
	assert.False(t, store.sales[0].Items[0].StockDeducted)
	assert.Empty(t, store.logs, "sin mutación de stock no hay entrada de auditoría")
}

func TestMergeSalesReport_SobreventaRecortaEnCero(t *testing.T) {
	store := newMemStore()
	p := seedProduct(store, "Pan", 50, 1)
	engine := appsync.NewReconciler(&fakeTxRunner{store}, testLogger())

	_, err := engine.MergeSalesReport(context.Background(), "Ana",
		[]entity.SaleRecord{saleRecord("SAL-3", p.ID, 5, 50)}, appsync.ChannelRelay)
	require.NoError(t, err)

	assert.Equal(t, 0, store.products[p.ID].Stock, "el stock nunca queda negativo")
	require.Len(t, store.logs, 1)
	assert.Equal(t, -1, store.logs[0].Delta, "el delta registra lo realmente descontado")
	assert.Equal(t, "Relay Sync (Ana)", store.logs[0].Actor)
}

func TestMergeSalesReport_LineaYaDescontadaNoVuelveADescontar(t *testing.T) {
	store := newMemStore()
	p := seedProduct(store, "Leche", 90, 10)
	engine := appsync.NewReconciler(&fakeTxRunner{store}, testLogger())

	rec := saleRecord("SAL-4", p.ID, 2, 90)
	rec.Items[0].StockDeducted = true

	_, err := engine.MergeSalesReport(context.Background(), "Ana",
		[]entity.SaleRecord{rec}, appsync.ChannelBridge)
	require.NoError(t, err)

	assert.Equal(t, 10, store.products[p.ID].Stock)
	assert.Empty(t, store.logs)
}

// ──────────────────────────────────────────────────────────────────────────────
// MergeStockReplace
// ──────────────────────────────────────────────────────────────────────────────

func TestMergeStockReplace_ReemplazaCatalogoCompleto(t *testing.T) {
	store := newMemStore()
	seedProduct(store, "Producto Viejo", 999, 50)
	store.settings = &entity.Settings{ID: 1, ShopName: "Tienda", SyncKey: "K", TerminalRole: entity.TerminalStaff, SetupComplete: true}
	engine := appsync.NewReconciler(&fakeTxRunner{store}, testLogger())

	ts := time.Now().Add(-time.Hour).Truncate(time.Second)
	count, err := engine.MergeStockReplace(context.Background(), []entity.ProductSnapshot{
		{Name: "Coca-Cola", Price: decimal.NewFromInt(150), Category: "Bebidas", Stock: 24},
		{Name: "Pan", Price: decimal.NewFromInt(50), Category: "Panadería", Stock: 30},
	}, ts, appsync.ChannelBridge)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.Len(t, store.products, 2, "el catálogo anterior desaparece por completo")
	var coca *entity.Product
	for _, p := range store.products {
		if p.Name == "Coca-Cola" {
			coca = p
		}
		assert.NotEqual(t, "Producto Viejo", p.Name)
	}
	require.NotNil(t, coca)
	assert.Equal(t, 24, coca.Stock)
	assert.Equal(t, 5, coca.LowStockThreshold, "el umbral se sintetiza: no viaja en el snapshot")

	// Costo placeholder: 60% de 150 = 90, redondeado hacia abajo a la decena.
	assert.True(t, coca.Cost.Equal(decimal.NewFromInt(90)),
		"el costo real no viaja; se sintetiza 60%% del precio a la decena, fue %s", coca.Cost)

	assert.Len(t, store.logs, 2, "una entrada Sync por producto importado")
	for _, l := range store.logs {
		assert.Equal(t, entity.LogTypeSync, l.Type)
		assert.Equal(t, "Sync Bridge (catálogo)", l.Actor)
	}

	require.NotNil(t, store.settings.LastStockSyncAt)
	assert.True(t, store.settings.LastStockSyncAt.Equal(ts))
}

func TestMergeStockReplace_CatalogoVacioVaciaElLocal(t *testing.T) {
	store := newMemStore()
	seedProduct(store, "Único", 100, 5)
	store.settings = &entity.Settings{ID: 1, SyncKey: "K", TerminalRole: entity.TerminalStaff, SetupComplete: true}
	engine := appsync.NewReconciler(&fakeTxRunner{store}, testLogger())

	count, err := engine.MergeStockReplace(context.Background(), nil, time.Now(), appsync.ChannelRelay)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, store.products, "el reemplazo es destructivo incluso con snapshot vacío")
}

// ──────────────────────────────────────────────────────────────────────────────
// MergeStaffInvite
// ──────────────────────────────────────────────────────────────────────────────

func TestMergeStaffInvite_ConfiguraTerminalYCreaEmpleado(t *testing.T) {
	store := newMemStore()
	engine := appsync.NewReconciler(&fakeTxRunner{store}, testLogger())

	err := engine.MergeStaffInvite(context.Background(), &entity.SyncPayload{
		Type:              entity.PayloadStaffInvite,
		ShopName:          "Tienda Norte",
		MasterSyncKey:     "CLAVE-123",
		AdminWhatsApp:     "+5491100000000",
		WhatsAppGroupLink: "https://chat.example/abc",
		StaffMember:       &entity.StaffRecord{Name: "Luis", Role: entity.RoleStaff, PIN: "4321"},
	})
	require.NoError(t, err)

	require.NotNil(t, store.settings)
	assert.Equal(t, "Tienda Norte", store.settings.ShopName)
	assert.Equal(t, "CLAVE-123", store.settings.SyncKey)
	assert.Equal(t, entity.TerminalStaff, store.settings.TerminalRole,
		"un terminal invitado siempre arranca como staff")
	assert.True(t, store.settings.SetupComplete)

	require.Len(t, store.staff, 1)
	var luis *entity.Staff
	for _, st := range store.staff {
		luis = st
	}
	assert.Equal(t, "Luis", luis.Name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(luis.PINHash), []byte("4321")),
		"el PIN viaja en claro dentro del token y se hashea al importar")
	assert.NotEqual(t, "4321", luis.PINHash, "el PIN jamás se persiste en claro")
}

func TestMergeStaffInvite_ReimportarNoDuplicaEmpleado(t *testing.T) {
	store := newMemStore()
	engine := appsync.NewReconciler(&fakeTxRunner{store}, testLogger())
	invite := &entity.SyncPayload{
		Type:          entity.PayloadStaffInvite,
		ShopName:      "Tienda Norte",
		MasterSyncKey: "CLAVE-123",
		StaffMember:   &entity.StaffRecord{Name: "Luis", PIN: "4321"},
	}

	require.NoError(t, engine.MergeStaffInvite(context.Background(), invite))
	require.NoError(t, engine.MergeStaffInvite(context.Background(), invite))

	assert.Len(t, store.staff, 1, "el nombre es la clave de dedupe")
}

func TestMergeStaffInvite_InvitacionIncompletaFalla(t *testing.T) {
	store := newMemStore()
	engine := appsync.NewReconciler(&fakeTxRunner{store}, testLogger())

	err := engine.MergeStaffInvite(context.Background(), &entity.SyncPayload{
		Type:     entity.PayloadStaffInvite,
		ShopName: "Tienda sin clave",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, store.settings, "una invitación inválida no debe dejar rastro")
}

// ──────────────────────────────────────────────────────────────────────────────
// ApplyKeyUpdate
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyKeyUpdate_RotaLaClave(t *testing.T) {
	store := newMemStore()
	store.settings = &entity.Settings{ID: 1, SyncKey: "VIEJA", TerminalRole: entity.TerminalStaff, SetupComplete: true}
	engine := appsync.NewReconciler(&fakeTxRunner{store}, testLogger())

	require.NoError(t, engine.ApplyKeyUpdate(context.Background(), "NUEVA"))
	assert.Equal(t, "NUEVA", store.settings.SyncKey)
}

func TestApplyKeyUpdate_SinSetupFalla(t *testing.T) {
	store := newMemStore()
	engine := appsync.NewReconciler(&fakeTxRunner{store}, testLogger())

	err := engine.ApplyKeyUpdate(context.Background(), "NUEVA")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
