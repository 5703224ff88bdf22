package bridge_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-sync/internal/domain"
	"github.com/jhoicas/tienda-sync/internal/domain/entity"
	"github.com/jhoicas/tienda-sync/internal/infrastructure/bridge"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testShopKey = "CLAVE-TIENDA-123"
	testShop    = "Tienda Norte"
)

func salesReportPayload() *entity.SyncPayload {
	return &entity.SyncPayload{
		Type:      entity.PayloadSalesReport,
		StaffName: "Ana",
		Sales: []entity.SaleRecord{{
			SaleID: "SAL-1",
			Items: []entity.SaleItemRecord{{
				ProductID: 7, Name: "Coca-Cola 500ml",
				Price: decimal.NewFromInt(150), Quantity: 2,
			}},
			Subtotal:      decimal.NewFromInt(300),
			Total:         decimal.NewFromInt(300),
			PaymentMethod: entity.PaymentCash,
			StaffName:     "Ana",
			Timestamp:     time.Now().UTC().Truncate(time.Second),
		}},
		Timestamp: time.Now().UTC().Truncate(time.Second),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Round-trip encode/decode
// ──────────────────────────────────────────────────────────────────────────────

func TestCodec_RoundTripVentas(t *testing.T) {
	codec := bridge.NewCodec()

	token, err := codec.Encode(salesReportPayload(), testShopKey, testShop)
	require.NoError(t, err)
	require.True(t, token.Delivered(), "un reporte chico debe caber en un mensaje")
	assert.True(t, strings.HasPrefix(token.Token, bridge.TokenMarker),
		"el token debe llevar el marcador de formato")

	decoded, err := codec.Decode(token.Token, testShopKey)
	require.NoError(t, err)
	assert.Equal(t, entity.PayloadSalesReport, decoded.Type)
	assert.Equal(t, "Ana", decoded.StaffName)
	require.Len(t, decoded.Sales, 1)
	assert.Equal(t, "SAL-1", decoded.Sales[0].SaleID)
	assert.True(t, decoded.Sales[0].Total.Equal(decimal.NewFromInt(300)),
		"el total debe sobrevivir el viaje sin perder precisión")
}

func TestCodec_RoundTripCatalogo(t *testing.T) {
	codec := bridge.NewCodec()
	payload := &entity.SyncPayload{
		Type: entity.PayloadStockUpdate,
		Products: []entity.ProductSnapshot{
			{Name: "Pan", Price: decimal.NewFromInt(50), Category: "Panadería", Stock: 12},
			{Name: "Leche", Price: decimal.NewFromInt(90), Category: "Lácteos", Stock: 4},
		},
		Timestamp: time.Now().UTC(),
	}

	token, err := codec.Encode(payload, testShopKey, testShop)
	require.NoError(t, err)

	decoded, err := codec.Decode(token.Token, testShopKey)
	require.NoError(t, err)
	assert.Equal(t, entity.PayloadStockUpdate, decoded.Type)
	require.Len(t, decoded.Products, 2)
	assert.Equal(t, "Pan", decoded.Products[0].Name)
	assert.Equal(t, 4, decoded.Products[1].Stock)
}

func TestCodec_RoundTripRotacionDeClave(t *testing.T) {
	codec := bridge.NewCodec()
	payload := &entity.SyncPayload{
		Type:      entity.PayloadKeyUpdate,
		NewKey:    "CLAVE-NUEVA-456",
		Timestamp: time.Now().UTC(),
	}

	token, err := codec.Encode(payload, testShopKey, testShop)
	require.NoError(t, err)

	decoded, err := codec.Decode(token.Token, testShopKey)
	require.NoError(t, err)
	assert.Equal(t, entity.PayloadKeyUpdate, decoded.Type)
	assert.Equal(t, "CLAVE-NUEVA-456", decoded.NewKey)
}

// ──────────────────────────────────────────────────────────────────────────────
// Aislamiento por clave
// ──────────────────────────────────────────────────────────────────────────────

func TestCodec_ClaveDeOtraTienda_RetornaKeyMismatch(t *testing.T) {
	codec := bridge.NewCodec()
	token, err := codec.Encode(salesReportPayload(), testShopKey, testShop)
	require.NoError(t, err)

	_, err = codec.Decode(token.Token, "CLAVE-DE-OTRA-TIENDA")
	assert.ErrorIs(t, err, domain.ErrKeyMismatch,
		"un token de otra tienda nunca debe aceptarse en silencio")
}

func TestCodec_InvitacionDecodificaSinClaveDeTienda(t *testing.T) {
	codec := bridge.NewCodec()
	payload := &entity.SyncPayload{
		Type:          entity.PayloadStaffInvite,
		ShopName:      testShop,
		MasterSyncKey: testShopKey,
		StaffMember:   &entity.StaffRecord{Name: "Luis", Role: entity.RoleStaff, PIN: "1234"},
		Timestamp:     time.Now().UTC(),
	}

	token, err := codec.EncodeInvite(payload, testShop)
	require.NoError(t, err)

	// Un terminal recién instalado no tiene clave todavía.
	decoded, err := codec.Decode(token.Token, "")
	require.NoError(t, err)
	assert.Equal(t, entity.PayloadStaffInvite, decoded.Type)
	assert.Equal(t, testShopKey, decoded.MasterSyncKey)
	require.NotNil(t, decoded.StaffMember)
	assert.Equal(t, "Luis", decoded.StaffMember.Name)

	// Y también debe aceptarse con cualquier clave local ya configurada.
	decoded2, err := codec.Decode(token.Token, "CUALQUIER-CLAVE")
	require.NoError(t, err)
	assert.Equal(t, entity.PayloadStaffInvite, decoded2.Type)
}

// ──────────────────────────────────────────────────────────────────────────────
// Entradas malformadas
// ──────────────────────────────────────────────────────────────────────────────

func TestCodec_TextoSinMarcador_RetornaInvalidFormat(t *testing.T) {
	codec := bridge.NewCodec()
	_, err := codec.Decode("hola, esto no es un token", testShopKey)
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
}

func TestCodec_TokenTruncado_RetornaCorrupt(t *testing.T) {
	codec := bridge.NewCodec()
	token, err := codec.Encode(salesReportPayload(), testShopKey, testShop)
	require.NoError(t, err)

	truncated := token.Token[:len(token.Token)/2]
	_, err = codec.Decode(truncated, testShopKey)
	assert.ErrorIs(t, err, domain.ErrCorruptPayload,
		"un token cortado al pegar debe reportarse como dañado")
}

func TestCodec_Base64Invalido_RetornaCorrupt(t *testing.T) {
	codec := bridge.NewCodec()
	_, err := codec.Decode(bridge.TokenMarker+"!!!no-es-base64!!!", testShopKey)
	assert.ErrorIs(t, err, domain.ErrCorruptPayload)
}

func TestCodec_EspaciosAlrededor_SeToleran(t *testing.T) {
	codec := bridge.NewCodec()
	token, err := codec.Encode(salesReportPayload(), testShopKey, testShop)
	require.NoError(t, err)

	decoded, err := codec.Decode("  \n"+token.Token+"  \n", testShopKey)
	require.NoError(t, err)
	assert.Equal(t, entity.PayloadSalesReport, decoded.Type)
}

func TestCodec_ClaveVaciaAlCodificar_RetornaError(t *testing.T) {
	codec := bridge.NewCodec()
	_, err := codec.Encode(salesReportPayload(), "", testShop)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fallback a archivo para tokens largos
// ──────────────────────────────────────────────────────────────────────────────

func TestCodec_PayloadGrande_GeneraArchivo(t *testing.T) {
	codec := bridge.NewCodec()

	// Catálogo con nombres únicos largos para derrotar la compresión.
	payload := &entity.SyncPayload{Type: entity.PayloadStockUpdate, Timestamp: time.Now().UTC()}
	for i := 0; i < 500; i++ {
		payload.Products = append(payload.Products, entity.ProductSnapshot{
			Name:     fmt.Sprintf("producto-unico-%d-%x", i, i*7919),
			Price:    decimal.NewFromInt(int64(i + 1)),
			Category: fmt.Sprintf("categoria-%d", i%37),
			Stock:    i,
		})
	}

	token, err := codec.Encode(payload, testShopKey, testShop)
	require.NoError(t, err)

	assert.False(t, token.Delivered(), "un payload enorme no debe entregarse como texto")
	assert.Equal(t, entity.RawFileDownloaded, token.Raw)
	assert.Empty(t, token.Token)
	require.NotNil(t, token.File)
	assert.Contains(t, token.File.Name, "tienda-norte")
	assert.Contains(t, token.File.Name, ".tiendasync")

	// El contenido del archivo es el token completo: importarlo equivale a pegarlo.
	decoded, err := codec.Decode(string(token.File.Data), testShopKey)
	require.NoError(t, err)
	assert.Len(t, decoded.Products, 500)
}
