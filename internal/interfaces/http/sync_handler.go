package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-sync/internal/application/dto"
	appsync "github.com/jhoicas/tienda-sync/internal/application/sync"
	"github.com/jhoicas/tienda-sync/internal/domain"
	"github.com/jhoicas/tienda-sync/internal/domain/entity"
)

// RelayStatus expone si el canal en tiempo real está vivo.
type RelayStatus interface {
	Connected() bool
}

// SyncHandler maneja el bridge asíncrono (tokens) y el estado del relay.
type SyncHandler struct {
	importer *appsync.Importer
	exporter *appsync.Exporter
	relay    RelayStatus // puede ser nil
}

// NewSyncHandler construye el handler de sincronización.
func NewSyncHandler(importer *appsync.Importer, exporter *appsync.Exporter, relay RelayStatus) *SyncHandler {
	return &SyncHandler{importer: importer, exporter: exporter, relay: relay}
}

// Import decodifica y aplica un token pegado por el usuario. Es pública: un
// terminal recién instalado necesita importar su invitación antes de tener
// empleados con quienes iniciar sesión.
func (h *SyncHandler) Import(c *fiber.Ctx) error {
	var in dto.ImportTokenRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "token es requerido"})
	}
	result, err := h.importer.ImportToken(c.Context(), in.Token)
	if err != nil {
		return importError(c, err)
	}
	return c.JSON(result)
}

// ExportSales codifica las ventas pendientes en un token SALES_REPORT.
func (h *SyncHandler) ExportSales(c *fiber.Ctx) error {
	token, count, err := h.exporter.ExportPendingSales(c.Context(), GetStaffName(c))
	if err != nil {
		return exportError(c, err)
	}
	if token == nil {
		return c.JSON(dto.TokenResponse{Count: 0})
	}
	return c.JSON(dto.NewTokenResponse(token, count))
}

// ExportStock codifica el catálogo completo en un token STOCK_UPDATE (solo admin).
func (h *SyncHandler) ExportStock(c *fiber.Ctx) error {
	token, count, err := h.exporter.ExportStockSnapshot(c.Context())
	if err != nil {
		return exportError(c, err)
	}
	return c.JSON(dto.NewTokenResponse(token, count))
}

// ExportInvite emite una invitación de terminal bajo la clave de handshake.
func (h *SyncHandler) ExportInvite(c *fiber.Ctx) error {
	var in dto.InviteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	var member *entity.StaffRecord
	if in.StaffName != "" {
		member = &entity.StaffRecord{Name: in.StaffName, Role: in.StaffRole, PIN: in.StaffPIN}
	}
	token, err := h.exporter.ExportStaffInvite(c.Context(), member)
	if err != nil {
		return exportError(c, err)
	}
	return c.JSON(dto.NewTokenResponse(token, 1))
}

// RotateKey emite un token KEY_UPDATE bajo la clave vigente y adopta la nueva.
func (h *SyncHandler) RotateKey(c *fiber.Ctx) error {
	var in dto.RotateKeyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.NewKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "new_key es requerido"})
	}
	token, err := h.exporter.RotateKey(c.Context(), in.NewKey)
	if err != nil {
		return exportError(c, err)
	}
	return c.JSON(dto.NewTokenResponse(token, 1))
}

// PushStock espeja el catálogo por el relay (solo admin, requiere conexión).
func (h *SyncHandler) PushStock(c *fiber.Ctx) error {
	count, err := h.exporter.PushStockLive(c.Context())
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "RELAY_UNAVAILABLE", Message: "el relay no está conectado"})
	}
	return c.JSON(fiber.Map{"pushed": count})
}

// Status informa el estado del canal en tiempo real.
func (h *SyncHandler) Status(c *fiber.Ctx) error {
	connected := h.relay != nil && h.relay.Connected()
	return c.JSON(fiber.Map{"relay_connected": connected})
}

func importError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidFormat):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FORMAT", Message: "el texto pegado no es un token de sincronización"})
	case errors.Is(err, domain.ErrCorruptPayload):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "CORRUPT", Message: "el token está incompleto o dañado"})
	case errors.Is(err, domain.ErrKeyMismatch):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "KEY_MISMATCH", Message: "el token pertenece a otra tienda u otra clave"})
	case errors.Is(err, domain.ErrUnknownPayload):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "UNKNOWN_PAYLOAD", Message: "tipo de payload no soportado"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func exportError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
