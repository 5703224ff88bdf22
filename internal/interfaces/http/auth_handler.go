package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-sync/internal/application/auth"
	"github.com/jhoicas/tienda-sync/internal/application/dto"
	"github.com/jhoicas/tienda-sync/internal/domain"
)

// AuthHandler maneja setup del terminal, login y gestión de empleados.
type AuthHandler struct {
	uc *auth.UseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.UseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Setup configura el terminal como admin de una tienda nueva. Público y de
// una sola vez: un terminal configurado lo rechaza.
func (h *AuthHandler) Setup(c *fiber.Ctx) error {
	var in dto.SetupRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ShopName == "" || in.SyncKey == "" || in.AdminName == "" || in.AdminPIN == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "shop_name, sync_key, admin_name y admin_pin son requeridos"})
	}
	if err := h.uc.SetupShop(c.Context(), auth.SetupInput{
		ShopName:          in.ShopName,
		SyncKey:           in.SyncKey,
		AdminWhatsApp:     in.AdminWhatsApp,
		WhatsAppGroupLink: in.WhatsAppGroupLink,
		AdminName:         in.AdminName,
		AdminPIN:          in.AdminPIN,
	}); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_SETUP", Message: "el terminal ya está configurado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusCreated)
}

// Login valida nombre y PIN y emite la sesión JWT.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" || in.PIN == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name y pin son requeridos"})
	}
	out, err := h.uc.Login(c.Context(), in.Name, in.PIN)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.LoginResponse{Token: out.Token, Staff: dto.NewStaffResponse(out.Staff)})
}

// RegisterStaff da de alta un empleado (solo roles privilegiados).
func (h *AuthHandler) RegisterStaff(c *fiber.Ctx) error {
	var in dto.RegisterStaffRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	staff, err := h.uc.RegisterStaff(c.Context(), in.Name, in.PIN, in.Role)
	if err != nil {
		if errors.Is(err, domain.ErrStaffAlreadyExists) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe un empleado con ese nombre"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name, pin (4+ dígitos) y role válidos son requeridos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewStaffResponse(staff))
}

// ListStaff lista los empleados del terminal.
func (h *AuthHandler) ListStaff(c *fiber.Ctx) error {
	staff, err := h.uc.ListStaff(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.StaffResponse, 0, len(staff))
	for _, s := range staff {
		out = append(out, dto.NewStaffResponse(s))
	}
	return c.JSON(out)
}

// RemoveStaff elimina un empleado (solo roles privilegiados).
func (h *AuthHandler) RemoveStaff(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.RemoveStaff(c.Context(), id); err != nil {
		if errors.Is(err, domain.ErrStaffNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "empleado no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Settings devuelve la configuración visible del terminal.
func (h *AuthHandler) Settings(c *fiber.Ctx) error {
	s, err := h.uc.Settings(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if s == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_SETUP", Message: "el terminal no está configurado"})
	}
	return c.JSON(dto.NewSettingsResponse(s))
}
