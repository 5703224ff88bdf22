package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-sync/internal/application/dto"
	"github.com/jhoicas/tienda-sync/internal/domain/entity"
	"github.com/jhoicas/tienda-sync/pkg/jwt"
)

// Locals keys para la sesión del empleado en Fiber.
const (
	LocalStaffID   = "staff_id"
	LocalStaffName = "staff_name"
	LocalRole      = "role"
)

// AuthMiddleware valida el Bearer Token JWT y extrae la sesión a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		staffID, staffName, role, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalStaffID, staffID)
		c.Locals(LocalStaffName, staffName)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// RequireRole exige que el rol de la sesión esté entre los permitidos.
// Se encadena después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para esta operación"})
	}
}

// GetStaffID devuelve el ID del empleado de la sesión.
func GetStaffID(c *fiber.Ctx) string {
	return localString(c, LocalStaffID)
}

// GetStaffName devuelve el nombre del empleado de la sesión.
func GetStaffName(c *fiber.Ctx) string {
	return localString(c, LocalStaffName)
}

// GetRole devuelve el rol del empleado de la sesión.
func GetRole(c *fiber.Ctx) string {
	return localString(c, LocalRole)
}

// IsPrivileged indica si la sesión puede saltarse la validación estricta de stock.
func IsPrivileged(c *fiber.Ctx) bool {
	role := GetRole(c)
	return role == entity.RoleAdmin || role == entity.RoleManager
}

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
