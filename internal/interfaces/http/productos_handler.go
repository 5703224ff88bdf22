package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-sync/internal/application/dto"
	"github.com/jhoicas/tienda-sync/internal/application/productos"
	"github.com/jhoicas/tienda-sync/internal/domain"
)

// ProductosHandler maneja el catálogo local.
type ProductosHandler struct {
	uc *productos.UseCase
}

// NewProductosHandler construye el handler del catálogo.
func NewProductosHandler(uc *productos.UseCase) *ProductosHandler {
	return &ProductosHandler{uc: uc}
}

// Create da de alta un producto (con auditoría de stock inicial).
func (h *ProductosHandler) Create(c *fiber.Ctx) error {
	var in dto.ProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	product, err := h.uc.Create(c.Context(), productos.ProductInput{
		Name:              in.Name,
		Price:             in.Price,
		Cost:              in.Cost,
		Category:          in.Category,
		LowStockThreshold: in.LowStockThreshold,
		InitialStock:      in.InitialStock,
		Actor:             GetStaffName(c),
	})
	if err != nil {
		return productError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewProductResponse(product))
}

// List devuelve el catálogo completo.
func (h *ProductosHandler) List(c *fiber.Ctx) error {
	products, err := h.uc.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.NewProductResponse(p))
	}
	return c.JSON(out)
}

// ListLowStock devuelve los productos en alerta de stock.
func (h *ProductosHandler) ListLowStock(c *fiber.Ctx) error {
	products, err := h.uc.ListLowStock(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.NewProductResponse(p))
	}
	return c.JSON(out)
}

// GetByID devuelve un producto.
func (h *ProductosHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id numérico es requerido"})
	}
	product, err := h.uc.Get(c.Context(), int64(id))
	if err != nil {
		return productError(c, err)
	}
	return c.JSON(dto.NewProductResponse(product))
}

// Update modifica los datos del producto (el stock va por las rutas auditadas).
func (h *ProductosHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id numérico es requerido"})
	}
	var in dto.ProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	product, err := h.uc.Update(c.Context(), int64(id), productos.ProductInput{
		Name:              in.Name,
		Price:             in.Price,
		Cost:              in.Cost,
		Category:          in.Category,
		LowStockThreshold: in.LowStockThreshold,
		Actor:             GetStaffName(c),
	})
	if err != nil {
		return productError(c, err)
	}
	return c.JSON(dto.NewProductResponse(product))
}

// Adjust fija el stock en la cantidad contada (recuento físico).
func (h *ProductosHandler) Adjust(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id numérico es requerido"})
	}
	var in dto.StockAdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	product, err := h.uc.AdjustStock(c.Context(), int64(id), in.Quantity, GetStaffName(c))
	if err != nil {
		return productError(c, err)
	}
	return c.JSON(dto.NewProductResponse(product))
}

// Restock suma unidades recibidas del proveedor.
func (h *ProductosHandler) Restock(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id numérico es requerido"})
	}
	var in dto.StockAdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	product, err := h.uc.Restock(c.Context(), int64(id), in.Quantity, GetStaffName(c))
	if err != nil {
		return productError(c, err)
	}
	return c.JSON(dto.NewProductResponse(product))
}

// History devuelve las últimas entradas de auditoría del producto.
func (h *ProductosHandler) History(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id numérico es requerido"})
	}
	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	logs, err := h.uc.History(c.Context(), int64(id), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.InventoryLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, dto.NewInventoryLogResponse(l))
	}
	return c.JSON(out)
}

// Delete elimina un producto del catálogo.
func (h *ProductosHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id numérico es requerido"})
	}
	if err := h.uc.Delete(c.Context(), int64(id)); err != nil {
		return productError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func productError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
