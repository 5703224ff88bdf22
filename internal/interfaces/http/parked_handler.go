package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-sync/internal/application/dto"
	"github.com/jhoicas/tienda-sync/internal/application/ventas"
)

// ParkedHandler maneja los pedidos aparcados.
type ParkedHandler struct {
	uc *ventas.ParkedUseCase
}

// NewParkedHandler construye el handler de pedidos aparcados.
func NewParkedHandler(uc *ventas.ParkedUseCase) *ParkedHandler {
	return &ParkedHandler{uc: uc}
}

// Park suspende un carrito reservando su stock.
func (h *ParkedHandler) Park(c *fiber.Ctx) error {
	var in dto.ParkRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "items es requerido"})
	}
	items := make([]ventas.SaleItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, ventas.SaleItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	order, err := h.uc.Park(c.Context(), ventas.ParkInput{
		CustomerLabel: in.CustomerLabel,
		StaffID:       GetStaffID(c),
		StaffName:     GetStaffName(c),
		Privileged:    IsPrivileged(c),
		Items:         items,
	})
	if err != nil {
		return saleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewParkedOrderResponse(order))
}

// List lista los pedidos aparcados.
func (h *ParkedHandler) List(c *fiber.Ctx) error {
	orders, err := h.uc.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.ParkedOrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, dto.NewParkedOrderResponse(o))
	}
	return c.JSON(out)
}

// Update re-aparca el pedido con líneas nuevas ajustando el stock por diferencia.
func (h *ParkedHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id numérico es requerido"})
	}
	var in dto.ParkedUpdateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	items := make([]ventas.SaleItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, ventas.SaleItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	order, err := h.uc.UpdateItems(c.Context(), int64(id), items, GetStaffName(c), IsPrivileged(c))
	if err != nil {
		return saleError(c, err)
	}
	return c.JSON(dto.NewParkedOrderResponse(order))
}

// Resume cobra un pedido aparcado convirtiéndolo en venta.
func (h *ParkedHandler) Resume(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id numérico es requerido"})
	}
	var in dto.ResumeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sale, err := h.uc.Resume(c.Context(), int64(id), ventas.ResumeInput{
		Discount:      in.Discount,
		PaymentMethod: in.PaymentMethod,
		CashTendered:  in.CashTendered,
		StaffID:       GetStaffID(c),
		StaffName:     GetStaffName(c),
	})
	if err != nil {
		return saleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewSaleResponse(sale))
}

// Cancel descarta un pedido aparcado devolviendo su stock.
func (h *ParkedHandler) Cancel(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id numérico es requerido"})
	}
	if err := h.uc.Cancel(c.Context(), int64(id), GetStaffName(c)); err != nil {
		return saleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
