package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-sync/internal/application/dto"
	"github.com/jhoicas/tienda-sync/internal/application/ventas"
	"github.com/jhoicas/tienda-sync/internal/domain"
)

// VentasHandler maneja el ciclo de vida de las ventas del terminal.
type VentasHandler struct {
	uc *ventas.SalesUseCase
}

// NewVentasHandler construye el handler de ventas.
func NewVentasHandler(uc *ventas.SalesUseCase) *VentasHandler {
	return &VentasHandler{uc: uc}
}

// Create registra una venta con el empleado de la sesión como vendedor.
func (h *VentasHandler) Create(c *fiber.Ctx) error {
	var in dto.SaleRequest
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
	sale, err := h.uc.RegisterSale(c.Context(), ventas.SaleInput{
		Items:         items,
		Discount:      in.Discount,
		PaymentMethod: in.PaymentMethod,
		CashTendered:  in.CashTendered,
		StaffID:       GetStaffID(c),
		StaffName:     GetStaffName(c),
		Privileged:    IsPrivileged(c),
	})
	if err != nil {
		return saleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewSaleResponse(sale))
}

// ListByDay lista las ventas de un día (query day=YYYY-MM-DD, hoy por defecto).
func (h *VentasHandler) ListByDay(c *fiber.Ctx) error {
	day := time.Now()
	if q := c.Query("day"); q != "" {
		parsed, err := time.Parse("2006-01-02", q)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "day debe ser YYYY-MM-DD"})
		}
		day = parsed
	}
	sales, err := h.uc.ListByDay(c.Context(), day)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, dto.NewSaleResponse(s))
	}
	return c.JSON(out)
}

// ListPending lista las ventas aún no exportadas.
func (h *VentasHandler) ListPending(c *fiber.Ctx) error {
	sales, err := h.uc.ListPending(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, dto.NewSaleResponse(s))
	}
	return c.JSON(out)
}

// Delete deshace una venta restaurando el stock (solo roles privilegiados).
func (h *VentasHandler) Delete(c *fiber.Ctx) error {
	saleID := c.Params("sale_id")
	if saleID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "sale_id es requerido"})
	}
	if err := h.uc.DeleteSale(c.Context(), saleID, GetStaffName(c)); err != nil {
		return saleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// VerifyTransfer marca una transferencia como verificada manualmente.
func (h *VentasHandler) VerifyTransfer(c *fiber.Ctx) error {
	saleID := c.Params("sale_id")
	if saleID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "sale_id es requerido"})
	}
	if err := h.uc.VerifyTransfer(c.Context(), saleID); err != nil {
		return saleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func saleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente para una de las líneas"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "venta o producto no encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
