package controller

import (
	"invoiceflow-be/internal/dto"
	"invoiceflow-be/internal/pkg/serverutils"
	"invoiceflow-be/internal/service"
	"invoiceflow-be/pkg/billing/engine"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IInvoiceController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	ListPayments(ctx *fiber.Ctx) error
	ListRefunds(ctx *fiber.Ctx) error
}

type invoiceController struct {
	invoiceService service.IInvoiceService
	paymentService service.IPaymentService
	refundService  service.IRefundService
}

func NewInvoiceController(
	invoiceService service.IInvoiceService,
	paymentService service.IPaymentService,
	refundService service.IRefundService,
) IInvoiceController {
	return &invoiceController{
		invoiceService: invoiceService,
		paymentService: paymentService,
		refundService:  refundService,
	}
}

func (c *invoiceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/invoice/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Post(":id/cancel", c.Cancel)
	h.Get(":id/payments", c.ListPayments)
	h.Get(":id/refunds", c.ListRefunds)
}

func (c *invoiceController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateInvoiceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.invoiceService.Create(ctx.Context(), &req)
	if err != nil {
		return billingError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Invoice created", res))
}

func (c *invoiceController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid invoice ID"))
	}

	res, err := c.invoiceService.Show(ctx.Context(), id)
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Invoice not found"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Invoice details", res))
}

func (c *invoiceController) List(ctx *fiber.Ctx) error {
	req := dto.ListInvoicesRequest{
		Status: ctx.Query("status"),
		Limit:  ctx.QueryInt("limit", 20),
		Offset: ctx.QueryInt("offset", 0),
	}
	if v := ctx.Query("customer_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid customer_id"))
		}
		req.CustomerId = &id
	}
	if v := ctx.Query("provider_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid provider_id"))
		}
		req.ProviderId = &id
	}

	res, err := c.invoiceService.List(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Invoices", res))
}

func (c *invoiceController) Cancel(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid invoice ID"))
	}

	var req dto.CancelInvoiceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	req.Id = id
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.invoiceService.Cancel(ctx.Context(), &req)
	if err != nil {
		return billingError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Invoice cancelled", res))
}

func (c *invoiceController) ListPayments(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid invoice ID"))
	}

	res, err := c.paymentService.ListByInvoice(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Invoice payments", res))
}

func (c *invoiceController) ListRefunds(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid invoice ID"))
	}

	res, err := c.refundService.ListByInvoice(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Invoice refunds", res))
}

// billingError maps domain rejections to 4xx instead of the generic 500.
func billingError(ctx *fiber.Ctx, err error) error {
	switch err.(type) {
	case *engine.ValidationError:
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	case *engine.InvalidStateError:
		return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse(409, err.Error()))
	}
	return err
}
