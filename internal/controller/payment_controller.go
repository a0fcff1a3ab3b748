package controller

import (
	"invoiceflow-be/internal/dto"
	"invoiceflow-be/internal/pkg/serverutils"
	"invoiceflow-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Complete(ctx *fiber.Ctx) error
	Fail(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type paymentController struct {
	paymentService service.IPaymentService
}

func NewPaymentController(paymentService service.IPaymentService) IPaymentController {
	return &paymentController{paymentService: paymentService}
}

func (c *paymentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/payment/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Post(":id/complete", c.Complete)
	h.Post(":id/fail", c.Fail)
}

func (c *paymentController) Create(ctx *fiber.Ctx) error {
	var req dto.CreatePaymentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.paymentService.Create(ctx.Context(), &req)
	if err != nil {
		return billingError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Payment recorded", res))
}

func (c *paymentController) Complete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid payment ID"))
	}

	var req dto.CompletePaymentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	req.Id = id

	res, err := c.paymentService.Complete(ctx.Context(), &req)
	if err != nil {
		return billingError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Payment completed", res))
}

func (c *paymentController) Fail(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid payment ID"))
	}

	var req dto.FailPaymentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	req.Id = id

	res, err := c.paymentService.Fail(ctx.Context(), &req)
	if err != nil {
		return billingError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Payment failed", res))
}

func (c *paymentController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid payment ID"))
	}

	res, err := c.paymentService.Show(ctx.Context(), id)
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Payment not found"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Payment details", res))
}
