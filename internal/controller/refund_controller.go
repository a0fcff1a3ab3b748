package controller

import (
	"invoiceflow-be/internal/dto"
	"invoiceflow-be/internal/pkg/serverutils"
	"invoiceflow-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IRefundController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Complete(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type refundController struct {
	refundService service.IRefundService
}

func NewRefundController(refundService service.IRefundService) IRefundController {
	return &refundController{refundService: refundService}
}

func (c *refundController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/refund/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Post(":id/complete", c.Complete)
}

func (c *refundController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateRefundRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	// The authenticated operator becomes the refund's processed_by.
	var actorId *uuid.UUID
	if userIdStr, ok := ctx.Locals("user_id").(string); ok {
		if id, err := uuid.Parse(userIdStr); err == nil {
			actorId = &id
		}
	}

	res, err := c.refundService.Create(ctx.Context(), actorId, &req)
	if err != nil {
		return billingError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Refund recorded", res))
}

func (c *refundController) Complete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid refund ID"))
	}

	var req dto.CompleteRefundRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	req.Id = id

	res, err := c.refundService.Complete(ctx.Context(), &req)
	if err != nil {
		return billingError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Refund completed", res))
}

func (c *refundController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid refund ID"))
	}

	res, err := c.refundService.Show(ctx.Context(), id)
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Refund not found"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Refund details", res))
}
