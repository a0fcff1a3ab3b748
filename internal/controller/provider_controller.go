package controller

import (
	"invoiceflow-be/internal/dto"
	"invoiceflow-be/internal/pkg/serverutils"
	"invoiceflow-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// IProviderController exposes party management plus the provider-facing
// webhook surface: endpoint settings and the delivery log.
type IProviderController interface {
	RegisterRoutes(r fiber.Router)
	CreateProvider(ctx *fiber.Ctx) error
	ShowProvider(ctx *fiber.Ctx) error
	CreateCustomer(ctx *fiber.Ctx) error
	ShowCustomer(ctx *fiber.Ctx) error
	GetWebhookSettings(ctx *fiber.Ctx) error
	UpdateWebhookSettings(ctx *fiber.Ctx) error
	ListDeliveries(ctx *fiber.Ctx) error
	ShowDelivery(ctx *fiber.Ctx) error
	Redeliver(ctx *fiber.Ctx) error
}

type providerController struct {
	partyService   service.IPartyService
	webhookService service.IWebhookService
}

func NewProviderController(partyService service.IPartyService, webhookService service.IWebhookService) IProviderController {
	return &providerController{
		partyService:   partyService,
		webhookService: webhookService,
	}
}

func (c *providerController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/provider/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.CreateProvider)
	h.Get(":id", c.ShowProvider)
	h.Get(":id/webhooks", c.GetWebhookSettings)
	h.Put(":id/webhooks", c.UpdateWebhookSettings)
	h.Get(":id/deliveries", c.ListDeliveries)
	h.Get(":id/deliveries/:deliveryId", c.ShowDelivery)
	h.Post(":id/deliveries/:deliveryId/redeliver", c.Redeliver)

	cu := r.Group("/customer/v1")
	cu.Use(serverutils.JwtMiddleware)
	cu.Post("", c.CreateCustomer)
	cu.Get(":id", c.ShowCustomer)
}

func (c *providerController) CreateProvider(ctx *fiber.Ctx) error {
	var req dto.CreateProviderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.partyService.CreateProvider(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Provider created", res))
}

func (c *providerController) ShowProvider(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid provider ID"))
	}

	res, err := c.partyService.ShowProvider(ctx.Context(), id)
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Provider not found"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Provider details", res))
}

func (c *providerController) CreateCustomer(ctx *fiber.Ctx) error {
	var req dto.CreateCustomerRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.partyService.CreateCustomer(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Customer created", res))
}

func (c *providerController) ShowCustomer(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid customer ID"))
	}

	res, err := c.partyService.ShowCustomer(ctx.Context(), id)
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Customer not found"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Customer details", res))
}

func (c *providerController) GetWebhookSettings(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid provider ID"))
	}

	res, err := c.webhookService.GetSettings(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Webhook settings", res))
}

func (c *providerController) UpdateWebhookSettings(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid provider ID"))
	}

	var req dto.UpdateWebhookSettingsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	req.ProviderId = id
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.webhookService.UpdateSettings(ctx.Context(), &req)
	if err != nil {
		return billingError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Webhook settings updated", res))
}

func (c *providerController) ListDeliveries(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid provider ID"))
	}

	req := dto.ListDeliveriesRequest{
		ProviderId: id,
		Status:     ctx.Query("status"),
		EventName:  ctx.Query("event"),
		Limit:      ctx.QueryInt("limit", 20),
		Offset:     ctx.QueryInt("offset", 0),
	}

	res, err := c.webhookService.ListDeliveries(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Webhook deliveries", res))
}

func (c *providerController) ShowDelivery(ctx *fiber.Ctx) error {
	providerId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid provider ID"))
	}
	deliveryId, err := uuid.Parse(ctx.Params("deliveryId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid delivery ID"))
	}

	res, err := c.webhookService.ShowDelivery(ctx.Context(), providerId, deliveryId)
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Delivery not found"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Delivery details", res))
}

func (c *providerController) Redeliver(ctx *fiber.Ctx) error {
	providerId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid provider ID"))
	}
	deliveryId, err := uuid.Parse(ctx.Params("deliveryId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid delivery ID"))
	}

	res, err := c.webhookService.Redeliver(ctx.Context(), providerId, deliveryId)
	if err != nil {
		return billingError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Delivery requeued", res))
}
