package controller

import (
	"errors"

	"virtual-attendant-be/internal/dto"
	"virtual-attendant-be/internal/pkg/serverutils"
	"virtual-attendant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAttendantController interface {
	RegisterRoutes(r fiber.Router)
	PostMessage(ctx *fiber.Ctx) error
}

type attendantController struct {
	service service.IAttendantService
}

func NewAttendantController(service service.IAttendantService) IAttendantController {
	return &attendantController{service: service}
}

func (c *attendantController) RegisterRoutes(r fiber.Router) {
	r.Post("/messages", c.PostMessage)
}

func (c *attendantController) PostMessage(ctx *fiber.Ctx) error {
	var req dto.MessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.HandleMessage(ctx.UserContext(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMessage) {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Message routed", res))
}
