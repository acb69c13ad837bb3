package controller

import (
	"errors"
	"strconv"
	"time"

	"virtual-attendant-be/internal/dto"
	"virtual-attendant-be/internal/pkg/logger"
	"virtual-attendant-be/internal/pkg/serverutils"
	"virtual-attendant-be/internal/service"
	"virtual-attendant-be/internal/websocket"
	"virtual-attendant-be/pkg/intention"
	"virtual-attendant-be/pkg/router"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error

	GetIntentions(ctx *fiber.Ctx) error
	SaveIntention(ctx *fiber.Ctx) error
	DeleteIntention(ctx *fiber.Ctx) error

	GetSession(ctx *fiber.Ctx) error
	ResetSession(ctx *fiber.Ctx) error

	GetTurns(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
	GetLogDetail(ctx *fiber.Ctx) error
}

type adminController struct {
	service   service.IAdminService
	hub       *websocket.Hub
	jwtSecret string
}

// NewAdminController mounts the monitor stream only when hub is non-nil.
func NewAdminController(service service.IAdminService, hub *websocket.Hub, jwtSecret string) IAdminController {
	return &adminController{
		service:   service,
		hub:       hub,
		jwtSecret: jwtSecret,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")

	// Public Admin Route (Login)
	h.Post("/login", c.Login)

	h.Use(serverutils.JwtMiddleware(c.jwtSecret))

	// Catalog
	h.Get("/intentions", c.GetIntentions)
	h.Post("/intentions", c.SaveIntention)
	h.Delete("/intentions/:id", c.DeleteIntention)

	// Sessions
	h.Get("/sessions/:callerId", c.GetSession)
	h.Delete("/sessions/:callerId", c.ResetSession)

	// Observability
	h.Get("/turns", c.GetTurns)
	h.Get("/logs", c.GetLogs)
	h.Get("/logs/:id", c.GetLogDetail)

	if c.hub != nil {
		h.Use("/monitor/ws", func(ctx *fiber.Ctx) error {
			if fiberws.IsWebSocketUpgrade(ctx) {
				return ctx.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		h.Get("/monitor/ws", fiberws.New(func(conn *fiberws.Conn) {
			websocket.ServeWs(c.hub, conn)
		}))
	}
}

func (c *adminController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.UserContext(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Admin login successful", res))
}

func (c *adminController) GetIntentions(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Intentions", c.service.ListIntentions(ctx.UserContext())))
}

func (c *adminController) SaveIntention(ctx *fiber.Ctx) error {
	var req dto.IntentionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SaveIntention(ctx.UserContext(), &req)
	if err != nil {
		if isCatalogRejection(err) {
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(serverutils.ErrorResponse(422, err.Error()))
		}
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Intention saved", res))
}

func isCatalogRejection(err error) bool {
	return errors.Is(err, intention.ErrInvalidIntention) ||
		errors.Is(err, intention.ErrDuplicateIntention) ||
		errors.Is(err, router.ErrUnknownAction) ||
		errors.Is(err, router.ErrUnknownFlow) ||
		errors.Is(err, router.ErrUnknownStep) ||
		errors.Is(err, router.ErrStepNeedsStart)
}

func (c *adminController) DeleteIntention(ctx *fiber.Ctx) error {
	if err := c.service.DeleteIntention(ctx.UserContext(), ctx.Params("id")); err != nil {
		if errors.Is(err, intention.ErrIntentionNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Intention removed", nil))
}

func (c *adminController) GetSession(ctx *fiber.Ctx) error {
	res, err := c.service.GetSession(ctx.UserContext(), ctx.Params("callerId"))
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session", res))
}

func (c *adminController) ResetSession(ctx *fiber.Ctx) error {
	if err := c.service.ResetSession(ctx.UserContext(), ctx.Params("callerId")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session reset", nil))
}

func (c *adminController) GetTurns(ctx *fiber.Ctx) error {
	filter := dto.TurnFilter{
		CallerId: ctx.Query("caller_id"),
		Rule:     ctx.Query("rule"),
		Limit:    ctx.QueryInt("limit", 50),
		Offset:   ctx.QueryInt("offset", 0),
	}
	if raw := ctx.Query("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "since must be RFC3339"))
		}
		filter.Since = since
	}

	res, err := c.service.ListTurns(ctx.UserContext(), filter)
	if err != nil {
		if errors.Is(err, service.ErrTurnsUnavailable) {
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.ErrorResponse(503, err.Error()))
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Conversation turns", res))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	limit, _ := strconv.Atoi(ctx.Query("limit", "10"))
	offset, _ := strconv.Atoi(ctx.Query("offset", "0"))
	level := ctx.Query("level", "")

	logs, err := c.service.GetLogs(ctx.UserContext(), level, limit, offset)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs", logs))
}

func (c *adminController) GetLogDetail(ctx *fiber.Ctx) error {
	l, err := c.service.GetLogDetail(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		if errors.Is(err, logger.ErrLogNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Log not found"))
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Log detail", l))
}
