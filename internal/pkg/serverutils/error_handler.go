package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware renders any error a handler returns as ErrorResponse.
func ErrorHandlerMiddleware(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()

	var fe *fiber.Error
	var ve *ValidationError
	switch {
	case errors.As(err, &fe):
		code = fe.Code
		message = fe.Message
	case errors.As(err, &ve):
		code = fiber.StatusBadRequest
		return ctx.Status(code).JSON(Response{
			Success: false,
			Code:    code,
			Message: ve.Error(),
			Data:    ve.Fields,
		})
	}

	return ctx.Status(code).JSON(ErrorResponse(code, message))
}
