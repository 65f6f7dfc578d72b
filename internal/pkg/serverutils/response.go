package serverutils

import (
	"errors"

	"pdf-insight-be/internal/pkg/apperrors"

	"github.com/gofiber/fiber/v2"
)

// BaseResponse is the envelope every JSON endpoint returns.
type BaseResponse[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func OK[T any](ctx *fiber.Ctx, message string, data T) error {
	return ctx.JSON(BaseResponse[T]{
		Success: true,
		Code:    fiber.StatusOK,
		Message: message,
		Data:    data,
	})
}

func Fail(ctx *fiber.Ctx, code int, message string) error {
	return ctx.Status(code).JSON(BaseResponse[any]{
		Success: false,
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// ErrorHandlerMiddleware converts errors that bubble out of handlers into the
// BaseResponse envelope, mapping the app error taxonomy onto HTTP statuses.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		switch {
		case apperrors.IsValidation(err):
			code = fiber.StatusBadRequest
		case apperrors.IsUpload(err), apperrors.IsChatRequest(err):
			code = fiber.StatusBadGateway
		case apperrors.IsPersistence(err):
			code = fiber.StatusInternalServerError
		default:
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
		}

		return Fail(ctx, code, err.Error())
	}
}
