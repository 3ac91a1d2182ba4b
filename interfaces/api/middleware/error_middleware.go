package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"inspection-api/pkg/logger"
	"inspection-api/pkg/utils"
)

func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := utils.StatusForError(err)

		data := map[string]interface{}{"status_code": code, "path": c.Path(), "method": c.Method()}
		if code >= fiber.StatusInternalServerError {
			logger.Error(logger.CategoryAPI, "error_handler", "Request error occurred", err, data)
		} else {
			logger.Debug(logger.CategoryAPI, "error_handler", "Request rejected", data)
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return utils.ErrorResponse(c, fe.Code, fe.Message, nil)
		}
		return utils.AppErrorResponse(c, err)
	}
}
