package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	apperrors "inspection-api/pkg/errors"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

type PaginationMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

func NewPaginationMeta(total int64, page, limit int) PaginationMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = int(total) / limit
		if int(total)%limit > 0 {
			totalPages++
		}
	}
	return PaginationMeta{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

func SuccessResponse(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func CreatedResponse(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func PaginatedResponse(c *fiber.Ctx, message string, data interface{}, meta PaginationMeta) error {
	return c.JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	resp := Response{
		Success: false,
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return c.Status(statusCode).JSON(resp)
}

func ValidationErrorResponse(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(Response{
		Success: false,
		Message: message,
		Error:   "validation failed",
	})
}

func UnauthorizedResponse(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(Response{
		Success: false,
		Message: message,
		Error:   "unauthorized",
	})
}

func ForbiddenResponse(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusForbidden).JSON(Response{
		Success: false,
		Message: message,
		Error:   "access denied",
	})
}

// StatusForError maps an application error code to an HTTP status
func StatusForError(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	switch apperrors.CodeOf(err) {
	case apperrors.CodeNotFound:
		return fiber.StatusNotFound
	case apperrors.CodeInvalid:
		return fiber.StatusBadRequest
	case apperrors.CodeConflict:
		return fiber.StatusConflict
	case apperrors.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case apperrors.CodeForbidden:
		return fiber.StatusForbidden
	case apperrors.CodeUpstream:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// AppErrorResponse writes err with the status its code maps to. Messages of non-application errors are not exposed.
func AppErrorResponse(c *fiber.Ctx, err error) error {
	status := StatusForError(err)
	var ae *apperrors.AppError
	if errors.As(err, &ae) {
		resp := Response{Success: false, Message: ae.Message, Error: string(ae.Code)}
		if len(ae.Meta) > 0 {
			resp.Data = ae.Meta
		}
		return c.Status(status).JSON(resp)
	}
	if status == fiber.StatusInternalServerError {
		return ErrorResponse(c, status, "An error occurred", errors.New("internal error"))
	}
	return ErrorResponse(c, status, err.Error(), err)
}
