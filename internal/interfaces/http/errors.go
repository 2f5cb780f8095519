package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	appbilling "github.com/tu-usuario/clinica-pro/internal/application/billing"
	"github.com/tu-usuario/clinica-pro/internal/application/dto"
	"github.com/tu-usuario/clinica-pro/internal/domain"
	"github.com/tu-usuario/clinica-pro/internal/domain/billing"
	"github.com/tu-usuario/clinica-pro/internal/domain/lifecycle"
)

// respondError mapea errores de dominio a respuestas HTTP. Los errores de
// validación de borradores llevan los campos ofensores en el cuerpo.
func respondError(c *fiber.Ctx, err error) error {
	var validationFailed *appbilling.ValidationFailedError
	if errors.As(err, &validationFailed) {
		fields := make([]dto.FieldError, 0, len(validationFailed.Fields))
		for _, fe := range validationFailed.Fields {
			fields = append(fields, dto.FieldError{Field: fe.Field, Message: fe.Message})
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.FieldErrorsResponse{
			Code:   "VALIDATION",
			Errors: fields,
		})
	}

	var fieldErr *billing.ValidationError
	if errors.As(err, &fieldErr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.FieldErrorsResponse{
			Code:   "VALIDATION",
			Errors: []dto.FieldError{{Field: fieldErr.Field, Message: fieldErr.Message}},
		})
	}

	var eventErr *lifecycle.ValidationError
	if errors.As(err, &eventErr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.FieldErrorsResponse{
			Code:   "VALIDATION",
			Errors: []dto.FieldError{{Field: eventErr.Field, Message: eventErr.Message}},
		})
	}

	var transitionErr *lifecycle.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INVALID_TRANSITION",
			Message: transitionErr.Error(),
		})
	}

	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "recurso duplicado"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto con el estado actual"})
	case errors.Is(err, domain.ErrLastLineItem):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "LAST_LINE_ITEM", Message: "la factura debe conservar al menos una línea"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente para el ajuste"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "entrada inválida"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
