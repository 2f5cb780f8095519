package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/clinica-pro/internal/application/dto"
	"github.com/tu-usuario/clinica-pro/internal/application/subscription"
)

// SubscriptionHandler suscripción SaaS de la clínica.
type SubscriptionHandler struct {
	uc *subscription.UseCase
}

// NewSubscriptionHandler construye el handler de suscripción.
func NewSubscriptionHandler(uc *subscription.UseCase) *SubscriptionHandler {
	return &SubscriptionHandler{uc: uc}
}

// Status estado actual con el flag near_expiry.
func (h *SubscriptionHandler) Status(c *fiber.Ctx) error {
	out, err := h.uc.Status(c.Context(), GetClinicID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListPlans planes disponibles.
func (h *SubscriptionHandler) ListPlans(c *fiber.Ctx) error {
	return c.JSON(h.uc.ListPlans())
}

// StartTrial inicia la prueba gratuita de 7 días.
func (h *SubscriptionHandler) StartTrial(c *fiber.Ctx) error {
	out, err := h.uc.StartTrial(c.Context(), GetClinicID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ConfirmPayment aplica un pago confirmado por el checkout (también sirve como
// renovación anticipada estando active).
func (h *SubscriptionHandler) ConfirmPayment(c *fiber.Ctx) error {
	var in dto.PaymentConfirmedRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ConfirmPayment(c.Context(), GetClinicID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Cancel cancela la suscripción activa.
func (h *SubscriptionHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.Context(), GetClinicID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
