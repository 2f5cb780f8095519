package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/clinica-pro/internal/application/dto"
	"github.com/tu-usuario/clinica-pro/internal/application/subscription"
	"github.com/tu-usuario/clinica-pro/internal/domain/lifecycle"
	"github.com/tu-usuario/clinica-pro/pkg/logger"
)

// HeaderWebhookSignature firma HMAC-SHA256 (hex) del cuerpo crudo del webhook.
const HeaderWebhookSignature = "X-Webhook-Signature"

// WebhookHandler recibe eventos del proveedor de pagos y los traduce a
// transiciones de suscripción. El endpoint es público: la autenticidad se
// verifica por firma, no por JWT.
type WebhookHandler struct {
	subs   *subscription.UseCase
	secret string
	log    *logger.Logger
}

// NewWebhookHandler construye el handler de webhooks de pago.
func NewWebhookHandler(subs *subscription.UseCase, secret string, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{subs: subs, secret: secret, log: log}
}

// HandlePayment verifica la firma y despacha el evento recibido.
func (h *WebhookHandler) HandlePayment(c *fiber.Ctx) error {
	body := c.Body()
	if !h.validSignature(body, c.Get(HeaderWebhookSignature)) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Code:    "INVALID_SIGNATURE",
			Message: "firma del webhook inválida",
		})
	}

	var ev dto.WebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return badBody(c)
	}
	if ev.ClinicID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "clinic_id es obligatorio",
		})
	}

	h.log.Info().
		Str("event", ev.Event).
		Str("clinic_id", ev.ClinicID).
		Str("payment_id", ev.PaymentID).
		Msg("webhook de pago recibido")

	var (
		out *dto.SubscriptionStatusResponse
		err error
	)
	switch ev.Event {
	case "payment.captured":
		out, err = h.subs.ConfirmPayment(c.Context(), ev.ClinicID, dto.PaymentConfirmedRequest{
			PlanID:    ev.PlanID,
			Amount:    ev.Amount,
			Currency:  ev.Currency,
			PaymentID: ev.PaymentID,
			Timestamp: ev.Timestamp,
		})
	case "payment.failed":
		out, err = h.subs.PaymentFailed(c.Context(), ev.ClinicID)
	case "subscription.cancelled":
		out, err = h.subs.Cancel(c.Context(), ev.ClinicID)
	case "subscription.updated":
		if ev.Subscription == nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code:    "VALIDATION",
				Message: "subscription es obligatorio en subscription.updated",
			})
		}
		out, err = h.subs.ApplyRemoteChange(c.Context(), ev.ClinicID, lifecycle.RemoteChange{
			Plan:               ev.Subscription.Plan,
			Status:             lifecycle.SubscriptionStatus(ev.Subscription.Status),
			TrialEndsAt:        ev.Subscription.TrialEndsAt,
			CurrentPeriodStart: ev.Subscription.CurrentPeriodStart,
			CurrentPeriodEnd:   ev.Subscription.CurrentPeriodEnd,
		})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "UNKNOWN_EVENT",
			Message: "evento no soportado: " + ev.Event,
		})
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// validSignature compara en tiempo constante la firma declarada contra el
// HMAC-SHA256 del cuerpo.
func (h *WebhookHandler) validSignature(body []byte, signature string) bool {
	if h.secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
