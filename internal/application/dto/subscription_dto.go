package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionStatusResponse estado de la suscripción + flags derivados.
type SubscriptionStatusResponse struct {
	ClinicID           string     `json:"clinic_id"`
	Plan               string     `json:"plan,omitempty"`
	Status             string     `json:"status"`
	TrialEndsAt        *time.Time `json:"trial_ends_at,omitempty"`
	CurrentPeriodStart *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	NearExpiry         bool       `json:"near_expiry"`
}

// PaymentConfirmedRequest evento de pago confirmado del checkout externo
// (webhook del proveedor o confirmación del frontend ya verificada).
type PaymentConfirmedRequest struct {
	PlanID    string          `json:"plan_id"` // MONTHLY | ANNUAL
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	PaymentID string          `json:"payment_id"`
	Timestamp time.Time       `json:"timestamp,omitempty"`
}

// WebhookEvent payload genérico del proveedor de pagos. Signature se valida
// con HMAC-SHA256 antes de procesar el evento.
type WebhookEvent struct {
	Event        string                `json:"event"` // payment.captured | payment.failed | subscription.cancelled | subscription.updated
	ClinicID     string                `json:"clinic_id"`
	PlanID       string                `json:"plan_id,omitempty"`
	Amount       decimal.Decimal       `json:"amount,omitempty"`
	Currency     string                `json:"currency,omitempty"`
	PaymentID    string                `json:"payment_id,omitempty"`
	Timestamp    time.Time             `json:"timestamp,omitempty"`
	Subscription *SubscriptionSnapshot `json:"subscription,omitempty"` // solo subscription.updated
}

// SubscriptionSnapshot foto completa de la suscripción según el proveedor.
// Llega en subscription.updated y se aplica tal cual: el remoto es la fuente
// de verdad en la reconciliación.
type SubscriptionSnapshot struct {
	Plan               string    `json:"plan"`
	Status             string    `json:"status"`
	TrialEndsAt        time.Time `json:"trial_ends_at,omitempty"`
	CurrentPeriodStart time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   time.Time `json:"current_period_end,omitempty"`
}

// PlanResponse plan disponible para la pantalla de suscripción.
type PlanResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	Interval string          `json:"interval"` // 7 days | month | year
	Features []string        `json:"features"`
}
