package lifecycle

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la suscripción de una clínica.
type SubscriptionStatus string

const (
	SubNone      SubscriptionStatus = "none"
	SubTrialing  SubscriptionStatus = "trialing"
	SubActive    SubscriptionStatus = "active"
	SubPastDue   SubscriptionStatus = "past_due"
	SubCancelled SubscriptionStatus = "cancelled"
	SubExpired   SubscriptionStatus = "expired"
)

// Planes disponibles.
const (
	PlanFreeTrial = "FREE_TRIAL"
	PlanMonthly   = "MONTHLY"
	PlanAnnual    = "ANNUAL"
)

// TrialDuration duración del periodo de prueba.
const TrialDuration = 7 * 24 * time.Hour

// NearExpiryWindow umbral único de "próxima a vencer": faltan 7 días o menos
// para el fin del periodo. Habilita la renovación anticipada en la UI.
const NearExpiryWindow = 7 * 24 * time.Hour

// SubscriptionState snapshot de la suscripción sobre el que operan las
// transiciones. El caller lo persiste completo o no persiste nada.
type SubscriptionState struct {
	Plan               string
	Status             SubscriptionStatus
	TrialEndsAt        time.Time
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
}

// PaymentConfirmation evento de pago confirmado por el checkout externo.
type PaymentConfirmation struct {
	PlanID    string
	Amount    decimal.Decimal
	Currency  string
	PaymentID string
	Timestamp time.Time
}

// ValidSubscriptionStatus reporta si s es uno de los estados conocidos.
func ValidSubscriptionStatus(s SubscriptionStatus) bool {
	switch s {
	case SubNone, SubTrialing, SubActive, SubPastDue, SubCancelled, SubExpired:
		return true
	}
	return false
}

// PeriodEnd calcula el fin de periodo para un plan a partir de start.
// MONTHLY = +1 mes, ANNUAL = +1 año, FREE_TRIAL = +7 días.
func PeriodEnd(plan string, start time.Time) time.Time {
	switch plan {
	case PlanAnnual:
		return start.AddDate(1, 0, 0)
	case PlanMonthly:
		return start.AddDate(0, 1, 0)
	default:
		return start.Add(TrialDuration)
	}
}

// StartTrial inicia el periodo de prueba: none → trialing, periodo = now + 7 días.
func StartTrial(s SubscriptionState, now time.Time) (SubscriptionState, error) {
	if s.Status != SubNone {
		return s, &InvalidTransitionError{Entity: "subscription", From: string(s.Status), To: string(SubTrialing)}
	}
	end := now.Add(TrialDuration)
	return SubscriptionState{
		Plan:               PlanFreeTrial,
		Status:             SubTrialing,
		TrialEndsAt:        end,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   end,
	}, nil
}

// ConfirmPayment aplica un pago confirmado: cualquier estado pasa a active con
// periodo nuevo según el plan. Desde active equivale a una renovación anticipada
// (el periodo reinicia en el timestamp del pago).
func ConfirmPayment(s SubscriptionState, ev PaymentConfirmation) (SubscriptionState, error) {
	if ev.PlanID != PlanMonthly && ev.PlanID != PlanAnnual {
		return s, &InvalidTransitionError{Entity: "subscription", From: string(s.Status), To: string(SubActive)}
	}
	start := ev.Timestamp
	return SubscriptionState{
		Plan:               ev.PlanID,
		Status:             SubActive,
		CurrentPeriodStart: start,
		CurrentPeriodEnd:   PeriodEnd(ev.PlanID, start),
	}, nil
}

// PaymentFailed marca un cobro fallido: active → past_due. El periodo vigente
// no se toca; la expiración la decide ExpireIfLapsed.
func PaymentFailed(s SubscriptionState) (SubscriptionState, error) {
	if s.Status != SubActive {
		return s, &InvalidTransitionError{Entity: "subscription", From: string(s.Status), To: string(SubPastDue)}
	}
	s.Status = SubPastDue
	return s, nil
}

// Cancel cancela explícitamente: active → cancelled.
func Cancel(s SubscriptionState) (SubscriptionState, error) {
	if s.Status != SubActive {
		return s, &InvalidTransitionError{Entity: "subscription", From: string(s.Status), To: string(SubCancelled)}
	}
	s.Status = SubCancelled
	return s, nil
}

// ExpireIfLapsed expira una suscripción trialing o active cuyo periodo terminó
// sin renovación. Devuelve el estado resultante y si hubo cambio.
func ExpireIfLapsed(s SubscriptionState, now time.Time) (SubscriptionState, bool) {
	if s.Status != SubTrialing && s.Status != SubActive {
		return s, false
	}
	if s.CurrentPeriodEnd.IsZero() || !s.CurrentPeriodEnd.Before(now) {
		return s, false
	}
	s.Status = SubExpired
	return s, true
}

// IsNearExpiry reporta si el fin del periodo está a 7 días o menos.
// Solo informa a la UI (botón de renovar); no es una transición.
func IsNearExpiry(currentPeriodEnd, now time.Time) bool {
	if currentPeriodEnd.IsZero() {
		return false
	}
	return currentPeriodEnd.Sub(now) <= NearExpiryWindow
}

// RemoteChange cambio de suscripción observado externamente (webhook o polling
// del proveedor de pagos). El transporte es ajeno al dominio.
type RemoteChange struct {
	Plan               string
	Status             SubscriptionStatus
	TrialEndsAt        time.Time
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
}

// ApplyRemoteChange reducer puro: aplica al estado en memoria un cambio ya
// materializado en el remoto. No re-ejecuta guardas de transición (el remoto
// es la fuente de verdad), pero rechaza estados desconocidos.
func ApplyRemoteChange(current SubscriptionState, ev RemoteChange) (SubscriptionState, error) {
	if !ValidSubscriptionStatus(ev.Status) {
		return current, &InvalidTransitionError{Entity: "subscription", From: string(current.Status), To: string(ev.Status)}
	}
	return SubscriptionState{
		Plan:               ev.Plan,
		Status:             ev.Status,
		TrialEndsAt:        ev.TrialEndsAt,
		CurrentPeriodStart: ev.CurrentPeriodStart,
		CurrentPeriodEnd:   ev.CurrentPeriodEnd,
	}, nil
}
