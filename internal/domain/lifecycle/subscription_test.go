package lifecycle_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/clinica-pro/internal/domain/lifecycle"
)

var t0 = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

func TestStartTrial(t *testing.T) {
	s, err := lifecycle.StartTrial(lifecycle.SubscriptionState{Status: lifecycle.SubNone}, t0)
	require.NoError(t, err)

	assert.Equal(t, lifecycle.SubTrialing, s.Status)
	assert.Equal(t, lifecycle.PlanFreeTrial, s.Plan)
	assert.Equal(t, t0, s.CurrentPeriodStart)
	assert.Equal(t, t0.Add(7*24*time.Hour), s.CurrentPeriodEnd)
	assert.Equal(t, s.CurrentPeriodEnd, s.TrialEndsAt)
}

func TestStartTrial_SoloDesdeNone(t *testing.T) {
	for _, from := range []lifecycle.SubscriptionStatus{
		lifecycle.SubTrialing, lifecycle.SubActive, lifecycle.SubPastDue,
		lifecycle.SubCancelled, lifecycle.SubExpired,
	} {
		_, err := lifecycle.StartTrial(lifecycle.SubscriptionState{Status: from}, t0)
		require.Error(t, err, "startTrial desde %s debe fallar", from)
	}
}

// En trialing a T0+6d23h la suscripción ya está próxima a vencer.
func TestIsNearExpiry_TrialCasiVencido(t *testing.T) {
	s, err := lifecycle.StartTrial(lifecycle.SubscriptionState{Status: lifecycle.SubNone}, t0)
	require.NoError(t, err)

	almost := t0.Add(6*24*time.Hour + 23*time.Hour)
	assert.True(t, lifecycle.IsNearExpiry(s.CurrentPeriodEnd, almost))
}

func TestIsNearExpiry_Umbral(t *testing.T) {
	end := t0.AddDate(0, 1, 0)
	assert.False(t, lifecycle.IsNearExpiry(end, end.Add(-8*24*time.Hour)), "faltan 8 días: aún no")
	assert.True(t, lifecycle.IsNearExpiry(end, end.Add(-7*24*time.Hour)), "faltan exactamente 7 días: sí")
	assert.True(t, lifecycle.IsNearExpiry(end, end.Add(time.Hour)), "periodo ya vencido: sí")
	assert.False(t, lifecycle.IsNearExpiry(time.Time{}, t0), "sin periodo: no")
}

func TestConfirmPayment_Mensual(t *testing.T) {
	ev := lifecycle.PaymentConfirmation{
		PlanID:    lifecycle.PlanMonthly,
		Amount:    decimal.NewFromInt(1499),
		Currency:  "COP",
		PaymentID: "pay_123",
		Timestamp: t0,
	}
	for _, from := range []lifecycle.SubscriptionStatus{
		lifecycle.SubNone, lifecycle.SubTrialing, lifecycle.SubPastDue,
		lifecycle.SubCancelled, lifecycle.SubExpired,
	} {
		s, err := lifecycle.ConfirmPayment(lifecycle.SubscriptionState{Status: from}, ev)
		require.NoError(t, err, "pago confirmado desde %s debe activar", from)
		assert.Equal(t, lifecycle.SubActive, s.Status)
		assert.Equal(t, lifecycle.PlanMonthly, s.Plan)
		assert.Equal(t, t0, s.CurrentPeriodStart)
		assert.Equal(t, t0.AddDate(0, 1, 0), s.CurrentPeriodEnd)
	}
}

func TestConfirmPayment_AnualYRenovacionAnticipada(t *testing.T) {
	ev := lifecycle.PaymentConfirmation{
		PlanID:    lifecycle.PlanAnnual,
		Amount:    decimal.NewFromInt(14388),
		Currency:  "COP",
		PaymentID: "pay_456",
		Timestamp: t0,
	}
	// Renovación anticipada estando active: el periodo reinicia en el timestamp del pago.
	s, err := lifecycle.ConfirmPayment(lifecycle.SubscriptionState{
		Status:             lifecycle.SubActive,
		Plan:               lifecycle.PlanMonthly,
		CurrentPeriodStart: t0.AddDate(0, -1, 0),
		CurrentPeriodEnd:   t0.AddDate(0, 0, 3),
	}, ev)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.SubActive, s.Status)
	assert.Equal(t, lifecycle.PlanAnnual, s.Plan)
	assert.Equal(t, t0.AddDate(1, 0, 0), s.CurrentPeriodEnd)
}

func TestConfirmPayment_PlanDesconocido(t *testing.T) {
	_, err := lifecycle.ConfirmPayment(lifecycle.SubscriptionState{Status: lifecycle.SubTrialing},
		lifecycle.PaymentConfirmation{PlanID: "GOLD", Timestamp: t0})
	assert.Error(t, err)
}

func TestPaymentFailed(t *testing.T) {
	s, err := lifecycle.PaymentFailed(lifecycle.SubscriptionState{Status: lifecycle.SubActive})
	require.NoError(t, err)
	assert.Equal(t, lifecycle.SubPastDue, s.Status)

	_, err = lifecycle.PaymentFailed(lifecycle.SubscriptionState{Status: lifecycle.SubTrialing})
	assert.Error(t, err, "payment failed solo aplica a active")
}

func TestCancel(t *testing.T) {
	s, err := lifecycle.Cancel(lifecycle.SubscriptionState{Status: lifecycle.SubActive})
	require.NoError(t, err)
	assert.Equal(t, lifecycle.SubCancelled, s.Status)

	for _, from := range []lifecycle.SubscriptionStatus{
		lifecycle.SubNone, lifecycle.SubTrialing, lifecycle.SubPastDue,
		lifecycle.SubCancelled, lifecycle.SubExpired,
	} {
		_, err := lifecycle.Cancel(lifecycle.SubscriptionState{Status: from})
		require.Error(t, err, "cancel desde %s debe fallar", from)
	}
}

func TestExpireIfLapsed(t *testing.T) {
	lapsedEnd := t0.AddDate(0, 0, -1)

	for _, from := range []lifecycle.SubscriptionStatus{lifecycle.SubTrialing, lifecycle.SubActive} {
		s, changed := lifecycle.ExpireIfLapsed(lifecycle.SubscriptionState{
			Status: from, CurrentPeriodEnd: lapsedEnd,
		}, t0)
		assert.True(t, changed, "%s con periodo vencido debe expirar", from)
		assert.Equal(t, lifecycle.SubExpired, s.Status)
	}

	// Periodo vigente: sin cambio.
	s, changed := lifecycle.ExpireIfLapsed(lifecycle.SubscriptionState{
		Status: lifecycle.SubActive, CurrentPeriodEnd: t0.AddDate(0, 0, 3),
	}, t0)
	assert.False(t, changed)
	assert.Equal(t, lifecycle.SubActive, s.Status)

	// Estados no expirables: sin cambio.
	for _, from := range []lifecycle.SubscriptionStatus{
		lifecycle.SubNone, lifecycle.SubPastDue, lifecycle.SubCancelled, lifecycle.SubExpired,
	} {
		_, changed := lifecycle.ExpireIfLapsed(lifecycle.SubscriptionState{
			Status: from, CurrentPeriodEnd: lapsedEnd,
		}, t0)
		assert.False(t, changed, "%s no debe expirar por barrido", from)
	}
}

func TestApplyRemoteChange(t *testing.T) {
	current := lifecycle.SubscriptionState{Status: lifecycle.SubTrialing, Plan: lifecycle.PlanFreeTrial}

	next, err := lifecycle.ApplyRemoteChange(current, lifecycle.RemoteChange{
		Plan:               lifecycle.PlanMonthly,
		Status:             lifecycle.SubActive,
		CurrentPeriodStart: t0,
		CurrentPeriodEnd:   t0.AddDate(0, 1, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, lifecycle.SubActive, next.Status)
	assert.Equal(t, lifecycle.PlanMonthly, next.Plan)

	// Estado remoto desconocido: se rechaza y el estado local no cambia.
	got, err := lifecycle.ApplyRemoteChange(current, lifecycle.RemoteChange{Status: "frozen"})
	require.Error(t, err)
	assert.Equal(t, current, got)
}
