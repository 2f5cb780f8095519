package lifecycle_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/clinica-pro/internal/domain/lifecycle"
)

func TestTransitionInvoice_Tabla(t *testing.T) {
	cases := []struct {
		from, to lifecycle.InvoiceStatus
		ok       bool
	}{
		{lifecycle.InvoiceDraft, lifecycle.InvoicePending, true},
		{lifecycle.InvoiceDraft, lifecycle.InvoiceCancelled, true},
		{lifecycle.InvoicePending, lifecycle.InvoicePaid, true},
		{lifecycle.InvoicePending, lifecycle.InvoiceOverdue, true},
		{lifecycle.InvoicePending, lifecycle.InvoiceCancelled, true},
		{lifecycle.InvoiceOverdue, lifecycle.InvoicePaid, true},
		// Inválidas
		{lifecycle.InvoiceDraft, lifecycle.InvoicePaid, false},
		{lifecycle.InvoiceDraft, lifecycle.InvoiceOverdue, false},
		{lifecycle.InvoiceOverdue, lifecycle.InvoicePending, false},
		{lifecycle.InvoiceOverdue, lifecycle.InvoiceCancelled, false},
		{lifecycle.InvoiceCancelled, lifecycle.InvoicePending, false},
		{lifecycle.InvoicePaid, lifecycle.InvoicePending, false},
	}
	for _, tc := range cases {
		got, err := lifecycle.TransitionInvoice(tc.from, tc.to)
		if tc.ok {
			require.NoError(t, err, "%s → %s debe permitirse", tc.from, tc.to)
			assert.Equal(t, tc.to, got)
		} else {
			require.Error(t, err, "%s → %s debe rechazarse", tc.from, tc.to)
			assert.Equal(t, tc.from, got, "sin mutación en fallo")
		}
	}
}

// paid es terminal: toda transición de salida falla con InvalidTransitionError.
func TestTransitionInvoice_PaidEsTerminal(t *testing.T) {
	targets := []lifecycle.InvoiceStatus{
		lifecycle.InvoiceDraft,
		lifecycle.InvoicePending,
		lifecycle.InvoiceOverdue,
		lifecycle.InvoiceCancelled,
		lifecycle.InvoicePaid,
	}
	for _, to := range targets {
		_, err := lifecycle.TransitionInvoice(lifecycle.InvoicePaid, to)
		require.Error(t, err, "paid → %s debe fallar", to)

		var terr *lifecycle.InvalidTransitionError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, "paid", terr.From)
		assert.Equal(t, string(to), terr.To)
	}
}

func TestRecordPayment_PendingAPaid(t *testing.T) {
	paidAt := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	res, err := lifecycle.RecordPayment(lifecycle.InvoicePending, lifecycle.PaymentEvent{
		Amount: decimal.NewFromInt(2124),
		Method: lifecycle.PayCard,
		PaidAt: paidAt,
	})
	require.NoError(t, err)
	assert.Equal(t, lifecycle.InvoicePaid, res.Status)
	assert.True(t, decimal.NewFromInt(2124).Equal(res.PaidAmount))
	assert.Equal(t, paidAt, res.PaidDate)
	assert.Equal(t, lifecycle.PayCard, res.Method)
}

// Pago tardío: overdue → paid sigue aceptándose.
func TestRecordPayment_OverdueAPaid(t *testing.T) {
	res, err := lifecycle.RecordPayment(lifecycle.InvoiceOverdue, lifecycle.PaymentEvent{
		Amount: decimal.NewFromInt(100),
		Method: lifecycle.PayCash,
		PaidAt: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, lifecycle.InvoicePaid, res.Status)
}

// Un evento incompleto es un dato malo, no una transición prohibida: el error
// identifica el campo ofensor.
func TestRecordPayment_EventoIncompleto(t *testing.T) {
	// Sin monto
	_, err := lifecycle.RecordPayment(lifecycle.InvoicePending, lifecycle.PaymentEvent{
		Method: lifecycle.PayCash,
		PaidAt: time.Now(),
	})
	var vErr *lifecycle.ValidationError
	require.ErrorAs(t, err, &vErr, "pago sin monto debe rechazarse")
	assert.Equal(t, "amount", vErr.Field)

	// Sin método
	_, err = lifecycle.RecordPayment(lifecycle.InvoicePending, lifecycle.PaymentEvent{
		Amount: decimal.NewFromInt(10),
		PaidAt: time.Now(),
	})
	require.ErrorAs(t, err, &vErr, "pago sin método debe rechazarse")
	assert.Equal(t, "method", vErr.Field)
}

func TestRecordPayment_DesdeDraftFalla(t *testing.T) {
	_, err := lifecycle.RecordPayment(lifecycle.InvoiceDraft, lifecycle.PaymentEvent{
		Amount: decimal.NewFromInt(10),
		Method: lifecycle.PayCash,
		PaidAt: time.Now(),
	})
	var terr *lifecycle.InvalidTransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "invoice", terr.Entity)
}

// Factura pending vencida ayer: elegible para overdue, y el pago directo
// pending → paid sigue funcionando con independencia de esa elegibilidad.
func TestOverdueEligible_PendingVencida(t *testing.T) {
	now := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)

	assert.True(t, lifecycle.OverdueEligible(lifecycle.InvoicePending, yesterday, now))

	res, err := lifecycle.RecordPayment(lifecycle.InvoicePending, lifecycle.PaymentEvent{
		Amount: decimal.NewFromInt(500),
		Method: lifecycle.PayTransfer,
		PaidAt: now,
	})
	require.NoError(t, err, "pending → paid no depende de la elegibilidad overdue")
	assert.Equal(t, lifecycle.InvoicePaid, res.Status)
}

func TestOverdueEligible_Casos(t *testing.T) {
	now := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
	assert.False(t, lifecycle.OverdueEligible(lifecycle.InvoicePending, now.AddDate(0, 0, 1), now),
		"vencimiento futuro no es elegible")
	assert.False(t, lifecycle.OverdueEligible(lifecycle.InvoiceDraft, now.AddDate(0, 0, -1), now),
		"draft nunca es elegible")
	assert.False(t, lifecycle.OverdueEligible(lifecycle.InvoicePending, time.Time{}, now),
		"sin fecha de vencimiento no es elegible")
}
