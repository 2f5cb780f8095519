package subscription_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/clinica-pro/internal/application/dto"
	"github.com/tu-usuario/clinica-pro/internal/application/subscription"
	"github.com/tu-usuario/clinica-pro/internal/domain/entity"
	"github.com/tu-usuario/clinica-pro/internal/domain/lifecycle"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeSubRepo struct {
	subs map[string]*entity.Subscription
}

func (r *fakeSubRepo) Get(clinicID string) (*entity.Subscription, error) {
	sub, ok := r.subs[clinicID]
	if !ok {
		return nil, nil
	}
	cp := *sub
	return &cp, nil
}

func (r *fakeSubRepo) Upsert(sub *entity.Subscription) error {
	cp := *sub
	r.subs[sub.ClinicID] = &cp
	return nil
}

func (r *fakeSubRepo) ListLapsed(now time.Time) ([]*entity.Subscription, error) {
	var out []*entity.Subscription
	for _, sub := range r.subs {
		if sub.Status != lifecycle.SubTrialing && sub.Status != lifecycle.SubActive {
			continue
		}
		if sub.CurrentPeriodEnd != nil && sub.CurrentPeriodEnd.Before(now) {
			out = append(out, sub)
		}
	}
	return out, nil
}

type fakeClinicRepo struct {
	clinics map[string]*entity.Clinic
}

func (r *fakeClinicRepo) Create(c *entity.Clinic) error { r.clinics[c.ID] = c; return nil }
func (r *fakeClinicRepo) Update(c *entity.Clinic) error { r.clinics[c.ID] = c; return nil }
func (r *fakeClinicRepo) GetByID(id string) (*entity.Clinic, error) {
	return r.clinics[id], nil
}
func (r *fakeClinicRepo) List(limit, offset int) ([]*entity.Clinic, error) { return nil, nil }

// ──────────────────────────────────────────────────────────────────────────────
// Setup
// ──────────────────────────────────────────────────────────────────────────────

const subClinicID = "clinic-1"

// newSubUseCase fija el reloj en clock para que los periodos sean deterministas.
func newSubUseCase(clock *time.Time) (*subscription.UseCase, *fakeSubRepo) {
	subRepo := &fakeSubRepo{subs: map[string]*entity.Subscription{}}
	clinicRepo := &fakeClinicRepo{clinics: map[string]*entity.Clinic{
		subClinicID: {ID: subClinicID, Name: "Clínica Demo"},
	}}
	uc := subscription.NewUseCase(subRepo, clinicRepo, subscription.Plans{
		Currency:     "COP",
		MonthlyPrice: 149900,
		AnnualPrice:  1438800,
	}, func() time.Time { return *clock })
	return uc, subRepo
}

func payment(plan string) dto.PaymentConfirmedRequest {
	return dto.PaymentConfirmedRequest{
		PlanID:    plan,
		Amount:    decimal.NewFromInt(149900),
		Currency:  "COP",
		PaymentID: "pay-123",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Trial
// ──────────────────────────────────────────────────────────────────────────────

func TestStartTrial_SieteDias(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	uc, _ := newSubUseCase(&clock)

	resp, err := uc.StartTrial(context.Background(), subClinicID)
	require.NoError(t, err)

	assert.Equal(t, "trialing", resp.Status)
	require.NotNil(t, resp.TrialEndsAt)
	assert.Equal(t, clock.AddDate(0, 0, 7), *resp.TrialEndsAt)

	// Un segundo trial no está permitido.
	_, err = uc.StartTrial(context.Background(), subClinicID)
	var terr *lifecycle.InvalidTransitionError
	assert.ErrorAs(t, err, &terr)
}

func TestStatus_TrialProximoAVencer(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	uc, _ := newSubUseCase(&clock)

	_, err := uc.StartTrial(context.Background(), subClinicID)
	require.NoError(t, err)

	// Recién iniciado el trial de 7 días ya está dentro de la ventana de aviso.
	resp, err := uc.Status(context.Background(), subClinicID)
	require.NoError(t, err)
	assert.True(t, resp.NearExpiry)
}

// ──────────────────────────────────────────────────────────────────────────────
// Pagos y renovación
// ──────────────────────────────────────────────────────────────────────────────

func TestConfirmPayment_TrialPasaAActive(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	uc, _ := newSubUseCase(&clock)
	ctx := context.Background()

	_, err := uc.StartTrial(ctx, subClinicID)
	require.NoError(t, err)

	resp, err := uc.ConfirmPayment(ctx, subClinicID, payment(lifecycle.PlanMonthly))
	require.NoError(t, err)

	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, lifecycle.PlanMonthly, resp.Plan)
	require.NotNil(t, resp.CurrentPeriodEnd)
	assert.Equal(t, clock.AddDate(0, 1, 0), *resp.CurrentPeriodEnd)
	assert.False(t, resp.NearExpiry, "un mes por delante no es near expiry")
}

func TestConfirmPayment_ActiveRenuevaAnticipado(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	uc, _ := newSubUseCase(&clock)
	ctx := context.Background()

	_, err := uc.ConfirmPayment(ctx, subClinicID, payment(lifecycle.PlanMonthly))
	require.NoError(t, err)

	// Dos semanas después paga de nuevo: el periodo arranca desde el pago.
	clock = clock.AddDate(0, 0, 14)
	resp, err := uc.ConfirmPayment(ctx, subClinicID, payment(lifecycle.PlanAnnual))
	require.NoError(t, err)

	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, lifecycle.PlanAnnual, resp.Plan)
	require.NotNil(t, resp.CurrentPeriodEnd)
	assert.Equal(t, clock.AddDate(1, 0, 0), *resp.CurrentPeriodEnd)
}

func TestPaymentFailed_ActivePasaAPastDue(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	uc, _ := newSubUseCase(&clock)
	ctx := context.Background()

	_, err := uc.ConfirmPayment(ctx, subClinicID, payment(lifecycle.PlanMonthly))
	require.NoError(t, err)

	resp, err := uc.PaymentFailed(ctx, subClinicID)
	require.NoError(t, err)
	assert.Equal(t, "past_due", resp.Status)

	// Un nuevo pago recupera la suscripción.
	resp, err = uc.ConfirmPayment(ctx, subClinicID, payment(lifecycle.PlanMonthly))
	require.NoError(t, err)
	assert.Equal(t, "active", resp.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Expiración
// ──────────────────────────────────────────────────────────────────────────────

func TestStatus_PeriodoVencido_ExpiraAlConsultar(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	uc, _ := newSubUseCase(&clock)
	ctx := context.Background()

	_, err := uc.StartTrial(ctx, subClinicID)
	require.NoError(t, err)

	// 8 días después el trial ya venció: la consulta lo expira sin esperar al barrido.
	clock = clock.AddDate(0, 0, 8)
	resp, err := uc.Status(ctx, subClinicID)
	require.NoError(t, err)
	assert.Equal(t, "expired", resp.Status)
}

func TestExpireLapsed_SoloPeriodosVencidos(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	uc, repo := newSubUseCase(&clock)
	ctx := context.Background()

	_, err := uc.StartTrial(ctx, subClinicID)
	require.NoError(t, err)

	count, err := uc.ExpireLapsed(ctx, clock.AddDate(0, 0, 8))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, lifecycle.SubExpired, repo.subs[subClinicID].Status)

	// Segundo barrido: nada que expirar.
	count, err = uc.ExpireLapsed(ctx, clock.AddDate(0, 0, 9))
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reconciliación remota
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyRemoteChange_CancelacionRemota(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	uc, _ := newSubUseCase(&clock)
	ctx := context.Background()

	_, err := uc.ConfirmPayment(ctx, subClinicID, payment(lifecycle.PlanMonthly))
	require.NoError(t, err)

	resp, err := uc.ApplyRemoteChange(ctx, subClinicID, lifecycle.RemoteChange{
		Status: lifecycle.SubCancelled,
	})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
}
