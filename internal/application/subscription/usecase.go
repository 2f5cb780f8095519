// Package subscription orquesta el ciclo de vida de la suscripción de una
// clínica sobre la máquina de estados del dominio. El cobro real lo hace un
// checkout externo; aquí solo llegan eventos ya confirmados.
package subscription

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/clinica-pro/internal/application/dto"
	"github.com/tu-usuario/clinica-pro/internal/domain"
	"github.com/tu-usuario/clinica-pro/internal/domain/entity"
	"github.com/tu-usuario/clinica-pro/internal/domain/lifecycle"
	"github.com/tu-usuario/clinica-pro/internal/domain/repository"
)

// Plans precios configurados de los planes de pago.
type Plans struct {
	Currency     string
	MonthlyPrice int64
	AnnualPrice  int64
}

// UseCase casos de uso de suscripción.
type UseCase struct {
	subRepo    repository.SubscriptionRepository
	clinicRepo repository.ClinicRepository
	plans      Plans
	now        func() time.Time
}

// NewUseCase construye el caso de uso. nowFn permite fijar el reloj en tests;
// nil usa time.Now.
func NewUseCase(subRepo repository.SubscriptionRepository, clinicRepo repository.ClinicRepository, plans Plans, nowFn func() time.Time) *UseCase {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &UseCase{subRepo: subRepo, clinicRepo: clinicRepo, plans: plans, now: nowFn}
}

// current carga la suscripción de la clínica; si no existe aún, estado none.
func (uc *UseCase) current(clinicID string) (*entity.Subscription, error) {
	clinic, err := uc.clinicRepo.GetByID(clinicID)
	if err != nil {
		return nil, err
	}
	if clinic == nil {
		return nil, domain.ErrNotFound
	}
	sub, err := uc.subRepo.Get(clinicID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		sub = &entity.Subscription{ClinicID: clinicID, Status: lifecycle.SubNone}
	}
	return sub, nil
}

// StartTrial inicia el periodo de prueba de 7 días: none → trialing.
func (uc *UseCase) StartTrial(ctx context.Context, clinicID string) (*dto.SubscriptionStatusResponse, error) {
	sub, err := uc.current(clinicID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	next, err := lifecycle.StartTrial(sub.State(), now)
	if err != nil {
		return nil, err
	}
	sub.ApplyState(next, now)
	if err := uc.subRepo.Upsert(sub); err != nil {
		return nil, err
	}
	return uc.toResponse(sub), nil
}

// ConfirmPayment aplica un pago confirmado del checkout: pasa a active con
// periodo nuevo según el plan. Estando active equivale a renovación anticipada.
func (uc *UseCase) ConfirmPayment(ctx context.Context, clinicID string, in dto.PaymentConfirmedRequest) (*dto.SubscriptionStatusResponse, error) {
	sub, err := uc.current(clinicID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	ts := in.Timestamp
	if ts.IsZero() {
		ts = now
	}
	next, err := lifecycle.ConfirmPayment(sub.State(), lifecycle.PaymentConfirmation{
		PlanID:    in.PlanID,
		Amount:    in.Amount,
		Currency:  in.Currency,
		PaymentID: in.PaymentID,
		Timestamp: ts,
	})
	if err != nil {
		return nil, err
	}
	sub.ApplyState(next, now)
	sub.ProviderSubscriptionID = in.PaymentID
	if err := uc.subRepo.Upsert(sub); err != nil {
		return nil, err
	}
	return uc.toResponse(sub), nil
}

// Cancel cancela explícitamente: active → cancelled.
func (uc *UseCase) Cancel(ctx context.Context, clinicID string) (*dto.SubscriptionStatusResponse, error) {
	return uc.apply(clinicID, lifecycle.Cancel)
}

// PaymentFailed marca un cobro fallido: active → past_due.
func (uc *UseCase) PaymentFailed(ctx context.Context, clinicID string) (*dto.SubscriptionStatusResponse, error) {
	return uc.apply(clinicID, lifecycle.PaymentFailed)
}

func (uc *UseCase) apply(clinicID string, fn func(lifecycle.SubscriptionState) (lifecycle.SubscriptionState, error)) (*dto.SubscriptionStatusResponse, error) {
	sub, err := uc.current(clinicID)
	if err != nil {
		return nil, err
	}
	next, err := fn(sub.State())
	if err != nil {
		return nil, err
	}
	sub.ApplyState(next, uc.now())
	if err := uc.subRepo.Upsert(sub); err != nil {
		return nil, err
	}
	return uc.toResponse(sub), nil
}

// Status devuelve el estado con el flag near_expiry derivado. Si el periodo ya
// venció, expira en el momento de la consulta sin esperar al barrido.
func (uc *UseCase) Status(ctx context.Context, clinicID string) (*dto.SubscriptionStatusResponse, error) {
	sub, err := uc.current(clinicID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if next, changed := lifecycle.ExpireIfLapsed(sub.State(), now); changed {
		sub.ApplyState(next, now)
		if err := uc.subRepo.Upsert(sub); err != nil {
			return nil, err
		}
	}
	return uc.toResponse(sub), nil
}

// ExpireLapsed barrido: expira las suscripciones trialing/active cuyo periodo
// terminó. Devuelve cuántas cambiaron. Lo invoca el job programado.
func (uc *UseCase) ExpireLapsed(ctx context.Context, now time.Time) (int, error) {
	lapsed, err := uc.subRepo.ListLapsed(now)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, sub := range lapsed {
		next, changed := lifecycle.ExpireIfLapsed(sub.State(), now)
		if !changed {
			continue
		}
		sub.ApplyState(next, now)
		if err := uc.subRepo.Upsert(sub); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// ApplyRemoteChange aplica un cambio ya materializado en el proveedor de pagos
// (webhook de reconciliación o polling) directamente sobre el estado local.
func (uc *UseCase) ApplyRemoteChange(ctx context.Context, clinicID string, ev lifecycle.RemoteChange) (*dto.SubscriptionStatusResponse, error) {
	sub, err := uc.current(clinicID)
	if err != nil {
		return nil, err
	}
	next, err := lifecycle.ApplyRemoteChange(sub.State(), ev)
	if err != nil {
		return nil, err
	}
	sub.ApplyState(next, uc.now())
	if err := uc.subRepo.Upsert(sub); err != nil {
		return nil, err
	}
	return uc.toResponse(sub), nil
}

// ListPlans planes disponibles para la pantalla de suscripción.
func (uc *UseCase) ListPlans() []dto.PlanResponse {
	return []dto.PlanResponse{
		{
			ID:       lifecycle.PlanFreeTrial,
			Name:     "Prueba gratuita",
			Price:    decimal.Zero,
			Currency: uc.plans.Currency,
			Interval: "7 days",
			Features: []string{"Acceso completo", "Pacientes y citas", "Facturación", "Inventario"},
		},
		{
			ID:       lifecycle.PlanMonthly,
			Name:     "Profesional mensual",
			Price:    decimal.NewFromInt(uc.plans.MonthlyPrice),
			Currency: uc.plans.Currency,
			Interval: "month",
			Features: []string{"Todo lo del trial", "Soporte prioritario", "Exportación PDF"},
		},
		{
			ID:       lifecycle.PlanAnnual,
			Name:     "Profesional anual",
			Price:    decimal.NewFromInt(uc.plans.AnnualPrice),
			Currency: uc.plans.Currency,
			Interval: "year",
			Features: []string{"Todo lo del mensual", "Dos meses gratis"},
		},
	}
}

func (uc *UseCase) toResponse(sub *entity.Subscription) *dto.SubscriptionStatusResponse {
	resp := &dto.SubscriptionStatusResponse{
		ClinicID:           sub.ClinicID,
		Plan:               sub.Plan,
		Status:             string(sub.Status),
		TrialEndsAt:        sub.TrialEndsAt,
		CurrentPeriodStart: sub.CurrentPeriodStart,
		CurrentPeriodEnd:   sub.CurrentPeriodEnd,
	}
	if sub.CurrentPeriodEnd != nil {
		resp.NearExpiry = lifecycle.IsNearExpiry(*sub.CurrentPeriodEnd, uc.now())
	}
	return resp
}
