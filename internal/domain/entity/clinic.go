package entity

import (
	"time"

	"github.com/tu-usuario/clinica-pro/internal/domain/lifecycle"
)

// Clinic representa una clínica/tenant del sistema. Todos los registros
// (pacientes, citas, facturas, inventario) pertenecen a exactamente una clínica.
type Clinic struct {
	ID        string
	Name      string
	TaxID     string
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Subscription estado de suscripción SaaS de una clínica.
type Subscription struct {
	ClinicID               string
	Plan                   string // FREE_TRIAL | MONTHLY | ANNUAL
	Status                 lifecycle.SubscriptionStatus
	TrialEndsAt            *time.Time
	CurrentPeriodStart     *time.Time
	CurrentPeriodEnd       *time.Time
	ProviderSubscriptionID string // id de la suscripción en el checkout externo
	UpdatedAt              time.Time
}

// State proyecta la entidad al snapshot sobre el que opera la máquina de estados.
func (s *Subscription) State() lifecycle.SubscriptionState {
	st := lifecycle.SubscriptionState{Plan: s.Plan, Status: s.Status}
	if s.TrialEndsAt != nil {
		st.TrialEndsAt = *s.TrialEndsAt
	}
	if s.CurrentPeriodStart != nil {
		st.CurrentPeriodStart = *s.CurrentPeriodStart
	}
	if s.CurrentPeriodEnd != nil {
		st.CurrentPeriodEnd = *s.CurrentPeriodEnd
	}
	return st
}

// ApplyState vuelca el snapshot resultante de una transición sobre la entidad.
func (s *Subscription) ApplyState(st lifecycle.SubscriptionState, now time.Time) {
	s.Plan = st.Plan
	s.Status = st.Status
	s.TrialEndsAt = timePtrOrNil(st.TrialEndsAt)
	s.CurrentPeriodStart = timePtrOrNil(st.CurrentPeriodStart)
	s.CurrentPeriodEnd = timePtrOrNil(st.CurrentPeriodEnd)
	s.UpdatedAt = now
}

func timePtrOrNil(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
