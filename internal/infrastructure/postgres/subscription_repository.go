package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/clinica-pro/internal/domain/entity"
	"github.com/tu-usuario/clinica-pro/internal/domain/lifecycle"
	"github.com/tu-usuario/clinica-pro/internal/domain/repository"
)

var _ repository.SubscriptionRepository = (*SubscriptionRepo)(nil)

// SubscriptionRepo implementación de SubscriptionRepository (usable con pool o tx).
// Una fila por clínica; el upsert escribe el snapshot completo.
type SubscriptionRepo struct {
	q Querier
}

// NewSubscriptionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSubscriptionRepository(q Querier) *SubscriptionRepo {
	return &SubscriptionRepo{q: q}
}

const subscriptionColumns = `clinic_id, plan, status, trial_ends_at, current_period_start, current_period_end, COALESCE(provider_subscription_id, ''), updated_at`

// Get obtiene la suscripción de la clínica. nil, nil si nunca se ha escrito.
func (r *SubscriptionRepo) Get(clinicID string) (*entity.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE clinic_id = $1`
	sub, err := scanSubscription(r.q.QueryRow(context.Background(), query, clinicID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return sub, nil
}

// Upsert escribe el snapshot completo de la suscripción.
func (r *SubscriptionRepo) Upsert(sub *entity.Subscription) error {
	query := `
		INSERT INTO subscriptions (clinic_id, plan, status, trial_ends_at, current_period_start, current_period_end, provider_subscription_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (clinic_id)
		DO UPDATE SET plan = EXCLUDED.plan, status = EXCLUDED.status,
		    trial_ends_at = EXCLUDED.trial_ends_at,
		    current_period_start = EXCLUDED.current_period_start,
		    current_period_end = EXCLUDED.current_period_end,
		    provider_subscription_id = EXCLUDED.provider_subscription_id,
		    updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		sub.ClinicID, sub.Plan, string(sub.Status),
		sub.TrialEndsAt, sub.CurrentPeriodStart, sub.CurrentPeriodEnd,
		nullIfEmpty(sub.ProviderSubscriptionID), sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	return nil
}

// ListLapsed suscripciones trialing/active con periodo vencido antes de now
// (barrido de expiración).
func (r *SubscriptionRepo) ListLapsed(now time.Time) ([]*entity.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions
		WHERE status IN ($1, $2) AND current_period_end IS NOT NULL AND current_period_end < $3`
	rows, err := r.q.Query(context.Background(), query,
		string(lifecycle.SubTrialing), string(lifecycle.SubActive), now)
	if err != nil {
		return nil, fmt.Errorf("list lapsed subscriptions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		list = append(list, sub)
	}
	return list, rows.Err()
}

func scanSubscription(row pgx.Row) (*entity.Subscription, error) {
	var s entity.Subscription
	var status string
	err := row.Scan(
		&s.ClinicID, &s.Plan, &status,
		&s.TrialEndsAt, &s.CurrentPeriodStart, &s.CurrentPeriodEnd,
		&s.ProviderSubscriptionID, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Status = lifecycle.SubscriptionStatus(status)
	return &s, nil
}
