package repository

import (
	"time"

	"github.com/tu-usuario/clinica-pro/internal/domain/entity"
)

// SubscriptionRepository define el puerto de persistencia para la suscripción
// de una clínica (una por clínica).
type SubscriptionRepository interface {
	Get(clinicID string) (*entity.Subscription, error)
	// Upsert escribe el snapshot completo de la suscripción.
	Upsert(sub *entity.Subscription) error
	// ListLapsed suscripciones trialing/active con periodo vencido antes de now
	// (barrido de expiración).
	ListLapsed(now time.Time) ([]*entity.Subscription, error)
}
