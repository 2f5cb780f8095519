package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/clinica-pro/internal/domain/entity"
	"github.com/tu-usuario/clinica-pro/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo implementación de SettingsRepository (usable con pool o tx).
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// Get obtiene la configuración de la clínica. nil, nil si nunca se ha guardado.
func (r *SettingsRepo) Get(clinicID string) (*entity.ClinicSettings, error) {
	query := `
		SELECT clinic_id, display_name, address, phone, email, currency,
		       invoice_prefix, invoice_terms, invoice_due_days, updated_at
		FROM clinic_settings WHERE clinic_id = $1`
	var s entity.ClinicSettings
	err := r.q.QueryRow(context.Background(), query, clinicID).Scan(
		&s.ClinicID, &s.DisplayName, &s.Address, &s.Phone, &s.Email, &s.Currency,
		&s.InvoicePrefix, &s.InvoiceTerms, &s.InvoiceDueDays, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get clinic settings: %w", err)
	}
	return &s, nil
}

// Upsert escribe el documento completo de configuración.
func (r *SettingsRepo) Upsert(settings *entity.ClinicSettings) error {
	query := `
		INSERT INTO clinic_settings (clinic_id, display_name, address, phone, email, currency,
			invoice_prefix, invoice_terms, invoice_due_days, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (clinic_id)
		DO UPDATE SET display_name = EXCLUDED.display_name, address = EXCLUDED.address,
		    phone = EXCLUDED.phone, email = EXCLUDED.email, currency = EXCLUDED.currency,
		    invoice_prefix = EXCLUDED.invoice_prefix, invoice_terms = EXCLUDED.invoice_terms,
		    invoice_due_days = EXCLUDED.invoice_due_days, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		settings.ClinicID, settings.DisplayName, settings.Address, settings.Phone, settings.Email,
		settings.Currency, settings.InvoicePrefix, settings.InvoiceTerms, settings.InvoiceDueDays,
		settings.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert clinic settings: %w", err)
	}
	return nil
}
