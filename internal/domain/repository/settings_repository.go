package repository

import "github.com/tu-usuario/clinica-pro/internal/domain/entity"

// SettingsRepository define el puerto de persistencia para ClinicSettings.
type SettingsRepository interface {
	Get(clinicID string) (*entity.ClinicSettings, error)
	Upsert(settings *entity.ClinicSettings) error
}
