package usecase

import (
	"context"
	"time"

	"github.com/tu-usuario/clinica-pro/internal/application/dto"
	"github.com/tu-usuario/clinica-pro/internal/domain/entity"
	"github.com/tu-usuario/clinica-pro/internal/domain/repository"
)

// SettingsDefaults valores iniciales cuando la clínica aún no guardó nada.
type SettingsDefaults struct {
	Currency      string
	InvoicePrefix string
	DueDays       int
}

// SettingsUseCase configuración de la clínica (perfil, moneda, facturación).
type SettingsUseCase struct {
	repo     repository.SettingsRepository
	defaults SettingsDefaults
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(repo repository.SettingsRepository, defaults SettingsDefaults) *SettingsUseCase {
	return &SettingsUseCase{repo: repo, defaults: defaults}
}

// Get devuelve la configuración; si no existe aún, los valores por defecto.
func (uc *SettingsUseCase) Get(ctx context.Context, clinicID string) (*dto.SettingsResponse, error) {
	s, err := uc.repo.Get(clinicID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = uc.fresh(clinicID)
	}
	return toSettingsResponse(s), nil
}

// Update aplica cambios parciales y persiste el documento completo.
func (uc *SettingsUseCase) Update(ctx context.Context, clinicID string, in dto.SettingsFormData) (*dto.SettingsResponse, error) {
	s, err := uc.repo.Get(clinicID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = uc.fresh(clinicID)
	}
	if in.DisplayName != "" {
		s.DisplayName = in.DisplayName
	}
	if in.Address != "" {
		s.Address = in.Address
	}
	if in.Phone != "" {
		s.Phone = in.Phone
	}
	if in.Email != "" {
		s.Email = in.Email
	}
	if in.Currency != "" {
		s.Currency = in.Currency
	}
	if in.InvoicePrefix != "" {
		s.InvoicePrefix = in.InvoicePrefix
	}
	if in.InvoiceTerms != "" {
		s.InvoiceTerms = in.InvoiceTerms
	}
	if in.InvoiceDueDays > 0 {
		s.InvoiceDueDays = in.InvoiceDueDays
	}
	s.UpdatedAt = time.Now()
	if err := uc.repo.Upsert(s); err != nil {
		return nil, err
	}
	return toSettingsResponse(s), nil
}

func (uc *SettingsUseCase) fresh(clinicID string) *entity.ClinicSettings {
	return &entity.ClinicSettings{
		ClinicID:       clinicID,
		Currency:       uc.defaults.Currency,
		InvoicePrefix:  uc.defaults.InvoicePrefix,
		InvoiceDueDays: uc.defaults.DueDays,
	}
}

func toSettingsResponse(s *entity.ClinicSettings) *dto.SettingsResponse {
	return &dto.SettingsResponse{
		ClinicID:       s.ClinicID,
		DisplayName:    s.DisplayName,
		Address:        s.Address,
		Phone:          s.Phone,
		Email:          s.Email,
		Currency:       s.Currency,
		InvoicePrefix:  s.InvoicePrefix,
		InvoiceTerms:   s.InvoiceTerms,
		InvoiceDueDays: s.InvoiceDueDays,
		UpdatedAt:      s.UpdatedAt,
	}
}
