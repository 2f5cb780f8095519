package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/clinica-pro/internal/application/dto"
	"github.com/tu-usuario/clinica-pro/internal/domain"
	"github.com/tu-usuario/clinica-pro/internal/domain/entity"
	"github.com/tu-usuario/clinica-pro/internal/domain/repository"
)

// PatientUseCase CRUD de pacientes, siempre acotado a la clínica del token.
type PatientUseCase struct {
	repo repository.PatientRepository
}

// NewPatientUseCase construye el caso de uso.
func NewPatientUseCase(repo repository.PatientRepository) *PatientUseCase {
	return &PatientUseCase{repo: repo}
}

// Create registra un paciente nuevo.
func (uc *PatientUseCase) Create(ctx context.Context, clinicID string, in dto.PatientFormData) (*dto.PatientResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	p := &entity.Patient{
		ID:             uuid.New().String(),
		ClinicID:       clinicID,
		Name:           in.Name,
		Email:          in.Email,
		Phone:          in.Phone,
		Age:            in.Age,
		Gender:         in.Gender,
		Address:        in.Address,
		MedicalHistory: in.MedicalHistory,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(p); err != nil {
		return nil, err
	}
	return toPatientResponse(p), nil
}

// Update actualiza los datos de un paciente de la clínica.
func (uc *PatientUseCase) Update(ctx context.Context, clinicID, id string, in dto.PatientFormData) (*dto.PatientResponse, error) {
	p, err := uc.owned(clinicID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		p.Name = in.Name
	}
	p.Email = in.Email
	p.Phone = in.Phone
	p.Age = in.Age
	p.Gender = in.Gender
	p.Address = in.Address
	p.MedicalHistory = in.MedicalHistory
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(p); err != nil {
		return nil, err
	}
	return toPatientResponse(p), nil
}

// Delete elimina un paciente de la clínica.
func (uc *PatientUseCase) Delete(ctx context.Context, clinicID, id string) error {
	if _, err := uc.owned(clinicID, id); err != nil {
		return err
	}
	return uc.repo.Delete(id)
}

// GetByID obtiene un paciente de la clínica.
func (uc *PatientUseCase) GetByID(ctx context.Context, clinicID, id string) (*dto.PatientResponse, error) {
	p, err := uc.owned(clinicID, id)
	if err != nil {
		return nil, err
	}
	return toPatientResponse(p), nil
}

// List lista pacientes de la clínica con paginación.
func (uc *PatientUseCase) List(ctx context.Context, clinicID string, page dto.PageRequest) ([]dto.PatientResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByClinic(clinicID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PatientResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toPatientResponse(p))
	}
	return out, nil
}

func (uc *PatientUseCase) owned(clinicID, id string) (*entity.Patient, error) {
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.ClinicID != clinicID {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

func toPatientResponse(p *entity.Patient) *dto.PatientResponse {
	return &dto.PatientResponse{
		ID:             p.ID,
		ClinicID:       p.ClinicID,
		Name:           p.Name,
		Email:          p.Email,
		Phone:          p.Phone,
		Age:            p.Age,
		Gender:         p.Gender,
		Address:        p.Address,
		MedicalHistory: p.MedicalHistory,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
