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

// PrescriptionUseCase fórmulas médicas de la clínica.
type PrescriptionUseCase struct {
	repo        repository.PrescriptionRepository
	patientRepo repository.PatientRepository
}

// NewPrescriptionUseCase construye el caso de uso.
func NewPrescriptionUseCase(repo repository.PrescriptionRepository, patientRepo repository.PatientRepository) *PrescriptionUseCase {
	return &PrescriptionUseCase{repo: repo, patientRepo: patientRepo}
}

// Create emite una prescripción. Exige al menos un medicamento con nombre.
func (uc *PrescriptionUseCase) Create(ctx context.Context, clinicID string, in dto.PrescriptionFormData) (*dto.PrescriptionResponse, error) {
	if in.PatientID == "" || len(in.Medicines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, m := range in.Medicines {
		if m.Name == "" {
			return nil, domain.ErrInvalidInput
		}
	}
	patient, err := uc.patientRepo.GetByID(in.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, domain.ErrNotFound
	}
	if patient.ClinicID != clinicID {
		return nil, domain.ErrForbidden
	}
	now := time.Now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	p := &entity.Prescription{
		ID:          uuid.New().String(),
		ClinicID:    clinicID,
		PatientID:   patient.ID,
		PatientName: patient.Name,
		Date:        date,
		Medicines:   in.Medicines,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(p); err != nil {
		return nil, err
	}
	return toPrescriptionResponse(p), nil
}

// Update modifica una prescripción existente.
func (uc *PrescriptionUseCase) Update(ctx context.Context, clinicID, id string, in dto.PrescriptionFormData) (*dto.PrescriptionResponse, error) {
	p, err := uc.owned(clinicID, id)
	if err != nil {
		return nil, err
	}
	if len(in.Medicines) > 0 {
		for _, m := range in.Medicines {
			if m.Name == "" {
				return nil, domain.ErrInvalidInput
			}
		}
		p.Medicines = in.Medicines
	}
	if !in.Date.IsZero() {
		p.Date = in.Date
	}
	p.Notes = in.Notes
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(p); err != nil {
		return nil, err
	}
	return toPrescriptionResponse(p), nil
}

// Delete elimina una prescripción.
func (uc *PrescriptionUseCase) Delete(ctx context.Context, clinicID, id string) error {
	if _, err := uc.owned(clinicID, id); err != nil {
		return err
	}
	return uc.repo.Delete(id)
}

// GetByID obtiene una prescripción de la clínica.
func (uc *PrescriptionUseCase) GetByID(ctx context.Context, clinicID, id string) (*dto.PrescriptionResponse, error) {
	p, err := uc.owned(clinicID, id)
	if err != nil {
		return nil, err
	}
	return toPrescriptionResponse(p), nil
}

// List lista prescripciones de la clínica.
func (uc *PrescriptionUseCase) List(ctx context.Context, clinicID string, page dto.PageRequest) ([]dto.PrescriptionResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByClinic(clinicID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PrescriptionResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toPrescriptionResponse(p))
	}
	return out, nil
}

// ListByPatient prescripciones históricas de un paciente.
func (uc *PrescriptionUseCase) ListByPatient(ctx context.Context, clinicID, patientID string) ([]dto.PrescriptionResponse, error) {
	list, err := uc.repo.ListByPatient(clinicID, patientID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PrescriptionResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toPrescriptionResponse(p))
	}
	return out, nil
}

func (uc *PrescriptionUseCase) owned(clinicID, id string) (*entity.Prescription, error) {
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

func toPrescriptionResponse(p *entity.Prescription) *dto.PrescriptionResponse {
	return &dto.PrescriptionResponse{
		ID:          p.ID,
		ClinicID:    p.ClinicID,
		PatientID:   p.PatientID,
		PatientName: p.PatientName,
		Date:        p.Date,
		Medicines:   p.Medicines,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
