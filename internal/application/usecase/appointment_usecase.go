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

// AppointmentUseCase agenda de citas de la clínica.
type AppointmentUseCase struct {
	repo        repository.AppointmentRepository
	patientRepo repository.PatientRepository
}

// NewAppointmentUseCase construye el caso de uso.
func NewAppointmentUseCase(repo repository.AppointmentRepository, patientRepo repository.PatientRepository) *AppointmentUseCase {
	return &AppointmentUseCase{repo: repo, patientRepo: patientRepo}
}

func validAppointmentStatus(s string) bool {
	switch s {
	case entity.AppointmentScheduled, entity.AppointmentCompleted,
		entity.AppointmentCancelled, entity.AppointmentNoShow:
		return true
	}
	return false
}

// Create agenda una cita. El nombre del paciente se desnormaliza al crear.
func (uc *AppointmentUseCase) Create(ctx context.Context, clinicID string, in dto.AppointmentFormData) (*dto.AppointmentResponse, error) {
	if in.PatientID == "" || in.Date.IsZero() {
		return nil, domain.ErrInvalidInput
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
	status := in.Status
	if status == "" {
		status = entity.AppointmentScheduled
	}
	if !validAppointmentStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	a := &entity.Appointment{
		ID:            uuid.New().String(),
		ClinicID:      clinicID,
		PatientID:     patient.ID,
		PatientName:   patient.Name,
		Date:          in.Date,
		Duration:      in.Duration,
		TreatmentType: in.TreatmentType,
		Notes:         in.Notes,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(a); err != nil {
		return nil, err
	}
	return toAppointmentResponse(a), nil
}

// Update modifica una cita (reagendar, notas, estado).
func (uc *AppointmentUseCase) Update(ctx context.Context, clinicID, id string, in dto.AppointmentFormData) (*dto.AppointmentResponse, error) {
	a, err := uc.owned(clinicID, id)
	if err != nil {
		return nil, err
	}
	if !in.Date.IsZero() {
		a.Date = in.Date
	}
	if in.Duration > 0 {
		a.Duration = in.Duration
	}
	if in.TreatmentType != "" {
		a.TreatmentType = in.TreatmentType
	}
	a.Notes = in.Notes
	if in.Status != "" {
		if !validAppointmentStatus(in.Status) {
			return nil, domain.ErrInvalidInput
		}
		a.Status = in.Status
	}
	a.UpdatedAt = time.Now()
	if err := uc.repo.Update(a); err != nil {
		return nil, err
	}
	return toAppointmentResponse(a), nil
}

// Delete elimina una cita.
func (uc *AppointmentUseCase) Delete(ctx context.Context, clinicID, id string) error {
	if _, err := uc.owned(clinicID, id); err != nil {
		return err
	}
	return uc.repo.Delete(id)
}

// GetByID obtiene una cita de la clínica.
func (uc *AppointmentUseCase) GetByID(ctx context.Context, clinicID, id string) (*dto.AppointmentResponse, error) {
	a, err := uc.owned(clinicID, id)
	if err != nil {
		return nil, err
	}
	return toAppointmentResponse(a), nil
}

// List lista citas de la clínica, opcionalmente filtradas por rango de fechas.
func (uc *AppointmentUseCase) List(ctx context.Context, clinicID string, in dto.AppointmentListRequest) ([]dto.AppointmentResponse, error) {
	in.DefaultPage()
	list, err := uc.repo.ListByClinic(clinicID, in.From, in.To, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AppointmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, *toAppointmentResponse(a))
	}
	return out, nil
}

// ListByPatient citas históricas de un paciente.
func (uc *AppointmentUseCase) ListByPatient(ctx context.Context, clinicID, patientID string) ([]dto.AppointmentResponse, error) {
	list, err := uc.repo.ListByPatient(clinicID, patientID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AppointmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, *toAppointmentResponse(a))
	}
	return out, nil
}

func (uc *AppointmentUseCase) owned(clinicID, id string) (*entity.Appointment, error) {
	a, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	if a.ClinicID != clinicID {
		return nil, domain.ErrForbidden
	}
	return a, nil
}

func toAppointmentResponse(a *entity.Appointment) *dto.AppointmentResponse {
	return &dto.AppointmentResponse{
		ID:            a.ID,
		ClinicID:      a.ClinicID,
		PatientID:     a.PatientID,
		PatientName:   a.PatientName,
		Date:          a.Date,
		Duration:      a.Duration,
		TreatmentType: a.TreatmentType,
		Notes:         a.Notes,
		Status:        a.Status,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}
