package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/clinica-pro/internal/application/dto"
	"github.com/tu-usuario/clinica-pro/internal/application/usecase"
	"github.com/tu-usuario/clinica-pro/internal/domain"
	"github.com/tu-usuario/clinica-pro/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakePrescriptionRepo struct {
	prescriptions map[string]*entity.Prescription
}

func newFakePrescriptionRepo() *fakePrescriptionRepo {
	return &fakePrescriptionRepo{prescriptions: map[string]*entity.Prescription{}}
}

func (r *fakePrescriptionRepo) Create(p *entity.Prescription) error {
	cp := *p
	r.prescriptions[p.ID] = &cp
	return nil
}

func (r *fakePrescriptionRepo) Update(p *entity.Prescription) error {
	cp := *p
	r.prescriptions[p.ID] = &cp
	return nil
}

func (r *fakePrescriptionRepo) Delete(id string) error {
	delete(r.prescriptions, id)
	return nil
}

func (r *fakePrescriptionRepo) GetByID(id string) (*entity.Prescription, error) {
	p, ok := r.prescriptions[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePrescriptionRepo) ListByClinic(clinicID string, limit, offset int) ([]*entity.Prescription, error) {
	var out []*entity.Prescription
	for _, p := range r.prescriptions {
		if p.ClinicID == clinicID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePrescriptionRepo) ListByPatient(clinicID, patientID string) ([]*entity.Prescription, error) {
	var out []*entity.Prescription
	for _, p := range r.prescriptions {
		if p.ClinicID == clinicID && p.PatientID == patientID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakePatientRepo struct {
	patients map[string]*entity.Patient
}

func (r *fakePatientRepo) Create(p *entity.Patient) error { r.patients[p.ID] = p; return nil }
func (r *fakePatientRepo) Update(p *entity.Patient) error { r.patients[p.ID] = p; return nil }
func (r *fakePatientRepo) Delete(id string) error         { delete(r.patients, id); return nil }
func (r *fakePatientRepo) GetByID(id string) (*entity.Patient, error) {
	return r.patients[id], nil
}
func (r *fakePatientRepo) ListByClinic(clinicID string, limit, offset int) ([]*entity.Patient, error) {
	return nil, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Setup
// ──────────────────────────────────────────────────────────────────────────────

const (
	rxClinicID  = "clinic-1"
	rxPatientID = "patient-1"
)

func newPrescriptionUseCase() (*usecase.PrescriptionUseCase, *fakePrescriptionRepo) {
	repo := newFakePrescriptionRepo()
	patientRepo := &fakePatientRepo{patients: map[string]*entity.Patient{
		rxPatientID: {ID: rxPatientID, ClinicID: rxClinicID, Name: "Ana Gómez"},
		"patient-2": {ID: "patient-2", ClinicID: rxClinicID, Name: "Luis Pérez"},
	}}
	return usecase.NewPrescriptionUseCase(repo, patientRepo), repo
}

func amoxicilina() []entity.Medicine {
	return []entity.Medicine{{
		Name:      "Amoxicilina 500mg",
		Dosage:    "1 cápsula",
		Frequency: "cada 8 horas",
		Duration:  "7 días",
	}}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestPrescriptionCreate_DenormalizaNombreDelPaciente(t *testing.T) {
	uc, _ := newPrescriptionUseCase()

	resp, err := uc.Create(context.Background(), rxClinicID, dto.PrescriptionFormData{
		PatientID: rxPatientID,
		Medicines: amoxicilina(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Gómez", resp.PatientName)
	require.Len(t, resp.Medicines, 1)
}

func TestPrescriptionCreate_SinMedicamentos_Rechazado(t *testing.T) {
	uc, _ := newPrescriptionUseCase()

	_, err := uc.Create(context.Background(), rxClinicID, dto.PrescriptionFormData{
		PatientID: rxPatientID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPrescriptionListByPatient_FiltraPorPaciente(t *testing.T) {
	uc, _ := newPrescriptionUseCase()
	ctx := context.Background()

	_, err := uc.Create(ctx, rxClinicID, dto.PrescriptionFormData{
		PatientID: rxPatientID,
		Medicines: amoxicilina(),
	})
	require.NoError(t, err)
	_, err = uc.Create(ctx, rxClinicID, dto.PrescriptionFormData{
		PatientID: "patient-2",
		Medicines: amoxicilina(),
	})
	require.NoError(t, err)

	list, err := uc.ListByPatient(ctx, rxClinicID, rxPatientID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, rxPatientID, list[0].PatientID)
}

func TestPrescriptionListByPatient_OtraClinicaNoVeNada(t *testing.T) {
	uc, _ := newPrescriptionUseCase()
	ctx := context.Background()

	_, err := uc.Create(ctx, rxClinicID, dto.PrescriptionFormData{
		PatientID: rxPatientID,
		Medicines: amoxicilina(),
	})
	require.NoError(t, err)

	// La consulta siempre va acotada a la clínica del token.
	list, err := uc.ListByPatient(ctx, "clinic-2", rxPatientID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
