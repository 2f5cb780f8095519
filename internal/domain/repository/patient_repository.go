package repository

import "github.com/tu-usuario/clinica-pro/internal/domain/entity"

// PatientRepository define el puerto de persistencia para Patient.
type PatientRepository interface {
	Create(patient *entity.Patient) error
	Update(patient *entity.Patient) error
	Delete(id string) error
	GetByID(id string) (*entity.Patient, error)
	ListByClinic(clinicID string, limit, offset int) ([]*entity.Patient, error)
}
