package repository

import "github.com/tu-usuario/clinica-pro/internal/domain/entity"

// PrescriptionRepository define el puerto de persistencia para Prescription.
type PrescriptionRepository interface {
	Create(p *entity.Prescription) error
	Update(p *entity.Prescription) error
	Delete(id string) error
	GetByID(id string) (*entity.Prescription, error)
	ListByClinic(clinicID string, limit, offset int) ([]*entity.Prescription, error)
	ListByPatient(clinicID, patientID string) ([]*entity.Prescription, error)
}
