package repository

import "github.com/tu-usuario/clinica-pro/internal/domain/entity"

// ClinicRepository define el puerto de persistencia para Clinic.
type ClinicRepository interface {
	Create(clinic *entity.Clinic) error
	GetByID(id string) (*entity.Clinic, error)
	Update(clinic *entity.Clinic) error
	List(limit, offset int) ([]*entity.Clinic, error)
}
