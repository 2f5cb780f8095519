package repository

import (
	"time"

	"github.com/tu-usuario/clinica-pro/internal/domain/entity"
)

// AppointmentRepository define el puerto de persistencia para Appointment.
type AppointmentRepository interface {
	Create(appt *entity.Appointment) error
	Update(appt *entity.Appointment) error
	Delete(id string) error
	GetByID(id string) (*entity.Appointment, error)
	ListByClinic(clinicID string, from, to time.Time, limit, offset int) ([]*entity.Appointment, error)
	ListByPatient(clinicID, patientID string) ([]*entity.Appointment, error)
}
