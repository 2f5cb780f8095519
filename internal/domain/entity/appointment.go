package entity

import "time"

// Estados de una cita.
const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
	AppointmentNoShow    = "no_show"
)

// Appointment representa una cita agendada. PatientName va desnormalizado para
// los listados, igual que en las facturas.
type Appointment struct {
	ID            string
	ClinicID      string
	PatientID     string
	PatientName   string
	Date          time.Time
	Duration      int // minutos
	TreatmentType string
	Notes         string
	Status        string // ver constantes Appointment*
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
