package dto

import "time"

// AppointmentFormData body para crear/actualizar una cita.
type AppointmentFormData struct {
	PatientID     string    `json:"patient_id"`
	Date          time.Time `json:"date"`
	Duration      int       `json:"duration,omitempty"` // minutos
	TreatmentType string    `json:"treatment_type,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	Status        string    `json:"status,omitempty"` // scheduled | completed | cancelled | no_show
}

// AppointmentResponse cita en respuestas.
type AppointmentResponse struct {
	ID            string    `json:"id"`
	ClinicID      string    `json:"clinic_id"`
	PatientID     string    `json:"patient_id"`
	PatientName   string    `json:"patient_name"`
	Date          time.Time `json:"date"`
	Duration      int       `json:"duration,omitempty"`
	TreatmentType string    `json:"treatment_type,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AppointmentListRequest filtros de listado.
type AppointmentListRequest struct {
	PageRequest
	From time.Time `query:"from"`
	To   time.Time `query:"to"`
}
