package dto

import (
	"time"

	"github.com/tu-usuario/clinica-pro/internal/domain/entity"
)

// PrescriptionFormData body para crear/actualizar una prescripción.
type PrescriptionFormData struct {
	PatientID string            `json:"patient_id"`
	Date      time.Time         `json:"date"`
	Medicines []entity.Medicine `json:"medicines"`
	Notes     string            `json:"notes,omitempty"`
}

// PrescriptionResponse prescripción en respuestas.
type PrescriptionResponse struct {
	ID          string            `json:"id"`
	ClinicID    string            `json:"clinic_id"`
	PatientID   string            `json:"patient_id"`
	PatientName string            `json:"patient_name"`
	Date        time.Time         `json:"date"`
	Medicines   []entity.Medicine `json:"medicines"`
	Notes       string            `json:"notes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}
