package entity

import "time"

// Medicine una línea de medicamento dentro de una prescripción.
type Medicine struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions,omitempty"`
}

// Prescription representa una fórmula médica emitida a un paciente.
// Medicines se persiste como JSONB.
type Prescription struct {
	ID          string
	ClinicID    string
	PatientID   string
	PatientName string
	Date        time.Time
	Medicines   []Medicine
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
