package entity

import "time"

// Patient representa un paciente de la clínica.
type Patient struct {
	ID             string
	ClinicID       string
	Name           string
	Email          string
	Phone          string
	Age            int
	Gender         string // male, female, other
	Address        string
	MedicalHistory string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
