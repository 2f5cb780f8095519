package entity

import "time"

// Roles de usuario dentro de una clínica.
const (
	RoleAdmin     = "admin"
	RoleDoctor    = "doctor"
	RoleRecepcion = "recepcion"
)

// User representa un usuario del staff de la clínica.
type User struct {
	ID           string
	ClinicID     string
	Email        string
	PasswordHash string
	Name         string
	Role         string // ver constantes Role*
	Status       string // active, disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
