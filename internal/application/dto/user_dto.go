package dto

import "time"

// RegisterClinicRequest body para POST /api/auth/register: crea la clínica y
// su usuario administrador en un solo paso.
type RegisterClinicRequest struct {
	ClinicName string `json:"clinic_name"`
	TaxID      string `json:"tax_id,omitempty"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	UserName   string `json:"user_name,omitempty"`
}

// RegisterUserRequest body para POST /api/users (staff adicional, solo admin).
type RegisterUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"` // admin | doctor | recepcion
}

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse usuario en respuestas (sin hash).
type UserResponse struct {
	ID        string    `json:"id"`
	ClinicID  string    `json:"clinic_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginResponse token JWT + usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
