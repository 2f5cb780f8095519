package dto

import "time"

// SettingsFormData body para actualizar la configuración de la clínica.
// Los campos vacíos no sobreescriben los existentes.
type SettingsFormData struct {
	DisplayName    string `json:"display_name,omitempty"`
	Address        string `json:"address,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	Currency       string `json:"currency,omitempty"`
	InvoicePrefix  string `json:"invoice_prefix,omitempty"`
	InvoiceTerms   string `json:"invoice_terms,omitempty"`
	InvoiceDueDays int    `json:"invoice_due_days,omitempty"`
}

// SettingsResponse configuración en respuestas.
type SettingsResponse struct {
	ClinicID       string    `json:"clinic_id"`
	DisplayName    string    `json:"display_name,omitempty"`
	Address        string    `json:"address,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Email          string    `json:"email,omitempty"`
	Currency       string    `json:"currency"`
	InvoicePrefix  string    `json:"invoice_prefix"`
	InvoiceTerms   string    `json:"invoice_terms,omitempty"`
	InvoiceDueDays int       `json:"invoice_due_days"`
	UpdatedAt      time.Time `json:"updated_at"`
}
