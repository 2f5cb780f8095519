package entity

import "time"

// ClinicSettings preferencias de la clínica: perfil, moneda de despliegue y
// valores por defecto de facturación. La moneda es solo símbolo de display,
// no hay conversión de divisas.
type ClinicSettings struct {
	ClinicID       string
	DisplayName    string
	Address        string
	Phone          string
	Email          string
	Currency       string // código ISO para display (COP, USD, ...)
	InvoicePrefix  string // prefijo del consecutivo (INV por defecto)
	InvoiceTerms   string // términos y condiciones por defecto
	InvoiceDueDays int    // días de plazo por defecto para el vencimiento
	UpdatedAt      time.Time
}
