package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// FieldError error de validación a nivel de campo para el borrador de factura.
// Se devuelve como dato, no como error: un borrador inválido es un caso esperado.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// InvoiceDraft datos mínimos del borrador que la validación necesita inspeccionar.
// Las tasas llegan tal como las envió el cliente, antes del clamp, para poder
// reportar el error de rango en lugar de corregirlo silenciosamente.
type InvoiceDraft struct {
	PatientID    string
	Date         time.Time
	DueDate      time.Time
	Items        []LineItem
	DiscountRate decimal.Decimal
	TaxRate      decimal.Decimal
}

// ValidateInvoiceDraft valida un borrador antes de persistirlo.
// Devuelve la lista de errores de campo; vacía significa válido.
func ValidateInvoiceDraft(d InvoiceDraft) []FieldError {
	var errs []FieldError
	if d.PatientID == "" {
		errs = append(errs, FieldError{Field: "patient_id", Message: "debe seleccionar un paciente"})
	}
	if len(d.Items) == 0 {
		errs = append(errs, FieldError{Field: "items", Message: "la factura requiere al menos una línea"})
	}
	if d.DueDate.IsZero() {
		errs = append(errs, FieldError{Field: "due_date", Message: "la fecha de vencimiento es obligatoria"})
	} else if !d.Date.IsZero() && d.DueDate.Before(d.Date) {
		errs = append(errs, FieldError{Field: "due_date", Message: "la fecha de vencimiento no puede ser anterior a la fecha de emisión"})
	}
	if d.DiscountRate.IsNegative() || d.DiscountRate.GreaterThan(cien) {
		errs = append(errs, FieldError{Field: "discount_rate", Message: "el descuento debe estar entre 0 y 100"})
	}
	if d.TaxRate.IsNegative() || d.TaxRate.GreaterThan(cien) {
		errs = append(errs, FieldError{Field: "tax_rate", Message: "el impuesto debe estar entre 0 y 100"})
	}
	return errs
}
