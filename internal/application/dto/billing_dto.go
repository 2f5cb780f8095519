package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItemRequest línea de factura tal como llega del cliente. Amount no se
// acepta: siempre se rederiva de Quantity × UnitPrice.
type InvoiceItemRequest struct {
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// InvoiceFormData body para crear o editar un borrador de factura.
type InvoiceFormData struct {
	PatientID    string               `json:"patient_id"`
	Date         time.Time            `json:"date"`
	DueDate      time.Time            `json:"due_date"`
	Items        []InvoiceItemRequest `json:"items"`
	DiscountRate decimal.Decimal      `json:"discount_rate"`
	TaxRate      decimal.Decimal      `json:"tax_rate"`
	Notes        string               `json:"notes,omitempty"`
	Terms        string               `json:"terms,omitempty"`
}

// RecordPaymentRequest body para POST /api/invoices/:id/payments.
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"` // cash | card | transfer | other
	PaidAt time.Time       `json:"paid_at,omitempty"`
}

// InvoiceItemResponse línea en la respuesta.
type InvoiceItemResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceResponse factura con detalle completo.
type InvoiceResponse struct {
	ID             string                `json:"id"`
	ClinicID       string                `json:"clinic_id"`
	PatientID      string                `json:"patient_id"`
	PatientName    string                `json:"patient_name"`
	Number         string                `json:"number,omitempty"`
	Date           time.Time             `json:"date"`
	DueDate        time.Time             `json:"due_date"`
	Status         string                `json:"status"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	DiscountRate   decimal.Decimal       `json:"discount_rate"`
	DiscountAmount decimal.Decimal       `json:"discount_amount"`
	TaxRate        decimal.Decimal       `json:"tax_rate"`
	TaxAmount      decimal.Decimal       `json:"tax_amount"`
	Total          decimal.Decimal       `json:"total"`
	Currency       string                `json:"currency"`
	Notes          string                `json:"notes,omitempty"`
	Terms          string                `json:"terms,omitempty"`
	PaidAmount     decimal.Decimal       `json:"paid_amount,omitempty"`
	PaidDate       *time.Time            `json:"paid_date,omitempty"`
	PaymentMethod  string                `json:"payment_method,omitempty"`
	Items          []InvoiceItemResponse `json:"items"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// InvoiceListRequest filtros de listado.
type InvoiceListRequest struct {
	PageRequest
	Status string `query:"status"`
}
