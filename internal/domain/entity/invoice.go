package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/clinica-pro/internal/domain/billing"
	"github.com/tu-usuario/clinica-pro/internal/domain/lifecycle"
)

// Invoice representa la cabecera de una factura de la clínica.
// Los campos de totales son siempre el resultado de billing.ComputeTotals;
// cualquier edición de líneas o tasas recalcula el snapshot completo.
type Invoice struct {
	ID             string
	ClinicID       string
	PatientID      string
	PatientName    string // desnormalizado para listados
	Number         string // consecutivo por clínica (INV0001, INV0002, ...)
	Date           time.Time
	DueDate        time.Time
	Status         lifecycle.InvoiceStatus
	Subtotal       decimal.Decimal
	DiscountRate   decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxRate        decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
	Currency       string
	Notes          string
	Terms          string
	PaidAmount     decimal.Decimal
	PaidDate       *time.Time
	PaymentMethod  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// InvoiceItem una línea de la factura, persistida en invoice_items.
type InvoiceItem struct {
	ID          string
	InvoiceID   string
	Description string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
}

// ApplyTotals vuelca un snapshot de totales sobre la cabecera.
func (i *Invoice) ApplyTotals(t billing.Totals) {
	i.Subtotal = t.Subtotal
	i.DiscountRate = t.DiscountRate
	i.DiscountAmount = t.DiscountAmount
	i.TaxRate = t.TaxRate
	i.TaxAmount = t.TaxAmount
	i.Total = t.Total
}

// Lines proyecta los items persistidos a las líneas del calculador.
func Lines(items []*InvoiceItem) []billing.LineItem {
	out := make([]billing.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, billing.LineItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount,
		})
	}
	return out
}
