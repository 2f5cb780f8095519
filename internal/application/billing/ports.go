package billing

import (
	"context"

	"github.com/tu-usuario/clinica-pro/internal/domain/entity"
	"github.com/tu-usuario/clinica-pro/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción con el repo de
// facturas atado a la tx. El consecutivo y la escritura de cabecera+líneas
// deben salir juntos o no salir.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error
}

// InvoicePDFGenerator puerto para la representación gráfica de la factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, clinic *entity.Clinic, settings *entity.ClinicSettings, items []*entity.InvoiceItem) ([]byte, error)
}
