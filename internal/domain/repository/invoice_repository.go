package repository

import (
	"time"

	"github.com/tu-usuario/clinica-pro/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateItem(item *entity.InvoiceItem) error
	// Update reescribe la cabecera completa: totales y estado se escriben
	// juntos o no se escribe nada (la atomicidad la da la transacción).
	Update(invoice *entity.Invoice) error
	// ReplaceItems borra y reinserta las líneas de la factura (edición de borrador).
	ReplaceItems(invoiceID string, items []*entity.InvoiceItem) error
	GetByID(id string) (*entity.Invoice, error)
	GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error)
	ListByClinic(clinicID string, status string, limit, offset int) ([]*entity.Invoice, error)
	// NextSequence devuelve el siguiente consecutivo por clínica. Llamar dentro
	// de la transacción que crea/emite la factura para no dejar huecos.
	NextSequence(clinicID string) (int64, error)
	// ListPendingDue facturas pending con vencimiento anterior a now (barrido overdue).
	ListPendingDue(now time.Time) ([]*entity.Invoice, error)
}
