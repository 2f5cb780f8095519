package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/clinica-pro/internal/domain/entity"
	"github.com/tu-usuario/clinica-pro/internal/domain/lifecycle"
	"github.com/tu-usuario/clinica-pro/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, clinic_id, patient_id, patient_name, number, date, due_date, status,
	subtotal, discount_rate, discount_amount, tax_rate, tax_amount, total,
	currency, notes, terms, paid_amount, paid_date, COALESCE(payment_method, ''),
	created_at, updated_at`

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, clinic_id, patient_id, patient_name, number, date, due_date, status,
			subtotal, discount_rate, discount_amount, tax_rate, tax_amount, total,
			currency, notes, terms, paid_amount, paid_date, payment_method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.ClinicID, invoice.PatientID, invoice.PatientName, invoice.Number,
		invoice.Date, invoice.DueDate, string(invoice.Status),
		invoice.Subtotal, invoice.DiscountRate, invoice.DiscountAmount,
		invoice.TaxRate, invoice.TaxAmount, invoice.Total,
		invoice.Currency, invoice.Notes, invoice.Terms,
		invoice.PaidAmount, invoice.PaidDate, nullIfEmpty(invoice.PaymentMethod),
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number already exists: %w", err)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de la factura.
func (r *InvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, description, quantity, unit_price, amount)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.InvoiceID, item.Description, item.Quantity, item.UnitPrice, item.Amount,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// Update reescribe la cabecera completa. Totales, estado y datos de pago
// siempre salen juntos: un snapshot a medias nunca toca la tabla.
func (r *InvoiceRepo) Update(invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET patient_id = $2, patient_name = $3, date = $4, due_date = $5, status = $6,
		    subtotal = $7, discount_rate = $8, discount_amount = $9,
		    tax_rate = $10, tax_amount = $11, total = $12,
		    currency = $13, notes = $14, terms = $15,
		    paid_amount = $16, paid_date = $17, payment_method = $18,
		    updated_at = $19
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.PatientID, invoice.PatientName, invoice.Date, invoice.DueDate,
		string(invoice.Status),
		invoice.Subtotal, invoice.DiscountRate, invoice.DiscountAmount,
		invoice.TaxRate, invoice.TaxAmount, invoice.Total,
		invoice.Currency, invoice.Notes, invoice.Terms,
		invoice.PaidAmount, invoice.PaidDate, nullIfEmpty(invoice.PaymentMethod),
		invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// ReplaceItems borra y reinserta las líneas de la factura (edición de borrador).
func (r *InvoiceRepo) ReplaceItems(invoiceID string, items []*entity.InvoiceItem) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID); err != nil {
		return fmt.Errorf("delete invoice items: %w", err)
	}
	for _, item := range items {
		if err := r.CreateItem(item); err != nil {
			return err
		}
	}
	return nil
}

// GetByID obtiene la cabecera de una factura por ID.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetItemsByInvoiceID obtiene las líneas de una factura en orden de inserción.
func (r *InvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, description, quantity, unit_price, amount
		FROM invoice_items WHERE invoice_id = $1 ORDER BY ctid`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	var items []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Description, &it.Quantity, &it.UnitPrice, &it.Amount); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// ListByClinic lista facturas de la clínica, opcionalmente por estado, más reciente primero.
func (r *InvoiceRepo) ListByClinic(clinicID string, status string, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE clinic_id = $1`
	args := []any{clinicID}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY date DESC, number DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	return scanInvoices(rows)
}

// NextSequence devuelve el siguiente consecutivo por clínica. El upsert con
// RETURNING es atómico; llamado en la tx de creación no deja huecos visibles.
func (r *InvoiceRepo) NextSequence(clinicID string) (int64, error) {
	query := `
		INSERT INTO invoice_sequences (clinic_id, last_number)
		VALUES ($1, 1)
		ON CONFLICT (clinic_id)
		DO UPDATE SET last_number = invoice_sequences.last_number + 1
		RETURNING last_number`
	var seq int64
	if err := r.q.QueryRow(context.Background(), query, clinicID).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next invoice sequence: %w", err)
	}
	return seq, nil
}

// ListPendingDue facturas pending con vencimiento anterior a now (barrido overdue).
func (r *InvoiceRepo) ListPendingDue(now time.Time) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE status = $1 AND due_date < $2`
	rows, err := r.q.Query(context.Background(), query, string(lifecycle.InvoicePending), now)
	if err != nil {
		return nil, fmt.Errorf("list pending due invoices: %w", err)
	}
	defer rows.Close()
	return scanInvoices(rows)
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var status string
	err := row.Scan(
		&inv.ID, &inv.ClinicID, &inv.PatientID, &inv.PatientName, &inv.Number,
		&inv.Date, &inv.DueDate, &status,
		&inv.Subtotal, &inv.DiscountRate, &inv.DiscountAmount,
		&inv.TaxRate, &inv.TaxAmount, &inv.Total,
		&inv.Currency, &inv.Notes, &inv.Terms,
		&inv.PaidAmount, &inv.PaidDate, &inv.PaymentMethod,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.Status = lifecycle.InvoiceStatus(status)
	return &inv, nil
}

func scanInvoices(rows pgx.Rows) ([]*entity.Invoice, error) {
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}
