// Package lifecycle implementa las máquinas de estado de factura y suscripción.
//
// Todas las transiciones son puras (estado entra, estado sale) y devuelven
// InvalidTransitionError cuando el cambio no está permitido; en ese caso el
// estado actual no se modifica. Persistir el resultado y disparar llamadas
// externas (pagos, notificaciones) es responsabilidad del caller.
package lifecycle

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la factura.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoicePending   InvoiceStatus = "pending"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// Métodos de pago aceptados al registrar el pago de una factura.
const (
	PayCash     = "cash"
	PayCard     = "card"
	PayTransfer = "transfer"
	PayOther    = "other"
)

// InvalidTransitionError transición de estado no permitida. Identifica el
// estado actual y el solicitado para que el caller arme un mensaje específico.
type InvalidTransitionError struct {
	Entity string // "invoice" | "subscription"
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: transición inválida %s → %s", e.Entity, e.From, e.To)
}

// ValidationError evento con datos inválidos. El campo indica qué dato
// rechazó la máquina de estados; no implica transición prohibida.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// invoiceTransitions tabla de transiciones válidas. paid y cancelled son
// terminales: no aparecen como origen.
var invoiceTransitions = map[InvoiceStatus]map[InvoiceStatus]bool{
	InvoiceDraft: {
		InvoicePending:   true,
		InvoiceCancelled: true,
	},
	InvoicePending: {
		InvoicePaid:      true,
		InvoiceOverdue:   true,
		InvoiceCancelled: true,
	},
	InvoiceOverdue: {
		InvoicePaid: true, // pago tardío aceptado
	},
}

// ValidInvoiceStatus reporta si s es uno de los estados conocidos.
func ValidInvoiceStatus(s InvoiceStatus) bool {
	switch s {
	case InvoiceDraft, InvoicePending, InvoicePaid, InvoiceOverdue, InvoiceCancelled:
		return true
	}
	return false
}

// CanTransitionInvoice reporta si from → to está en la tabla.
func CanTransitionInvoice(from, to InvoiceStatus) bool {
	return invoiceTransitions[from][to]
}

// TransitionInvoice devuelve el nuevo estado o InvalidTransitionError.
func TransitionInvoice(from, to InvoiceStatus) (InvoiceStatus, error) {
	if !CanTransitionInvoice(from, to) {
		return from, &InvalidTransitionError{Entity: "invoice", From: string(from), To: string(to)}
	}
	return to, nil
}

// PaymentEvent pago reportado externamente para una factura.
type PaymentEvent struct {
	Amount decimal.Decimal
	Method string
	PaidAt time.Time
}

// PaymentResult estado y campos derivados tras registrar un pago.
type PaymentResult struct {
	Status     InvoiceStatus
	PaidAmount decimal.Decimal
	PaidDate   time.Time
	Method     string
}

// RecordPayment aplica un evento de pago: pending → paid u overdue → paid.
// Exige monto positivo y método; un evento incompleto no muta el estado.
func RecordPayment(from InvoiceStatus, ev PaymentEvent) (PaymentResult, error) {
	if !ev.Amount.IsPositive() {
		return PaymentResult{}, &ValidationError{Field: "amount", Message: "el monto del pago debe ser mayor que cero"}
	}
	if ev.Method == "" {
		return PaymentResult{}, &ValidationError{Field: "method", Message: "el método de pago es obligatorio"}
	}
	next, err := TransitionInvoice(from, InvoicePaid)
	if err != nil {
		return PaymentResult{}, err
	}
	return PaymentResult{
		Status:     next,
		PaidAmount: ev.Amount,
		PaidDate:   ev.PaidAt,
		Method:     ev.Method,
	}, nil
}

// OverdueEligible reporta si una factura pending con vencimiento pasado puede
// marcarse overdue. Es un chequeo de tiempo, no una transición: overdue no
// regresa a pending automáticamente.
func OverdueEligible(status InvoiceStatus, dueDate, now time.Time) bool {
	return status == InvoicePending && !dueDate.IsZero() && dueDate.Before(now)
}
