package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/clinica-pro/internal/application/dto"
	"github.com/tu-usuario/clinica-pro/internal/domain"
	"github.com/tu-usuario/clinica-pro/internal/domain/billing"
	"github.com/tu-usuario/clinica-pro/internal/domain/entity"
	"github.com/tu-usuario/clinica-pro/internal/domain/lifecycle"
	"github.com/tu-usuario/clinica-pro/internal/domain/repository"
)

// Defaults valores por defecto de facturación cuando la clínica no ha
// configurado los suyos.
type Defaults struct {
	Currency string
	Prefix   string
	DueDays  int
}

// InvoiceUseCase casos de uso de facturación: borradores, emisión, pagos,
// cancelación y barrido de vencidas. El cálculo de totales y las transiciones
// de estado viven en el dominio; aquí solo se orquesta y persiste.
type InvoiceUseCase struct {
	txRunner     BillingTxRunner
	invoiceRepo  repository.InvoiceRepository
	patientRepo  repository.PatientRepository
	settingsRepo repository.SettingsRepository
	defaults     Defaults
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	invoiceRepo repository.InvoiceRepository,
	patientRepo repository.PatientRepository,
	settingsRepo repository.SettingsRepository,
	defaults Defaults,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:     txRunner,
		invoiceRepo:  invoiceRepo,
		patientRepo:  patientRepo,
		settingsRepo: settingsRepo,
		defaults:     defaults,
	}
}

// ValidationFailedError el borrador no pasó la validación de campos. Se
// transporta como error para atravesar capas, pero el contenido son datos.
type ValidationFailedError struct {
	Fields []billing.FieldError
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("borrador inválido: %d errores de campo", len(e.Fields))
}

// buildLines rederiva cada línea del request. Amount nunca se toma del cliente.
func buildLines(in []dto.InvoiceItemRequest) ([]billing.LineItem, error) {
	lines := make([]billing.LineItem, 0, len(in))
	for _, item := range in {
		line, err := billing.NewLineItem(item.Description, item.Quantity, item.UnitPrice)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// clinicDefaults resuelve moneda, prefijo y plazo desde settings o los defaults.
func (uc *InvoiceUseCase) clinicDefaults(clinicID string) (currency, prefix, terms string, dueDays int) {
	currency, prefix, dueDays = uc.defaults.Currency, uc.defaults.Prefix, uc.defaults.DueDays
	if s, err := uc.settingsRepo.Get(clinicID); err == nil && s != nil {
		if s.Currency != "" {
			currency = s.Currency
		}
		if s.InvoicePrefix != "" {
			prefix = s.InvoicePrefix
		}
		if s.InvoiceDueDays > 0 {
			dueDays = s.InvoiceDueDays
		}
		terms = s.InvoiceTerms
	}
	return currency, prefix, terms, dueDays
}

// CreateDraft crea una factura en borrador con número consecutivo por clínica.
// Valida el borrador completo; los errores de validación se devuelven con los
// campos ofensores para que la UI los pinte.
func (uc *InvoiceUseCase) CreateDraft(ctx context.Context, clinicID string, in dto.InvoiceFormData) (*dto.InvoiceResponse, error) {
	patient, err := uc.patientRepo.GetByID(in.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, domain.ErrNotFound
	}
	if patient.ClinicID != clinicID {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	currency, prefix, terms, dueDays := uc.clinicDefaults(clinicID)

	date := in.Date
	if date.IsZero() {
		date = now
	}
	dueDate := in.DueDate
	if dueDate.IsZero() {
		dueDate = date.AddDate(0, 0, dueDays)
	}

	lines, err := buildLines(in.Items)
	if err != nil {
		return nil, err
	}
	if fieldErrs := billing.ValidateInvoiceDraft(billing.InvoiceDraft{
		PatientID:    in.PatientID,
		Date:         date,
		DueDate:      dueDate,
		Items:        lines,
		DiscountRate: in.DiscountRate,
		TaxRate:      in.TaxRate,
	}); len(fieldErrs) > 0 {
		return nil, &ValidationFailedError{Fields: fieldErrs}
	}

	if in.Terms != "" {
		terms = in.Terms
	}
	inv := &entity.Invoice{
		ID:          uuid.New().String(),
		ClinicID:    clinicID,
		PatientID:   in.PatientID,
		PatientName: patient.Name,
		Date:        date,
		DueDate:     dueDate,
		Status:      lifecycle.InvoiceDraft,
		Currency:    currency,
		Notes:       in.Notes,
		Terms:       terms,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	inv.ApplyTotals(billing.ComputeTotals(lines, in.DiscountRate, in.TaxRate))

	items := itemsFromLines(inv.ID, lines)

	// Consecutivo + cabecera + líneas en una sola transacción.
	err = uc.txRunner.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		seq, err := invoiceRepo.NextSequence(clinicID)
		if err != nil {
			return err
		}
		inv.Number = fmt.Sprintf("%s%04d", prefix, seq)
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		for _, item := range items {
			if err := invoiceRepo.CreateItem(item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items), nil
}

// UpdateDraft edita un borrador: reemplaza líneas y tasas y recalcula el
// snapshot de totales completo. Solo las facturas en draft son editables.
func (uc *InvoiceUseCase) UpdateDraft(ctx context.Context, clinicID, invoiceID string, in dto.InvoiceFormData) (*dto.InvoiceResponse, error) {
	inv, err := uc.ownedInvoice(clinicID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status != lifecycle.InvoiceDraft {
		return nil, domain.ErrConflict
	}

	if in.PatientID != "" && in.PatientID != inv.PatientID {
		patient, err := uc.patientRepo.GetByID(in.PatientID)
		if err != nil {
			return nil, err
		}
		if patient == nil {
			return nil, domain.ErrNotFound
		}
		if patient.ClinicID != clinicID {
			return nil, domain.ErrForbidden
		}
		inv.PatientID = patient.ID
		inv.PatientName = patient.Name
	}
	if !in.Date.IsZero() {
		inv.Date = in.Date
	}
	if !in.DueDate.IsZero() {
		inv.DueDate = in.DueDate
	}
	if in.Notes != "" {
		inv.Notes = in.Notes
	}
	if in.Terms != "" {
		inv.Terms = in.Terms
	}

	lines, err := buildLines(in.Items)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		// Edición sin líneas: conservar las existentes, solo recalcular tasas.
		existing, err := uc.invoiceRepo.GetItemsByInvoiceID(inv.ID)
		if err != nil {
			return nil, err
		}
		lines = entity.Lines(existing)
	}
	if fieldErrs := billing.ValidateInvoiceDraft(billing.InvoiceDraft{
		PatientID:    inv.PatientID,
		Date:         inv.Date,
		DueDate:      inv.DueDate,
		Items:        lines,
		DiscountRate: in.DiscountRate,
		TaxRate:      in.TaxRate,
	}); len(fieldErrs) > 0 {
		return nil, &ValidationFailedError{Fields: fieldErrs}
	}

	inv.ApplyTotals(billing.ComputeTotals(lines, in.DiscountRate, in.TaxRate))
	inv.UpdatedAt = time.Now()
	items := itemsFromLines(inv.ID, lines)

	err = uc.txRunner.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		if err := invoiceRepo.ReplaceItems(inv.ID, items); err != nil {
			return err
		}
		return invoiceRepo.Update(inv)
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items), nil
}

// RemoveItem quita una línea del borrador. Remover la última línea se rechaza:
// la lista queda intacta.
func (uc *InvoiceUseCase) RemoveItem(ctx context.Context, clinicID, invoiceID string, idx int) (*dto.InvoiceResponse, error) {
	inv, err := uc.ownedInvoice(clinicID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status != lifecycle.InvoiceDraft {
		return nil, domain.ErrConflict
	}
	existing, err := uc.invoiceRepo.GetItemsByInvoiceID(inv.ID)
	if err != nil {
		return nil, err
	}
	lines, err := billing.RemoveLineItem(entity.Lines(existing), idx)
	if err != nil {
		return nil, err
	}
	inv.ApplyTotals(billing.ComputeTotals(lines, inv.DiscountRate, inv.TaxRate))
	inv.UpdatedAt = time.Now()
	items := itemsFromLines(inv.ID, lines)

	err = uc.txRunner.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		if err := invoiceRepo.ReplaceItems(inv.ID, items); err != nil {
			return err
		}
		return invoiceRepo.Update(inv)
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items), nil
}

// Issue emite la factura: draft → pending.
func (uc *InvoiceUseCase) Issue(ctx context.Context, clinicID, invoiceID string) (*dto.InvoiceResponse, error) {
	return uc.transition(clinicID, invoiceID, lifecycle.InvoicePending)
}

// Cancel cancela la factura: draft|pending → cancelled.
func (uc *InvoiceUseCase) Cancel(ctx context.Context, clinicID, invoiceID string) (*dto.InvoiceResponse, error) {
	return uc.transition(clinicID, invoiceID, lifecycle.InvoiceCancelled)
}

func (uc *InvoiceUseCase) transition(clinicID, invoiceID string, to lifecycle.InvoiceStatus) (*dto.InvoiceResponse, error) {
	inv, err := uc.ownedInvoice(clinicID, invoiceID)
	if err != nil {
		return nil, err
	}
	next, err := lifecycle.TransitionInvoice(inv.Status, to)
	if err != nil {
		return nil, err
	}
	inv.Status = next
	inv.UpdatedAt = time.Now()
	if err := uc.invoiceRepo.Update(inv); err != nil {
		return nil, err
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(inv.ID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items), nil
}

// RecordPayment registra un pago externo: pending|overdue → paid, guardando
// monto, fecha y método en la misma escritura que el cambio de estado.
func (uc *InvoiceUseCase) RecordPayment(ctx context.Context, clinicID, invoiceID string, in dto.RecordPaymentRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.ownedInvoice(clinicID, invoiceID)
	if err != nil {
		return nil, err
	}
	paidAt := in.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}
	res, err := lifecycle.RecordPayment(inv.Status, lifecycle.PaymentEvent{
		Amount: in.Amount,
		Method: in.Method,
		PaidAt: paidAt,
	})
	if err != nil {
		return nil, err
	}
	inv.Status = res.Status
	inv.PaidAmount = res.PaidAmount
	inv.PaidDate = &res.PaidDate
	inv.PaymentMethod = res.Method
	inv.UpdatedAt = time.Now()
	if err := uc.invoiceRepo.Update(inv); err != nil {
		return nil, err
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(inv.ID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items), nil
}

// MarkOverdue barrido: toda factura pending con vencimiento pasado pasa a
// overdue. Devuelve cuántas cambiaron. Lo invoca el job programado.
func (uc *InvoiceUseCase) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	due, err := uc.invoiceRepo.ListPendingDue(now)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, inv := range due {
		if !lifecycle.OverdueEligible(inv.Status, inv.DueDate, now) {
			continue
		}
		next, err := lifecycle.TransitionInvoice(inv.Status, lifecycle.InvoiceOverdue)
		if err != nil {
			continue
		}
		inv.Status = next
		inv.UpdatedAt = now
		if err := uc.invoiceRepo.Update(inv); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// Get obtiene una factura con sus líneas.
func (uc *InvoiceUseCase) Get(ctx context.Context, clinicID, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, err := uc.ownedInvoice(clinicID, invoiceID)
	if err != nil {
		return nil, err
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(inv.ID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items), nil
}

// List lista facturas de la clínica, opcionalmente filtradas por estado.
func (uc *InvoiceUseCase) List(ctx context.Context, clinicID string, in dto.InvoiceListRequest) ([]dto.InvoiceResponse, error) {
	in.DefaultPage()
	if in.Status != "" && !lifecycle.ValidInvoiceStatus(lifecycle.InvoiceStatus(in.Status)) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.invoiceRepo.ListByClinic(clinicID, in.Status, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, *toInvoiceResponse(inv, nil))
	}
	return out, nil
}

// ownedInvoice carga la factura y verifica pertenencia a la clínica antes de
// cualquier cómputo.
func (uc *InvoiceUseCase) ownedInvoice(clinicID, invoiceID string) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.ClinicID != clinicID {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}

func itemsFromLines(invoiceID string, lines []billing.LineItem) []*entity.InvoiceItem {
	items := make([]*entity.InvoiceItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, &entity.InvoiceItem{
			ID:          uuid.New().String(),
			InvoiceID:   invoiceID,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Amount:      line.Amount,
		})
	}
	return items
}

func toInvoiceResponse(inv *entity.Invoice, items []*entity.InvoiceItem) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:             inv.ID,
		ClinicID:       inv.ClinicID,
		PatientID:      inv.PatientID,
		PatientName:    inv.PatientName,
		Number:         inv.Number,
		Date:           inv.Date,
		DueDate:        inv.DueDate,
		Status:         string(inv.Status),
		Subtotal:       inv.Subtotal,
		DiscountRate:   inv.DiscountRate,
		DiscountAmount: inv.DiscountAmount,
		TaxRate:        inv.TaxRate,
		TaxAmount:      inv.TaxAmount,
		Total:          inv.Total,
		Currency:       inv.Currency,
		Notes:          inv.Notes,
		Terms:          inv.Terms,
		PaidAmount:     inv.PaidAmount,
		PaidDate:       inv.PaidDate,
		PaymentMethod:  inv.PaymentMethod,
		Items:          make([]dto.InvoiceItemResponse, 0, len(items)),
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount,
		})
	}
	return resp
}
