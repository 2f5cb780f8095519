package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/tu-usuario/clinica-pro/internal/application/billing"
	"github.com/tu-usuario/clinica-pro/internal/application/dto"
	"github.com/tu-usuario/clinica-pro/internal/domain"
	"github.com/tu-usuario/clinica-pro/internal/domain/entity"
	"github.com/tu-usuario/clinica-pro/internal/domain/lifecycle"
	"github.com/tu-usuario/clinica-pro/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeInvoiceRepo struct {
	invoices map[string]*entity.Invoice
	items    map[string][]*entity.InvoiceItem
	seq      map[string]int64
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices: map[string]*entity.Invoice{},
		items:    map[string][]*entity.InvoiceItem{},
		seq:      map[string]int64{},
	}
}

func (r *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	cp := *inv
	r.invoices[inv.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	cp := *item
	r.items[item.InvoiceID] = append(r.items[item.InvoiceID], &cp)
	return nil
}

func (r *fakeInvoiceRepo) Update(inv *entity.Invoice) error {
	cp := *inv
	r.invoices[inv.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) ReplaceItems(invoiceID string, items []*entity.InvoiceItem) error {
	r.items[invoiceID] = nil
	for _, it := range items {
		cp := *it
		r.items[invoiceID] = append(r.items[invoiceID], &cp)
	}
	return nil
}

func (r *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error) {
	return r.items[invoiceID], nil
}

func (r *fakeInvoiceRepo) ListByClinic(clinicID string, status string, limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.invoices {
		if inv.ClinicID != clinicID {
			continue
		}
		if status != "" && string(inv.Status) != status {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

func (r *fakeInvoiceRepo) NextSequence(clinicID string) (int64, error) {
	r.seq[clinicID]++
	return r.seq[clinicID], nil
}

func (r *fakeInvoiceRepo) ListPendingDue(now time.Time) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.invoices {
		if inv.Status == lifecycle.InvoicePending && inv.DueDate.Before(now) {
			out = append(out, inv)
		}
	}
	return out, nil
}

type fakePatientRepo struct {
	patients map[string]*entity.Patient
}

func (r *fakePatientRepo) Create(p *entity.Patient) error { r.patients[p.ID] = p; return nil }
func (r *fakePatientRepo) Update(p *entity.Patient) error { r.patients[p.ID] = p; return nil }
func (r *fakePatientRepo) Delete(id string) error         { delete(r.patients, id); return nil }
func (r *fakePatientRepo) GetByID(id string) (*entity.Patient, error) {
	return r.patients[id], nil
}
func (r *fakePatientRepo) ListByClinic(clinicID string, limit, offset int) ([]*entity.Patient, error) {
	return nil, nil
}

type fakeSettingsRepo struct {
	settings map[string]*entity.ClinicSettings
}

func (r *fakeSettingsRepo) Get(clinicID string) (*entity.ClinicSettings, error) {
	return r.settings[clinicID], nil
}
func (r *fakeSettingsRepo) Upsert(s *entity.ClinicSettings) error {
	r.settings[s.ClinicID] = s
	return nil
}

// fakeTxRunner ejecuta la función directamente contra el repo en memoria; la
// atomicidad de la transacción real no aplica aquí.
type fakeTxRunner struct {
	repo repository.InvoiceRepository
}

func (t *fakeTxRunner) RunBilling(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error {
	return fn(t.repo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Setup
// ──────────────────────────────────────────────────────────────────────────────

const (
	ucClinicID  = "clinic-1"
	ucPatientID = "patient-1"
)

func newInvoiceUseCase(t *testing.T) (*appbilling.InvoiceUseCase, *fakeInvoiceRepo) {
	t.Helper()
	invoiceRepo := newFakeInvoiceRepo()
	patientRepo := &fakePatientRepo{patients: map[string]*entity.Patient{
		ucPatientID: {ID: ucPatientID, ClinicID: ucClinicID, Name: "Ana Gómez"},
		"patient-2": {ID: "patient-2", ClinicID: "clinic-2", Name: "Otro Paciente"},
	}}
	settingsRepo := &fakeSettingsRepo{settings: map[string]*entity.ClinicSettings{}}
	uc := appbilling.NewInvoiceUseCase(
		&fakeTxRunner{repo: invoiceRepo},
		invoiceRepo,
		patientRepo,
		settingsRepo,
		appbilling.Defaults{Currency: "COP", Prefix: "INV", DueDays: 15},
	)
	return uc, invoiceRepo
}

func draftForm(items ...dto.InvoiceItemRequest) dto.InvoiceFormData {
	return dto.InvoiceFormData{
		PatientID:    ucPatientID,
		Items:        items,
		DiscountRate: decimal.NewFromInt(10),
		TaxRate:      decimal.NewFromInt(19),
	}
}

func consulta(qty int64, price int64) dto.InvoiceItemRequest {
	return dto.InvoiceItemRequest{
		Description: "Consulta general",
		Quantity:    qty,
		UnitPrice:   decimal.NewFromInt(price),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateDraft
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateDraft_NumeraYDerivaTotales(t *testing.T) {
	uc, _ := newInvoiceUseCase(t)

	// 2 x 50000 = 100000; -10% = 90000; +19% = 107100
	resp, err := uc.CreateDraft(context.Background(), ucClinicID, draftForm(consulta(2, 50000)))
	require.NoError(t, err)

	assert.Equal(t, "INV0001", resp.Number)
	assert.Equal(t, "draft", resp.Status)
	assert.Equal(t, "COP", resp.Currency)
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(100000)), "subtotal: %s", resp.Subtotal)
	assert.True(t, resp.DiscountAmount.Equal(decimal.NewFromInt(10000)), "descuento: %s", resp.DiscountAmount)
	assert.True(t, resp.TaxAmount.Equal(decimal.NewFromInt(17100)), "impuesto: %s", resp.TaxAmount)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(107100)), "total: %s", resp.Total)
	require.Len(t, resp.Items, 1)

	// Vencimiento por defecto: fecha + 15 días.
	assert.Equal(t, resp.Date.AddDate(0, 0, 15), resp.DueDate)

	// El consecutivo es por clínica.
	resp2, err := uc.CreateDraft(context.Background(), ucClinicID, draftForm(consulta(1, 30000)))
	require.NoError(t, err)
	assert.Equal(t, "INV0002", resp2.Number)
}

func TestCreateDraft_SinLineas_DevuelveErroresDeCampo(t *testing.T) {
	uc, _ := newInvoiceUseCase(t)

	_, err := uc.CreateDraft(context.Background(), ucClinicID, draftForm())
	require.Error(t, err)

	var verr *appbilling.ValidationFailedError
	require.ErrorAs(t, err, &verr, "debe ser un error de validación con campos")
	assert.NotEmpty(t, verr.Fields)
}

func TestCreateDraft_PacienteDeOtraClinica_Forbidden(t *testing.T) {
	uc, _ := newInvoiceUseCase(t)

	form := draftForm(consulta(1, 50000))
	form.PatientID = "patient-2"
	_, err := uc.CreateDraft(context.Background(), ucClinicID, form)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida: emisión, pago, cancelación
// ──────────────────────────────────────────────────────────────────────────────

func TestIssueYRecordPayment_FlujoCompleto(t *testing.T) {
	uc, _ := newInvoiceUseCase(t)
	ctx := context.Background()

	draft, err := uc.CreateDraft(ctx, ucClinicID, draftForm(consulta(1, 50000)))
	require.NoError(t, err)

	issued, err := uc.Issue(ctx, ucClinicID, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", issued.Status)

	paid, err := uc.RecordPayment(ctx, ucClinicID, draft.ID, dto.RecordPaymentRequest{
		Amount: issued.Total,
		Method: "card",
	})
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)
	assert.Equal(t, "card", paid.PaymentMethod)
	require.NotNil(t, paid.PaidDate)
	assert.True(t, paid.PaidAmount.Equal(issued.Total))

	// paid es terminal: cancelar después del pago no está permitido.
	_, err = uc.Cancel(ctx, ucClinicID, draft.ID)
	var terr *lifecycle.InvalidTransitionError
	assert.ErrorAs(t, err, &terr)
}

func TestRecordPayment_SobreBorrador_Rechazado(t *testing.T) {
	uc, _ := newInvoiceUseCase(t)
	ctx := context.Background()

	draft, err := uc.CreateDraft(ctx, ucClinicID, draftForm(consulta(1, 50000)))
	require.NoError(t, err)

	_, err = uc.RecordPayment(ctx, ucClinicID, draft.ID, dto.RecordPaymentRequest{
		Amount: draft.Total,
		Method: "cash",
	})
	var terr *lifecycle.InvalidTransitionError
	assert.ErrorAs(t, err, &terr, "un borrador no se puede pagar sin emitir")
}

// ──────────────────────────────────────────────────────────────────────────────
// RemoveItem
// ──────────────────────────────────────────────────────────────────────────────

func TestRemoveItem_RecalculaTotales(t *testing.T) {
	uc, repo := newInvoiceUseCase(t)
	ctx := context.Background()

	draft, err := uc.CreateDraft(ctx, ucClinicID, draftForm(consulta(1, 50000), consulta(1, 30000)))
	require.NoError(t, err)

	resp, err := uc.RemoveItem(ctx, ucClinicID, draft.ID, 1)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	// 50000 -10% = 45000; +19% = 53550
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(53550)), "total: %s", resp.Total)

	items, _ := repo.GetItemsByInvoiceID(draft.ID)
	assert.Len(t, items, 1)
}

func TestRemoveItem_UltimaLinea_Rechazado(t *testing.T) {
	uc, repo := newInvoiceUseCase(t)
	ctx := context.Background()

	draft, err := uc.CreateDraft(ctx, ucClinicID, draftForm(consulta(1, 50000)))
	require.NoError(t, err)

	_, err = uc.RemoveItem(ctx, ucClinicID, draft.ID, 0)
	assert.ErrorIs(t, err, domain.ErrLastLineItem)

	// La lista queda intacta.
	items, _ := repo.GetItemsByInvoiceID(draft.ID)
	assert.Len(t, items, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Barrido de vencidas
// ──────────────────────────────────────────────────────────────────────────────

func TestMarkOverdue_SoloPendingVencidas(t *testing.T) {
	uc, repo := newInvoiceUseCase(t)
	ctx := context.Background()

	form := draftForm(consulta(1, 50000))
	form.Date = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	form.DueDate = time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	vencida, err := uc.CreateDraft(ctx, ucClinicID, form)
	require.NoError(t, err)
	_, err = uc.Issue(ctx, ucClinicID, vencida.ID)
	require.NoError(t, err)

	// Queda en draft: el barrido no la toca aunque esté vencida.
	sinEmitir, err := uc.CreateDraft(ctx, ucClinicID, form)
	require.NoError(t, err)

	count, err := uc.MarkOverdue(ctx, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	inv, _ := repo.GetByID(vencida.ID)
	assert.Equal(t, lifecycle.InvoiceOverdue, inv.Status)
	otra, _ := repo.GetByID(sinEmitir.ID)
	assert.Equal(t, lifecycle.InvoiceDraft, otra.Status)
}
