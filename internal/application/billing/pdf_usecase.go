package billing

import (
	"context"
	"fmt"

	"github.com/tu-usuario/clinica-pro/internal/domain"
	"github.com/tu-usuario/clinica-pro/internal/domain/lifecycle"
	"github.com/tu-usuario/clinica-pro/internal/domain/repository"
)

// PDFUseCase genera la representación imprimible de una factura.
// Los borradores no se exportan: primero se emite, luego se imprime.
type PDFUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	clinicRepo   repository.ClinicRepository
	settingsRepo repository.SettingsRepository
	generator    InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	clinicRepo repository.ClinicRepository,
	settingsRepo repository.SettingsRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo:  invoiceRepo,
		clinicRepo:   clinicRepo,
		settingsRepo: settingsRepo,
		generator:    generator,
	}
}

// DownloadInvoicePDF carga la factura, verifica pertenencia y que no esté en
// borrador, y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
//   - domain.ErrForbidden        si la factura no pertenece a la clínica del token.
//   - domain.ErrInvalidInput     si la factura sigue en draft.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, clinicID, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	if inv.ClinicID != clinicID {
		return nil, "", domain.ErrForbidden
	}
	if inv.Status == lifecycle.InvoiceDraft {
		return nil, "", domain.ErrInvalidInput
	}

	clinic, err := uc.clinicRepo.GetByID(clinicID)
	if err != nil || clinic == nil {
		return nil, "", domain.ErrNotFound
	}
	settings, _ := uc.settingsRepo.Get(clinicID)

	items, err := uc.invoiceRepo.GetItemsByInvoiceID(inv.ID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener líneas: %w", err)
	}

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv, clinic, settings, items)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar: %w", err)
	}
	return pdfBytes, fmt.Sprintf("factura_%s.pdf", inv.Number), nil
}
