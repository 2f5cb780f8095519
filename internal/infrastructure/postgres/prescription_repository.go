package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/clinica-pro/internal/domain/entity"
	"github.com/tu-usuario/clinica-pro/internal/domain/repository"
)

var _ repository.PrescriptionRepository = (*PrescriptionRepo)(nil)

// PrescriptionRepo implementación de PrescriptionRepository (usable con pool o tx).
// Medicines se guarda como JSONB: las líneas de una fórmula no se consultan sueltas.
type PrescriptionRepo struct {
	q Querier
}

// NewPrescriptionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPrescriptionRepository(q Querier) *PrescriptionRepo {
	return &PrescriptionRepo{q: q}
}

const prescriptionColumns = `id, clinic_id, patient_id, patient_name, date, medicines, notes, created_at, updated_at`

// Create persiste una nueva prescripción.
func (r *PrescriptionRepo) Create(p *entity.Prescription) error {
	medicines, err := json.Marshal(p.Medicines)
	if err != nil {
		return fmt.Errorf("marshal medicines: %w", err)
	}
	query := `
		INSERT INTO prescriptions (id, clinic_id, patient_id, patient_name, date, medicines, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.q.Exec(context.Background(), query,
		p.ID, p.ClinicID, p.PatientID, p.PatientName, p.Date, medicines, p.Notes,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert prescription: %w", err)
	}
	return nil
}

// Update actualiza una prescripción.
func (r *PrescriptionRepo) Update(p *entity.Prescription) error {
	medicines, err := json.Marshal(p.Medicines)
	if err != nil {
		return fmt.Errorf("marshal medicines: %w", err)
	}
	query := `
		UPDATE prescriptions
		SET patient_id = $2, patient_name = $3, date = $4, medicines = $5, notes = $6, updated_at = $7
		WHERE id = $1`
	_, err = r.q.Exec(context.Background(), query,
		p.ID, p.PatientID, p.PatientName, p.Date, medicines, p.Notes, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update prescription: %w", err)
	}
	return nil
}

// Delete elimina una prescripción por ID.
func (r *PrescriptionRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM prescriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete prescription: %w", err)
	}
	return nil
}

// GetByID obtiene una prescripción por ID.
func (r *PrescriptionRepo) GetByID(id string) (*entity.Prescription, error) {
	query := `SELECT ` + prescriptionColumns + ` FROM prescriptions WHERE id = $1`
	p, err := scanPrescription(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get prescription: %w", err)
	}
	return p, nil
}

// ListByClinic lista prescripciones de la clínica, más reciente primero.
func (r *PrescriptionRepo) ListByClinic(clinicID string, limit, offset int) ([]*entity.Prescription, error) {
	query := `SELECT ` + prescriptionColumns + ` FROM prescriptions WHERE clinic_id = $1 ORDER BY date DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, clinicID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list prescriptions: %w", err)
	}
	defer rows.Close()
	return scanPrescriptions(rows)
}

// ListByPatient lista las prescripciones de un paciente, más reciente primero.
func (r *PrescriptionRepo) ListByPatient(clinicID, patientID string) ([]*entity.Prescription, error) {
	query := `SELECT ` + prescriptionColumns + ` FROM prescriptions WHERE clinic_id = $1 AND patient_id = $2 ORDER BY date DESC`
	rows, err := r.q.Query(context.Background(), query, clinicID, patientID)
	if err != nil {
		return nil, fmt.Errorf("list prescriptions by patient: %w", err)
	}
	defer rows.Close()
	return scanPrescriptions(rows)
}

func scanPrescription(row pgx.Row) (*entity.Prescription, error) {
	var p entity.Prescription
	var medicines []byte
	if err := row.Scan(&p.ID, &p.ClinicID, &p.PatientID, &p.PatientName, &p.Date,
		&medicines, &p.Notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(medicines, &p.Medicines); err != nil {
		return nil, fmt.Errorf("unmarshal medicines: %w", err)
	}
	return &p, nil
}

func scanPrescriptions(rows pgx.Rows) ([]*entity.Prescription, error) {
	var list []*entity.Prescription
	for rows.Next() {
		p, err := scanPrescription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prescription: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
