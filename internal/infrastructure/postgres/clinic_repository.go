package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/clinica-pro/internal/domain"
	"github.com/tu-usuario/clinica-pro/internal/domain/entity"
	"github.com/tu-usuario/clinica-pro/internal/domain/repository"
)

var _ repository.ClinicRepository = (*ClinicRepo)(nil)

// ClinicRepo implementación de ClinicRepository (usable con pool o tx).
type ClinicRepo struct {
	q Querier
}

// NewClinicRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClinicRepository(q Querier) *ClinicRepo {
	return &ClinicRepo{q: q}
}

// Create persiste una nueva clínica.
func (r *ClinicRepo) Create(clinic *entity.Clinic) error {
	query := `
		INSERT INTO clinics (id, name, tax_id, address, phone, email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		clinic.ID, clinic.Name, nullIfEmpty(clinic.TaxID), clinic.Address, clinic.Phone,
		clinic.Email, clinic.Status, clinic.CreatedAt, clinic.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert clinic: %w", err)
	}
	return nil
}

// GetByID obtiene una clínica por ID.
func (r *ClinicRepo) GetByID(id string) (*entity.Clinic, error) {
	query := `
		SELECT id, name, COALESCE(tax_id, ''), address, phone, email, status, created_at, updated_at
		FROM clinics WHERE id = $1`
	var c entity.Clinic
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.Name, &c.TaxID, &c.Address, &c.Phone, &c.Email, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get clinic: %w", err)
	}
	return &c, nil
}

// Update actualiza una clínica.
func (r *ClinicRepo) Update(clinic *entity.Clinic) error {
	query := `
		UPDATE clinics SET name = $2, tax_id = $3, address = $4, phone = $5, email = $6, status = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		clinic.ID, clinic.Name, nullIfEmpty(clinic.TaxID), clinic.Address, clinic.Phone,
		clinic.Email, clinic.Status, clinic.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update clinic: %w", err)
	}
	return nil
}

// List lista clínicas con paginación.
func (r *ClinicRepo) List(limit, offset int) ([]*entity.Clinic, error) {
	query := `
		SELECT id, name, COALESCE(tax_id, ''), address, phone, email, status, created_at, updated_at
		FROM clinics ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clinics: %w", err)
	}
	defer rows.Close()
	var list []*entity.Clinic
	for rows.Next() {
		var c entity.Clinic
		if err := rows.Scan(&c.ID, &c.Name, &c.TaxID, &c.Address, &c.Phone, &c.Email, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan clinic: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
