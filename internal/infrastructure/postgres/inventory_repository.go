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

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventoryColumns = `id, clinic_id, sku, name, description, category, unit,
	current_stock, minimum_stock, reorder_point, price,
	COALESCE(supplier_id, ''), location, expiry_date, last_restocked, created_at, updated_at`

// Create persiste un nuevo item de inventario.
func (r *InventoryRepo) Create(item *entity.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (id, clinic_id, sku, name, description, category, unit,
			current_stock, minimum_stock, reorder_point, price,
			supplier_id, location, expiry_date, last_restocked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.ClinicID, item.SKU, item.Name, item.Description, item.Category, item.Unit,
		item.CurrentStock, item.MinimumStock, item.ReorderPoint, item.Price,
		nullIfEmpty(item.SupplierID), item.Location, item.ExpiryDate, item.LastRestocked,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert inventory item: %w", err)
	}
	return nil
}

// Update actualiza los datos maestros del item (el stock va por AdjustStock).
func (r *InventoryRepo) Update(item *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET name = $2, description = $3, category = $4, unit = $5,
		    minimum_stock = $6, reorder_point = $7, price = $8,
		    supplier_id = $9, location = $10, expiry_date = $11, updated_at = $12
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, item.Description, item.Category, item.Unit,
		item.MinimumStock, item.ReorderPoint, item.Price,
		nullIfEmpty(item.SupplierID), item.Location, item.ExpiryDate, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update inventory item: %w", err)
	}
	return nil
}

// Delete elimina un item por ID.
func (r *InventoryRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	return nil
}

// GetByID obtiene un item por ID.
func (r *InventoryRepo) GetByID(id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE id = $1`
	item, err := scanInventoryItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return item, nil
}

// GetBySKU obtiene un item por SKU dentro de la clínica.
func (r *InventoryRepo) GetBySKU(clinicID, sku string) (*entity.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE clinic_id = $1 AND sku = $2`
	item, err := scanInventoryItem(r.q.QueryRow(context.Background(), query, clinicID, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory item by sku: %w", err)
	}
	return item, nil
}

// ListByClinic lista el inventario de la clínica con paginación.
func (r *InventoryRepo) ListByClinic(clinicID string, limit, offset int) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE clinic_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, clinicID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	defer rows.Close()
	return scanInventoryItems(rows)
}

// AdjustStock suma delta al stock de forma atómica y devuelve el stock
// resultante. El CHECK de la columna impide dejarlo negativo: la violación se
// reporta como stock insuficiente.
func (r *InventoryRepo) AdjustStock(id string, delta int64) (int64, error) {
	query := `
		UPDATE inventory_items
		SET current_stock = current_stock + $2,
		    last_restocked = CASE WHEN $2 > 0 THEN now() ELSE last_restocked END,
		    updated_at = now()
		WHERE id = $1
		RETURNING current_stock`
	var stock int64
	if err := r.q.QueryRow(context.Background(), query, id, delta).Scan(&stock); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		if isCheckViolation(err) {
			return 0, domain.ErrInsufficientStock
		}
		return 0, fmt.Errorf("adjust stock: %w", err)
	}
	return stock, nil
}

// ListLowStock lista items en o por debajo del punto de reorden.
func (r *InventoryRepo) ListLowStock(clinicID string) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items
		WHERE clinic_id = $1 AND current_stock <= reorder_point ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, clinicID)
	if err != nil {
		return nil, fmt.Errorf("list low stock items: %w", err)
	}
	defer rows.Close()
	return scanInventoryItems(rows)
}

func scanInventoryItem(row pgx.Row) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	err := row.Scan(
		&it.ID, &it.ClinicID, &it.SKU, &it.Name, &it.Description, &it.Category, &it.Unit,
		&it.CurrentStock, &it.MinimumStock, &it.ReorderPoint, &it.Price,
		&it.SupplierID, &it.Location, &it.ExpiryDate, &it.LastRestocked,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func scanInventoryItems(rows pgx.Rows) ([]*entity.InventoryItem, error) {
	var list []*entity.InventoryItem
	for rows.Next() {
		it, err := scanInventoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}
