package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/clinica-pro/internal/domain/entity"
	"github.com/tu-usuario/clinica-pro/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación de PurchaseOrderRepository (usable con pool o tx).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const purchaseOrderColumns = `id, clinic_id, po_number, supplier_id, status,
	subtotal, tax_rate, tax_amount, total, notes,
	expected_delivery_date, received_date, created_at, updated_at`

// Create persiste la cabecera de la orden.
func (r *PurchaseOrderRepo) Create(po *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (id, clinic_id, po_number, supplier_id, status,
			subtotal, tax_rate, tax_amount, total, notes,
			expected_delivery_date, received_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		po.ID, po.ClinicID, po.PONumber, po.SupplierID, po.Status,
		po.Subtotal, po.TaxRate, po.TaxAmount, po.Total, po.Notes,
		po.ExpectedDeliveryDate, po.ReceivedDate, po.CreatedAt, po.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("po number already exists: %w", err)
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de la orden.
func (r *PurchaseOrderRepo) CreateItem(item *entity.PurchaseOrderItem) error {
	query := `
		INSERT INTO purchase_order_items (id, order_id, item_id, name, quantity, unit_price, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.OrderID, item.ItemID, item.Name, item.Quantity, item.UnitPrice, item.Amount,
	)
	if err != nil {
		return fmt.Errorf("insert purchase order item: %w", err)
	}
	return nil
}

// Update actualiza el estado y fechas de la orden.
func (r *PurchaseOrderRepo) Update(po *entity.PurchaseOrder) error {
	query := `
		UPDATE purchase_orders
		SET status = $2, notes = $3, expected_delivery_date = $4, received_date = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		po.ID, po.Status, po.Notes, po.ExpectedDeliveryDate, po.ReceivedDate, po.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una orden por ID.
func (r *PurchaseOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders WHERE id = $1`
	po, err := scanPurchaseOrder(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	return po, nil
}

// GetItemsByOrderID obtiene las líneas de una orden.
func (r *PurchaseOrderRepo) GetItemsByOrderID(orderID string) ([]*entity.PurchaseOrderItem, error) {
	query := `
		SELECT id, order_id, item_id, name, quantity, unit_price, amount
		FROM purchase_order_items WHERE order_id = $1 ORDER BY ctid`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list purchase order items: %w", err)
	}
	defer rows.Close()
	var items []*entity.PurchaseOrderItem
	for rows.Next() {
		var it entity.PurchaseOrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ItemID, &it.Name, &it.Quantity, &it.UnitPrice, &it.Amount); err != nil {
			return nil, fmt.Errorf("scan purchase order item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// ListByClinic lista órdenes de la clínica, opcionalmente por estado, más reciente primero.
func (r *PurchaseOrderRepo) ListByClinic(clinicID string, status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders WHERE clinic_id = $1`
	args := []any{clinicID}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, po)
	}
	return list, rows.Err()
}

// NextSequence devuelve el siguiente consecutivo de orden por clínica.
func (r *PurchaseOrderRepo) NextSequence(clinicID string) (int64, error) {
	query := `
		INSERT INTO purchase_order_sequences (clinic_id, last_number)
		VALUES ($1, 1)
		ON CONFLICT (clinic_id)
		DO UPDATE SET last_number = purchase_order_sequences.last_number + 1
		RETURNING last_number`
	var seq int64
	if err := r.q.QueryRow(context.Background(), query, clinicID).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next purchase order sequence: %w", err)
	}
	return seq, nil
}

func scanPurchaseOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := row.Scan(
		&po.ID, &po.ClinicID, &po.PONumber, &po.SupplierID, &po.Status,
		&po.Subtotal, &po.TaxRate, &po.TaxAmount, &po.Total, &po.Notes,
		&po.ExpectedDeliveryDate, &po.ReceivedDate, &po.CreatedAt, &po.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &po, nil
}
