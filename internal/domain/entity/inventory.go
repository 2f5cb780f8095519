package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem insumo o medicamento en el inventario de la clínica.
type InventoryItem struct {
	ID            string
	ClinicID      string
	SKU           string
	Name          string
	Description   string
	Category      string
	Unit          string
	CurrentStock  int64
	MinimumStock  int64
	ReorderPoint  int64
	Price         decimal.Decimal
	SupplierID    string
	Location      string
	ExpiryDate    *time.Time
	LastRestocked *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LowStock reporta si el item está en o por debajo del punto de reorden.
func (i *InventoryItem) LowStock() bool {
	return i.CurrentStock <= i.ReorderPoint
}

// Supplier proveedor de insumos.
type Supplier struct {
	ID           string
	ClinicID     string
	Name         string
	ContactName  string
	ContactEmail string
	ContactPhone string
	Address      string
	TaxID        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Estados de una orden de compra.
const (
	PODraft     = "draft"
	POPending   = "pending"
	POApproved  = "approved"
	POOrdered   = "ordered"
	POReceived  = "received"
	POCancelled = "cancelled"
)

// PurchaseOrder orden de compra a un proveedor. Sus totales salen del mismo
// calculador que las facturas (sin descuento).
type PurchaseOrder struct {
	ID                   string
	ClinicID             string
	PONumber             string // consecutivo por clínica (PO0001, ...)
	SupplierID           string
	Status               string // ver constantes PO*
	Subtotal             decimal.Decimal
	TaxRate              decimal.Decimal
	TaxAmount            decimal.Decimal
	Total                decimal.Decimal
	Notes                string
	ExpectedDeliveryDate *time.Time
	ReceivedDate         *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// PurchaseOrderItem línea de una orden de compra, referencia un item del inventario.
type PurchaseOrderItem struct {
	ID        string
	OrderID   string
	ItemID    string
	Name      string
	Quantity  int64
	UnitPrice decimal.Decimal
	Amount    decimal.Decimal
}
