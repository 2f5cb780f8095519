package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItemFormData body para crear/actualizar un item de inventario.
type InventoryItemFormData struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Category     string          `json:"category,omitempty"`
	Unit         string          `json:"unit,omitempty"`
	CurrentStock int64           `json:"current_stock"`
	MinimumStock int64           `json:"minimum_stock"`
	ReorderPoint int64           `json:"reorder_point"`
	Price        decimal.Decimal `json:"price"`
	SupplierID   string          `json:"supplier_id,omitempty"`
	Location     string          `json:"location,omitempty"`
	ExpiryDate   *time.Time      `json:"expiry_date,omitempty"`
}

// InventoryItemResponse item en respuestas.
type InventoryItemResponse struct {
	ID            string          `json:"id"`
	ClinicID      string          `json:"clinic_id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Category      string          `json:"category,omitempty"`
	Unit          string          `json:"unit,omitempty"`
	CurrentStock  int64           `json:"current_stock"`
	MinimumStock  int64           `json:"minimum_stock"`
	ReorderPoint  int64           `json:"reorder_point"`
	LowStock      bool            `json:"low_stock"`
	Price         decimal.Decimal `json:"price"`
	SupplierID    string          `json:"supplier_id,omitempty"`
	Location      string          `json:"location,omitempty"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty"`
	LastRestocked *time.Time      `json:"last_restocked,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// AdjustStockRequest body para POST /api/inventory/:id/adjustments.
// Delta positivo entra stock, negativo sale.
type AdjustStockRequest struct {
	Delta  int64  `json:"delta"`
	Reason string `json:"reason,omitempty"`
}

// SupplierFormData body para crear/actualizar un proveedor.
type SupplierFormData struct {
	Name         string `json:"name"`
	ContactName  string `json:"contact_name,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
	Address      string `json:"address,omitempty"`
	TaxID        string `json:"tax_id,omitempty"`
}

// SupplierResponse proveedor en respuestas.
type SupplierResponse struct {
	ID           string    `json:"id"`
	ClinicID     string    `json:"clinic_id"`
	Name         string    `json:"name"`
	ContactName  string    `json:"contact_name,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	TaxID        string    `json:"tax_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PurchaseOrderItemRequest línea de una orden de compra.
type PurchaseOrderItemRequest struct {
	ItemID    string          `json:"item_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// PurchaseOrderFormData body para crear una orden de compra.
type PurchaseOrderFormData struct {
	SupplierID           string                     `json:"supplier_id"`
	Items                []PurchaseOrderItemRequest `json:"items"`
	TaxRate              decimal.Decimal            `json:"tax_rate"`
	Notes                string                     `json:"notes,omitempty"`
	ExpectedDeliveryDate *time.Time                 `json:"expected_delivery_date,omitempty"`
}

// PurchaseOrderItemResponse línea en la respuesta.
type PurchaseOrderItemResponse struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// PurchaseOrderResponse orden de compra con detalle.
type PurchaseOrderResponse struct {
	ID                   string                      `json:"id"`
	ClinicID             string                      `json:"clinic_id"`
	PONumber             string                      `json:"po_number"`
	SupplierID           string                      `json:"supplier_id"`
	Status               string                      `json:"status"`
	Subtotal             decimal.Decimal             `json:"subtotal"`
	TaxRate              decimal.Decimal             `json:"tax_rate"`
	TaxAmount            decimal.Decimal             `json:"tax_amount"`
	Total                decimal.Decimal             `json:"total"`
	Notes                string                      `json:"notes,omitempty"`
	ExpectedDeliveryDate *time.Time                  `json:"expected_delivery_date,omitempty"`
	ReceivedDate         *time.Time                  `json:"received_date,omitempty"`
	Items                []PurchaseOrderItemResponse `json:"items"`
	CreatedAt            time.Time                   `json:"created_at"`
	UpdatedAt            time.Time                   `json:"updated_at"`
}
