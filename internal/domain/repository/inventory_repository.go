package repository

import "github.com/tu-usuario/clinica-pro/internal/domain/entity"

// InventoryRepository define el puerto de persistencia para los items de inventario.
type InventoryRepository interface {
	Create(item *entity.InventoryItem) error
	Update(item *entity.InventoryItem) error
	Delete(id string) error
	GetByID(id string) (*entity.InventoryItem, error)
	GetBySKU(clinicID, sku string) (*entity.InventoryItem, error)
	ListByClinic(clinicID string, limit, offset int) ([]*entity.InventoryItem, error)
	// AdjustStock suma delta (puede ser negativo) al stock del item de forma
	// atómica y devuelve el stock resultante.
	AdjustStock(id string, delta int64) (int64, error)
	ListLowStock(clinicID string) ([]*entity.InventoryItem, error)
}

// SupplierRepository define el puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(s *entity.Supplier) error
	Update(s *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	ListByClinic(clinicID string) ([]*entity.Supplier, error)
}

// PurchaseOrderRepository define el puerto de persistencia para PurchaseOrder.
type PurchaseOrderRepository interface {
	Create(po *entity.PurchaseOrder) error
	CreateItem(item *entity.PurchaseOrderItem) error
	Update(po *entity.PurchaseOrder) error
	GetByID(id string) (*entity.PurchaseOrder, error)
	GetItemsByOrderID(orderID string) ([]*entity.PurchaseOrderItem, error)
	ListByClinic(clinicID string, status string, limit, offset int) ([]*entity.PurchaseOrder, error)
	NextSequence(clinicID string) (int64, error)
}
