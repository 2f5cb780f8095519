package inventory

import (
	"context"

	"github.com/tu-usuario/clinica-pro/internal/domain/repository"
)

// InventoryTxRunner ejecuta una función dentro de una transacción con los repos
// de órdenes e inventario atados a la tx. Recibir una orden cambia su estado y
// repone stock de varios items: todo junto o nada.
type InventoryTxRunner interface {
	RunInventory(ctx context.Context, fn func(poRepo repository.PurchaseOrderRepository, itemRepo repository.InventoryRepository) error) error
}
