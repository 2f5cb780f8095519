package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/clinica-pro/internal/application/dto"
	"github.com/tu-usuario/clinica-pro/internal/domain"
	"github.com/tu-usuario/clinica-pro/internal/domain/billing"
	"github.com/tu-usuario/clinica-pro/internal/domain/entity"
	"github.com/tu-usuario/clinica-pro/internal/domain/repository"
)

// Transiciones válidas de una orden de compra. received y cancelled son
// terminales.
var poTransitions = map[string][]string{
	entity.PODraft:    {entity.POPending, entity.POCancelled},
	entity.POPending:  {entity.POApproved, entity.POCancelled},
	entity.POApproved: {entity.POOrdered, entity.POCancelled},
	entity.POOrdered:  {entity.POReceived, entity.POCancelled},
}

func canTransitionPO(from, to string) bool {
	for _, next := range poTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// UseCase casos de uso de inventario: items, ajustes de stock, proveedores y
// órdenes de compra. Los totales de las órdenes salen del mismo calculador que
// las facturas, sin descuento.
type UseCase struct {
	txRunner     InventoryTxRunner
	itemRepo     repository.InventoryRepository
	supplierRepo repository.SupplierRepository
	poRepo       repository.PurchaseOrderRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner InventoryTxRunner,
	itemRepo repository.InventoryRepository,
	supplierRepo repository.SupplierRepository,
	poRepo repository.PurchaseOrderRepository,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		itemRepo:     itemRepo,
		supplierRepo: supplierRepo,
		poRepo:       poRepo,
	}
}

// ───────────────────────── Items ─────────────────────────

// CreateItem da de alta un item de inventario. El SKU es único por clínica.
func (uc *UseCase) CreateItem(ctx context.Context, clinicID string, in dto.InventoryItemFormData) (*dto.InventoryItemResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.CurrentStock < 0 || in.MinimumStock < 0 || in.ReorderPoint < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.itemRepo.GetBySKU(clinicID, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	item := &entity.InventoryItem{
		ID:           uuid.New().String(),
		ClinicID:     clinicID,
		SKU:          in.SKU,
		Name:         in.Name,
		Description:  in.Description,
		Category:     in.Category,
		Unit:         in.Unit,
		CurrentStock: in.CurrentStock,
		MinimumStock: in.MinimumStock,
		ReorderPoint: in.ReorderPoint,
		Price:        in.Price,
		SupplierID:   in.SupplierID,
		Location:     in.Location,
		ExpiryDate:   in.ExpiryDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.itemRepo.Create(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// UpdateItem actualiza los datos maestros del item. El stock no se edita por
// aquí: los cambios de stock pasan por AdjustStock o por recepción de órdenes.
func (uc *UseCase) UpdateItem(ctx context.Context, clinicID, itemID string, in dto.InventoryItemFormData) (*dto.InventoryItemResponse, error) {
	item, err := uc.ownedItem(clinicID, itemID)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		item.Name = in.Name
	}
	if in.Description != "" {
		item.Description = in.Description
	}
	if in.Category != "" {
		item.Category = in.Category
	}
	if in.Unit != "" {
		item.Unit = in.Unit
	}
	if in.MinimumStock >= 0 {
		item.MinimumStock = in.MinimumStock
	}
	if in.ReorderPoint >= 0 {
		item.ReorderPoint = in.ReorderPoint
	}
	if !in.Price.IsZero() {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item.Price = in.Price
	}
	if in.SupplierID != "" {
		item.SupplierID = in.SupplierID
	}
	if in.Location != "" {
		item.Location = in.Location
	}
	if in.ExpiryDate != nil {
		item.ExpiryDate = in.ExpiryDate
	}
	item.UpdatedAt = time.Now()
	if err := uc.itemRepo.Update(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// DeleteItem elimina el item.
func (uc *UseCase) DeleteItem(ctx context.Context, clinicID, itemID string) error {
	if _, err := uc.ownedItem(clinicID, itemID); err != nil {
		return err
	}
	return uc.itemRepo.Delete(itemID)
}

// GetItem obtiene un item verificando pertenencia.
func (uc *UseCase) GetItem(ctx context.Context, clinicID, itemID string) (*dto.InventoryItemResponse, error) {
	item, err := uc.ownedItem(clinicID, itemID)
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// ListItems lista el inventario de la clínica.
func (uc *UseCase) ListItems(ctx context.Context, clinicID string, page dto.PageRequest) ([]dto.InventoryItemResponse, error) {
	page.DefaultPage()
	list, err := uc.itemRepo.ListByClinic(clinicID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryItemResponse, 0, len(list))
	for _, item := range list {
		out = append(out, *toItemResponse(item))
	}
	return out, nil
}

// ListLowStock lista los items en o por debajo del punto de reorden.
func (uc *UseCase) ListLowStock(ctx context.Context, clinicID string) ([]dto.InventoryItemResponse, error) {
	list, err := uc.itemRepo.ListLowStock(clinicID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryItemResponse, 0, len(list))
	for _, item := range list {
		out = append(out, *toItemResponse(item))
	}
	return out, nil
}

// AdjustStock aplica un delta al stock del item. Un delta que dejaría el stock
// negativo se rechaza con ErrInsufficientStock y no escribe nada.
func (uc *UseCase) AdjustStock(ctx context.Context, clinicID, itemID string, in dto.AdjustStockRequest) (*dto.InventoryItemResponse, error) {
	item, err := uc.ownedItem(clinicID, itemID)
	if err != nil {
		return nil, err
	}
	if in.Delta == 0 {
		return nil, domain.ErrInvalidInput
	}
	if item.CurrentStock+in.Delta < 0 {
		return nil, domain.ErrInsufficientStock
	}
	newStock, err := uc.itemRepo.AdjustStock(item.ID, in.Delta)
	if err != nil {
		return nil, err
	}
	item.CurrentStock = newStock
	if in.Delta > 0 {
		now := time.Now()
		item.LastRestocked = &now
	}
	return toItemResponse(item), nil
}

func (uc *UseCase) ownedItem(clinicID, itemID string) (*entity.InventoryItem, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.ClinicID != clinicID {
		return nil, domain.ErrForbidden
	}
	return item, nil
}

// ───────────────────────── Proveedores ─────────────────────────

// CreateSupplier da de alta un proveedor.
func (uc *UseCase) CreateSupplier(ctx context.Context, clinicID string, in dto.SupplierFormData) (*dto.SupplierResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	s := &entity.Supplier{
		ID:           uuid.New().String(),
		ClinicID:     clinicID,
		Name:         in.Name,
		ContactName:  in.ContactName,
		ContactEmail: in.ContactEmail,
		ContactPhone: in.ContactPhone,
		Address:      in.Address,
		TaxID:        in.TaxID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.supplierRepo.Create(s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// UpdateSupplier actualiza un proveedor.
func (uc *UseCase) UpdateSupplier(ctx context.Context, clinicID, supplierID string, in dto.SupplierFormData) (*dto.SupplierResponse, error) {
	s, err := uc.ownedSupplier(clinicID, supplierID)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		s.Name = in.Name
	}
	if in.ContactName != "" {
		s.ContactName = in.ContactName
	}
	if in.ContactEmail != "" {
		s.ContactEmail = in.ContactEmail
	}
	if in.ContactPhone != "" {
		s.ContactPhone = in.ContactPhone
	}
	if in.Address != "" {
		s.Address = in.Address
	}
	if in.TaxID != "" {
		s.TaxID = in.TaxID
	}
	s.UpdatedAt = time.Now()
	if err := uc.supplierRepo.Update(s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// ListSuppliers lista los proveedores de la clínica.
func (uc *UseCase) ListSuppliers(ctx context.Context, clinicID string) ([]dto.SupplierResponse, error) {
	list, err := uc.supplierRepo.ListByClinic(clinicID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSupplierResponse(s))
	}
	return out, nil
}

func (uc *UseCase) ownedSupplier(clinicID, supplierID string) (*entity.Supplier, error) {
	s, err := uc.supplierRepo.GetByID(supplierID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if s.ClinicID != clinicID {
		return nil, domain.ErrForbidden
	}
	return s, nil
}

// ───────────────────────── Órdenes de compra ─────────────────────────

// CreateOrder crea una orden de compra en draft con consecutivo por clínica.
// Cada línea referencia un item existente; los totales se derivan con el
// calculador de facturación sin descuento.
func (uc *UseCase) CreateOrder(ctx context.Context, clinicID string, in dto.PurchaseOrderFormData) (*dto.PurchaseOrderResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.ownedSupplier(clinicID, in.SupplierID); err != nil {
		return nil, err
	}

	lines := make([]billing.LineItem, 0, len(in.Items))
	refs := make([]*entity.InventoryItem, 0, len(in.Items))
	for _, req := range in.Items {
		item, err := uc.ownedItem(clinicID, req.ItemID)
		if err != nil {
			return nil, err
		}
		line, err := billing.NewLineItem(item.Name, req.Quantity, req.UnitPrice)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
		refs = append(refs, item)
	}
	totals := billing.ComputeTotals(lines, decimal.Zero, in.TaxRate)

	now := time.Now()
	po := &entity.PurchaseOrder{
		ID:                   uuid.New().String(),
		ClinicID:             clinicID,
		SupplierID:           in.SupplierID,
		Status:               entity.PODraft,
		Subtotal:             totals.Subtotal,
		TaxRate:              totals.TaxRate,
		TaxAmount:            totals.TaxAmount,
		Total:                totals.Total,
		Notes:                in.Notes,
		ExpectedDeliveryDate: in.ExpectedDeliveryDate,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	items := make([]*entity.PurchaseOrderItem, 0, len(lines))
	for i, line := range lines {
		items = append(items, &entity.PurchaseOrderItem{
			ID:        uuid.New().String(),
			OrderID:   po.ID,
			ItemID:    refs[i].ID,
			Name:      line.Description,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Amount:    line.Amount,
		})
	}

	err := uc.txRunner.RunInventory(ctx, func(poRepo repository.PurchaseOrderRepository, _ repository.InventoryRepository) error {
		seq, err := poRepo.NextSequence(clinicID)
		if err != nil {
			return err
		}
		po.PONumber = fmt.Sprintf("PO%04d", seq)
		if err := poRepo.Create(po); err != nil {
			return err
		}
		for _, item := range items {
			if err := poRepo.CreateItem(item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(po, items), nil
}

// UpdateOrderStatus avanza la orden por su ciclo de vida. Al recibirla, el
// stock de cada item referenciado se repone en la misma transacción.
func (uc *UseCase) UpdateOrderStatus(ctx context.Context, clinicID, orderID, status string) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.ownedOrder(clinicID, orderID)
	if err != nil {
		return nil, err
	}
	if !canTransitionPO(po.Status, status) {
		return nil, domain.ErrConflict
	}
	items, err := uc.poRepo.GetItemsByOrderID(po.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	po.Status = status
	po.UpdatedAt = now
	if status == entity.POReceived {
		po.ReceivedDate = &now
		err = uc.txRunner.RunInventory(ctx, func(poRepo repository.PurchaseOrderRepository, itemRepo repository.InventoryRepository) error {
			if err := poRepo.Update(po); err != nil {
				return err
			}
			for _, it := range items {
				if _, err := itemRepo.AdjustStock(it.ItemID, it.Quantity); err != nil {
					return err
				}
			}
			return nil
		})
	} else {
		err = uc.poRepo.Update(po)
	}
	if err != nil {
		return nil, err
	}
	return toOrderResponse(po, items), nil
}

// GetOrder obtiene una orden con su detalle.
func (uc *UseCase) GetOrder(ctx context.Context, clinicID, orderID string) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.ownedOrder(clinicID, orderID)
	if err != nil {
		return nil, err
	}
	items, err := uc.poRepo.GetItemsByOrderID(po.ID)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(po, items), nil
}

// ListOrders lista órdenes de la clínica, opcionalmente por estado.
func (uc *UseCase) ListOrders(ctx context.Context, clinicID, status string, page dto.PageRequest) ([]dto.PurchaseOrderResponse, error) {
	page.DefaultPage()
	list, err := uc.poRepo.ListByClinic(clinicID, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, po := range list {
		out = append(out, *toOrderResponse(po, nil))
	}
	return out, nil
}

func (uc *UseCase) ownedOrder(clinicID, orderID string) (*entity.PurchaseOrder, error) {
	po, err := uc.poRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	if po.ClinicID != clinicID {
		return nil, domain.ErrForbidden
	}
	return po, nil
}

// ───────────────────────── Mapeos ─────────────────────────

func toItemResponse(item *entity.InventoryItem) *dto.InventoryItemResponse {
	return &dto.InventoryItemResponse{
		ID:            item.ID,
		ClinicID:      item.ClinicID,
		SKU:           item.SKU,
		Name:          item.Name,
		Description:   item.Description,
		Category:      item.Category,
		Unit:          item.Unit,
		CurrentStock:  item.CurrentStock,
		MinimumStock:  item.MinimumStock,
		ReorderPoint:  item.ReorderPoint,
		LowStock:      item.LowStock(),
		Price:         item.Price,
		SupplierID:    item.SupplierID,
		Location:      item.Location,
		ExpiryDate:    item.ExpiryDate,
		LastRestocked: item.LastRestocked,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:           s.ID,
		ClinicID:     s.ClinicID,
		Name:         s.Name,
		ContactName:  s.ContactName,
		ContactEmail: s.ContactEmail,
		ContactPhone: s.ContactPhone,
		Address:      s.Address,
		TaxID:        s.TaxID,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func toOrderResponse(po *entity.PurchaseOrder, items []*entity.PurchaseOrderItem) *dto.PurchaseOrderResponse {
	resp := &dto.PurchaseOrderResponse{
		ID:                   po.ID,
		ClinicID:             po.ClinicID,
		PONumber:             po.PONumber,
		SupplierID:           po.SupplierID,
		Status:               po.Status,
		Subtotal:             po.Subtotal,
		TaxRate:              po.TaxRate,
		TaxAmount:            po.TaxAmount,
		Total:                po.Total,
		Notes:                po.Notes,
		ExpectedDeliveryDate: po.ExpectedDeliveryDate,
		ReceivedDate:         po.ReceivedDate,
		Items:                make([]dto.PurchaseOrderItemResponse, 0, len(items)),
		CreatedAt:            po.CreatedAt,
		UpdatedAt:            po.UpdatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.PurchaseOrderItemResponse{
			ID:        it.ID,
			ItemID:    it.ItemID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Amount:    it.Amount,
		})
	}
	return resp
}
