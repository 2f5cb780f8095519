// Package billing contiene el cálculo puro de totales de factura.
//
// Orden de derivación (fijo, no reordenar):
//
//	subtotal          = Σ línea.Amount
//	discountAmount    = subtotal * discountRate / 100
//	discountedSubtotal = subtotal - discountAmount
//	taxAmount         = discountedSubtotal * taxRate / 100
//	total             = discountedSubtotal + taxAmount
//
// Todas las funciones son deterministas y sin estado: mismo input, mismo output.
// La capa de persistencia nunca guarda un Amount que no haya pasado por aquí.
package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/clinica-pro/internal/domain"
)

// LineItem una línea facturable: descripción, cantidad, precio unitario y
// monto derivado (Quantity × UnitPrice). Amount nunca se acepta del cliente.
type LineItem struct {
	Description string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
}

// Totals snapshot consistente de los totales de una factura.
// Cambiar líneas, descuento o impuesto obliga a recalcular todo el snapshot.
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountRate   decimal.Decimal // 0–100
	DiscountAmount decimal.Decimal
	TaxRate        decimal.Decimal // 0–100
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
}

// ValidationError error de validación con el campo ofensor, para que la capa
// HTTP pueda renderizar un mensaje específico. Es un error recuperable.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var cien = decimal.NewFromInt(100)

// NewLineItem construye una línea recalculando Amount. Rechaza cantidad < 1
// y precio negativo; el caller debe descartar la edición, no almacenarla.
func NewLineItem(description string, quantity int64, unitPrice decimal.Decimal) (LineItem, error) {
	if quantity < 1 {
		return LineItem{}, &ValidationError{Field: "quantity", Message: "la cantidad debe ser al menos 1"}
	}
	if unitPrice.IsNegative() {
		return LineItem{}, &ValidationError{Field: "unit_price", Message: "el precio unitario no puede ser negativo"}
	}
	return LineItem{
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      decimal.NewFromInt(quantity).Mul(unitPrice),
	}, nil
}

// RecomputeQuantity devuelve la línea con la nueva cantidad y el Amount rederivado.
func RecomputeQuantity(item LineItem, quantity int64) (LineItem, error) {
	return NewLineItem(item.Description, quantity, item.UnitPrice)
}

// RecomputeUnitPrice devuelve la línea con el nuevo precio y el Amount rederivado.
func RecomputeUnitPrice(item LineItem, unitPrice decimal.Decimal) (LineItem, error) {
	return NewLineItem(item.Description, item.Quantity, unitPrice)
}

// ClampRate lleva una tasa porcentual al rango [0, 100].
func ClampRate(rate decimal.Decimal) decimal.Decimal {
	if rate.IsNegative() {
		return decimal.Zero
	}
	if rate.GreaterThan(cien) {
		return cien
	}
	return rate
}

// ComputeTotals deriva el snapshot completo de totales a partir de las líneas
// y las tasas. Pura: no muta las líneas ni arrastra acumuladores entre llamadas.
func ComputeTotals(items []LineItem, discountRate, taxRate decimal.Decimal) Totals {
	discountRate = ClampRate(discountRate)
	taxRate = ClampRate(taxRate)

	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Amount)
	}
	discountAmount := subtotal.Mul(discountRate).Div(cien)
	discountedSubtotal := subtotal.Sub(discountAmount)
	taxAmount := discountedSubtotal.Mul(taxRate).Div(cien)
	total := discountedSubtotal.Add(taxAmount)

	return Totals{
		Subtotal:       subtotal,
		DiscountRate:   discountRate,
		DiscountAmount: discountAmount,
		TaxRate:        taxRate,
		TaxAmount:      taxAmount,
		Total:          total,
	}
}

// RemoveLineItem quita la línea en idx y devuelve el slice resultante.
// La última línea no es removible: una factura nunca queda sin líneas.
func RemoveLineItem(items []LineItem, idx int) ([]LineItem, error) {
	if idx < 0 || idx >= len(items) {
		return items, &ValidationError{Field: "items", Message: "índice de línea fuera de rango"}
	}
	if len(items) == 1 {
		return items, domain.ErrLastLineItem
	}
	out := make([]LineItem, 0, len(items)-1)
	out = append(out, items[:idx]...)
	out = append(out, items[idx+1:]...)
	return out, nil
}
