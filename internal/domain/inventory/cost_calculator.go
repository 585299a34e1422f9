package inventory

import (
	"github.com/jhoicas/compras-api/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultCostScale es la precisión (decimales) con la que se persiste el costo promedio.
// Equivale a la unidad menor de la moneda.
const DefaultCostScale int32 = 2

// CostPolicy implementa la lógica de costo promedio ponderado (servicio de dominio).
// El promedio se deriva del valor del inventario, que se lleva exacto; solo el costo
// persistido se redondea, igual en entradas y reversiones.
type CostPolicy struct {
	Scale int32
}

// NewCostPolicy construye la política; una escala negativa se trata como 0.
func NewCostPolicy(scale int32) CostPolicy {
	if scale < 0 {
		scale = 0
	}
	return CostPolicy{Scale: scale}
}

// Position es el estado valorizado de un producto: stock y valor total del inventario.
// Value equivale a stock * costo sin redondear.
type Position struct {
	Stock decimal.Decimal
	Value decimal.Decimal
}

// NewPosition valoriza un stock de apertura a su costo.
func NewPosition(stock, cost decimal.Decimal) Position {
	return Position{Stock: stock, Value: stock.Mul(cost)}
}

// Result es el nuevo estado de un producto tras aplicar o revertir una línea.
type Result struct {
	Stock decimal.Decimal
	Value decimal.Decimal
	Cost  decimal.Decimal
}

// Position devuelve el estado valorizado resultante.
func (r Result) Position() Position {
	return Position{Stock: r.Stock, Value: r.Value}
}

// ApplyInbound suma una entrada al stock y mezcla su costo en el promedio.
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func (p CostPolicy) ApplyInbound(pos Position, quantity, unitCost decimal.Decimal) (Result, error) {
	return p.blend(pos.Stock.Add(quantity), pos.Value.Add(quantity.Mul(unitCost)))
}

// ReverseInbound retira una entrada registrada previamente y descuenta su aporte al promedio.
// NuevoCosto = ((StockActual * CostoActual) - (CantEntrada * CostoEntrada)) / (StockActual - CantEntrada)
// Al restar sobre el valor exacto, aplicar y revertir la misma línea devuelve el estado original.
func (p CostPolicy) ReverseInbound(pos Position, quantity, unitCost decimal.Decimal) (Result, error) {
	return p.blend(pos.Stock.Sub(quantity), pos.Value.Sub(quantity.Mul(unitCost)))
}

func (p CostPolicy) blend(newStock, value decimal.Decimal) (Result, error) {
	if newStock.IsZero() {
		return Result{}, domain.ErrInvalidCostRecalculation
	}
	return Result{
		Stock: newStock,
		Value: value,
		Cost:  value.DivRound(newStock, p.Scale),
	}, nil
}
