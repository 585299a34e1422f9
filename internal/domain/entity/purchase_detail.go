package entity

import "github.com/shopspring/decimal"

// PurchaseDetail representa una línea de compra. Cost es el costo unitario pagado
// en esa compra y no cambia después de creada la línea.
type PurchaseDetail struct {
	ID         string
	PurchaseID string
	ProductID  string
	Cost       decimal.Decimal
	Quantity   decimal.Decimal
}

// LineTotalCost devuelve Cost * Quantity.
func (d *PurchaseDetail) LineTotalCost() decimal.Decimal {
	return d.Cost.Mul(d.Quantity)
}
