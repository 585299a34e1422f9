package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario referenciado por las compras.
// InStock, StockValue y Cost los mantiene el motor de costo promedio; el resto es descriptivo.
type Product struct {
	ID                            string
	CategoryID                    *string
	Name                          string
	FullName                      string
	ImageURL                      string
	Barcode                       string
	WholesaleBarcode              string
	RetailBarcode                 string
	SKU                           string
	WholesaleSKU                  string
	RetailSKU                     string
	WholesalePrice                decimal.Decimal
	RetailPrice                   decimal.Decimal
	InStock                       decimal.Decimal // puede quedar negativo tras reversiones
	StockValue                    decimal.Decimal // valor exacto del inventario (stock * costo sin redondear)
	Cost                          decimal.Decimal // costo promedio ponderado, redondeado
	TrackStock                    bool
	ContinueSellingWhenOutOfStock bool
	CreatedAt                     time.Time
	UpdatedAt                     time.Time
}

// DisplayName devuelve FullName si existe, si no Name.
func (p *Product) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Name
}

// Clone devuelve una copia independiente del producto.
func (p *Product) Clone() *Product {
	c := *p
	if p.CategoryID != nil {
		id := *p.CategoryID
		c.CategoryID = &id
	}
	return &c
}
