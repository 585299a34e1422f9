package entity

import "time"

// Modos de transporte habituales de un envío (valor libre, estos son los usados por el front).
const (
	ShipmentModeAir  = "air"
	ShipmentModeSea  = "sea"
	ShipmentModeLand = "land"
)

// Purchase representa la cabecera de una compra (envío de reposición de stock).
// Sus líneas (PurchaseDetail) se eliminan en cascada junto con la cabecera.
type Purchase struct {
	ID              string
	SupplierID      *string // nulo si la compra no tiene proveedor
	ReferenceNumber string
	Notes           string
	Date            time.Time
	ShipmentName    string
	PackageCountry  string
	Mode            string
	Barcode         string
	Details         []*PurchaseDetail
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Clone devuelve una copia profunda de la compra y sus líneas.
func (p *Purchase) Clone() *Purchase {
	c := *p
	if p.SupplierID != nil {
		id := *p.SupplierID
		c.SupplierID = &id
	}
	if p.Details != nil {
		c.Details = make([]*PurchaseDetail, len(p.Details))
		for i, d := range p.Details {
			dc := *d
			c.Details[i] = &dc
		}
	}
	return &c
}
