package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseLineRequest una línea de compra: producto, cantidad recibida y costo unitario.
// Cantidad y costo son opcionales; si faltan cuentan como 0.
type PurchaseLineRequest struct {
	ProductID string           `json:"product_id" validate:"required,notblank"`
	Quantity  *decimal.Decimal `json:"quantity" validate:"omitempty,gte=0"`
	UnitCost  *decimal.Decimal `json:"unit_cost" validate:"omitempty,gte=0"`
}

// PurchaseRequest body para POST y PUT /api/purchases.
// Items es el formato preferido; Item/Cost/Quantity son los arreglos paralelos del
// formulario anterior y solo se leen si Items viene vacío.
type PurchaseRequest struct {
	Supplier        string                `json:"supplier"`
	ReferenceNumber string                `json:"reference_number" validate:"max=150"`
	Notes           string                `json:"notes"`
	Date            string                `json:"date" validate:"required,purchasedate"`
	ShipmentName    string                `json:"shipment_name" validate:"max=150"`
	PackageCountry  string                `json:"package_country" validate:"max=255"`
	Mode            string                `json:"mode" validate:"max=255"`
	Barcode         string                `json:"barcode" validate:"max=255"`
	Items           []PurchaseLineRequest `json:"items" validate:"dive"`

	Item     []string           `json:"item" validate:"dive,required,notblank"`
	Cost     []*decimal.Decimal `json:"cost" validate:"dive,omitempty,gte=0"`
	Quantity []*decimal.Decimal `json:"quantity" validate:"dive,omitempty,gte=0"`
}

// PurchaseListQuery filtros de GET /api/purchases.
type PurchaseListQuery struct {
	PageRequest
	SearchQuery    string `query:"search_query"`
	SupplierName   string `query:"supplier_name"`
	Date           string `query:"date"`
	PurchaseNumber string `query:"purchase_number"`
}

// PurchaseDetailResponse salida de una línea de compra.
type PurchaseDetailResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	Cost          decimal.Decimal `json:"cost"`
	Quantity      decimal.Decimal `json:"quantity"`
	LineTotalCost decimal.Decimal `json:"line_total_cost"`
}

// PurchaseResponse salida de una compra con sus líneas.
type PurchaseResponse struct {
	ID              string                   `json:"id"`
	SupplierID      *string                  `json:"supplier_id"`
	ReferenceNumber string                   `json:"reference_number"`
	Notes           string                   `json:"notes"`
	Date            string                   `json:"date"`
	ShipmentName    string                   `json:"shipment_name"`
	PackageCountry  string                   `json:"package_country"`
	Mode            string                   `json:"mode"`
	Barcode         string                   `json:"barcode"`
	Details         []PurchaseDetailResponse `json:"purchase_details"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// PurchaseListProduct producto dentro de un grupo del listado.
// LineTotalCost = costo unitario * cantidad de la línea de compra que lo originó.
type PurchaseListProduct struct {
	ID                            string          `json:"id"`
	PurchaseID                    string          `json:"purchase_id"`
	FullName                      string          `json:"full_name"`
	Name                          string          `json:"name"`
	LineTotalCost                 decimal.Decimal `json:"line_total_cost"`
	WholesalePrice                decimal.Decimal `json:"wholesale_price"`
	RetailPrice                   decimal.Decimal `json:"retailsale_price"`
	ImageURL                      string          `json:"image_url"`
	Barcode                       *string         `json:"barcode"`
	WholesaleBarcode              *string         `json:"wholesale_barcode"`
	RetailBarcode                 *string         `json:"retail_barcode"`
	SKU                           *string         `json:"sku"`
	WholesaleSKU                  *string         `json:"wholesale_sku"`
	RetailSKU                     *string         `json:"retail_sku"`
	InStock                       decimal.Decimal `json:"in_stock"`
	TrackStock                    bool            `json:"track_stock"`
	ContinueSellingWhenOutOfStock bool            `json:"continue_selling_when_out_of_stock"`
}

// PurchaseListGroup agrupa las líneas del listado por categoría del producto.
type PurchaseListGroup struct {
	ID       *string               `json:"id"`
	Name     string                `json:"name"`
	ImageURL string                `json:"image_url"`
	Products []PurchaseListProduct `json:"products"`
}

// PurchaseListResponse salida de GET /api/purchases.
type PurchaseListResponse struct {
	Status string              `json:"status"`
	Data   []PurchaseListGroup `json:"data"`
	Page   PageResponse        `json:"page"`
}

// SupplierResponse proveedor en el formulario de compra.
type SupplierResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// FormProductResponse producto seleccionable en el formulario de compra.
type FormProductResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	FullName string          `json:"full_name"`
	SKU      string          `json:"sku,omitempty"`
	Barcode  string          `json:"barcode,omitempty"`
	ImageURL string          `json:"image_url"`
	InStock  decimal.Decimal `json:"in_stock"`
	Cost     decimal.Decimal `json:"cost"`
}

// CategoryWithProductsResponse categoría con sus productos.
type CategoryWithProductsResponse struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	ImageURL  string                `json:"image_url"`
	SortOrder int                   `json:"sort_order"`
	Products  []FormProductResponse `json:"products"`
}

// PurchaseFormResponse datos para GET /api/purchases/create.
type PurchaseFormResponse struct {
	Categories []CategoryWithProductsResponse `json:"categories"`
	Suppliers  []SupplierResponse             `json:"suppliers"`
	Currency   string                         `json:"currency"`
}
