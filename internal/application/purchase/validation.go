package purchase

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/compras-api/internal/application/dto"
	"github.com/jhoicas/compras-api/internal/domain"
)

// Line es una línea de compra ya validada.
type Line struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
}

// Input es la petición de compra ya validada y normalizada.
type Input struct {
	SupplierID      *string
	ReferenceNumber string
	Notes           string
	Date            time.Time
	ShipmentName    string
	PackageCountry  string
	Mode            string
	Barcode         string
	Lines           []Line
}

// LineScale es la precisión máxima de cantidad y costo unitario (columnas NUMERIC(18,4)).
const LineScale = 4

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseDate interpreta la fecha de la compra (ISO, con o sin hora).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Nombres de campo según el JSON de la petición.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	// decimal.Decimal se valida como número (gte, lte...).
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return 0.0
	}, decimal.Decimal{})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("purchasedate", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})
	return v
}

// ParseRequest valida la petición y la convierte en Input.
// Devuelve *domain.ValidationError o domain.ErrEmptyLineSet sin tocar ningún estado.
func ParseRequest(in dto.PurchaseRequest) (Input, error) {
	if err := validate.Struct(in); err != nil {
		return Input{}, toValidationError(err)
	}
	lines, err := normalizeLines(in)
	if err != nil {
		return Input{}, err
	}
	if err := checkLineScale(lines, len(in.Items) > 0); err != nil {
		return Input{}, err
	}
	date, err := ParseDate(in.Date)
	if err != nil {
		return Input{}, domain.NewValidationError("date", "purchasedate")
	}
	out := Input{
		ReferenceNumber: strings.TrimSpace(in.ReferenceNumber),
		Notes:           in.Notes,
		Date:            date,
		ShipmentName:    strings.TrimSpace(in.ShipmentName),
		PackageCountry:  strings.TrimSpace(in.PackageCountry),
		Mode:            strings.TrimSpace(in.Mode),
		Barcode:         strings.TrimSpace(in.Barcode),
		Lines:           lines,
	}
	if s := strings.TrimSpace(in.Supplier); s != "" {
		out.SupplierID = &s
	}
	return out, nil
}

// normalizeLines arma la lista ordenada de líneas desde Items o, si viene vacío,
// desde los arreglos paralelos item/cost/quantity emparejados por índice.
func normalizeLines(in dto.PurchaseRequest) ([]Line, error) {
	if len(in.Items) > 0 {
		lines := make([]Line, 0, len(in.Items))
		for _, it := range in.Items {
			lines = append(lines, Line{
				ProductID: strings.TrimSpace(it.ProductID),
				Quantity:  orZero(it.Quantity),
				UnitCost:  orZero(it.UnitCost),
			})
		}
		return lines, nil
	}
	if len(in.Item) == 0 {
		return nil, domain.ErrEmptyLineSet
	}
	fields := map[string]string{}
	if len(in.Cost) > 0 && len(in.Cost) != len(in.Item) {
		fields["cost"] = "len"
	}
	if len(in.Quantity) > 0 && len(in.Quantity) != len(in.Item) {
		fields["quantity"] = "len"
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}
	lines := make([]Line, 0, len(in.Item))
	for i, id := range in.Item {
		line := Line{ProductID: strings.TrimSpace(id)}
		if i < len(in.Cost) {
			line.UnitCost = orZero(in.Cost[i])
		}
		if i < len(in.Quantity) {
			line.Quantity = orZero(in.Quantity[i])
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// checkLineScale rechaza cantidades o costos con más decimales de los que se persisten,
// para que el valor del inventario coincida con las líneas guardadas.
func checkLineScale(lines []Line, structured bool) error {
	fields := map[string]string{}
	for i, l := range lines {
		qty, cost := fmt.Sprintf("quantity[%d]", i), fmt.Sprintf("cost[%d]", i)
		if structured {
			qty, cost = fmt.Sprintf("items[%d].quantity", i), fmt.Sprintf("items[%d].unit_cost", i)
		}
		if !l.Quantity.Equal(l.Quantity.Round(LineScale)) {
			fields[qty] = "decimals"
		}
		if !l.UnitCost.Equal(l.UnitCost.Round(LineScale)) {
			fields[cost] = "decimals"
		}
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func toValidationError(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	fields := make(map[string]string, len(ves))
	for _, fe := range ves {
		ns := fe.Namespace()
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			ns = ns[i+1:]
		}
		fields[ns] = fe.Tag()
	}
	return &domain.ValidationError{Fields: fields}
}
