package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Columnas esperadas (con cabecera): categoria;proveedor;sku;nombre;codigo_barras;stock;costo;precio_venta
const columns = 8

// namespace fija los UUID derivados para que regenerar el seed no duplique filas.
var namespace = uuid.MustParse("6b1f0c52-3c1e-4f7a-9d8e-2f4c1a7b9e10")

type catalogRow struct {
	Category    string
	Supplier    string
	SKU         string
	Name        string
	Barcode     string
	Stock       decimal.Decimal
	Cost        decimal.Decimal
	RetailPrice decimal.Decimal
}

type catalog struct {
	Categories []string
	Suppliers  []string
	Products   []catalogRow
}

// readCatalog lee el catálogo separado por ';'. Con latin1 decodifica ISO-8859-1 (exportaciones de Excel).
func readCatalog(r io.Reader, latin1 bool) (*catalog, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer CSV: %w", err)
	}
	if len(records) == 0 {
		return &catalog{}, nil
	}

	cats := map[string]struct{}{}
	sups := map[string]struct{}{}
	out := &catalog{}
	for i, rec := range records[1:] {
		line := i + 2
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) < columns {
			return nil, fmt.Errorf("línea %d: se esperaban %d columnas, hay %d", line, columns, len(rec))
		}
		row := catalogRow{
			Category: strings.TrimSpace(rec[0]),
			Supplier: strings.TrimSpace(rec[1]),
			SKU:      strings.TrimSpace(rec[2]),
			Name:     strings.TrimSpace(rec[3]),
			Barcode:  strings.TrimSpace(rec[4]),
		}
		if row.Name == "" {
			return nil, fmt.Errorf("línea %d: nombre vacío", line)
		}
		for _, f := range []struct {
			dst *decimal.Decimal
			raw string
			col string
		}{
			{&row.Stock, rec[5], "stock"},
			{&row.Cost, rec[6], "costo"},
			{&row.RetailPrice, rec[7], "precio_venta"},
		} {
			v, err := parseAmount(f.raw)
			if err != nil {
				return nil, fmt.Errorf("línea %d, %s: %w", line, f.col, err)
			}
			*f.dst = v
		}
		if row.Category != "" {
			cats[row.Category] = struct{}{}
		}
		if row.Supplier != "" {
			sups[row.Supplier] = struct{}{}
		}
		out.Products = append(out.Products, row)
	}
	out.Categories = sortedKeys(cats)
	out.Suppliers = sortedKeys(sups)
	return out, nil
}

// parseAmount acepta "1234.5", "1234,5" y "1.234,5". Vacío es 0.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func entityID(kind, key string) string {
	return uuid.NewSHA1(namespace, []byte(kind+":"+strings.ToLower(key))).String()
}

// writeSQL escribe el seed idempotente: categorías, proveedores y productos con stock y costo de apertura.
func writeSQL(w io.Writer, c *catalog) error {
	var b strings.Builder
	b.WriteString("-- Catálogo inicial (categorías, proveedores, productos)\n")
	b.WriteString("-- Generado por cmd/seed_catalog; no editar a mano.\n\n")

	if len(c.Categories) > 0 {
		b.WriteString("INSERT INTO categories (id, name, sort_order) VALUES\n")
		for i, name := range c.Categories {
			fmt.Fprintf(&b, "  ('%s', '%s', %d)%s\n", entityID("category", name), escapeSQL(name), i+1, sep(i, len(c.Categories)))
		}
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, sort_order = EXCLUDED.sort_order;\n\n")
	}

	if len(c.Suppliers) > 0 {
		b.WriteString("INSERT INTO suppliers (id, name) VALUES\n")
		for i, name := range c.Suppliers {
			fmt.Fprintf(&b, "  ('%s', '%s')%s\n", entityID("supplier", name), escapeSQL(name), sep(i, len(c.Suppliers)))
		}
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name;\n\n")
	}

	if len(c.Products) > 0 {
		b.WriteString("INSERT INTO products (id, category_id, name, sku, barcode, in_stock, cost, retail_price) VALUES\n")
		for i, p := range c.Products {
			category := "NULL"
			if p.Category != "" {
				category = "'" + entityID("category", p.Category) + "'"
			}
			key := p.SKU
			if key == "" {
				key = p.Name
			}
			fmt.Fprintf(&b, "  ('%s', %s, '%s', %s, %s, %s, %s, %s)%s\n",
				entityID("product", key), category, escapeSQL(p.Name),
				sqlText(p.SKU), sqlText(p.Barcode),
				p.Stock.String(), p.Cost.String(), p.RetailPrice.String(),
				sep(i, len(c.Products)))
		}
		// Stock y costo solo se fijan al insertar: re-ejecutar no pisa el costo promedio vigente.
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, category_id = EXCLUDED.category_id, retail_price = EXCLUDED.retail_price;\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func sep(i, n int) string {
	if i < n-1 {
		return ","
	}
	return ""
}

func sqlText(s string) string {
	if s == "" {
		return "NULL"
	}
	return "'" + escapeSQL(s) + "'"
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
