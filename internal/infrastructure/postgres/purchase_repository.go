package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/compras-api/internal/domain"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseColumns = `p.id, p.supplier_id, p.reference_number, p.notes, p.date,
	p.shipment_name, p.package_country, p.mode, p.barcode, p.created_at, p.updated_at`

// PurchaseRepo implementación de PurchaseRepository (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persiste la cabecera de la compra.
func (r *PurchaseRepo) Create(ctx context.Context, purchase *entity.Purchase) error {
	query := `
		INSERT INTO purchases (id, supplier_id, reference_number, notes, date, shipment_name, package_country, mode, barcode, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		purchase.ID, purchase.SupplierID, nullIfEmpty(purchase.ReferenceNumber), nullIfEmpty(purchase.Notes),
		purchase.Date, nullIfEmpty(purchase.ShipmentName), nullIfEmpty(purchase.PackageCountry),
		nullIfEmpty(purchase.Mode), nullIfEmpty(purchase.Barcode),
		purchase.CreatedAt, purchase.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("insert purchase: %w", domain.NewValidationError("supplier", "exists"))
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// Update actualiza los campos de cabecera; las líneas se gestionan aparte.
func (r *PurchaseRepo) Update(ctx context.Context, purchase *entity.Purchase) error {
	query := `
		UPDATE purchases
		SET supplier_id      = $2,
		    reference_number = $3,
		    notes            = $4,
		    date             = $5,
		    shipment_name    = $6,
		    package_country  = $7,
		    mode             = $8,
		    barcode          = $9,
		    updated_at       = $10
		WHERE id = $1`
	if !isUUID(purchase.ID) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, query,
		purchase.ID, purchase.SupplierID, nullIfEmpty(purchase.ReferenceNumber), nullIfEmpty(purchase.Notes),
		purchase.Date, nullIfEmpty(purchase.ShipmentName), nullIfEmpty(purchase.PackageCountry),
		nullIfEmpty(purchase.Mode), nullIfEmpty(purchase.Barcode), purchase.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("update purchase: %w", domain.NewValidationError("supplier", "exists"))
		}
		return fmt.Errorf("update purchase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la compra; sus líneas caen por ON DELETE CASCADE.
func (r *PurchaseRepo) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return nil
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	return nil
}

// GetByID obtiene la compra con sus líneas en orden de inserción. Nil si no existe.
func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.get(ctx, `SELECT `+purchaseColumns+` FROM purchases p WHERE p.id = $1`, id)
}

// GetForUpdate como GetByID pero bloqueando la cabecera hasta el fin de la tx.
func (r *PurchaseRepo) GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.get(ctx, `SELECT `+purchaseColumns+` FROM purchases p WHERE p.id = $1 FOR UPDATE`, id)
}

func (r *PurchaseRepo) get(ctx context.Context, query, id string) (*entity.Purchase, error) {
	if !isUUID(id) {
		return nil, nil
	}
	p, err := scanPurchase(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	details, err := r.detailsFor(ctx, []string{p.ID})
	if err != nil {
		return nil, err
	}
	p.Details = details[p.ID]
	return p, nil
}

// CreateDetail persiste una línea de compra.
func (r *PurchaseRepo) CreateDetail(ctx context.Context, detail *entity.PurchaseDetail) error {
	query := `
		INSERT INTO purchase_details (id, purchase_id, product_id, cost, quantity)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, detail.ID, detail.PurchaseID, detail.ProductID, detail.Cost, detail.Quantity)
	if err != nil {
		return fmt.Errorf("insert purchase detail: %w", err)
	}
	return nil
}

// DeleteDetail elimina una línea por ID.
func (r *PurchaseRepo) DeleteDetail(ctx context.Context, id string) error {
	if !isUUID(id) {
		return nil
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_details WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete purchase detail: %w", err)
	}
	return nil
}

// List devuelve la página pedida (fecha desc) con sus líneas y el total que cumple el filtro.
func (r *PurchaseRepo) List(ctx context.Context, f repository.PurchaseFilter) ([]*entity.Purchase, int, error) {
	where, args := buildPurchaseFilter(f)
	from := ` FROM purchases p LEFT JOIN suppliers s ON s.id = p.supplier_id` + where

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+from, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchases: %w", err)
	}

	query := `SELECT ` + purchaseColumns + from + ` ORDER BY p.date DESC, p.created_at DESC, p.id`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	list := []*entity.Purchase{}
	ids := []string{}
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	rows.Close()

	details, err := r.detailsFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for _, p := range list {
		p.Details = details[p.ID]
	}
	return list, total, nil
}

func (r *PurchaseRepo) detailsFor(ctx context.Context, purchaseIDs []string) (map[string][]*entity.PurchaseDetail, error) {
	out := make(map[string][]*entity.PurchaseDetail, len(purchaseIDs))
	if len(purchaseIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT id, purchase_id, product_id, cost, quantity
		FROM purchase_details WHERE purchase_id = ANY($1::uuid[]) ORDER BY seq`
	rows, err := r.q.Query(ctx, query, purchaseIDs)
	if err != nil {
		return nil, fmt.Errorf("list purchase details: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d entity.PurchaseDetail
		if err := rows.Scan(&d.ID, &d.PurchaseID, &d.ProductID, &d.Cost, &d.Quantity); err != nil {
			return nil, fmt.Errorf("scan detail: %w", err)
		}
		out[d.PurchaseID] = append(out[d.PurchaseID], &d)
	}
	return out, rows.Err()
}

// buildPurchaseFilter arma el WHERE del listado. Los filtros de texto son "contiene" sin distinguir
// mayúsculas; la fecha compara por prefijo ISO (2025, 2025-02, 2025-02-16).
func buildPurchaseFilter(f repository.PurchaseFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond, pattern string) {
		args = append(args, pattern)
		conds = append(conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(args))))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		add(`(p.reference_number ILIKE ? OR p.notes ILIKE ? OR p.shipment_name ILIKE ?)`, likePattern(s))
	}
	if s := strings.TrimSpace(f.SupplierName); s != "" {
		add(`s.name ILIKE ?`, likePattern(s))
	}
	if s := strings.TrimSpace(f.Date); s != "" {
		add(`to_char(p.date, 'YYYY-MM-DD') LIKE ?`, likeEscaper.Replace(s)+"%")
	}
	if s := strings.TrimSpace(f.PurchaseNumber); s != "" {
		add(`p.reference_number ILIKE ?`, likePattern(s))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	var ref, notes, shipment, country, mode, barcode *string
	err := row.Scan(
		&p.ID, &p.SupplierID, &ref, &notes, &p.Date,
		&shipment, &country, &mode, &barcode, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.ReferenceNumber = derefStr(ref)
	p.Notes = derefStr(notes)
	p.ShipmentName = derefStr(shipment)
	p.PackageCountry = derefStr(country)
	p.Mode = derefStr(mode)
	p.Barcode = derefStr(barcode)
	return &p, nil
}
