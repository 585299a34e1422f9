package purchase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/compras-api/internal/application/dto"
	"github.com/jhoicas/compras-api/internal/domain"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/inventory"
	"github.com/jhoicas/compras-api/internal/domain/repository"
)

// UseCase registra, edita y elimina compras ajustando stock y costo promedio de cada producto.
// Cada operación corre en una sola transacción: los productos tocados se bloquean
// (SELECT FOR UPDATE, orden ascendente de ID) y cualquier error hace Rollback completo.
type UseCase struct {
	txRunner     TxRunner
	purchaseRepo repository.PurchaseRepository
	supplierRepo repository.SupplierRepository
	policy       inventory.CostPolicy
	log          zerolog.Logger
	now          func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	purchaseRepo repository.PurchaseRepository,
	supplierRepo repository.SupplierRepository,
	policy inventory.CostPolicy,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		purchaseRepo: purchaseRepo,
		supplierRepo: supplierRepo,
		policy:       policy,
		log:          log.With().Str("component", "purchase").Logger(),
		now:          time.Now,
	}
}

// Create crea la cabecera y, en el orden recibido, aplica cada línea al producto y la persiste.
func (uc *UseCase) Create(ctx context.Context, in dto.PurchaseRequest) (*dto.PurchaseResponse, error) {
	input, err := ParseRequest(in)
	if err != nil {
		return nil, err
	}
	if err := uc.checkSupplier(ctx, input.SupplierID); err != nil {
		return nil, err
	}

	now := uc.now()
	purchase := &entity.Purchase{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	setHeader(purchase, input)

	err = uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, purchaseRepo repository.PurchaseRepository) error {
		locked, err := productRepo.LockForUpdate(ctx, productIDs(nil, input.Lines))
		if err != nil {
			return err
		}
		if err := purchaseRepo.Create(ctx, purchase); err != nil {
			return err
		}
		details, err := uc.applyLines(ctx, productRepo, purchaseRepo, locked, purchase.ID, input.Lines)
		if err != nil {
			return err
		}
		purchase.Details = details
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("purchase_id", purchase.ID).Int("lines", len(purchase.Details)).Msg("compra registrada")
	return toPurchaseResponse(purchase), nil
}

// Update reemplaza la compra completa: revierte y borra cada línea existente y luego
// aplica las nuevas. Un producto presente en ambos conjuntos recibe las dos operaciones.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.PurchaseRequest) (*dto.PurchaseResponse, error) {
	input, err := ParseRequest(in)
	if err != nil {
		return nil, err
	}
	if err := uc.checkSupplier(ctx, input.SupplierID); err != nil {
		return nil, err
	}

	var purchase *entity.Purchase
	var reversed int
	err = uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, purchaseRepo repository.PurchaseRepository) error {
		var err error
		purchase, err = purchaseRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		locked, err := productRepo.LockForUpdate(ctx, productIDs(purchase.Details, input.Lines))
		if err != nil {
			return err
		}

		setHeader(purchase, input)
		purchase.UpdatedAt = uc.now()
		if err := purchaseRepo.Update(ctx, purchase); err != nil {
			return err
		}

		if err := uc.reverseLines(ctx, productRepo, purchaseRepo, locked, purchase.Details, true); err != nil {
			return err
		}
		reversed = len(purchase.Details)

		details, err := uc.applyLines(ctx, productRepo, purchaseRepo, locked, purchase.ID, input.Lines)
		if err != nil {
			return err
		}
		purchase.Details = details
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("purchase_id", purchase.ID).
		Int("reversed_lines", reversed).
		Int("lines", len(purchase.Details)).
		Msg("compra actualizada")
	return toPurchaseResponse(purchase), nil
}

// Delete revierte el efecto de cada línea sobre su producto y elimina la compra (líneas en cascada).
// Si alguna línea referencia un producto inexistente no se borra nada.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	var lines int
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, purchaseRepo repository.PurchaseRepository) error {
		purchase, err := purchaseRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		locked, err := productRepo.LockForUpdate(ctx, productIDs(purchase.Details, nil))
		if err != nil {
			return err
		}
		if err := uc.reverseLines(ctx, productRepo, purchaseRepo, locked, purchase.Details, false); err != nil {
			return err
		}
		lines = len(purchase.Details)
		return purchaseRepo.Delete(ctx, purchase.ID)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("purchase_id", id).Int("reversed_lines", lines).Msg("compra eliminada")
	return nil
}

// Get obtiene una compra con sus líneas.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	purchase, err := uc.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, domain.ErrNotFound
	}
	return toPurchaseResponse(purchase), nil
}

// applyLines aplica cada línea al producto bloqueado (mismo puntero si el producto se repite)
// y crea la línea de compra correspondiente.
func (uc *UseCase) applyLines(
	ctx context.Context,
	productRepo repository.ProductRepository,
	purchaseRepo repository.PurchaseRepository,
	locked map[string]*entity.Product,
	purchaseID string,
	lines []Line,
) ([]*entity.PurchaseDetail, error) {
	details := make([]*entity.PurchaseDetail, 0, len(lines))
	for i, line := range lines {
		product, ok := locked[line.ProductID]
		if !ok {
			return nil, &domain.ProductNotFoundError{ProductID: line.ProductID, Line: i}
		}
		res, err := uc.policy.ApplyInbound(position(product), line.Quantity, line.UnitCost)
		if err != nil {
			return nil, fmt.Errorf("línea %d, producto %s: %w", i, product.ID, err)
		}
		setInventory(product, res)
		if err := productRepo.UpdateInventory(ctx, product.ID, product.InStock, product.StockValue, product.Cost); err != nil {
			return nil, err
		}
		detail := &entity.PurchaseDetail{
			ID:         uuid.New().String(),
			PurchaseID: purchaseID,
			ProductID:  product.ID,
			Cost:       line.UnitCost,
			Quantity:   line.Quantity,
		}
		if err := purchaseRepo.CreateDetail(ctx, detail); err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

// reverseLines descuenta cada línea registrada de su producto. Con deleteEach borra la
// línea a medida que la revierte (edición); en la eliminación las borra la cascada.
func (uc *UseCase) reverseLines(
	ctx context.Context,
	productRepo repository.ProductRepository,
	purchaseRepo repository.PurchaseRepository,
	locked map[string]*entity.Product,
	details []*entity.PurchaseDetail,
	deleteEach bool,
) error {
	for i, detail := range details {
		product, ok := locked[detail.ProductID]
		if !ok {
			return &domain.ProductNotFoundError{ProductID: detail.ProductID, Line: i}
		}
		res, err := uc.policy.ReverseInbound(position(product), detail.Quantity, detail.Cost)
		if err != nil {
			return fmt.Errorf("revertir línea %d, producto %s: %w", i, product.ID, err)
		}
		setInventory(product, res)
		if err := productRepo.UpdateInventory(ctx, product.ID, product.InStock, product.StockValue, product.Cost); err != nil {
			return err
		}
		if deleteEach {
			if err := purchaseRepo.DeleteDetail(ctx, detail.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (uc *UseCase) checkSupplier(ctx context.Context, supplierID *string) error {
	if supplierID == nil {
		return nil
	}
	supplier, err := uc.supplierRepo.GetByID(ctx, *supplierID)
	if err != nil {
		return err
	}
	if supplier == nil {
		return domain.NewValidationError("supplier", "exists")
	}
	return nil
}

func position(p *entity.Product) inventory.Position {
	return inventory.Position{Stock: p.InStock, Value: p.StockValue}
}

func setInventory(p *entity.Product, res inventory.Result) {
	p.InStock, p.StockValue, p.Cost = res.Stock, res.Value, res.Cost
}

func setHeader(p *entity.Purchase, in Input) {
	p.SupplierID = in.SupplierID
	p.ReferenceNumber = in.ReferenceNumber
	p.Notes = in.Notes
	p.Date = in.Date
	p.ShipmentName = in.ShipmentName
	p.PackageCountry = in.PackageCountry
	p.Mode = in.Mode
	p.Barcode = in.Barcode
}

// productIDs devuelve los IDs únicos y ordenados de productos tocados por las líneas
// existentes y las nuevas; ese orden fija el orden de bloqueo.
func productIDs(details []*entity.PurchaseDetail, lines []Line) []string {
	seen := make(map[string]struct{}, len(details)+len(lines))
	add := func(id string) {
		if id != "" {
			seen[id] = struct{}{}
		}
	}
	for _, d := range details {
		add(d.ProductID)
	}
	for _, l := range lines {
		add(l.ProductID)
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func toPurchaseResponse(p *entity.Purchase) *dto.PurchaseResponse {
	resp := &dto.PurchaseResponse{
		ID:              p.ID,
		SupplierID:      p.SupplierID,
		ReferenceNumber: p.ReferenceNumber,
		Notes:           p.Notes,
		Date:            p.Date.Format("2006-01-02"),
		ShipmentName:    p.ShipmentName,
		PackageCountry:  p.PackageCountry,
		Mode:            p.Mode,
		Barcode:         p.Barcode,
		Details:         make([]dto.PurchaseDetailResponse, 0, len(p.Details)),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	for _, d := range p.Details {
		resp.Details = append(resp.Details, dto.PurchaseDetailResponse{
			ID:            d.ID,
			ProductID:     d.ProductID,
			Cost:          d.Cost,
			Quantity:      d.Quantity,
			LineTotalCost: d.LineTotalCost(),
		})
	}
	return resp
}
