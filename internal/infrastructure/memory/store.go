// Package memory implementa los puertos de persistencia en memoria.
// Run serializa las transacciones: trabaja sobre una copia del estado y la publica solo en Commit,
// de modo que un error deja el estado exactamente como estaba.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/compras-api/internal/application/purchase"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/repository"
)

var _ purchase.TxRunner = (*Store)(nil)

type state struct {
	products   map[string]*entity.Product
	categories map[string]*entity.Category
	suppliers  map[string]*entity.Supplier
	purchases  map[string]*entity.Purchase
}

func newState() *state {
	return &state{
		products:   map[string]*entity.Product{},
		categories: map[string]*entity.Category{},
		suppliers:  map[string]*entity.Supplier{},
		purchases:  map[string]*entity.Purchase{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v.Clone()
	}
	for k, v := range s.categories {
		cat := *v
		c.categories[k] = &cat
	}
	for k, v := range s.suppliers {
		sup := *v
		c.suppliers[k] = &sup
	}
	for k, v := range s.purchases {
		c.purchases[k] = v.Clone()
	}
	return c
}

// Store almacén en memoria con semántica transaccional, para tests y demo local.
// Run toma un único mutex global: las transacciones se serializan completas, aun cuando
// toquen productos disjuntos. El paralelismo por producto lo da el backend PostgreSQL.
type Store struct {
	mu    sync.RWMutex
	state *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{state: newState()}
}

// Run ejecuta fn con repositorios atados a una copia del estado; publica la copia si fn no falla.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	purchaseRepo repository.PurchaseRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.state.clone()
	if err := fn(&ProductRepo{store: s, tx: tx}, &PurchaseRepo{store: s, tx: tx}); err != nil {
		return err
	}
	s.state = tx
	return nil
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{store: s} }

// Purchases repositorio de compras fuera de transacción.
func (s *Store) Purchases() *PurchaseRepo { return &PurchaseRepo{store: s} }

// Categories repositorio de categorías.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{store: s} }

// Suppliers repositorio de proveedores.
func (s *Store) Suppliers() *SupplierRepo { return &SupplierRepo{store: s} }

// AddProduct inserta o reemplaza un producto (carga inicial y tests).
// Sin StockValue se valoriza el stock de apertura a su costo.
func (s *Store) AddProduct(p *entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := p.Clone()
	if c.StockValue.IsZero() {
		c.StockValue = c.InStock.Mul(c.Cost)
	}
	s.state.products[p.ID] = c
}

// RemoveProduct elimina un producto sin tocar las compras que lo referencian.
func (s *Store) RemoveProduct(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.state.products, id)
}

// AddCategory inserta o reemplaza una categoría.
func (s *Store) AddCategory(c *entity.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cat := *c
	s.state.categories[c.ID] = &cat
}

// AddSupplier inserta o reemplaza un proveedor.
func (s *Store) AddSupplier(sup *entity.Supplier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *sup
	s.state.suppliers[sup.ID] = &c
}

// read ejecuta fn sobre el estado de la tx o, fuera de ella, sobre el estado publicado.
func (s *Store) read(tx *state, fn func(st *state) error) error {
	if tx != nil {
		return fn(tx)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.state)
}

// write igual que read pero con bloqueo exclusivo (autocommit fuera de tx).
func (s *Store) write(tx *state, fn func(st *state) error) error {
	if tx != nil {
		return fn(tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}
