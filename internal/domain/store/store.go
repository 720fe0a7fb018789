// Package store implements the catalog aggregate that owns products and
// fulfills orders against them.
package store

import (
	"fmt"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/stockroom/internal/domain/fault"
	"github.com/xenking/stockroom/internal/domain/product"
)

// ProductNotFoundError indicates a referenced product is not in the catalog.
// It matches fault.ErrNotFound.
type ProductNotFoundError struct {
	Product string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %q is not available in the store", e.Product)
}

// Is reports whether target is fault.ErrNotFound.
func (e *ProductNotFoundError) Is(target error) bool {
	return target == fault.ErrNotFound
}

// Line is one purchase intent of an order.
type Line struct {
	Product  product.Product
	Quantity int
}

// Charge is the priced outcome of a fulfilled line.
type Charge struct {
	Product  product.Product
	Quantity int
	Amount   decimal.Decimal
}

// Fulfillment is the result of a fulfilled order.
type Fulfillment struct {
	Charges []Charge
	Total   decimal.Decimal
}

// Store is an ordered catalog of products, unique by name.
//
// All methods are safe for concurrent use. Products handed to the store must
// only be mutated through it. Products, All and Find return the live entries,
// whose quantities change as orders are fulfilled; readers running alongside
// orders should use Snapshot or Get instead.
type Store struct {
	mu       sync.Mutex
	products []product.Product
}

// New creates a store holding products in the given order. Products with the
// same name are merged into the first occurrence.
func New(products ...product.Product) (*Store, error) {
	s := &Store{products: make([]product.Product, 0, len(products))}
	for _, p := range products {
		if _, err := s.AddProduct(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// AddProduct appends p to the catalog. When a product with the same name is
// already present, p's quantity is added to it instead; the existing price and
// promotion are kept.
func (s *Store) AddProduct(p product.Product) (string, error) {
	if p == nil {
		return "", errors.Wrap(fault.ErrInvalidType, "store accepts only products")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.index(p); i >= 0 {
		existing := s.products[i]
		if err := existing.SetQuantity(existing.Quantity() + p.Quantity()); err != nil {
			return "", errors.Wrapf(err, "merge %q", p.Name())
		}
		if existing.Kind() == product.KindUnlimited {
			return fmt.Sprintf("Product %q is already in the store. Its stock is unlimited.", p.Name()), nil
		}
		return fmt.Sprintf("Product %q is already in the store. Quantity was updated.", p.Name()), nil
	}

	s.products = append(s.products, p)
	return fmt.Sprintf("Product %q added successfully.", p.Name()), nil
}

// RemoveProduct removes the catalog entry with p's name.
func (s *Store) RemoveProduct(p product.Product) (string, error) {
	if p == nil {
		return "", errors.Wrap(fault.ErrInvalidType, "store accepts only products")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(p)
	if i < 0 {
		return "", &ProductNotFoundError{Product: p.Name()}
	}
	s.products = append(s.products[:i], s.products[i+1:]...)
	return fmt.Sprintf("Product %q removed successfully.", p.Name()), nil
}

// Contains reports whether a product with p's name is in the catalog.
func (s *Store) Contains(p product.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.index(p) >= 0
}

// Find returns the catalog entry with the given name.
func (s *Store) Find(name string) (product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.Name() == name {
			return p, nil
		}
	}
	return nil, &ProductNotFoundError{Product: name}
}

// Products returns the active products in catalog order. The slice is not
// affected by later additions or removals, but its elements are the live
// entries.
func (s *Store) Products() []product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]product.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.IsActive() {
			active = append(active, p)
		}
	}
	return active
}

// Snapshot returns detached copies of the active products in catalog order,
// taken while no order is being fulfilled.
func (s *Store) Snapshot() []product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]product.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.IsActive() {
			active = append(active, product.Clone(p))
		}
	}
	return active
}

// Get is like Find but returns a detached copy of the entry.
func (s *Store) Get(name string) (product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.Name() == name {
			return product.Clone(p), nil
		}
	}
	return nil, &ProductNotFoundError{Product: name}
}

// All returns every product, active or not, in catalog order.
func (s *Store) All() []product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]product.Product(nil), s.products...)
}

// TotalQuantity returns the number of units in stock across all products,
// including inactive ones.
func (s *Store) TotalQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, p := range s.products {
		total += p.Quantity()
	}
	return total
}

// Order buys every line in order and returns the summed charge.
//
// Order is not transactional: lines are bought one by one and the first
// failing line aborts the rest, but stock taken by earlier lines stays taken.
func (s *Store) Order(lines []Line) (decimal.Decimal, error) {
	f, err := s.Fulfill(lines)
	if err != nil {
		return decimal.Zero, err
	}
	return f.Total, nil
}

// Fulfill is like Order but also reports the charge of every line.
func (s *Store) Fulfill(lines []Line) (*Fulfillment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := &Fulfillment{
		Charges: make([]Charge, 0, len(lines)),
		Total:   decimal.Zero,
	}
	for i, line := range lines {
		if line.Product == nil {
			return nil, errors.Wrapf(fault.ErrInvalidType, "line %d: missing product", i+1)
		}
		if line.Quantity < 0 {
			return nil, errors.Wrapf(fault.Invalid("quantity cannot be negative"), "line %d", i+1)
		}

		idx := s.index(line.Product)
		if idx < 0 {
			return nil, &ProductNotFoundError{Product: line.Product.Name()}
		}
		p := s.products[idx]

		amount, err := p.Buy(line.Quantity)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", i+1)
		}
		f.Charges = append(f.Charges, Charge{Product: p, Quantity: line.Quantity, Amount: amount})
		f.Total = f.Total.Add(amount)
	}
	return f, nil
}

// Merge returns a new store holding s's products followed by other's.
// Products are shared, not copied: merging a same-named product adds its
// quantity to the entry s already holds. Each store has its own lock, so s and
// other must not be used concurrently with the merged store.
func (s *Store) Merge(other *Store) (*Store, error) {
	if other == nil {
		return nil, errors.Wrap(fault.ErrInvalidType, "can only merge another store")
	}
	merged, err := New(s.All()...)
	if err != nil {
		return nil, err
	}
	for _, p := range other.All() {
		if _, err := merged.AddProduct(p); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// index returns the position of the product named like p, or -1.
// The caller must hold s.mu.
func (s *Store) index(p product.Product) int {
	for i, existing := range s.products {
		if product.Same(existing, p) {
			return i
		}
	}
	return -1
}
